package extractor

import (
	"strings"

	"github.com/sirupsen/logrus"

	"grocery-scraper/adapters"
	"grocery-scraper/fallback"
	"grocery-scraper/internal/types"
	"grocery-scraper/utils"
)

// alias maps one accepted store name to the constructor of its extractor
type alias struct {
	name string
	new  func(adapters.Deps) types.Extractor
}

func walmart(deps adapters.Deps) types.Extractor    { return adapters.NewWalmartAdapter(deps) }
func safeway(deps adapters.Deps) types.Extractor    { return adapters.NewSafewayAdapter(deps) }
func traderJoes(deps adapters.Deps) types.Extractor { return adapters.NewTraderJoesAdapter(deps) }
func saveMart(deps adapters.Deps) types.Extractor   { return adapters.NewSaveMartAdapter(deps) }

// aliases is matched in order, so earlier entries win fuzzy matches
var aliases = []alias{
	{"walmart", walmart},
	{"walmart supercenter", walmart},
	{"walmart neighborhood market", walmart},
	{"safeway", safeway},
	{"trader joe's", traderJoes},
	{"trader joes", traderJoes},
	{"save mart", saveMart},
	{"savemart", saveMart},
}

// Registry resolves free-form store names to extractors.
// Every successful lookup builds a fresh extractor that the caller must Close.
type Registry struct {
	deps    adapters.Deps
	aliases []alias
}

// NewRegistry creates a registry whose extractors share deps.
// The session factory is built once so that drivers with pooled resources share the pool.
func NewRegistry(deps adapters.Deps) *Registry {
	if deps.Config == nil {
		deps.Config = types.DefaultConfig()
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Sessions == nil {
		deps.Sessions = utils.NewSessionFactory(deps.Config, deps.Logger)
	}
	if deps.Fallback == nil {
		deps.Fallback = fallback.NewProvider(nil)
	}
	return &Registry{deps: deps, aliases: aliases}
}

// Resolve returns a new extractor for storeName, or false when no retailer matches.
// Matching is case-insensitive: exact alias first, then containment in either direction.
func (r *Registry) Resolve(storeName string) (types.Extractor, bool) {
	name := normalizeName(storeName)
	if name == "" {
		return nil, false
	}

	for _, a := range r.aliases {
		if a.name == name {
			return a.new(r.deps), true
		}
	}
	for _, a := range r.aliases {
		if strings.Contains(name, a.name) || strings.Contains(a.name, name) {
			return a.new(r.deps), true
		}
	}
	return nil, false
}

// SupportedStores lists the display names of all supported retailers
func (r *Registry) SupportedStores() []string {
	names := make([]string, 0, len(types.Retailers()))
	for _, retailer := range types.Retailers() {
		names = append(names, retailer.Name)
	}
	return names
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
