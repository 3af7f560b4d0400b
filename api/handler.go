package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"grocery-scraper/internal/cache"
)

// Request defaults when a parameter is missing or empty
const (
	defaultQuery = "milk"
	defaultZip   = "95616"
	defaultStore = "walmart"
)

// ErrorResponse is the body returned when a scrape fails
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Query   string `json:"query"`
	Zip     string `json:"zip"`
	Store   string `json:"store"`
}

// handleInventory serves GET /api/inventory. Responses are cached per (store, query, zip).
func (s *Server) handleInventory(c *gin.Context) {
	query := queryOr(c, "query", defaultQuery)
	zip := queryOr(c, "zip", defaultZip)
	store := queryOr(c, "store", defaultStore)

	key := cache.Key(store, query, zip)
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.IncCache(true)
		s.logger.Debugf("Returning cached inventory for %s %q near %s", store, query, zip)
		c.JSON(http.StatusOK, cached)
		return
	}
	s.metrics.IncCache(false)

	s.logger.Infof("Scraping %s for %q near %s", store, query, zip)
	resp, err := s.orchestrator.ScrapeInventory(c.Request.Context(), store, query, zip)
	if err != nil {
		s.logger.Errorf("Inventory API error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to scrape " + store + " inventory",
			Message: err.Error(),
			Query:   query,
			Zip:     zip,
			Store:   store,
		})
		return
	}

	s.cache.Add(key, resp)
	c.JSON(http.StatusOK, resp)
}

// handlePreflight answers OPTIONS requests that carry no Origin header;
// browser preflights are answered by the CORS middleware before reaching here.
func (s *Server) handlePreflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Status(http.StatusOK)
}

func (s *Server) handleStores(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stores": s.orchestrator.Registry().SupportedStores()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func queryOr(c *gin.Context, key, def string) string {
	if v := strings.TrimSpace(c.Query(key)); v != "" {
		return v
	}
	return def
}
