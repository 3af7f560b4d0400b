package adapters

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cascadeFixture = `<html><body>
	<div class="grid">
		<article class="ProductCard_card__1">
			<h3>  Cookie   Butter </h3>
			<img src="data:image/gif;base64,AAAA" data-src="/images/cookie.jpg">
			<a href="/pdp/cookie-butter">view</a>
		</article>
		<article class="ProductCard_card__2"><h3></h3><h4>Gnocchi</h4></article>
	</div>
</body></html>`

func parseFixture(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestFindNodes_CSSAndXPath(t *testing.T) {
	doc := parseFixture(t, cascadeFixture)

	assert.Equal(t, 2, FindNodes(doc.Selection, "article").Length())
	assert.Equal(t, 2, FindNodes(doc.Selection, `xpath://article[contains(@class, "ProductCard")]`).Length())
	assert.Equal(t, 0, FindNodes(doc.Selection, `xpath://article[`).Length(), "invalid expressions match nothing")

	first := FindNodes(doc.Selection, "article").First()
	assert.Equal(t, 1, FindNodes(first, "xpath:.//h3").Length())
}

func TestFirstMatch(t *testing.T) {
	doc := parseFixture(t, cascadeFixture)

	cards, selector := FirstMatch(doc.Selection, []string{".product-card", "xpath://article", "article"})
	assert.Equal(t, "xpath://article", selector)
	assert.Equal(t, 2, cards.Length())

	none, selector := FirstMatch(doc.Selection, []string{".missing"})
	assert.Equal(t, "", selector)
	assert.Equal(t, 0, none.Length())
}

func TestTextOf_SkipsEmptyMatches(t *testing.T) {
	doc := parseFixture(t, cascadeFixture)
	cards := doc.Find("article")

	assert.Equal(t, "Cookie Butter", TextOf(cards.Eq(0), []string{"h3", "h4"}))
	assert.Equal(t, "Gnocchi", TextOf(cards.Eq(1), []string{"h3", "h4"}))
	assert.Equal(t, "", TextOf(cards.Eq(1), []string{".price"}))
}

func TestAttrOf_SkipsDataURIs(t *testing.T) {
	doc := parseFixture(t, cascadeFixture)
	card := doc.Find("article").First()

	assert.Equal(t, "/images/cookie.jpg", AttrOf(card, []string{"img"}, "src", "data-src"))
	assert.Equal(t, "/pdp/cookie-butter", AttrOf(card, []string{"a.missing", "a"}, "href"))
	assert.Equal(t, "", AttrOf(card, []string{"img"}, "src"))
}

func TestChain_FirstNonEmptyWins(t *testing.T) {
	doc := parseFixture(t, cascadeFixture)

	var calls []string
	strategy := func(name string, out []string) Strategy[string] {
		return Strategy[string]{Name: name, Extract: func(*goquery.Document) []string {
			calls = append(calls, name)
			return out
		}}
	}

	records, name := Chain(doc, strategy("a", nil), strategy("b", []string{"x"}), strategy("c", []string{"y"}))

	assert.Equal(t, []string{"x"}, records)
	assert.Equal(t, "b", name)
	assert.Equal(t, []string{"a", "b"}, calls)

	records, name = Chain(doc, strategy("empty", nil))
	assert.Nil(t, records)
	assert.Equal(t, "", name)
}

func TestSelectorSet_WithPrependsOverrides(t *testing.T) {
	builtin := SelectorSet{TargetProductCards: {".product-card"}, TargetProductName: {"h3"}}

	merged := builtin.With(map[string][]string{
		TargetProductCards: {".new-card"},
		TargetStoreCards:   {".store"},
	})

	assert.Equal(t, []string{".new-card", ".product-card"}, merged[TargetProductCards])
	assert.Equal(t, []string{"h3"}, merged[TargetProductName])
	assert.Equal(t, []string{".store"}, merged[TargetStoreCards])
	assert.Equal(t, []string{".product-card"}, builtin[TargetProductCards], "built-in set is not modified")
}

func TestFirstSrcsetURL(t *testing.T) {
	assert.Equal(t, "a.jpg", firstSrcsetURL("a.jpg 1x, b.jpg 2x"))
	assert.Equal(t, "https://cdn/x.jpg", firstSrcsetURL(" https://cdn/x.jpg "))
	assert.Equal(t, "", firstSrcsetURL(""))
}
