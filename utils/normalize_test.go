package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-scraper/internal/types"
)

func TestGenerateProductID(t *testing.T) {
	tests := []struct {
		name     string
		product  string
		storeID  string
		expected string
	}{
		{"simple name", "Bananas", "walmart-95616", "walmart-95616-bananas"},
		{"punctuation and spaces", "Great Value 2% Milk, 128 fl oz", "walmart-95616", "walmart-95616-great-value-2--milk--128-fl-oz"},
		{"uppercase is folded", "ORGANIC", "safeway-1", "safeway-1-organic"},
		{"empty name", "", "savemart-95616", "savemart-95616-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateProductID(tt.product, tt.storeID))
		})
	}
}

func TestGenerateProductID_TruncatesSlug(t *testing.T) {
	name := "Everything But The Bagel Sesame Seasoning Blend Extra Large Family Size Value Pack"
	id := GenerateProductID(name, "traderjoes-95616")

	assert.Equal(t, len("traderjoes-95616-")+50, len(id))
	assert.Equal(t, id, GenerateProductID(name, "traderjoes-95616"), "ids must be deterministic")
	assert.Regexp(t, `^traderjoes-95616-[a-z0-9-]{50}$`, id)
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		ok       bool
	}{
		{"$3.98", "$3.98", true},
		{"  $4  ", "$4.00", true},
		{"Now $1,234.5", "$1234.50", true},
		{"current price $0.58", "$0.58", true},
		{"58¢", "$0.58", true},
		{"2 for $5", "$5.00", true},
		{"1234.56", "$1234.56", true},
		{"", "", false},
		{"See price in cart", "", false},
		{"$.99", "$0.99", true},
		{".99", "$0.99", true},
		{"Save 50% on eggs", "", false},
		{"Save 25% up to $10", "$10.00", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := FormatPrice(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCategorizeProduct(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Great Value 2% Reduced Fat Milk", "dairy"},
		{"Tillamook Cheddar Cheese", "dairy"},
		{"Wonder Bread Classic White", "bakery"},
		{"Mandarin Orange Chicken", "meat"},
		{"Fresh Roma Tomatoes", "produce"},
		{"Cauliflower Gnocchi", "frozen"},
		{"Wild Salmon Fillet", "seafood"},
		{"Charles Shaw Cabernet Sauvignon Wine", "wine"},
		{"Everything But The Bagel Sesame Seasoning Blend", "bakery"},
		{"Speculoos Cookie Butter", "condiments"},
		{"Paper Towels", DefaultCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeProduct(tt.name))
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Fresh & Tasty", CleanText("<b>Fresh</b>   &amp; Tasty\n"))
	assert.Equal(t, "Organic Whole Milk", CleanText("\n\t Organic\n Whole   Milk "))
	assert.Equal(t, "", CleanText("   "))
}

func TestResolveURL(t *testing.T) {
	base, err := url.Parse("https://www.walmart.com/search?q=milk")
	require.NoError(t, err)

	tests := []struct {
		name     string
		ref      string
		expected string
	}{
		{"absolute", "https://i5.walmartimages.com/a.jpg", "https://i5.walmartimages.com/a.jpg"},
		{"root relative", "/ip/12345", "https://www.walmart.com/ip/12345"},
		{"protocol relative", "//i5.walmartimages.com/b.jpg", "https://i5.walmartimages.com/b.jpg"},
		{"empty", "", ""},
		{"data uri", "data:image/gif;base64,R0lGOD", ""},
		{"javascript", "javascript:void(0)", ""},
		{"fragment only", "#", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveURL(base, tt.ref))
		})
	}

	assert.Equal(t, "", ResolveURL(nil, "/ip/12345"))
	assert.Equal(t, "https://example.com/x", ResolveURL(nil, "https://example.com/x"))
}

func TestIsAbsoluteHTTPURL(t *testing.T) {
	assert.True(t, IsAbsoluteHTTPURL("https://www.safeway.com/"))
	assert.True(t, IsAbsoluteHTTPURL("http://savemart.com/coupons/"))
	assert.False(t, IsAbsoluteHTTPURL(""))
	assert.False(t, IsAbsoluteHTTPURL("/relative/path"))
	assert.False(t, IsAbsoluteHTTPURL("ftp://example.com/file"))
}

func TestDetectAvailability(t *testing.T) {
	assert.Equal(t, types.OutOfStock, DetectAvailability("Bananas $0.58 Out of stock"))
	assert.Equal(t, types.OutOfStock, DetectAvailability("SOLD OUT"))
	assert.Equal(t, types.Limited, DetectAvailability("Only 3 left"))
	assert.Equal(t, types.Limited, DetectAvailability("Low stock"))
	assert.Equal(t, types.InStock, DetectAvailability("Add to cart"))
	assert.Equal(t, types.InStock, DetectAvailability(""))
}
