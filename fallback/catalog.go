package fallback

import "grocery-scraper/internal/types"

// Item is one curated catalog entry
type Item struct {
	Name          string
	Price         string
	OriginalPrice string
	ImageURL      string
	Category      string
	URL           string // deep link; the retailer homepage is used when empty
}

const unsplash = "https://images.unsplash.com/"

func image(id string) string {
	return unsplash + id + "?w=400&h=400&fit=crop&crop=center"
}

var catalogs = map[string][]Item{
	types.Walmart.Key: {
		{Name: "Great Value 2% Reduced Fat Milk, 128 fl oz", Price: "$3.98", OriginalPrice: "$4.98", ImageURL: image("photo-1550583724-b2692b85b150"), Category: "dairy"},
		{Name: "Bananas, each", Price: "$0.58", OriginalPrice: "$0.78", ImageURL: image("photo-1571771894821-ce9b6c11b08e"), Category: "produce"},
		{Name: "Wonder Bread Classic White, 20 oz", Price: "$1.28", OriginalPrice: "$1.98", ImageURL: image("photo-1509440159596-0249088772ff"), Category: "bakery"},
	},
	types.Safeway.Key: {
		{Name: "Safeway Organic Whole Milk, 64 fl oz", Price: "$4.99", OriginalPrice: "$6.49", ImageURL: image("photo-1550583724-b2692b85b150"), Category: "dairy"},
		{Name: "Fresh Bananas, per lb", Price: "$0.68", OriginalPrice: "$0.98", ImageURL: image("photo-1571771894821-ce9b6c11b08e"), Category: "produce"},
		{Name: "Safeway Whole Wheat Bread, 20 oz", Price: "$2.49", OriginalPrice: "$3.29", ImageURL: image("photo-1509440159596-0249088772ff"), Category: "bakery"},
	},
	types.SaveMart.Key: {
		{Name: "Save Mart Fresh Ground Beef 80/20, per lb", Price: "$4.99", OriginalPrice: "$6.99", ImageURL: image("photo-1603048297172-c92544798d5a"), Category: "meat"},
		{Name: "Fresh Roma Tomatoes, per lb", Price: "$1.49", OriginalPrice: "$2.29", ImageURL: image("photo-1592924357228-91a4daadcfea"), Category: "produce"},
		{Name: "Save Mart Sourdough Bread, 24 oz", Price: "$2.99", OriginalPrice: "$3.99", ImageURL: image("photo-1549931319-a545dcf3bc73"), Category: "bakery"},
	},
	types.TraderJoes.Key: {
		{Name: "Trader Joe's Organic Whole Milk, 64 fl oz", Price: "$3.99", OriginalPrice: "$5.49", ImageURL: image("photo-1563636619-e9143da7973b"), Category: "dairy",
			URL: "https://www.traderjoes.com/home/products/pdp/organic-whole-milk-064321"},
		{Name: "Trader Joe's Mandarin Orange Chicken", Price: "$4.99", OriginalPrice: "$6.99", ImageURL: image("photo-1606491956689-2ea866880c84"), Category: "frozen",
			URL: "https://www.traderjoes.com/home/products/pdp/mandarin-orange-chicken-064322"},
		{Name: "Trader Joe's Everything But The Bagel Sesame Seasoning Blend", Price: "$1.99", OriginalPrice: "$2.99", ImageURL: image("photo-1506084868230-bb9d95c24759"), Category: "condiments",
			URL: "https://www.traderjoes.com/home/products/pdp/everything-bagel-seasoning-064323"},
		{Name: "Trader Joe's Speculoos Cookie Butter", Price: "$3.69", OriginalPrice: "$4.99", ImageURL: image("photo-1481391319762-47dff72954d9"), Category: "condiments",
			URL: "https://www.traderjoes.com/home/products/pdp/cookie-butter-064324"},
		{Name: "Trader Joe's Charles Shaw Cabernet Sauvignon", Price: "$2.99", OriginalPrice: "$4.99", ImageURL: image("photo-1510812431401-41d2bd2722f3"), Category: "wine",
			URL: "https://www.traderjoes.com/home/products/pdp/charles-shaw-wine-064325"},
		{Name: "Trader Joe's Cauliflower Gnocchi", Price: "$2.69", OriginalPrice: "$3.99", ImageURL: image("photo-1621996346565-e3dbc353d2e5"), Category: "frozen",
			URL: "https://www.traderjoes.com/home/products/pdp/cauliflower-gnocchi-064326"},
	},
}

// images are substituted when a live page yields no usable product image
var images = map[string][]string{
	types.Walmart.Key: {
		image("photo-1550583724-b2692b85b150"),
		image("photo-1571771894821-ce9b6c11b08e"),
		image("photo-1509440159596-0249088772ff"),
		image("photo-1488477181946-6428a0291777"),
		image("photo-1604503468506-a8da13d82791"),
	},
	types.Safeway.Key: {
		image("photo-1550583724-b2692b85b150"),
		image("photo-1571771894821-ce9b6c11b08e"),
		image("photo-1509440159596-0249088772ff"),
		image("photo-1488477181946-6428a0291777"),
		image("photo-1604503468506-a8da13d82791"),
	},
	types.SaveMart.Key: {
		image("photo-1603048297172-c92544798d5a"),
		image("photo-1592924357228-91a4daadcfea"),
		image("photo-1549931319-a545dcf3bc73"),
		image("photo-1486297678162-eb2a19b0a32d"),
		image("photo-1498654896293-37aacf113fd9"),
	},
	types.TraderJoes.Key: {
		image("photo-1563636619-e9143da7973b"),
		image("photo-1606491956689-2ea866880c84"),
		image("photo-1506084868230-bb9d95c24759"),
		image("photo-1481391319762-47dff72954d9"),
		image("photo-1510812431401-41d2bd2722f3"),
	},
}
