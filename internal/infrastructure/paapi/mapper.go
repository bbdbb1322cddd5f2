package paapi

import (
	"strconv"

	"github.com/feedmanager/backend/internal/domain"
)

// Response shapes for the subset of the Product Advertising API the
// client consumes.

type searchItemsResponse struct {
	SearchResult itemList `json:"SearchResult"`
}

type getItemsResponse struct {
	ItemsResult itemList `json:"ItemsResult"`
}

type itemList struct {
	Items []apiItem `json:"Items"`
}

type apiItem struct {
	ASIN          string `json:"ASIN"`
	DetailPageURL string `json:"DetailPageURL"`
	ItemInfo      struct {
		Title struct {
			DisplayValue string `json:"DisplayValue"`
		} `json:"Title"`
		Features struct {
			DisplayValues []string `json:"DisplayValues"`
		} `json:"Features"`
	} `json:"ItemInfo"`
	Images struct {
		Primary struct {
			Large  imageResource `json:"Large"`
			Medium imageResource `json:"Medium"`
		} `json:"Primary"`
	} `json:"Images"`
	Offers struct {
		Listings []listing `json:"Listings"`
	} `json:"Offers"`
}

type imageResource struct {
	URL string `json:"URL"`
}

type listing struct {
	Price struct {
		Amount   float64 `json:"Amount"`
		Currency string  `json:"Currency"`
	} `json:"Price"`
	Availability struct {
		Message string `json:"Message"`
	} `json:"Availability"`
}

// mapItems converts API items into domain products. Missing optional
// fields stay empty rather than getting placeholder values, except the
// title which falls back to the ASIN-derived default. Every mapped
// record carries its affiliate URL.
func mapItems(items []apiItem, creds domain.Credentials) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(items))

	for _, item := range items {
		if item.ASIN == "" {
			continue
		}

		affiliateURL, err := domain.GenerateAffiliateURL(item.ASIN, creds)
		if err != nil {
			return nil, err
		}

		product := domain.Product{
			ASIN:         item.ASIN,
			Title:        item.ItemInfo.Title.DisplayValue,
			DetailURL:    item.DetailPageURL,
			AffiliateURL: affiliateURL,
			Features:     item.ItemInfo.Features.DisplayValues,
		}
		if product.Title == "" {
			product.Title = domain.DefaultTitle(item.ASIN)
		}

		// Prefer the large image, fall back to medium
		product.ImageURL = item.Images.Primary.Large.URL
		if product.ImageURL == "" {
			product.ImageURL = item.Images.Primary.Medium.URL
		}

		// Price and availability come from the first listing only
		if len(item.Offers.Listings) > 0 {
			first := item.Offers.Listings[0]
			if first.Price.Amount > 0 {
				product.Price = strconv.FormatFloat(first.Price.Amount, 'f', 2, 64)
			}
			product.Currency = first.Price.Currency
			product.Availability = first.Availability.Message
		}

		products = append(products, product)
	}

	return products, nil
}
