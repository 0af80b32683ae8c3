package catalog

import (
	"fmt"

	"noon-assistant/internal/domain"
)

const (
	imageURLTemplate   = "https://f.nooncdn.com/p/%s.jpg?width=800"
	productURLTemplate = "https://www.noon.com/uae-en/%s/p/"
)

type searchResponse struct {
	Hits []productHit `json:"hits"`
}

type productHit struct {
	SKU           string   `json:"sku"`
	Name          string   `json:"name"`
	Brand         string   `json:"brand"`
	ImageKey      string   `json:"image_key"`
	Price         *float64 `json:"price"`
	SalePrice     *float64 `json:"sale_price"`
	ProductRating struct {
		Value *float64 `json:"value"`
	} `json:"product_rating"`
}

// mapHit converts one catalog hit to the domain candidate, resolving the CDN
// image path and the product page URL. Absent optional fields stay nil.
func mapHit(h productHit) domain.ProductCandidate {
	c := domain.ProductCandidate{
		SKU:       h.SKU,
		Name:      h.Name,
		Brand:     h.Brand,
		Price:     h.Price,
		SalePrice: h.SalePrice,
		Rating:    h.ProductRating.Value,
	}
	if h.ImageKey != "" {
		c.ImageURL = fmt.Sprintf(imageURLTemplate, h.ImageKey)
	}
	if h.SKU != "" {
		c.ProductURL = fmt.Sprintf(productURLTemplate, h.SKU)
	}
	return c
}
