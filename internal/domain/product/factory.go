package product

import (
	"math"
	"strings"
)

// NewFromRequest maps a request onto a product. The id is always zero: ids are
// assigned by storage on create and taken from the URL on update.
func NewFromRequest(req ProductRequest, category Category) Product {
	return Product{
		SKU:         strings.TrimSpace(req.SKU),
		Barcode:     strings.TrimSpace(req.Barcode),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       RoundPrice(req.Price),
		Category:    category,
	}
}

// RoundPrice rounds to the two decimal places the store keeps.
func RoundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}
