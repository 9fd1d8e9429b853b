package domain

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// ProductSummary is a catalog entry as listed by the products endpoint.
type ProductSummary struct {
	ID         int64
	Name       string
	VendorName string
	Price      decimal.Decimal
	Stock      int64
}

// ProductDetail is a ProductSummary enriched with the specification map
// returned by the product details endpoint.
type ProductDetail struct {
	ProductSummary
	Specs map[string]string
}

func (p ProductSummary) Enrich(specs map[string]string) ProductDetail {
	return ProductDetail{
		ProductSummary: p,
		Specs:          maps.Clone(specs),
	}
}

func (p ProductSummary) InStock() bool {
	return p.Stock > 0
}

// SpecKeys returns the spec names sorted for stable display.
func (d ProductDetail) SpecKeys() []string {
	return slices.Sorted(maps.Keys(d.Specs))
}
