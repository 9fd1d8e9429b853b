package domain

import "github.com/shopspring/decimal"

// CartLine is a product together with the number of its units in the cart.
// Lines are derived from the flat cart list and are never stored as such.
type CartLine struct {
	Product  ProductSummary
	Quantity int
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// InStock reports whether the requested quantity can be served from the
// product's stock count.
func (l CartLine) InStock() bool {
	return int64(l.Quantity) <= l.Product.Stock
}
