package domain

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Order is created by the backend in response to a place-order request and
// is never modified on the client afterwards.
type Order struct {
	ID     string
	Status OrderStatus
	Items  []OrderItem

	CreatedAt time.Time
}

type OrderItem struct {
	Product  ProductSummary
	Quantity int
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (o Order) Total() decimal.Decimal {
	return lo.Reduce(o.Items, func(sum decimal.Decimal, item OrderItem, _ int) decimal.Decimal {
		return sum.Add(item.Subtotal())
	}, decimal.Zero)
}
