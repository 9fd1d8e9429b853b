package domain

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// PlaceOrderRequest carries parallel arrays: Quantities[i] units of the
// product ProductIDs[i].
type PlaceOrderRequest struct {
	ProductIDs []int64
	Quantities []int
}

// NewPlaceOrderRequest keeps the order of the given lines.
func NewPlaceOrderRequest(lines []CartLine) PlaceOrderRequest {
	return PlaceOrderRequest{
		ProductIDs: lo.Map(lines, func(l CartLine, _ int) int64 { return l.Product.ID }),
		Quantities: lo.Map(lines, func(l CartLine, _ int) int { return l.Quantity }),
	}
}

func (r PlaceOrderRequest) Validate() error {
	if len(r.ProductIDs) == 0 {
		return errors.New("no items in order")
	}

	if len(r.ProductIDs) != len(r.Quantities) {
		return fmt.Errorf("ids and quantities length mismatch: %d != %d", len(r.ProductIDs), len(r.Quantities))
	}

	for i, id := range r.ProductIDs {
		if id <= 0 {
			return fmt.Errorf("item[%d]: invalid product id %d", i, id)
		}
		if r.Quantities[i] <= 0 {
			return fmt.Errorf("item[%d]: invalid quantity %d", i, r.Quantities[i])
		}
	}

	if len(lo.Uniq(r.ProductIDs)) != len(r.ProductIDs) {
		return errors.New("duplicate product ids")
	}

	return nil
}
