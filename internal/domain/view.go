package domain

import "errors"

// View is the top-level screen currently mounted by the router.
type View string

// remember to add new views to the validViews map
const (
	ViewHome     View = "home"
	ViewStore    View = "store"
	ViewProduct  View = "product"
	ViewCheckout View = "checkout"
	ViewPayment  View = "payment"
	ViewOrders   View = "orders"
	ViewAdmin    View = "admin"
)

var validViews = map[View]struct{}{
	ViewHome:     {},
	ViewStore:    {},
	ViewProduct:  {},
	ViewCheckout: {},
	ViewPayment:  {},
	ViewOrders:   {},
	ViewAdmin:    {},
}

func ToView(s string) (View, error) {
	view := View(s)
	if _, ok := validViews[view]; ok {
		return view, nil
	}

	return "", errors.New("invalid view")
}
