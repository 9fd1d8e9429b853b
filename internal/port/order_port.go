package port

import (
	"context"

	"github.com/OilerRig/WebApp/internal/domain"
)

type OrderAPI interface {
	// PlaceOrder submits as a guest when token is empty.
	PlaceOrder(ctx context.Context, token string, req domain.PlaceOrderRequest) (domain.Order, error)

	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	ListUserOrders(ctx context.Context, token string) ([]domain.Order, error)
}
