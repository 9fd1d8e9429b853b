package port

import (
	"context"

	"github.com/OilerRig/WebApp/internal/domain"
)

type AdminAPI interface {
	ListAdminOrders(ctx context.Context, token string) ([]domain.Order, error)
	DeleteAllOrders(ctx context.Context, token string) (string, error)

	InitVendorCache(ctx context.Context, token string) (string, error)
	ResetCaches(ctx context.Context, token string) (string, error)
	SyncCaches(ctx context.Context, token string) (string, error)
}
