package port

import (
	"context"

	"github.com/OilerRig/WebApp/internal/domain"
)

type CatalogQuery struct {
	Page   int
	Size   int
	Search string
}

type CatalogAPI interface {
	ListProducts(ctx context.Context, q CatalogQuery) (domain.CatalogPage, error)
	GetProductDetails(ctx context.Context, productID int64) (map[string]string, error)
}
