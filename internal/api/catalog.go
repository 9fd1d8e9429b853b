package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/OilerRig/WebApp/internal/domain"
	"github.com/OilerRig/WebApp/internal/port"
)

// ListProducts fetches one catalog page. The returned page number is the one
// reported by the server.
func (c *Client) ListProducts(ctx context.Context, q port.CatalogQuery) (domain.CatalogPage, error) {
	if q.Page < 0 {
		return domain.CatalogPage{}, fmt.Errorf("page is negative: %d", q.Page)
	}
	if q.Size <= 0 {
		return domain.CatalogPage{}, fmt.Errorf("size must be positive: %d", q.Size)
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("size", strconv.Itoa(q.Size))
	if search := strings.TrimSpace(q.Search); search != "" {
		query.Set("search", search)
	}

	var dto productPageDTO
	if err := c.getJSON(ctx, request{
		method: http.MethodGet,
		route:  "/products",
		path:   "/products",
		query:  query,
	}, &dto); err != nil {
		return domain.CatalogPage{}, fmt.Errorf("c.getJSON: %w", err)
	}

	page, err := mapProductPageDTOToDomain(dto)
	if err != nil {
		return domain.CatalogPage{}, fmt.Errorf("mapProductPageDTOToDomain: %w", err)
	}

	return page, nil
}

func (c *Client) GetProductDetails(ctx context.Context, productID int64) (map[string]string, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("productID is invalid: %d", productID)
	}

	raw := map[string]any{}
	if err := c.getJSON(ctx, request{
		method: http.MethodGet,
		route:  "/products/{id}/details",
		path:   fmt.Sprintf("/products/%d/details", productID),
	}, &raw); err != nil {
		return nil, fmt.Errorf("c.getJSON: %w", err)
	}

	// detail values are usually strings but numbers and booleans show up too
	specs := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			specs[key] = v
		case nil:
			specs[key] = ""
		default:
			specs[key] = fmt.Sprint(v)
		}
	}

	return specs, nil
}
