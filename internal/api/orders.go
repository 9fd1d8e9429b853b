package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/OilerRig/WebApp/internal/domain"
)

func (c *Client) PlaceOrder(ctx context.Context, token string, req domain.PlaceOrderRequest) (domain.Order, error) {
	var o domain.Order

	if err := req.Validate(); err != nil {
		return o, fmt.Errorf("req.Validate: %w", err)
	}

	var dto orderDTO
	if err := c.getJSON(ctx, request{
		method: http.MethodPost,
		route:  "/orders",
		path:   "/orders",
		token:  token,
		body:   mapPlaceOrderRequestToDTO(req),
	}, &dto); err != nil {
		return o, fmt.Errorf("c.getJSON: %w", err)
	}

	order, err := mapOrderDTOToDomain(dto)
	if err != nil {
		return o, fmt.Errorf("mapOrderDTOToDomain: %w", err)
	}

	if order.ID == "" {
		return o, errors.New("server returned an order without id")
	}

	return order, nil
}

// GetOrder looks up a single order without credentials, as guests do.
func (c *Client) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	var o domain.Order

	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return o, fmt.Errorf("orderID is empty")
	}

	var dto orderDTO
	if err := c.getJSON(ctx, request{
		method: http.MethodGet,
		route:  "/orders/{id}",
		path:   "/orders/" + url.PathEscape(orderID),
	}, &dto); err != nil {
		return o, fmt.Errorf("c.getJSON: %w", err)
	}

	order, err := mapOrderDTOToDomain(dto)
	if err != nil {
		return o, fmt.Errorf("mapOrderDTOToDomain: %w", err)
	}

	return order, nil
}

func (c *Client) ListUserOrders(ctx context.Context, token string) ([]domain.Order, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	return c.listOrders(ctx, "/users/orders", token)
}

func (c *Client) ListAdminOrders(ctx context.Context, token string) ([]domain.Order, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	return c.listOrders(ctx, "/admin/orders", token)
}

func (c *Client) listOrders(ctx context.Context, path, token string) ([]domain.Order, error) {
	var dtos []orderDTO
	if err := c.getJSON(ctx, request{
		method: http.MethodGet,
		route:  path,
		path:   path,
		token:  token,
	}, &dtos); err != nil {
		return nil, fmt.Errorf("c.getJSON: %w", err)
	}

	orders, err := mapOrderDTOsToDomain(dtos)
	if err != nil {
		return nil, fmt.Errorf("mapOrderDTOsToDomain: %w", err)
	}

	return orders, nil
}
