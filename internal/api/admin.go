package api

import (
	"context"
	"fmt"
	"net/http"
)

const (
	pathAdminVendorCache = "/admin/caches/vendors"
	pathAdminResetCaches = "/admin/caches/reset"
	pathAdminSyncCaches  = "/admin/caches/sync"
	pathDeleteAllOrders  = "/orders"
)

// DeleteAllOrders removes every order on the server. The response text is
// returned as-is for display.
func (c *Client) DeleteAllOrders(ctx context.Context, token string) (string, error) {
	return c.adminCommand(ctx, http.MethodDelete, pathDeleteAllOrders, token)
}

func (c *Client) InitVendorCache(ctx context.Context, token string) (string, error) {
	return c.adminCommand(ctx, http.MethodGet, pathAdminVendorCache, token)
}

func (c *Client) ResetCaches(ctx context.Context, token string) (string, error) {
	return c.adminCommand(ctx, http.MethodGet, pathAdminResetCaches, token)
}

func (c *Client) SyncCaches(ctx context.Context, token string) (string, error) {
	return c.adminCommand(ctx, http.MethodGet, pathAdminSyncCaches, token)
}

func (c *Client) adminCommand(ctx context.Context, method, path, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("token is empty")
	}

	text, err := c.getText(ctx, request{
		method: method,
		route:  path,
		path:   path,
		token:  token,
	})
	if err != nil {
		return "", fmt.Errorf("c.getText: %w", err)
	}

	return text, nil
}
