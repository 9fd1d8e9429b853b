package admin

import (
	"context"
	"fmt"

	"github.com/OilerRig/WebApp/internal/domain"
	"github.com/OilerRig/WebApp/internal/logging"
	"github.com/OilerRig/WebApp/internal/orders"
	"github.com/OilerRig/WebApp/internal/port"
)

const (
	msgActionFailed = "Something went wrong while performing the action."
	msgFetchFailed  = "Could not fetch admin orders."
)

// Console runs admin actions and keeps the admin order list.
type Console struct {
	api       port.AdminAPI
	tokens    port.TokenSource
	confirmer port.Confirmer
	notifier  port.Notifier
	orders    *orders.Store
}

func NewConsole(api port.AdminAPI, tokens port.TokenSource, confirmer port.Confirmer, notifier port.Notifier) *Console {
	return &Console{
		api:       api,
		tokens:    tokens,
		confirmer: confirmer,
		notifier:  notifier,
		orders:    orders.NewStore(),
	}
}

// Orders is the admin order list, with the same filter and expansion
// behaviour as the user's history.
func (c *Console) Orders() *orders.Store {
	return c.orders
}

// LoadOrders fetches every order with a fresh admin token.
func (c *Console) LoadOrders(ctx context.Context) error {
	err := c.orders.Load(ctx, c.fetchOrders)
	if err != nil {
		logging.FromCtx(ctx).Error("fetch admin orders failed", "method", "Console.LoadOrders", "error", err)
		c.notifier.Error(ctx, "Error", msgFetchFailed)
		return err
	}

	return nil
}

func (c *Console) fetchOrders(ctx context.Context) ([]domain.Order, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("c.tokens.Token: %w", err)
	}

	list, err := c.api.ListAdminOrders(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("c.api.ListAdminOrders: %w", err)
	}

	return list, nil
}

type Result struct {
	// Confirmed is false when the user declined and nothing was sent.
	Confirmed bool
	Message   string
}

// Run asks for confirmation and dispatches the action. Local state is
// updated without verification: delete-orders empties the list until the
// next fetch, sync-caches re-fetches it.
func (c *Console) Run(ctx context.Context, action Action) (Result, error) {
	if _, ok := actions[action]; !ok {
		return Result{}, fmt.Errorf("unknown action %q", action)
	}

	ok, err := c.confirmer.Confirm(ctx, "Are you sure?", action.Warning())
	if err != nil {
		return Result{}, fmt.Errorf("c.confirmer.Confirm: %w", err)
	}
	if !ok {
		return Result{}, nil
	}

	message, err := c.dispatch(ctx, action)
	if err != nil {
		logging.FromCtx(ctx).Error("admin action failed", "method", "Console.Run", "action", action, "error", err)
		c.notifier.Error(ctx, "Error", msgActionFailed)
		return Result{Confirmed: true}, err
	}

	c.notifier.Success(ctx, message, "")

	switch action {
	case ActionDeleteOrders:
		c.orders.Clear()
	case ActionSyncCaches:
		// failure is already reported by LoadOrders
		_ = c.LoadOrders(ctx)
	}

	return Result{Confirmed: true, Message: message}, nil
}

func (c *Console) dispatch(ctx context.Context, action Action) (string, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("c.tokens.Token: %w", err)
	}

	var call func(ctx context.Context, token string) (string, error)
	switch action {
	case ActionInitVendors:
		call = c.api.InitVendorCache
	case ActionResetCaches:
		call = c.api.ResetCaches
	case ActionSyncCaches:
		call = c.api.SyncCaches
	case ActionDeleteOrders:
		call = c.api.DeleteAllOrders
	}

	message, err := call(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%s: %w", action, err)
	}

	return message, nil
}
