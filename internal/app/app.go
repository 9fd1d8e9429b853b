package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/OilerRig/WebApp/internal/admin"
	"github.com/OilerRig/WebApp/internal/auth"
	"github.com/OilerRig/WebApp/internal/cart"
	"github.com/OilerRig/WebApp/internal/catalog"
	"github.com/OilerRig/WebApp/internal/checkout"
	"github.com/OilerRig/WebApp/internal/domain"
	"github.com/OilerRig/WebApp/internal/logging"
	"github.com/OilerRig/WebApp/internal/orders"
	"github.com/OilerRig/WebApp/internal/port"
	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

var (
	ErrNotAdmin          = errors.New("admin role required")
	ErrNoProductSelected = errors.New("no product selected")
)

type Deps struct {
	Catalog port.CatalogAPI
	Orders  port.OrderAPI
	Admin   port.AdminAPI

	// Tokens is nil for guests.
	Tokens   port.TokenSource
	Identity *auth.Identity

	Carts     port.CartRepository
	SessionID uuid.UUID

	Notifier  port.Notifier
	Confirmer port.Confirmer

	PageSize int
	Currency currency.Unit
}

// App is the application state owned by the root controller. Views get it
// by reference; nothing here is global.
type App struct {
	deps Deps

	Catalog  *catalog.Browser
	Cart     *cart.Store
	Checkout *checkout.Flow
	History  *orders.Store
	Lookup   *orders.GuestLookup
	Admin    *admin.Console

	mu   sync.Mutex
	view domain.View
}

var _ port.Navigator = (*App)(nil)

// New builds the state tree and restores the session cart.
func New(ctx context.Context, deps Deps) (*App, error) {
	if deps.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive: %d", deps.PageSize)
	}

	a := &App{
		deps:    deps,
		Catalog: catalog.NewBrowser(deps.Catalog, deps.PageSize),
		Cart:    cart.New(),
		History: orders.NewStore(),
		view:    domain.ViewHome,
	}
	a.Lookup = orders.NewGuestLookup(deps.Orders, a.History)
	a.Checkout = checkout.NewFlow(checkout.Deps{
		Cart:      a.Cart,
		Orders:    deps.Orders,
		History:   a.History,
		Notifier:  deps.Notifier,
		Navigator: a,
		Currency:  deps.Currency,
	})
	if deps.Tokens != nil {
		a.Admin = admin.NewConsole(deps.Admin, deps.Tokens, deps.Confirmer, deps.Notifier)
	}

	if deps.Carts != nil {
		lines, err := deps.Carts.GetCart(ctx, deps.SessionID)
		if err != nil {
			return nil, fmt.Errorf("deps.Carts.GetCart: %w", err)
		}
		a.Cart.Restore(lines)
	}

	return a, nil
}

func (a *App) View() domain.View {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.view
}

func (a *App) SessionID() uuid.UUID {
	return a.deps.SessionID
}

func (a *App) Authenticated() bool {
	return a.deps.Tokens != nil
}

// IsAdmin only decides which views are offered; the API enforces roles.
func (a *App) IsAdmin() bool {
	return a.deps.Identity != nil && a.deps.Identity.IsAdmin()
}

func (a *App) CartCount() int {
	return a.Cart.Len()
}

// Navigate switches the current view and runs its mount work. A view that
// cannot be entered leaves the current one in place.
func (a *App) Navigate(ctx context.Context, view domain.View) error {
	log := logging.FromCtx(ctx).With("method", "App.Navigate", "view", view)

	switch view {
	case domain.ViewProduct:
		if _, ok := a.Catalog.Selected(); !ok {
			return ErrNoProductSelected
		}
	case domain.ViewCheckout, domain.ViewPayment:
		if a.Cart.Len() == 0 {
			return checkout.ErrEmptyCart
		}
	case domain.ViewAdmin:
		if !a.IsAdmin() || a.Admin == nil {
			return ErrNotAdmin
		}
	case domain.ViewHome, domain.ViewStore, domain.ViewOrders:
	default:
		return fmt.Errorf("unknown view %q", view)
	}

	a.mu.Lock()
	a.view = view
	a.mu.Unlock()

	switch view {
	case domain.ViewStore:
		if a.Catalog.Loaded() {
			return nil
		}
		if err := a.Catalog.Load(ctx, 0); err != nil {
			log.Error("load catalog failed", "error", err)
			a.deps.Notifier.Error(ctx, "Error", "Could not load products.")
			return err
		}
	case domain.ViewOrders:
		if !a.Authenticated() {
			return nil
		}
		if err := a.History.Load(ctx, orders.UserOrders(a.deps.Orders, a.deps.Tokens)); err != nil {
			log.Error("load user orders failed", "error", err)
			a.deps.Notifier.Error(ctx, "Error", "Could not fetch your orders.")
			return err
		}
	case domain.ViewAdmin:
		return a.Admin.LoadOrders(ctx)
	}

	return nil
}

// SelectProduct opens the detail view of a product on the current page.
func (a *App) SelectProduct(ctx context.Context, productID int64) (domain.ProductDetail, error) {
	detail, err := a.Catalog.Select(ctx, productID)
	if err != nil {
		logging.FromCtx(ctx).Error("select product failed", "method", "App.SelectProduct", "error", err)
		a.deps.Notifier.Error(ctx, "Error", "Could not load product details.")
		return domain.ProductDetail{}, err
	}

	if err := a.Navigate(ctx, domain.ViewProduct); err != nil {
		return domain.ProductDetail{}, err
	}
	return detail, nil
}

func (a *App) AddToCart(ctx context.Context, product domain.ProductSummary) {
	a.Cart.Add(product)
	a.saveCart(ctx)
}

func (a *App) ChangeQuantity(ctx context.Context, productID int64, delta int) {
	a.Cart.ChangeQuantity(productID, delta)
	a.saveCart(ctx)
}

func (a *App) RemoveFromCart(ctx context.Context, productID int64) {
	a.Cart.Remove(productID)
	a.saveCart(ctx)
}

func (a *App) ClearCart(ctx context.Context) {
	a.Cart.Clear()
	a.saveCart(ctx)
}

// PlaceOrder submits the payment form, as a guest when signed out.
func (a *App) PlaceOrder(ctx context.Context) (domain.Order, error) {
	order, err := a.Checkout.Submit(ctx, a.deps.Tokens)
	if err != nil {
		return domain.Order{}, err
	}

	a.dropCart(ctx)
	return order, nil
}

// LookupOrder is the guest order search of the orders view.
func (a *App) LookupOrder(ctx context.Context, orderID string) (domain.Order, error) {
	order, err := a.Lookup.Lookup(ctx, orderID)
	switch {
	case errors.Is(err, orders.ErrEmptyOrderID):
		a.deps.Notifier.Error(ctx, "Error", "Please enter a valid order ID.")
	case err != nil:
		logging.FromCtx(ctx).Warn("guest lookup failed", "method", "App.LookupOrder", "error", err)
		a.deps.Notifier.Error(ctx, "Error", "Order not found.")
	}

	return order, err
}

// Orders is the list shown in the orders view.
func (a *App) Orders() *orders.Store {
	return a.History
}

// saveCart persists the grouped cart. The in-memory cart stays
// authoritative when saving fails.
func (a *App) saveCart(ctx context.Context) {
	if a.deps.Carts == nil {
		return
	}

	if err := a.deps.Carts.SaveCart(ctx, a.deps.SessionID, a.Cart.Grouped()); err != nil {
		logging.FromCtx(ctx).Warn("save cart failed", "method", "App.saveCart", "session", a.deps.SessionID, "error", err)
	}
}

// dropCart forgets the session cart once its order is confirmed.
func (a *App) dropCart(ctx context.Context) {
	if a.deps.Carts == nil {
		return
	}

	if _, err := a.deps.Carts.DeleteCart(ctx, a.deps.SessionID); err != nil {
		logging.FromCtx(ctx).Warn("delete cart failed", "method", "App.dropCart", "session", a.deps.SessionID, "error", err)
	}
}
