package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/OilerRig/WebApp/internal/cart"
	"github.com/OilerRig/WebApp/internal/domain"
	"github.com/OilerRig/WebApp/internal/logging"
	"github.com/OilerRig/WebApp/internal/port"
	"golang.org/x/text/currency"
)

var (
	ErrFormInvalid = errors.New("payment form is invalid")
	ErrEmptyCart   = errors.New("cart is empty")
	ErrSubmitting  = errors.New("order submission in progress")
)

// State of the checkout flow.
type State string

const (
	StateEditing    State = "editing"
	StateValid      State = "valid"
	StateSubmitting State = "submitting"
	StateConfirmed  State = "confirmed"
	StateFailed     State = "failed"
)

// OrderAppender receives orders confirmed by the server.
type OrderAppender interface {
	Append(order domain.Order)
}

type Deps struct {
	Cart      *cart.Store
	Orders    port.OrderAPI
	History   OrderAppender
	Notifier  port.Notifier
	Navigator port.Navigator
	Currency  currency.Unit
}

// Flow drives the payment form from editing to a placed order.
type Flow struct {
	deps Deps
	form *Form

	mu     sync.Mutex
	phase  State // "" while the form is being edited
	placed domain.Order
}

func NewFlow(deps Deps) *Flow {
	return &Flow{
		deps: deps,
		form: NewForm(),
	}
}

func (f *Flow) Form() *Form {
	return f.form
}

// Set updates a form field. Editing after a failed or confirmed submission
// brings the flow back to editing.
func (f *Flow) Set(field Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase == StateSubmitting {
		return ErrSubmitting
	}

	if err := f.form.Set(field, value); err != nil {
		return err
	}

	f.phase = ""
	return nil
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state()
}

func (f *Flow) state() State {
	if f.phase != "" {
		return f.phase
	}
	if f.form.Valid() {
		return StateValid
	}
	return StateEditing
}

type Summary struct {
	Lines []domain.CartLine
	Total domain.Money
}

func (f *Flow) Summary() Summary {
	return Summary{
		Lines: f.deps.Cart.Grouped(),
		Total: f.deps.Cart.Total(f.deps.Currency),
	}
}

// Submit places an order for the current cart. tokens is nil for guests.
// Local validation failures leave the flow untouched; request failures move
// it to failed and notify the user.
func (f *Flow) Submit(ctx context.Context, tokens port.TokenSource) (domain.Order, error) {
	log := logging.FromCtx(ctx).With("method", "Flow.Submit")

	f.mu.Lock()
	if f.phase == StateSubmitting {
		f.mu.Unlock()
		return domain.Order{}, ErrSubmitting
	}
	if !f.form.Valid() {
		f.mu.Unlock()
		return domain.Order{}, ErrFormInvalid
	}

	lines := f.deps.Cart.Grouped()
	if len(lines) == 0 {
		f.mu.Unlock()
		return domain.Order{}, ErrEmptyCart
	}
	if err := f.deps.Cart.CheckStock(); err != nil {
		f.mu.Unlock()
		return domain.Order{}, fmt.Errorf("f.deps.Cart.CheckStock: %w", err)
	}

	req := domain.NewPlaceOrderRequest(lines)
	f.phase = StateSubmitting
	f.mu.Unlock()

	order, err := f.place(ctx, tokens, req)
	if err != nil {
		log.Error("place order failed", "error", err)
		f.setPhase(StateFailed)
		f.deps.Notifier.Error(ctx, "Payment failed", "Something went wrong.")
		return domain.Order{}, err
	}

	f.deps.History.Append(order)
	f.deps.Cart.Clear()
	f.form.Reset()

	f.mu.Lock()
	f.phase = StateConfirmed
	f.placed = order
	f.mu.Unlock()

	f.deps.Notifier.Success(ctx, "Order Confirmed!",
		fmt.Sprintf("Your order has been placed successfully. Order ID: %s. Please save this ID to track your order.", order.ID))

	if err := f.deps.Navigator.Navigate(ctx, domain.ViewOrders); err != nil {
		log.Warn("navigate after order failed", "error", err)
	}

	return order, nil
}

// Placed returns the last confirmed order.
func (f *Flow) Placed() domain.Order {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.placed
}

func (f *Flow) place(ctx context.Context, tokens port.TokenSource, req domain.PlaceOrderRequest) (domain.Order, error) {
	var token string
	if tokens != nil {
		t, err := tokens.Token(ctx)
		if err != nil {
			return domain.Order{}, fmt.Errorf("tokens.Token: %w", err)
		}
		token = t
	}

	order, err := f.deps.Orders.PlaceOrder(ctx, token, req)
	if err != nil {
		return domain.Order{}, fmt.Errorf("f.deps.Orders.PlaceOrder: %w", err)
	}

	return order, nil
}

func (f *Flow) setPhase(s State) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.phase = s
}
