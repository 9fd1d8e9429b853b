package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/OilerRig/WebApp/internal/domain"
	"github.com/OilerRig/WebApp/internal/port"
)

var (
	ErrEmptyOrderID  = errors.New("please enter a valid order ID")
	ErrOrderNotFound = errors.New("order not found")
)

// GuestLookup finds a single order by id without credentials.
type GuestLookup struct {
	api   port.OrderAPI
	store *Store

	mu     sync.Mutex
	result *domain.Order
	err    error
}

// NewGuestLookup writes found orders into store, which may be nil.
func NewGuestLookup(api port.OrderAPI, store *Store) *GuestLookup {
	return &GuestLookup{api: api, store: store}
}

// Lookup never sends a request for an empty id. Any failed request reports
// ErrOrderNotFound and is not retried.
func (g *GuestLookup) Lookup(ctx context.Context, orderID string) (domain.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		g.fail(ErrEmptyOrderID)
		return domain.Order{}, ErrEmptyOrderID
	}

	order, err := g.api.GetOrder(ctx, orderID)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrOrderNotFound, err)
		g.fail(err)
		return domain.Order{}, err
	}

	g.mu.Lock()
	g.result = &order
	g.err = nil
	g.mu.Unlock()

	if g.store != nil {
		g.store.Set([]domain.Order{order})
	}

	return order, nil
}

// Result returns the last found order and the last error. At most one of
// them is set.
func (g *GuestLookup) Result() (*domain.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.result, g.err
}

func (g *GuestLookup) fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.result = nil
	g.err = err
}
