package orders

import (
	"context"
	"fmt"
	"sync"

	"github.com/OilerRig/WebApp/internal/domain"
	"github.com/OilerRig/WebApp/internal/port"
	"github.com/samber/lo"
)

// Fetcher loads a full order list, e.g. the signed-in user's history.
type Fetcher func(ctx context.Context) ([]domain.Order, error)

// UserOrders fetches the history of the credential's owner with a token
// requested right before the call.
func UserOrders(api port.OrderAPI, tokens port.TokenSource) Fetcher {
	return func(ctx context.Context) ([]domain.Order, error) {
		token, err := tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("tokens.Token: %w", err)
		}

		orders, err := api.ListUserOrders(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("api.ListUserOrders: %w", err)
		}
		return orders, nil
	}
}

// Store holds a loaded order list with a client-side status filter and at
// most one expanded row.
type Store struct {
	mu       sync.Mutex
	orders   []domain.Order
	filter   domain.StatusFilter
	expanded string
	err      error
}

func NewStore() *Store {
	return &Store{filter: domain.StatusFilterAll}
}

// Load replaces the list with the fetched one. On failure the previous list
// is kept and the error is remembered for display.
func (s *Store) Load(ctx context.Context, fetch Fetcher) error {
	orders, err := fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.err = err
		return err
	}

	s.orders = orders
	s.err = nil
	s.dropStaleExpansion()
	return nil
}

func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

func (s *Store) SetFilter(filter domain.StatusFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = filter
}

func (s *Store) Filter() domain.StatusFilter {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter
}

// Filtered applies the current status filter without a server round-trip.
func (s *Store) Filtered() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	return lo.Filter(s.orders, func(o domain.Order, _ int) bool {
		return s.filter.Match(o.Status)
	})
}

func (s *Store) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.Order(nil), s.orders...)
}

// Toggle opens the row of orderID, collapsing any other open row. Toggling
// the open row closes it. It returns whether the row is open afterwards.
func (s *Store) Toggle(orderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expanded == orderID {
		s.expanded = ""
		return false
	}

	s.expanded = orderID
	return true
}

// Expanded returns the id of the open row, or "".
func (s *Store) Expanded() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.expanded
}

// Append adds a freshly placed order.
func (s *Store) Append(order domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append(s.orders, order)
}

func (s *Store) Set(orders []domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append([]domain.Order(nil), orders...)
	s.err = nil
	s.dropStaleExpansion()
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = nil
	s.expanded = ""
}

func (s *Store) dropStaleExpansion() {
	if s.expanded == "" {
		return
	}
	if !lo.ContainsBy(s.orders, func(o domain.Order) bool { return o.ID == s.expanded }) {
		s.expanded = ""
	}
}
