package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/OilerRig/WebApp/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// Store is the shopping cart: an ordered list of products where repeats
// stand for quantity. Lines are derived by grouping on product id.
type Store struct {
	mu    sync.Mutex
	items []domain.ProductSummary
}

func New() *Store {
	return &Store{}
}

// Add appends one unit. Stock is not checked here.
func (s *Store) Add(product domain.ProductSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, product)
}

// ChangeQuantity rebuilds the list from its groups with the count of
// productID moved by delta. A count that drops to zero or below removes the
// product. Groups keep their order, individual units do not.
func (s *Store) ChangeQuantity(productID int64, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := group(s.items)

	rebuilt := make([]domain.ProductSummary, 0, len(s.items)+max(delta, 0))
	for _, line := range lines {
		count := line.Quantity
		if line.Product.ID == productID {
			count += delta
		}
		for range max(count, 0) {
			rebuilt = append(rebuilt, line.Product)
		}
	}

	s.items = rebuilt
}

// Remove drops every unit of productID.
func (s *Store) Remove(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = lo.Filter(s.items, func(p domain.ProductSummary, _ int) bool {
		return p.ID != productID
	})
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
}

// Grouped returns one line per product in order of first appearance.
func (s *Store) Grouped() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	return group(s.items)
}

func (s *Store) Total(unit currency.Unit) domain.Money {
	lines := s.Grouped()

	sum := lo.Reduce(lines, func(acc decimal.Decimal, l domain.CartLine, _ int) decimal.Decimal {
		return acc.Add(l.Subtotal())
	}, decimal.Zero)

	return domain.NewMoney(sum, unit)
}

// Len is the number of units in the cart.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

func (s *Store) Items() []domain.ProductSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.ProductSummary(nil), s.items...)
}

// Restore replaces the contents with the expansion of lines. Lines with a
// non-positive quantity are skipped.
func (s *Store) Restore(lines []domain.CartLine) {
	items := make([]domain.ProductSummary, 0, len(lines))
	for _, line := range lines {
		for range max(line.Quantity, 0) {
			items = append(items, line.Product)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = items
}

// CheckStock fails on the first line asking for more units than in stock.
func (s *Store) CheckStock() error {
	for _, line := range s.Grouped() {
		if !line.InStock() {
			return fmt.Errorf("%w: product[%d] %q wants %d, has %d",
				ErrInsufficientStock, line.Product.ID, line.Product.Name, line.Quantity, line.Product.Stock)
		}
	}

	return nil
}

func group(items []domain.ProductSummary) []domain.CartLine {
	var lines []domain.CartLine
	index := make(map[int64]int, len(items))

	for _, p := range items {
		if i, ok := index[p.ID]; ok {
			lines[i].Quantity++
			continue
		}
		index[p.ID] = len(lines)
		lines = append(lines, domain.CartLine{Product: p, Quantity: 1})
	}

	return lines
}
