package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/OilerRig/WebApp/internal/domain"
	"github.com/OilerRig/WebApp/internal/logging"
	"github.com/OilerRig/WebApp/internal/port"
	"github.com/samber/lo"
)

var (
	ErrNoSuchPage     = errors.New("no such page")
	ErrUnknownProduct = errors.New("product is not on the current page")
)

// Browser holds the catalog view: current page, search term and the
// product opened in the detail view.
type Browser struct {
	api      port.CatalogAPI
	pageSize int

	mu       sync.Mutex
	page     domain.CatalogPage
	term     string
	loaded   bool
	issued   uint64
	applied  uint64
	selected *domain.ProductDetail
}

func NewBrowser(api port.CatalogAPI, pageSize int) *Browser {
	return &Browser{api: api, pageSize: pageSize}
}

// Load fetches page n with the current search term. A response that
// arrives after a newer one was applied is discarded.
func (b *Browser) Load(ctx context.Context, n int) error {
	b.mu.Lock()
	b.issued++
	gen := b.issued
	term := b.term
	b.mu.Unlock()

	page, err := b.api.ListProducts(ctx, port.CatalogQuery{
		Page:   n,
		Size:   b.pageSize,
		Search: term,
	})
	if err != nil {
		return fmt.Errorf("b.api.ListProducts: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if gen < b.applied {
		logging.FromCtx(ctx).Debug("dropping stale catalog page",
			"method", "Browser.Load", "generation", gen, "applied", b.applied)
		return nil
	}

	b.page = page
	b.applied = gen
	b.loaded = true
	return nil
}

// Search sets the term and goes back to the first page.
func (b *Browser) Search(ctx context.Context, term string) error {
	b.mu.Lock()
	b.term = strings.TrimSpace(term)
	b.mu.Unlock()

	return b.Load(ctx, 0)
}

func (b *Browser) ClearSearch(ctx context.Context) error {
	return b.Search(ctx, "")
}

func (b *Browser) Next(ctx context.Context) error {
	page := b.Page()
	if !page.HasNext() {
		return ErrNoSuchPage
	}
	return b.Load(ctx, page.Number+1)
}

func (b *Browser) Prev(ctx context.Context) error {
	page := b.Page()
	if !page.HasPrev() {
		return ErrNoSuchPage
	}
	return b.Load(ctx, page.Number-1)
}

// Goto loads page n, 0-based. Bounds are checked against the last loaded
// page when there is one.
func (b *Browser) Goto(ctx context.Context, n int) error {
	b.mu.Lock()
	loaded, total := b.loaded, b.page.TotalPages
	b.mu.Unlock()

	if n < 0 || (loaded && n >= max(total, 1)) {
		return fmt.Errorf("%w: %d", ErrNoSuchPage, n)
	}
	return b.Load(ctx, n)
}

// Reload fetches the current page again, e.g. to refresh stock counts.
func (b *Browser) Reload(ctx context.Context) error {
	return b.Load(ctx, b.Page().Number)
}

func (b *Browser) Page() domain.CatalogPage {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.page
}

func (b *Browser) Term() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.term
}

func (b *Browser) Loaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.loaded
}

// Product finds a product of the current page.
func (b *Browser) Product(productID int64) (domain.ProductSummary, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return lo.Find(b.page.Products, func(p domain.ProductSummary) bool {
		return p.ID == productID
	})
}

// Select fetches the details of a product on the current page and keeps the
// enriched product as the selection. The selection is unchanged on error.
func (b *Browser) Select(ctx context.Context, productID int64) (domain.ProductDetail, error) {
	summary, ok := b.Product(productID)
	if !ok {
		return domain.ProductDetail{}, fmt.Errorf("%w: %d", ErrUnknownProduct, productID)
	}

	specs, err := b.api.GetProductDetails(ctx, productID)
	if err != nil {
		return domain.ProductDetail{}, fmt.Errorf("b.api.GetProductDetails: %w", err)
	}

	detail := summary.Enrich(specs)

	b.mu.Lock()
	b.selected = &detail
	b.mu.Unlock()

	return detail, nil
}

func (b *Browser) Selected() (domain.ProductDetail, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.selected == nil {
		return domain.ProductDetail{}, false
	}
	return *b.selected, true
}
