package domain_test

import (
	"testing"

	"github.com/OilerRig/WebApp/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestPlaceOrderRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       domain.PlaceOrderRequest
		wantError string
	}{
		{
			name: "two items: ok",
			req:  domain.PlaceOrderRequest{ProductIDs: []int64{1, 2}, Quantities: []int{3, 1}},
		},
		{
			name:      "empty: fail",
			req:       domain.PlaceOrderRequest{},
			wantError: "no items in order",
		},
		{
			name:      "length mismatch: fail",
			req:       domain.PlaceOrderRequest{ProductIDs: []int64{1, 2}, Quantities: []int{1}},
			wantError: "ids and quantities length mismatch: 2 != 1",
		},
		{
			name:      "zero id: fail",
			req:       domain.PlaceOrderRequest{ProductIDs: []int64{0}, Quantities: []int{1}},
			wantError: "item[0]: invalid product id 0",
		},
		{
			name:      "zero quantity: fail",
			req:       domain.PlaceOrderRequest{ProductIDs: []int64{1, 2}, Quantities: []int{1, 0}},
			wantError: "item[1]: invalid quantity 0",
		},
		{
			name:      "duplicate id: fail",
			req:       domain.PlaceOrderRequest{ProductIDs: []int64{4, 4}, Quantities: []int{1, 1}},
			wantError: "duplicate product ids",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewPlaceOrderRequest(t *testing.T) {
	lines := []domain.CartLine{
		{Product: domain.ProductSummary{ID: 7}, Quantity: 2},
		{Product: domain.ProductSummary{ID: 3}, Quantity: 5},
	}

	req := domain.NewPlaceOrderRequest(lines)
	assert.Equal(t, []int64{7, 3}, req.ProductIDs)
	assert.Equal(t, []int{2, 5}, req.Quantities)
	require.NoError(t, req.Validate())
}

func TestToStatusFilter(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      domain.StatusFilter
		wantError string
	}{
		{name: "completed: ok", input: "completed", want: domain.StatusFilterCompleted},
		{name: "mixed case pending: ok", input: " Pending ", want: domain.StatusFilterPending},
		{name: "empty means all: ok", input: "", want: domain.StatusFilterAll},
		{name: "cancelled: fail", input: "cancelled", wantError: "invalid status filter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := domain.ToStatusFilter(tt.input)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, actual)
		})
	}
}

func TestStatusFilter_Match(t *testing.T) {
	assert.True(t, domain.StatusFilterAll.Match("shipped"))
	assert.True(t, domain.StatusFilterCompleted.Match("COMPLETED"))
	assert.False(t, domain.StatusFilterCompleted.Match(domain.OrderStatusPending))
	assert.False(t, domain.StatusFilterPending.Match("shipped"))
}

func TestToView(t *testing.T) {
	view, err := domain.ToView("payment")
	require.NoError(t, err)
	assert.Equal(t, domain.ViewPayment, view)

	_, err = domain.ToView("settings")
	require.EqualError(t, err, "invalid view")
}

func TestMoney_String(t *testing.T) {
	m := domain.NewMoney(decimal.NewFromInt(25), currency.USD)
	assert.Equal(t, "USD 25.00", m.String())

	sum := m.Add(domain.NewMoney(decimal.RequireFromString("0.5"), currency.USD))
	assert.Equal(t, "USD 25.50", sum.String())
}

func TestOrder_Total(t *testing.T) {
	order := domain.Order{Items: []domain.OrderItem{
		{Product: domain.ProductSummary{Price: decimal.RequireFromString("10.10")}, Quantity: 3},
		{Product: domain.ProductSummary{Price: decimal.RequireFromString("0.70")}, Quantity: 1},
	}}

	assert.Equal(t, "31.00", order.Total().StringFixed(2))
	assert.True(t, domain.Order{}.Total().IsZero())
}

func TestCatalogPage_Bounds(t *testing.T) {
	tests := []struct {
		name     string
		page     domain.CatalogPage
		wantNext bool
		wantPrev bool
	}{
		{name: "first of three", page: domain.CatalogPage{TotalPages: 3, Number: 0}, wantNext: true},
		{name: "middle of three", page: domain.CatalogPage{TotalPages: 3, Number: 1}, wantNext: true, wantPrev: true},
		{name: "last of three", page: domain.CatalogPage{TotalPages: 3, Number: 2}, wantPrev: true},
		{name: "empty catalog", page: domain.CatalogPage{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantNext, tt.page.HasNext())
			assert.Equal(t, tt.wantPrev, tt.page.HasPrev())
		})
	}
}

func TestProductSummary_Enrich(t *testing.T) {
	specs := map[string]string{"memory": "24GB", "bus": "PCIe 4.0"}
	product := domain.ProductSummary{ID: 1, Stock: 1}

	detail := product.Enrich(specs)
	specs["memory"] = "changed"

	assert.Equal(t, "24GB", detail.Specs["memory"])
	assert.Equal(t, []string{"bus", "memory"}, detail.SpecKeys())
	assert.True(t, detail.InStock())
}

func TestCartLine_InStock(t *testing.T) {
	line := domain.CartLine{Product: domain.ProductSummary{Stock: 2, Price: decimal.NewFromInt(4)}, Quantity: 2}
	assert.True(t, line.InStock())
	assert.Equal(t, "8", line.Subtotal().String())

	line.Quantity = 3
	assert.False(t, line.InStock())
}
