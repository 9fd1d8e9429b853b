package api

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreatedAt(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      time.Time
		wantError string
	}{
		{
			name:  "rfc3339 with zone: ok",
			input: "2025-06-01T12:00:00+02:00",
			want:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "local date time with fraction: ok",
			input: "2025-06-01T12:00:00.5",
			want:  time.Date(2025, 6, 1, 12, 0, 0, 500_000_000, time.UTC),
		},
		{
			name:  "space separated: ok",
			input: " 2025-06-01 12:00:00 ",
			want:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:  "empty: ok",
			input: "",
		},
		{
			name:      "garbage: fail",
			input:     "yesterday",
			wantError: "createdAt[yesterday] is not a valid timestamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := parseCreatedAt(tt.input)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(actual), "want %s, got %s", tt.want, actual)
		})
	}
}

func TestMapProductDTOToDomain(t *testing.T) {
	tests := []struct {
		name      string
		dto       productDTO
		wantError string
	}{
		{
			name: "valid product: ok",
			dto:  productDTO{ID: 1, Name: "RTX", Price: decimal.RequireFromString("10.50"), Stock: 2},
		},
		{
			name:      "negative price: fail",
			dto:       productDTO{ID: 2, Price: decimal.NewFromInt(-1)},
			wantError: "product[2]: negative price -1",
		},
		{
			name:      "negative stock: fail",
			dto:       productDTO{ID: 3, Stock: -4},
			wantError: "product[3]: negative stock -4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := mapProductDTOToDomain(tt.dto)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dto.ID, actual.ID)
			assert.True(t, tt.dto.Price.Equal(actual.Price))
		})
	}
}

func TestMapOrderDTOToDomain_BadItem(t *testing.T) {
	_, err := mapOrderDTOToDomain(orderDTO{
		ID:         "o-1",
		OrderItems: []orderItemDTO{{Product: productDTO{ID: 5, Stock: -1}, Quantity: 1}},
	})
	require.EqualError(t, err, "order[o-1]: mapProductDTOToDomain: product[5]: negative stock -1")
}
