package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/OilerRig/WebApp/internal/domain"
	"github.com/shopspring/decimal"
)

type productDTO struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	VendorName string          `json:"vendorName"`
	Price      decimal.Decimal `json:"price"`
	Stock      int64           `json:"stock"`
}

type pageMetaDTO struct {
	TotalPages int `json:"totalPages"`
	Number     int `json:"number"`
}

type productPageDTO struct {
	Content []productDTO `json:"content"`
	Page    pageMetaDTO  `json:"page"`
}

type orderItemDTO struct {
	Product  productDTO `json:"product"`
	Quantity int        `json:"quantity"`
}

type orderDTO struct {
	ID         string         `json:"id"`
	CreatedAt  string         `json:"createdAt"`
	Status     string         `json:"status"`
	OrderItems []orderItemDTO `json:"orderItems"`
}

type placeOrderDTO struct {
	OrderItemProductIDs []int64 `json:"orderItemProductIds"`
	OrderItemQuantities []int   `json:"orderItemQuantities"`
}

// createdAtLayouts covers RFC 3339 and the zone-less timestamps some
// backends emit for local date-times.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func mapProductDTOToDomain(dto productDTO) (domain.ProductSummary, error) {
	if dto.Price.IsNegative() {
		return domain.ProductSummary{}, fmt.Errorf("product[%d]: negative price %s", dto.ID, dto.Price)
	}
	if dto.Stock < 0 {
		return domain.ProductSummary{}, fmt.Errorf("product[%d]: negative stock %d", dto.ID, dto.Stock)
	}

	return domain.ProductSummary{
		ID:         dto.ID,
		Name:       dto.Name,
		VendorName: dto.VendorName,
		Price:      dto.Price,
		Stock:      dto.Stock,
	}, nil
}

func mapProductDTOsToDomain(dtos []productDTO) ([]domain.ProductSummary, error) {
	products := make([]domain.ProductSummary, 0, len(dtos))

	for _, dto := range dtos {
		product, err := mapProductDTOToDomain(dto)
		if err != nil {
			return nil, fmt.Errorf("mapProductDTOToDomain: %w", err)
		}

		products = append(products, product)
	}

	return products, nil
}

func mapProductPageDTOToDomain(dto productPageDTO) (domain.CatalogPage, error) {
	products, err := mapProductDTOsToDomain(dto.Content)
	if err != nil {
		return domain.CatalogPage{}, fmt.Errorf("mapProductDTOsToDomain: %w", err)
	}

	return domain.CatalogPage{
		Products:   products,
		TotalPages: dto.Page.TotalPages,
		Number:     dto.Page.Number,
	}, nil
}

func mapOrderDTOToDomain(dto orderDTO) (domain.Order, error) {
	var o domain.Order

	createdAt, err := parseCreatedAt(dto.CreatedAt)
	if err != nil {
		return o, fmt.Errorf("order[%s]: %w", dto.ID, err)
	}

	items := make([]domain.OrderItem, 0, len(dto.OrderItems))
	for _, itemDTO := range dto.OrderItems {
		product, err := mapProductDTOToDomain(itemDTO.Product)
		if err != nil {
			return o, fmt.Errorf("order[%s]: mapProductDTOToDomain: %w", dto.ID, err)
		}

		items = append(items, domain.OrderItem{
			Product:  product,
			Quantity: itemDTO.Quantity,
		})
	}

	return domain.Order{
		ID:        dto.ID,
		Status:    domain.OrderStatus(dto.Status),
		Items:     items,
		CreatedAt: createdAt,
	}, nil
}

func mapOrderDTOsToDomain(dtos []orderDTO) ([]domain.Order, error) {
	orders := make([]domain.Order, 0, len(dtos))

	for _, dto := range dtos {
		order, err := mapOrderDTOToDomain(dto)
		if err != nil {
			return nil, fmt.Errorf("mapOrderDTOToDomain: %w", err)
		}

		orders = append(orders, order)
	}

	return orders, nil
}

func mapPlaceOrderRequestToDTO(req domain.PlaceOrderRequest) placeOrderDTO {
	return placeOrderDTO{
		OrderItemProductIDs: req.ProductIDs,
		OrderItemQuantities: req.Quantities,
	}
}

func parseCreatedAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("createdAt[%s] is not a valid timestamp", s)
}
