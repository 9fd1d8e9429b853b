package repository

import (
	"context"
	"fmt"

	"github.com/OilerRig/WebApp/internal/domain"
	"github.com/OilerRig/WebApp/internal/port"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Schema of the session cart table. Lines keep the product snapshot taken
// when it was added, so a restored cart shows the price the user saw.
const Schema = `
CREATE TABLE IF NOT EXISTS cart_lines (
    session_id   UUID           NOT NULL,
    position     INT            NOT NULL,
    product_id   BIGINT         NOT NULL,
    product_name TEXT           NOT NULL,
    vendor_name  TEXT           NOT NULL,
    price        NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
    stock        BIGINT         NOT NULL CHECK (stock >= 0),
    quantity     INT            NOT NULL CHECK (quantity > 0),
    updated_at   TIMESTAMPTZ    NOT NULL DEFAULT now(),
    PRIMARY KEY (session_id, product_id)
);

CREATE INDEX IF NOT EXISTS cart_lines_session_position_idx ON cart_lines (session_id, position);
`

const (
	getCartSQL = `
SELECT product_id, product_name, vendor_name, price, stock, quantity
FROM cart_lines
WHERE session_id = $1
ORDER BY position`

	insertLineSQL = `
INSERT INTO cart_lines (session_id, position, product_id, product_name, vendor_name, price, stock, quantity)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	deleteCartSQL = `DELETE FROM cart_lines WHERE session_id = $1`
)

type cartRepository struct {
	db DBTX
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{db: pool}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{db: tx}
}

// Migrate creates the cart table when it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	return nil
}

type cartLineRow struct {
	ProductID   int64
	ProductName string
	VendorName  string
	Price       decimal.Decimal
	Stock       int64
	Quantity    int
}

func (r *cartRepository) GetCart(ctx context.Context, sessionID uuid.UUID) ([]domain.CartLine, error) {
	rows, err := r.db.Query(ctx, getCartSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}

	dbRows, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (cartLineRow, error) {
		var l cartLineRow
		err := row.Scan(&l.ProductID, &l.ProductName, &l.VendorName, &l.Price, &l.Stock, &l.Quantity)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}

	return mapCartLineRowsToDomain(dbRows), nil
}

// SaveCart replaces the stored lines of the session in one transaction.
// Saving no lines leaves the session without a cart.
func (r *cartRepository) SaveCart(ctx context.Context, sessionID uuid.UUID, lines []domain.CartLine) error {
	for i, line := range lines {
		if line.Quantity <= 0 {
			return fmt.Errorf("line[%d]: invalid quantity %d", i, line.Quantity)
		}
	}

	_, err := withTx(ctx, r.db, func(tx DBTX) (struct{}, error) {
		if _, err := tx.Exec(ctx, deleteCartSQL, sessionID); err != nil {
			return struct{}{}, fmt.Errorf("tx.Exec delete: %w", err)
		}

		for i, line := range lines {
			p := line.Product
			if _, err := tx.Exec(ctx, insertLineSQL,
				sessionID, i, p.ID, p.Name, p.VendorName, p.Price, p.Stock, line.Quantity); err != nil {
				return struct{}{}, fmt.Errorf("tx.Exec insert[%d]: %w", i, err)
			}
		}

		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteCart(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, deleteCartSQL, sessionID)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func mapCartLineRowToDomain(row cartLineRow) domain.CartLine {
	return domain.CartLine{
		Product: domain.ProductSummary{
			ID:         row.ProductID,
			Name:       row.ProductName,
			VendorName: row.VendorName,
			Price:      row.Price,
			Stock:      row.Stock,
		},
		Quantity: row.Quantity,
	}
}

func mapCartLineRowsToDomain(rows []cartLineRow) []domain.CartLine {
	lines := make([]domain.CartLine, 0, len(rows))

	for _, row := range rows {
		lines = append(lines, mapCartLineRowToDomain(row))
	}

	return lines
}
