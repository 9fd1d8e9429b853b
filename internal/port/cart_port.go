package port

import (
	"context"

	"github.com/OilerRig/WebApp/internal/domain"
	"github.com/google/uuid"
)

// CartRepository persists the grouped cart of a shopping session.
type CartRepository interface {
	GetCart(ctx context.Context, sessionID uuid.UUID) ([]domain.CartLine, error)
	SaveCart(ctx context.Context, sessionID uuid.UUID, lines []domain.CartLine) error
	DeleteCart(ctx context.Context, sessionID uuid.UUID) (bool, error)
}
