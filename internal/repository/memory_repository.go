package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/OilerRig/WebApp/internal/domain"
	"github.com/OilerRig/WebApp/internal/port"
	"github.com/google/uuid"
)

// memoryCartRepository keeps session carts for the lifetime of the process.
type memoryCartRepository struct {
	mu    sync.RWMutex
	carts map[uuid.UUID][]domain.CartLine
}

var _ port.CartRepository = (*memoryCartRepository)(nil)

func NewMemoryCart() port.CartRepository {
	return &memoryCartRepository{
		carts: make(map[uuid.UUID][]domain.CartLine),
	}
}

func (m *memoryCartRepository) GetCart(_ context.Context, sessionID uuid.UUID) ([]domain.CartLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.carts[sessionID]), nil
}

func (m *memoryCartRepository) SaveCart(_ context.Context, sessionID uuid.UUID, lines []domain.CartLine) error {
	for i, line := range lines {
		if line.Quantity <= 0 {
			return fmt.Errorf("line[%d]: invalid quantity %d", i, line.Quantity)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(lines) == 0 {
		delete(m.carts, sessionID)
		return nil
	}
	m.carts[sessionID] = slices.Clone(lines)
	return nil
}

func (m *memoryCartRepository) DeleteCart(_ context.Context, sessionID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.carts[sessionID]
	delete(m.carts, sessionID)
	return ok, nil
}
