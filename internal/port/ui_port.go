package port

import (
	"context"

	"github.com/OilerRig/WebApp/internal/domain"
)

// Notifier surfaces outcomes of user actions.
type Notifier interface {
	Success(ctx context.Context, title, text string)
	Error(ctx context.Context, title, text string)
}

// Confirmer asks the user to confirm a destructive or privileged action.
type Confirmer interface {
	Confirm(ctx context.Context, title, text string) (bool, error)
}

type Navigator interface {
	Navigate(ctx context.Context, view domain.View) error
}
