package port

import "context"

// TokenSource hands out bearer credentials for the configured audience.
// Implementations must not cache: callers ask for a token before every
// authenticated request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
