package cli

import (
	"context"
	"fmt"

	"github.com/OilerRig/WebApp/internal/api"
	"github.com/OilerRig/WebApp/internal/app"
	"github.com/OilerRig/WebApp/internal/auth"
	"github.com/OilerRig/WebApp/internal/config"
	"github.com/OilerRig/WebApp/internal/logging"
	"github.com/OilerRig/WebApp/internal/port"
	"github.com/OilerRig/WebApp/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type buildOptions struct {
	// persistCart restores and saves the cart of sessionID
	persistCart bool
	sessionID   uuid.UUID
}

// build wires the API client, credentials and cart storage into an App.
// cleanup releases the cart storage and is never nil.
func (r *runner) build(ctx context.Context, term *Terminal, opts buildOptions) (*app.App, func(), error) {
	noop := func() {}

	client, err := api.New(api.Config{
		BaseURL:   r.cfg.API.BaseURL,
		Timeout:   r.cfg.API.Timeout,
		Metrics:   api.NewMetrics(r.registry),
		Transport: r.transport,
	})
	if err != nil {
		return nil, noop, fmt.Errorf("api.New: %w", err)
	}

	tokens, err := tokenSource(r.cfg)
	if err != nil {
		return nil, noop, fmt.Errorf("tokenSource: %w", err)
	}

	var (
		carts   port.CartRepository
		cleanup = noop
	)
	switch {
	case opts.persistCart && r.carts != nil:
		carts = r.carts
	case opts.persistCart:
		carts, cleanup, err = openCarts(ctx, r.cfg)
		if err != nil {
			return nil, noop, fmt.Errorf("openCarts: %w", err)
		}
	}

	sessionID := opts.sessionID
	if sessionID == uuid.Nil {
		sessionID = uuid.New()
	}

	a, err := app.New(ctx, app.Deps{
		Catalog:   client,
		Orders:    client,
		Admin:     client,
		Tokens:    tokens,
		Identity:  resolveIdentity(ctx, r.cfg, tokens),
		Carts:     carts,
		SessionID: sessionID,
		Notifier:  term,
		Confirmer: term,
		PageSize:  r.cfg.Catalog.PageSize,
		Currency:  r.unit,
	})
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("app.New: %w", err)
	}

	return a, cleanup, nil
}

// tokenSource returns nil when no credentials are configured, which makes
// the client a guest.
func tokenSource(cfg config.Config) (port.TokenSource, error) {
	switch {
	case cfg.Auth.ClientID != "":
		source, err := auth.NewClientCredentialsSource(auth.ClientCredentialsConfig{
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
			TokenURL:     cfg.Auth.TokenURL,
			Audience:     cfg.Auth.Audience,
		})
		if err != nil {
			return nil, fmt.Errorf("auth.NewClientCredentialsSource: %w", err)
		}
		return source, nil
	case cfg.Auth.AccessToken != "":
		return auth.StaticSource(cfg.Auth.AccessToken), nil
	}

	return nil, nil
}

// resolveIdentity reads roles from the configured ID token, or from an
// access token when there is none. An unreadable token yields no identity,
// the user then keeps the non-admin views.
func resolveIdentity(ctx context.Context, cfg config.Config, tokens port.TokenSource) *auth.Identity {
	if tokens == nil {
		return nil
	}
	log := logging.FromCtx(ctx).With("method", "resolveIdentity")

	raw := cfg.Auth.IDToken
	if raw == "" {
		token, err := tokens.Token(ctx)
		if err != nil {
			log.Warn("fetch token failed", "error", err)
			return nil
		}
		raw = token
	}

	identity, err := auth.ParseIdentity(raw, cfg.Auth.RolesNamespace)
	if err != nil {
		log.Warn("parse identity failed", "error", err)
		return nil
	}

	return &identity
}

func openCarts(ctx context.Context, cfg config.Config) (port.CartRepository, func(), error) {
	if cfg.Cart.Store != config.CartStorePostgres {
		return repository.NewMemoryCart(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.Cart.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("pool.Ping: %w", err)
	}

	if err := repository.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("repository.Migrate: %w", err)
	}

	return repository.NewCart(pool), pool.Close, nil
}
