package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/OilerRig/WebApp/internal/port"
	"golang.org/x/oauth2/clientcredentials"
)

var ErrNoCredentials = errors.New("no credentials configured")

var (
	_ port.TokenSource = StaticSource("")
	_ port.TokenSource = (*ClientCredentialsSource)(nil)
)

// StaticSource returns a pre-issued access token, e.g. one pasted from the
// identity provider's login flow.
type StaticSource string

func (s StaticSource) Token(_ context.Context) (string, error) {
	if s == "" {
		return "", ErrNoCredentials
	}
	return string(s), nil
}

type ClientCredentialsConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Audience     string
}

// ClientCredentialsSource requests a new audience-scoped token from the
// identity provider on every call.
type ClientCredentialsSource struct {
	cfg clientcredentials.Config
}

func NewClientCredentialsSource(cfg ClientCredentialsConfig) (*ClientCredentialsSource, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrNoCredentials
	}
	if _, err := url.ParseRequestURI(cfg.TokenURL); err != nil {
		return nil, fmt.Errorf("token URL is invalid: %w", err)
	}

	params := url.Values{}
	if cfg.Audience != "" {
		params.Set("audience", cfg.Audience)
	}

	return &ClientCredentialsSource{
		cfg: clientcredentials.Config{
			ClientID:       cfg.ClientID,
			ClientSecret:   cfg.ClientSecret,
			TokenURL:       cfg.TokenURL,
			EndpointParams: params,
		},
	}, nil
}

func (s *ClientCredentialsSource) Token(ctx context.Context) (string, error) {
	// Config.Token hits the token endpoint every time.
	tok, err := s.cfg.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("s.cfg.Token: %w", err)
	}

	return tok.AccessToken, nil
}
