package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/OilerRig/WebApp/internal/logging"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"golang.org/x/text/currency"
)

const envPrefix = "STOREFRONT_"

const (
	CartStoreMemory   = "memory"
	CartStorePostgres = "postgres"
)

type Config struct {
	App struct {
		Name string `koanf:"name"`
	} `koanf:"app"`

	API struct {
		BaseURL string        `koanf:"base_url"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"api"`

	Catalog struct {
		PageSize int    `koanf:"page_size"`
		Currency string `koanf:"currency"`
	} `koanf:"catalog"`

	Auth struct {
		Audience       string `koanf:"audience"`
		RolesNamespace string `koanf:"roles_namespace"`
		// AccessToken and IDToken are used as-is when no client credentials
		// are configured.
		AccessToken  string `koanf:"access_token"`
		IDToken      string `koanf:"id_token"`
		ClientID     string `koanf:"client_id"`
		ClientSecret string `koanf:"client_secret"`
		TokenURL     string `koanf:"token_url"`
	} `koanf:"auth"`

	Cart struct {
		Store       string `koanf:"store"`
		PostgresDSN string `koanf:"postgres_dsn"`
	} `koanf:"cart"`

	Log struct {
		Level string `koanf:"level"`
		File  string `koanf:"file"`
	} `koanf:"log"`

	Metrics struct {
		Addr string `koanf:"addr"`
	} `koanf:"metrics"`
}

var defaults = map[string]any{
	"app.name":             "storefront",
	"api.base_url":         "http://localhost:8080",
	"api.timeout":          30 * time.Second,
	"catalog.page_size":    9,
	"catalog.currency":     "USD",
	"auth.audience":        "http://oilerrig.westeurope.cloudapp.azure.com",
	"auth.roles_namespace": "oilerrig",
	"cart.store":           CartStoreMemory,
	"log.level":            "info",
}

// Load layers defaults, <dir>/base.yaml, <dir>/<env>.yaml and STOREFRONT_*
// environment variables, later sources winning. Both files are optional.
// Nested keys use a double underscore, e.g. STOREFRONT_API__BASE_URL.
func Load(dir, envName string) (Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return Config{}, fmt.Errorf("k.Set[%s]: %w", key, err)
		}
	}

	if dir != "" {
		if err := loadOptionalFile(k, filepath.Join(dir, "base.yaml")); err != nil {
			return Config{}, fmt.Errorf("load base: %w", err)
		}
		if envName != "" {
			if err := loadOptionalFile(k, filepath.Join(dir, envName+".yaml")); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", envName, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadOptionalFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}

func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL: %q", c.API.BaseURL)
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}

	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("catalog.page_size must be positive")
	}

	if _, err := c.CurrencyUnit(); err != nil {
		return err
	}

	switch c.Cart.Store {
	case CartStoreMemory:
	case CartStorePostgres:
		if c.Cart.PostgresDSN == "" {
			return fmt.Errorf("cart.postgres_dsn required when cart.store is %s", CartStorePostgres)
		}
	default:
		return fmt.Errorf("cart.store must be %s or %s", CartStoreMemory, CartStorePostgres)
	}

	if c.Auth.ClientID != "" || c.Auth.ClientSecret != "" {
		if c.Auth.ClientID == "" || c.Auth.ClientSecret == "" || c.Auth.TokenURL == "" {
			return fmt.Errorf("auth.client_id, auth.client_secret and auth.token_url must be set together")
		}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

func (c Config) CurrencyUnit() (currency.Unit, error) {
	unit, err := currency.ParseISO(c.Catalog.Currency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("catalog.currency: %w", err)
	}
	return unit, nil
}

// Authenticated reports whether any credential source is configured.
func (c Config) Authenticated() bool {
	return c.Auth.AccessToken != "" || c.Auth.ClientID != ""
}
