package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/OilerRig/WebApp/internal/config"
	"github.com/OilerRig/WebApp/internal/logging"
	"github.com/OilerRig/WebApp/internal/port"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/text/currency"
)

// runner carries what the persistent pre-run resolved to the command that
// is being executed.
type runner struct {
	configDir string
	envName   string

	cfg      config.Config
	unit     currency.Unit
	registry *prometheus.Registry

	// transport overrides the HTTP transport of the API client, nil means
	// http.DefaultTransport
	transport http.RoundTripper
	// carts overrides the configured cart storage
	carts port.CartRepository
}

// Execute runs the storefront command line.
func Execute() {
	err := NewRootCommand().Execute()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(&runner{})
}

func newRootCommand(r *runner) *cobra.Command {
	root := &cobra.Command{
		Use:          "storefront",
		Short:        "Terminal client for the OilerRig hardware storefront",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return r.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&r.configDir, "config-dir", "configs", "directory with base.yaml and <env>.yaml")
	root.PersistentFlags().StringVar(&r.envName, "env", os.Getenv("STOREFRONT_ENV"), "config overlay to load, e.g. dev or prod")

	root.AddCommand(
		newProductsCommand(r),
		newProductCommand(r),
		newOrdersCommand(r),
		newOrderCommand(r),
		newAdminCommand(r),
		newShellCommand(r),
	)

	return root
}

func (r *runner) init(cmd *cobra.Command) error {
	cfg, err := config.Load(r.configDir, r.envName)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	unit, err := cfg.CurrencyUnit()
	if err != nil {
		return err
	}

	// The shell logs to the file alone when one is configured.
	logger, err := logging.Init(cfg.App.Name, logging.Options{
		Level:    cfg.Log.Level,
		File:     cfg.Log.File,
		Writer:   cmd.ErrOrStderr(),
		FileOnly: cmd.Name() == "shell",
	})
	if err != nil {
		return fmt.Errorf("logging.Init: %w", err)
	}

	r.cfg = cfg
	r.unit = unit
	r.registry = prometheus.NewRegistry()

	cmd.SetContext(logging.WithCtx(cmd.Context(), logger.With("command", cmd.Name())))
	return nil
}
