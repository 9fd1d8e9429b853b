package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/OilerRig/WebApp/internal/admin"
	"github.com/OilerRig/WebApp/internal/app"
	"github.com/OilerRig/WebApp/internal/domain"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var ErrGuest = errors.New("no credentials configured, guests can only look up single orders")

func newProductsCommand(r *runner) *cobra.Command {
	var (
		page   int
		search string
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List a page of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, cleanup, err := r.build(ctx, newTerminal(cmd, false), buildOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			if err := loadCatalog(ctx, a, search, page); err != nil {
				return err
			}

			renderPage(cmd.OutOrStdout(), a.Catalog.Page(), a.Catalog.Term(), r.unit)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().StringVar(&search, "search", "", "filter products by name")

	return cmd
}

func newProductCommand(r *runner) *cobra.Command {
	var (
		page   int
		search string
	)

	cmd := &cobra.Command{
		Use:   "product <id>",
		Short: "Show the details of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, cleanup, err := r.build(ctx, newTerminal(cmd, false), buildOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			if err := loadCatalog(ctx, a, search, page); err != nil {
				return err
			}

			detail, err := a.SelectProduct(ctx, id)
			if err != nil {
				return err
			}

			renderProduct(cmd.OutOrStdout(), detail, r.unit)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "catalog page the product is listed on")
	cmd.Flags().StringVar(&search, "search", "", "search term the page was listed with")

	return cmd
}

func newOrdersCommand(r *runner) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := domain.ToStatusFilter(status)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, cleanup, err := r.build(ctx, newTerminal(cmd, false), buildOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			if !a.Authenticated() {
				return ErrGuest
			}
			if err := a.Navigate(ctx, domain.ViewOrders); err != nil {
				return err
			}

			a.Orders().SetFilter(filter)
			renderOrders(cmd.OutOrStdout(), a.Orders().Filtered(), "", r.unit)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", string(domain.StatusFilterAll), "all, completed or pending")

	return cmd
}

func newOrderCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Work with a single order",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "lookup <order-id>",
		Short: "Look up an order by id, no sign-in needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, cleanup, err := r.build(ctx, newTerminal(cmd, false), buildOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			order, err := a.LookupOrder(ctx, args[0])
			if err != nil {
				return err
			}

			renderOrders(cmd.OutOrStdout(), []domain.Order{order}, order.ID, r.unit)
			return nil
		},
	})

	return cmd
}

func newAdminCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative operations, ROLE_ADMIN required",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "orders",
		Short: "List the orders of all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, cleanup, err := r.build(ctx, newTerminal(cmd, false), buildOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.Navigate(ctx, domain.ViewAdmin); err != nil {
				return err
			}

			renderOrders(cmd.OutOrStdout(), a.Admin.Orders().Orders(), "", r.unit)
			return nil
		},
	})

	var assumeYes bool
	run := &cobra.Command{
		Use:       "run <action>",
		Short:     "Run a maintenance action",
		Long:      "Run a maintenance action: " + strings.Join(actionNames(), ", ") + ".\nEach action asks for confirmation first unless --yes is given.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: actionNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := admin.ParseAction(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}

			ctx := cmd.Context()
			a, cleanup, err := r.build(ctx, newTerminal(cmd, assumeYes), buildOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.Navigate(ctx, domain.ViewAdmin); err != nil {
				return err
			}

			return runAdminAction(ctx, cmd, a, action)
		},
	}
	run.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt, for scripted use")
	cmd.AddCommand(run)

	return cmd
}

func runAdminAction(ctx context.Context, cmd *cobra.Command, a *app.App, action admin.Action) error {
	result, err := a.Admin.Run(ctx, action)
	if err != nil {
		return err
	}
	if !result.Confirmed {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
	}
	return nil
}

func newTerminal(cmd *cobra.Command, assumeYes bool) *Terminal {
	return NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), assumeYes)
}

// loadCatalog mounts the store view on a 1-based page, optionally filtered.
func loadCatalog(ctx context.Context, a *app.App, search string, page int) error {
	if page < 1 {
		return fmt.Errorf("page must be at least 1: %d", page)
	}

	if search != "" {
		if err := a.Catalog.Search(ctx, search); err != nil {
			return err
		}
	}
	if err := a.Navigate(ctx, domain.ViewStore); err != nil {
		return err
	}
	if page > 1 {
		return a.Catalog.Goto(ctx, page-1)
	}
	return nil
}

func parseProductID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", s)
	}
	return id, nil
}

func actionNames() []string {
	return lo.Map(admin.Actions(), func(a admin.Action, _ int) string { return string(a) })
}
