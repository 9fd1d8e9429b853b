package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/OilerRig/WebApp/internal/admin"
	"github.com/OilerRig/WebApp/internal/api"
	"github.com/OilerRig/WebApp/internal/app"
	"github.com/OilerRig/WebApp/internal/checkout"
	"github.com/OilerRig/WebApp/internal/config"
	"github.com/OilerRig/WebApp/internal/domain"
	"github.com/OilerRig/WebApp/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	ErrSessionNeedsStore = errors.New("--session needs cart.store=postgres")

	errQuit = errors.New("quit")
)

func newShellCommand(r *runner) *cobra.Command {
	var (
		session     string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Browse, shop and check out interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var sessionID uuid.UUID
			if session != "" {
				id, err := uuid.Parse(session)
				if err != nil {
					return fmt.Errorf("invalid session %q: %w", session, err)
				}
				if r.carts == nil && r.cfg.Cart.Store != config.CartStorePostgres {
					return ErrSessionNeedsStore
				}
				sessionID = id
			}

			term := newTerminal(cmd, false)
			a, cleanup, err := r.build(ctx, term, buildOptions{persistCart: true, sessionID: sessionID})
			if err != nil {
				return err
			}
			defer cleanup()

			if !cmd.Flags().Changed("metrics-addr") {
				metricsAddr = r.cfg.Metrics.Addr
			}
			if metricsAddr != "" {
				stop := serveMetrics(ctx, metricsAddr, r.registry)
				defer stop()
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Session %s. Type help for commands.\n", a.SessionID())
			return newShell(a, term, cmd.OutOrStdout(), r).run(ctx)
		},
	}

	cmd.Flags().StringVar(&session, "session", "", "resume the cart of an earlier session, needs cart.store=postgres")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	return cmd
}

// serveMetrics exposes the API client metrics until stop is called.
func serveMetrics(ctx context.Context, addr string, registry *prometheus.Registry) (stop func()) {
	log := logging.FromCtx(ctx).With("method", "serveMetrics", "addr", addr)

	router := gin.New()
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "error", err)
		}
	}()
	log.Info("serving metrics")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown failed", "error", err)
		}
	}
}

type shellCommand struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

// shell is the interactive event loop: one command at a time, each command
// acting on the App the way a click does in the browser client.
type shell struct {
	app      *app.App
	term     *Terminal
	out      io.Writer
	r        *runner
	commands map[string]shellCommand
}

func newShell(a *app.App, term *Terminal, out io.Writer, r *runner) *shell {
	s := &shell{app: a, term: term, out: out, r: r}

	s.commands = map[string]shellCommand{
		"help":     {"help", s.help},
		"quit":     {"quit", func(context.Context, []string) error { return errQuit }},
		"go":       {"go <home|store|product|checkout|payment|orders|admin>", s.navigate},
		"products": {"products", s.products},
		"next":     {"next", s.pageMove(a.Catalog.Next)},
		"prev":     {"prev", s.pageMove(a.Catalog.Prev)},
		"page":     {"page <n>", s.gotoPage},
		"search":   {"search <term>", s.search},
		"reload":   {"reload", s.pageMove(a.Catalog.Reload)},
		"show":     {"show <product-id>", s.show},
		"add":      {"add [product-id]", s.add},
		"cart":     {"cart", s.cart},
		"inc":      {"inc <product-id>", s.changeQuantity(1)},
		"dec":      {"dec <product-id>", s.changeQuantity(-1)},
		"remove":   {"remove <product-id>", s.remove},
		"clear":    {"clear", s.clear},
		"set":      {"set <field> <value>", s.setField},
		"form":     {"form", s.form},
		"pay":      {"pay", s.pay},
		"orders":   {"orders", s.orders},
		"filter":   {"filter <all|completed|pending>", s.filter},
		"expand":   {"expand <order-id>", s.expand},
		"lookup":   {"lookup <order-id>", s.lookup},
		"admin":    {"admin <" + strings.Join(actionNames(), "|") + ">", s.adminAction},
	}
	s.commands["exit"] = s.commands["quit"]

	return s
}

func (s *shell) run(ctx context.Context) error {
	for {
		s.term.Prompt(fmt.Sprintf("%s [cart: %d]> ", s.app.View(), s.app.CartCount()))

		line, err := s.term.ReadLine()
		if errors.Is(err, ErrInputClosed) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.handle(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			if api.IsNetwork(err) {
				fmt.Fprintf(s.out, "error: storefront API unreachable at %s: %v\n", s.r.cfg.API.BaseURL, err)
				continue
			}
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

func (s *shell) handle(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	cmd, ok := s.commands[strings.ToLower(fields[0])]
	if !ok {
		return fmt.Errorf("unknown command %q, try help", fields[0])
	}

	return cmd.run(ctx, fields[1:])
}

func (s *shell) help(context.Context, []string) error {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	slices.Sort(names)

	tw := newTable(s.out)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", name, s.commands[name].usage)
	}
	return tw.Flush()
}

func (s *shell) navigate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: go <view>")
	}

	view, err := domain.ToView(strings.ToLower(args[0]))
	if err != nil {
		return fmt.Errorf("%w: %q", err, args[0])
	}

	if err := s.app.Navigate(ctx, view); err != nil {
		return err
	}
	return s.renderView()
}

// renderView prints what the current view shows on mount.
func (s *shell) renderView() error {
	switch s.app.View() {
	case domain.ViewStore:
		renderPage(s.out, s.app.Catalog.Page(), s.app.Catalog.Term(), s.r.unit)
	case domain.ViewProduct:
		if detail, ok := s.app.Catalog.Selected(); ok {
			renderProduct(s.out, detail, s.r.unit)
		}
	case domain.ViewCheckout:
		renderCart(s.out, s.app.Cart.Grouped(), s.app.Cart.Total(s.r.unit))
	case domain.ViewPayment:
		summary := s.app.Checkout.Summary()
		renderCart(s.out, summary.Lines, summary.Total)
		renderForm(s.out, s.app.Checkout.Form())
	case domain.ViewOrders:
		store := s.app.Orders()
		renderOrders(s.out, store.Filtered(), store.Expanded(), s.r.unit)
	case domain.ViewAdmin:
		store := s.app.Admin.Orders()
		renderOrders(s.out, store.Filtered(), store.Expanded(), s.r.unit)
	default:
		fmt.Fprintln(s.out, "OilerRig hardware store. Try: go store")
	}
	return nil
}

func (s *shell) products(ctx context.Context, _ []string) error {
	return s.navigate(ctx, []string{string(domain.ViewStore)})
}

func (s *shell) pageMove(move func(context.Context) error) func(context.Context, []string) error {
	return func(ctx context.Context, _ []string) error {
		if err := s.app.Navigate(ctx, domain.ViewStore); err != nil {
			return err
		}
		if err := move(ctx); err != nil {
			return err
		}
		return s.renderView()
	}
}

func (s *shell) gotoPage(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: page <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid page %q", args[0])
	}

	if err := s.app.Navigate(ctx, domain.ViewStore); err != nil {
		return err
	}
	if err := s.app.Catalog.Goto(ctx, n-1); err != nil {
		return err
	}
	return s.renderView()
}

func (s *shell) search(ctx context.Context, args []string) error {
	if err := s.app.Catalog.Search(ctx, strings.Join(args, " ")); err != nil {
		return err
	}
	return s.navigate(ctx, []string{string(domain.ViewStore)})
}

func (s *shell) show(ctx context.Context, args []string) error {
	id, err := productArg(args)
	if err != nil {
		return err
	}

	if _, err := s.app.SelectProduct(ctx, id); err != nil {
		return err
	}
	return s.renderView()
}

// add puts one unit in the cart, the selected product when no id is given.
func (s *shell) add(ctx context.Context, args []string) error {
	var product domain.ProductSummary

	if len(args) == 0 {
		detail, ok := s.app.Catalog.Selected()
		if !ok {
			return app.ErrNoProductSelected
		}
		product = detail.ProductSummary
	} else {
		id, err := productArg(args)
		if err != nil {
			return err
		}
		found, ok := s.app.Catalog.Product(id)
		if !ok {
			return fmt.Errorf("product %d is not on the current page", id)
		}
		product = found
	}

	s.app.AddToCart(ctx, product)
	fmt.Fprintf(s.out, "Added %s.\n", product.Name)
	return nil
}

func (s *shell) cart(context.Context, []string) error {
	renderCart(s.out, s.app.Cart.Grouped(), s.app.Cart.Total(s.r.unit))
	return nil
}

func (s *shell) changeQuantity(delta int) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		id, err := productArg(args)
		if err != nil {
			return err
		}
		s.app.ChangeQuantity(ctx, id, delta)
		return s.cart(ctx, nil)
	}
}

func (s *shell) remove(ctx context.Context, args []string) error {
	id, err := productArg(args)
	if err != nil {
		return err
	}
	s.app.RemoveFromCart(ctx, id)
	return s.cart(ctx, nil)
}

func (s *shell) clear(ctx context.Context, _ []string) error {
	s.app.ClearCart(ctx)
	return s.cart(ctx, nil)
}

func (s *shell) setField(_ context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: set <field> <value>")
	}

	field, err := checkout.ToField(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q", err, args[0])
	}

	return s.app.Checkout.Set(field, strings.Join(args[1:], " "))
}

func (s *shell) form(context.Context, []string) error {
	renderForm(s.out, s.app.Checkout.Form())
	fmt.Fprintf(s.out, "State: %s\n", s.app.Checkout.State())
	return nil
}

func (s *shell) pay(ctx context.Context, _ []string) error {
	if s.app.View() != domain.ViewPayment {
		if err := s.app.Navigate(ctx, domain.ViewPayment); err != nil {
			return err
		}
	}

	if _, err := s.app.PlaceOrder(ctx); err != nil {
		if errors.Is(err, checkout.ErrFormInvalid) {
			renderForm(s.out, s.app.Checkout.Form())
		}
		return err
	}
	return s.renderView()
}

func (s *shell) orders(ctx context.Context, _ []string) error {
	return s.navigate(ctx, []string{string(domain.ViewOrders)})
}

func (s *shell) filter(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: filter <status>")
	}

	filter, err := domain.ToStatusFilter(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q", err, args[0])
	}

	s.orderStore().SetFilter(filter)
	return s.renderView()
}

func (s *shell) expand(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: expand <order-id>")
	}

	s.orderStore().Toggle(args[0])
	return s.renderView()
}

// orderStore is the list the current view shows, admin or own orders.
func (s *shell) orderStore() orderList {
	if s.app.View() == domain.ViewAdmin && s.app.Admin != nil {
		return s.app.Admin.Orders()
	}
	return s.app.Orders()
}

type orderList interface {
	SetFilter(filter domain.StatusFilter)
	Toggle(orderID string) bool
}

func (s *shell) lookup(ctx context.Context, args []string) error {
	if s.app.View() != domain.ViewOrders {
		if err := s.app.Navigate(ctx, domain.ViewOrders); err != nil {
			return err
		}
	}

	if _, err := s.app.LookupOrder(ctx, strings.Join(args, " ")); err != nil {
		return err
	}
	return s.renderView()
}

func (s *shell) adminAction(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: admin <%s>", strings.Join(actionNames(), "|"))
	}

	action, err := admin.ParseAction(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q", err, args[0])
	}

	if s.app.View() != domain.ViewAdmin {
		if err := s.app.Navigate(ctx, domain.ViewAdmin); err != nil {
			return err
		}
	}

	result, err := s.app.Admin.Run(ctx, action)
	if err != nil {
		return err
	}
	if !result.Confirmed {
		fmt.Fprintln(s.out, "Cancelled.")
		return nil
	}
	return s.renderView()
}

func productArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("a product id is required")
	}
	return parseProductID(args[0])
}
