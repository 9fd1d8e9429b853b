package admin_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/OilerRig/WebApp/internal/admin"
	"github.com/OilerRig/WebApp/internal/api"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestConsole(t *testing.T) {
	defer goleak.VerifyNone(t)

	backend := newAdminBackend()
	srv := httptest.NewServer(backend.router())
	defer srv.Close()

	transport := &http.Transport{}
	defer transport.CloseIdleConnections()

	client, err := api.New(api.Config{BaseURL: srv.URL, Transport: transport})
	require.NoError(t, err)

	t.Run("actions hit their endpoints with a fresh token: ok", func(t *testing.T) {
		tests := []struct {
			action   admin.Action
			wantCall string
			wantText string
		}{
			{action: admin.ActionInitVendors, wantCall: "GET /admin/caches/vendors", wantText: "Vendors initialized"},
			{action: admin.ActionResetCaches, wantCall: "GET /admin/caches/reset", wantText: "Caches reset"},
			{action: admin.ActionSyncCaches, wantCall: "GET /admin/caches/sync", wantText: "Caches synced"},
			{action: admin.ActionDeleteOrders, wantCall: "DELETE /orders", wantText: "All orders deleted"},
		}

		for _, tt := range tests {
			t.Run(string(tt.action), func(t *testing.T) {
				backend.reset()
				tokens := &countingTokens{}
				notes := &recordingNotifier{}
				confirmer := &fakeConfirmer{answer: true}
				console := admin.NewConsole(client, tokens, confirmer, notes)

				res, err := console.Run(t.Context(), tt.action)
				require.NoError(t, err)

				assert.True(t, res.Confirmed)
				assert.Equal(t, tt.wantText, res.Message)
				assert.Equal(t, []string{tt.action.Warning()}, confirmer.prompts)
				assert.Contains(t, backend.calls(), tt.wantCall)
				assert.Equal(t, []string{tt.wantText}, notes.success)
				assert.Empty(t, notes.errors)
				assert.Equal(t, "Bearer token-1", backend.authOf(tt.wantCall))
			})
		}
	})

	t.Run("declined prompt sends nothing: ok", func(t *testing.T) {
		backend.reset()
		tokens := &countingTokens{}
		notes := &recordingNotifier{}
		console := admin.NewConsole(client, tokens, &fakeConfirmer{answer: false}, notes)

		res, err := console.Run(t.Context(), admin.ActionDeleteOrders)
		require.NoError(t, err)

		assert.False(t, res.Confirmed)
		assert.Empty(t, backend.calls())
		assert.Zero(t, tokens.calls)
		assert.Empty(t, notes.success)
	})

	t.Run("delete clears the list without re-fetch: ok", func(t *testing.T) {
		backend.reset()
		notes := &recordingNotifier{}
		console := admin.NewConsole(client, &countingTokens{}, &fakeConfirmer{answer: true}, notes)

		require.NoError(t, console.LoadOrders(t.Context()))
		assert.Len(t, console.Orders().Orders(), 2)

		_, err := console.Run(t.Context(), admin.ActionDeleteOrders)
		require.NoError(t, err)

		assert.Empty(t, console.Orders().Orders())
		assert.Equal(t, []string{"GET /admin/orders", "DELETE /orders"}, backend.calls())
	})

	t.Run("sync re-fetches the list: ok", func(t *testing.T) {
		backend.reset()
		tokens := &countingTokens{}
		console := admin.NewConsole(client, tokens, &fakeConfirmer{answer: true}, &recordingNotifier{})

		_, err := console.Run(t.Context(), admin.ActionSyncCaches)
		require.NoError(t, err)

		assert.Equal(t, []string{"GET /admin/caches/sync", "GET /admin/orders"}, backend.calls())
		assert.Len(t, console.Orders().Orders(), 2)
		assert.Equal(t, 2, tokens.calls, "one token per request")
	})

	t.Run("server error notifies generically: fail", func(t *testing.T) {
		backend.reset()
		backend.setFail(true)
		defer backend.setFail(false)

		notes := &recordingNotifier{}
		console := admin.NewConsole(client, &countingTokens{}, &fakeConfirmer{answer: true}, notes)

		res, err := console.Run(t.Context(), admin.ActionResetCaches)
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, api.StatusCode(err))
		assert.True(t, res.Confirmed)
		assert.Equal(t, []string{"Something went wrong while performing the action."}, notes.errors)

		err = console.LoadOrders(t.Context())
		require.Error(t, err)
		assert.Equal(t, "Could not fetch admin orders.", notes.errors[1])
	})

	t.Run("token failure sends nothing: fail", func(t *testing.T) {
		backend.reset()
		notes := &recordingNotifier{}
		console := admin.NewConsole(client, failingTokens{}, &fakeConfirmer{answer: true}, notes)

		_, err := console.Run(t.Context(), admin.ActionInitVendors)
		require.Error(t, err)
		assert.Empty(t, backend.calls())
		assert.Len(t, notes.errors, 1)
	})
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      admin.Action
		wantError string
	}{
		{name: "init vendors: ok", input: "init-vendors", want: admin.ActionInitVendors},
		{name: "upper case: ok", input: " DELETE-ORDERS ", want: admin.ActionDeleteOrders},
		{name: "unknown: fail", input: "drop-db", wantError: "invalid admin action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := admin.ParseAction(tt.input)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Len(t, admin.Actions(), 4)
	assert.Equal(t, "This will delete ALL orders permanently.", admin.ActionDeleteOrders.Warning())
}

type adminBackend struct {
	mu   sync.Mutex
	log  []string
	auth map[string]string
	fail bool
}

func newAdminBackend() *adminBackend {
	return &adminBackend{auth: map[string]string{}}
}

func (b *adminBackend) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.Use(func(c *gin.Context) {
		b.mu.Lock()
		call := c.Request.Method + " " + c.Request.URL.Path
		b.log = append(b.log, call)
		b.auth[call] = c.GetHeader("Authorization")
		fail := b.fail
		b.mu.Unlock()

		if fail {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Next()
	})

	text := func(body string) gin.HandlerFunc {
		return func(c *gin.Context) { c.String(http.StatusOK, body) }
	}

	r.GET("/admin/caches/vendors", text("Vendors initialized"))
	r.GET("/admin/caches/reset", text("Caches reset"))
	r.GET("/admin/caches/sync", text("Caches synced"))
	r.DELETE("/orders", text("All orders deleted\n"))
	r.GET("/admin/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{
			{"id": "o-1", "status": "pending", "createdAt": "2025-05-01T10:00:00Z", "orderItems": []gin.H{}},
			{"id": "o-2", "status": "completed", "createdAt": "2025-05-02T10:00:00", "orderItems": []gin.H{
				{"product": gin.H{"id": 3, "name": "RTX 4090", "vendorName": "NVIDIA", "price": 1999.99, "stock": 2}, "quantity": 1},
			}},
		})
	})

	return r
}

func (b *adminBackend) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.log = nil
	b.auth = map[string]string{}
}

func (b *adminBackend) setFail(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.fail = fail
}

func (b *adminBackend) calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string(nil), b.log...)
}

func (b *adminBackend) authOf(call string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.auth[call]
}

type countingTokens struct {
	mu    sync.Mutex
	calls int
}

func (c *countingTokens) Token(context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	return "token-" + strconv.Itoa(c.calls), nil
}

type failingTokens struct{}

func (failingTokens) Token(context.Context) (string, error) {
	return "", errors.New("login required")
}

type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (f *fakeConfirmer) Confirm(_ context.Context, _, text string) (bool, error) {
	f.prompts = append(f.prompts, text)
	return f.answer, nil
}

type recordingNotifier struct {
	success []string
	errors  []string
}

func (r *recordingNotifier) Success(_ context.Context, title, _ string) {
	r.success = append(r.success, title)
}

func (r *recordingNotifier) Error(_ context.Context, _, text string) {
	r.errors = append(r.errors, text)
}
