package repository_test

import (
	"testing"

	"github.com/OilerRig/WebApp/internal/domain"
	"github.com/OilerRig/WebApp/internal/port"
	"github.com/OilerRig/WebApp/internal/repository"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/goleak"
)

type cartRepositorySuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	repo      port.CartRepository
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestCartRepositorySuite(t *testing.T) {
	// Verifies no leaks after all tests in the suite run.
	defer goleak.VerifyNone(t)

	suite.Run(t, new(cartRepositorySuite))
}

// before all tests in the suite
func (suite *cartRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.Require().NoError(repository.Migrate(ctx, suite.pool))

	suite.repo = repository.NewCart(suite.pool)
}

// after all tests in the suite
func (suite *cartRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *cartRepositorySuite) TestSaveCart() {
	line1 := fakeCartLine()
	line2 := fakeCartLine()
	line3 := fakeCartLine()

	sessionID := uuid.New()

	tests := []struct {
		name      string
		sessionID uuid.UUID
		lines     []domain.CartLine
		wantError string
	}{
		{
			name:      "save two lines: ok",
			sessionID: sessionID,
			lines:     []domain.CartLine{line1, line2},
		},
		{
			name:      "replace lines keeps given order: ok",
			sessionID: sessionID,
			lines:     []domain.CartLine{line3, line1},
		},
		{
			name:      "save empty cart: ok",
			sessionID: uuid.New(),
			lines:     nil,
		},
		{
			name:      "zero quantity: fail",
			sessionID: uuid.New(),
			lines:     []domain.CartLine{{Product: line1.Product, Quantity: 0}},
			wantError: "line[0]: invalid quantity 0",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			err := suite.repo.SaveCart(ctx, tt.sessionID, tt.lines)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			actual, err := suite.repo.GetCart(ctx, tt.sessionID)
			require.NoError(t, err)

			assertCartLines(t, tt.lines, actual)
		})
	}
}

func (suite *cartRepositorySuite) TestSaveCart_Rollback() {
	t := suite.T()
	ctx := t.Context()

	sessionID := uuid.New()
	line := fakeCartLine()
	require.NoError(t, suite.repo.SaveCart(ctx, sessionID, []domain.CartLine{line}))

	// the duplicate product id violates the primary key, the whole save is undone
	err := suite.repo.SaveCart(ctx, sessionID, []domain.CartLine{fakeCartLine(), line, line})
	require.Error(t, err)

	actual, err := suite.repo.GetCart(ctx, sessionID)
	require.NoError(t, err)
	assertCartLines(t, []domain.CartLine{line}, actual)
}

func (suite *cartRepositorySuite) TestSaveCart_WithTx() {
	t := suite.T()
	ctx := t.Context()

	tx, err := suite.pool.Begin(ctx)
	require.NoError(t, err)

	sessionID := uuid.New()
	line := fakeCartLine()

	txRepo := repository.NewCartWithTx(tx)
	require.NoError(t, txRepo.SaveCart(ctx, sessionID, []domain.CartLine{line}))

	require.NoError(t, tx.Rollback(ctx))

	actual, err := suite.repo.GetCart(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, actual)
}

func (suite *cartRepositorySuite) TestDeleteCart() {
	sessionID := uuid.New()

	err := suite.repo.SaveCart(suite.T().Context(), sessionID, []domain.CartLine{fakeCartLine()})
	suite.Require().NoError(err)

	tests := []struct {
		name      string
		sessionID uuid.UUID
		wantFound bool
	}{
		{
			name:      "delete existing cart: ok",
			sessionID: sessionID,
			wantFound: true,
		},
		{
			name:      "delete it again: not found",
			sessionID: sessionID,
			wantFound: false,
		},
		{
			name:      "delete unknown session: not found",
			sessionID: uuid.New(),
			wantFound: false,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			found, err := suite.repo.DeleteCart(ctx, tt.sessionID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
		})
	}
}

func TestMemoryCart(t *testing.T) {
	ctx := t.Context()
	repo := repository.NewMemoryCart()

	sessionID := uuid.New()
	lines := []domain.CartLine{fakeCartLine(), fakeCartLine()}

	require.NoError(t, repo.SaveCart(ctx, sessionID, lines))

	actual, err := repo.GetCart(ctx, sessionID)
	require.NoError(t, err)
	assertCartLines(t, lines, actual)

	// the stored cart is a copy
	actual[0].Quantity = 99
	again, err := repo.GetCart(ctx, sessionID)
	require.NoError(t, err)
	assertCartLines(t, lines, again)

	require.EqualError(t,
		repo.SaveCart(ctx, sessionID, []domain.CartLine{{Quantity: -1}}),
		"line[0]: invalid quantity -1")

	found, err := repo.DeleteCart(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.DeleteCart(ctx, sessionID)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.SaveCart(ctx, sessionID, nil))
	empty, err := repo.GetCart(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func fakeCartLine() domain.CartLine {
	price := gofakeit.Price(1, 100)

	return domain.CartLine{
		Product: domain.ProductSummary{
			ID:         gofakeit.Int64() & 0x7fffffff,
			Name:       gofakeit.ProductName(),
			VendorName: gofakeit.Company(),
			Price:      decimal.NewFromFloat(price).Round(2),
			Stock:      int64(gofakeit.IntRange(0, 100)),
		},
		Quantity: gofakeit.IntRange(1, 5),
	}
}

func assertCartLines(t *testing.T, expected, actual []domain.CartLine) {
	t.Helper()

	// Treat empty slices as equal to nil
	diff := cmp.Diff(expected, actual, cmpopts.EquateEmpty())
	assert.Empty(t, diff)
}
