package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/JonMunkholm/vendas/internal/config"
	db "github.com/JonMunkholm/vendas/internal/database"
	"github.com/JonMunkholm/vendas/internal/database/dbtest"
	"github.com/JonMunkholm/vendas/internal/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) { dbtest.Main(m) }

func newDBService(t *testing.T) (*Service, *db.Provider) {
	t.Helper()
	provider := dbtest.Provider(t)
	cfg := &config.Config{
		Auth:    config.AuthConfig{BcryptCost: 4},
		Display: config.DisplayConfig{Timezone: "UTC"},
	}
	s, err := NewService(provider, cfg)
	require.NoError(t, err)
	return s, provider
}

func TestCatalog_CreateThenListOnce(t *testing.T) {
	s, _ := newDBService(t)
	ctx := context.Background()

	p, err := s.CreateProduct(ctx, "  Café  ", money("12.5"))
	require.NoError(t, err)
	assert.Equal(t, "Café", p.Name)
	assert.True(t, p.Price.Equal(money("12.50")))

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)

	count := 0
	for _, q := range products {
		if q.Name == "Café" {
			count++
			assert.Equal(t, p.ID, q.ID)
		}
	}
	assert.Equal(t, 1, count)
}

func TestCatalog_ListOrderedByName(t *testing.T) {
	s, _ := newDBService(t)
	ctx := context.Background()

	for _, name := range []string{"Pão", "Açúcar", "Leite"} {
		_, err := s.CreateProduct(ctx, name, money("1"))
		require.NoError(t, err)
	}

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	for i := 1; i < len(products); i++ {
		assert.LessOrEqual(t, products[i-1].Name, products[i].Name)
	}
}

func TestCatalog_DuplicateNameLeavesCatalogUnchanged(t *testing.T) {
	s, _ := newDBService(t)
	ctx := context.Background()

	_, err := s.CreateProduct(ctx, "Café", money("10"))
	require.NoError(t, err)
	before, err := s.ListProducts(ctx)
	require.NoError(t, err)

	_, err = s.CreateProduct(ctx, "Café", money("99"))
	assert.ErrorIs(t, err, ErrDuplicateName)

	after, err := s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// Exact match only: a different case is a different name.
	_, err = s.CreateProduct(ctx, "café", money("10"))
	assert.NoError(t, err)
}

func TestCatalog_Update(t *testing.T) {
	s, _ := newDBService(t)
	ctx := context.Background()

	a, err := s.CreateProduct(ctx, "A", money("1"))
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, "B", money("2"))
	require.NoError(t, err)

	require.NoError(t, s.UpdateProduct(ctx, a.ID, "A2", money("3.99")))
	got, err := s.GetProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A2", got.Name)
	assert.True(t, got.Price.Equal(money("3.99")))

	assert.ErrorIs(t, s.UpdateProduct(ctx, a.ID, "B", money("1")), ErrDuplicateName)
	assert.ErrorIs(t, s.UpdateProduct(ctx, 9999, "Z", money("1")), ErrNotFound)

	_, err = s.GetProduct(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_DeleteMissingIsNoOp(t *testing.T) {
	s, _ := newDBService(t)
	ctx := context.Background()

	_, err := s.CreateProduct(ctx, "Café", money("10"))
	require.NoError(t, err)
	before, err := s.ListProducts(ctx)
	require.NoError(t, err)

	require.NoError(t, s.DeleteProduct(ctx, 9999))

	after, err := s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCatalog_DeleteReferencedProductIsRestricted(t *testing.T) {
	s, _ := newDBService(t)
	ctx := context.Background()

	sold, err := s.CreateProduct(ctx, "Vendido", money("10"))
	require.NoError(t, err)
	unsold, err := s.CreateProduct(ctx, "Parado", money("10"))
	require.NoError(t, err)
	_, err = s.RecordSale(ctx, sold.ID, 1, day(2024, 1, 1))
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeleteProduct(ctx, sold.ID), ErrProductInUse)
	require.NoError(t, s.DeleteProduct(ctx, unsold.ID))

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, sold.ID, products[0].ID)
}

func TestSales_PriceSnapshotIsImmutable(t *testing.T) {
	s, _ := newDBService(t)
	ctx := context.Background()

	p, err := s.CreateProduct(ctx, "Café", money("10.00"))
	require.NoError(t, err)

	sale, err := s.RecordSale(ctx, p.ID, 3, day(2024, 1, 1))
	require.NoError(t, err)
	assert.True(t, sale.UnitPrice.Equal(money("10.00")))
	assert.True(t, sale.LineTotal().Equal(money("30.00")))

	require.NoError(t, s.UpdateProduct(ctx, p.ID, "Café", money("15.00")))

	recent, err := s.RecentSales(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, sale.ID, recent[0].ID)
	assert.True(t, recent[0].UnitPrice.Equal(money("10.00")))
	assert.True(t, recent[0].LineTotal.Equal(money("30.00")))
}

func TestSales_Errors(t *testing.T) {
	s, _ := newDBService(t)
	ctx := context.Background()

	_, err := s.RecordSale(ctx, 4242, 1, day(2024, 1, 1))
	assert.ErrorIs(t, err, ErrProductNotFound)

	p, err := s.CreateProduct(ctx, "Café", money("1"))
	require.NoError(t, err)
	_, err = s.RecordSale(ctx, p.ID, 0, day(2024, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestSales_DefaultsToToday(t *testing.T) {
	s, _ := newDBService(t)
	ctx := context.Background()
	s.now = func() time.Time { return time.Date(2024, 5, 17, 15, 0, 0, 0, time.UTC) }

	p, err := s.CreateProduct(ctx, "Café", money("2"))
	require.NoError(t, err)

	sale, err := s.RecordSale(ctx, p.ID, 1, time.Time{})
	require.NoError(t, err)
	assert.True(t, sale.Date.Equal(day(2024, 5, 17)))

	recent, err := s.RecentSales(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Café", recent[0].ProductName)
	assert.True(t, recent[0].LineTotal.Equal(money("2")))
}

func TestReporting_DailySummary(t *testing.T) {
	s, _ := newDBService(t)
	ctx := context.Background()

	empty, err := s.DailySummary(ctx, day(2024, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, empty.Total.IsZero())

	seedExample(t, s)

	got, err := s.DailySummary(ctx, day(2024, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count)
	assert.True(t, got.Total.Equal(money("25.00")), "total = %s", got.Total)
}

func TestReporting_RangeReportInclusiveAndOrdered(t *testing.T) {
	s, _ := newDBService(t)
	ctx := context.Background()

	p, err := s.CreateProduct(ctx, "Café", money("1"))
	require.NoError(t, err)
	for _, d := range []time.Time{day(2024, 1, 5), day(2023, 12, 31), day(2024, 1, 1), day(2024, 1, 31), day(2024, 2, 1)} {
		_, err := s.RecordSale(ctx, p.ID, 1, d)
		require.NoError(t, err)
	}

	rows, err := s.RangeReport(ctx, day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.True(t, rows[0].Date.Equal(day(2024, 1, 1)))
	assert.True(t, rows[2].Date.Equal(day(2024, 1, 31)))
	for i, r := range rows {
		assert.False(t, r.Date.Before(day(2024, 1, 1)) || r.Date.After(day(2024, 1, 31)), "row %d out of range: %v", i, r.Date)
		if i > 0 {
			assert.False(t, r.Date.Before(rows[i-1].Date), "rows not ascending at %d", i)
		}
		assert.Equal(t, "Café", r.ProductName)
	}

	_, err = s.RangeReport(ctx, day(2020, 1, 1), day(2020, 12, 31))
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestReporting_ExampleDailyTotals(t *testing.T) {
	s, _ := newDBService(t)
	ctx := context.Background()
	seedExample(t, s)

	rows, err := s.RangeReport(ctx, day(2024, 1, 1), day(2024, 1, 2))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	totals := DailyTotals(rows)
	require.Len(t, totals, 2)
	assert.True(t, totals[0].Date.Equal(day(2024, 1, 1)))
	assert.True(t, totals[0].Total.Equal(money("25.00")), "got %s", totals[0].Total)
	assert.True(t, totals[1].Date.Equal(day(2024, 1, 2)))
	assert.True(t, totals[1].Total.Equal(money("6.00")), "got %s", totals[1].Total)
	assert.True(t, GrandTotal(rows).Equal(money("31.00")))

	stats, err := s.TotalsByDay(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	for i := range totals {
		assert.True(t, stats[i].Date.Equal(totals[i].Date))
		assert.True(t, stats[i].Total.Equal(totals[i].Total))
	}
}

func TestReporting_ProductFilter(t *testing.T) {
	s, _ := newDBService(t)
	ctx := context.Background()
	ids := seedExample(t, s)

	rows, err := s.QueryReport(ctx, ReportFilter{Start: day(2024, 1, 1), End: day(2024, 1, 2), ProductID: ids[0]})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].ProductName)
}

func TestStatistics_EmptyHistory(t *testing.T) {
	s, _ := newDBService(t)

	totals, err := s.TotalsByDay(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, totals)
	assert.Empty(t, totals)
}

func TestAuth_Login(t *testing.T) {
	s, _ := newDBService(t)
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, "alice", "correct"))

	sess := session.New()
	err := s.Login(ctx, sess, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, sess.LoggedIn())

	err = s.Login(ctx, sess, "nobody", "correct")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, sess.LoggedIn())

	require.NoError(t, s.Login(ctx, sess, "alice", "correct"))
	assert.True(t, sess.LoggedIn())
	assert.Equal(t, "alice", sess.Username)

	s.Logout(ctx, sess)
	assert.False(t, sess.LoggedIn())
}

func TestAuth_LegacyDigestIsUpgraded(t *testing.T) {
	s, provider := newDBService(t)
	ctx := context.Background()

	sum := sha256.Sum256([]byte("correct"))
	conn, err := provider.Open(ctx)
	require.NoError(t, err)
	err = db.New(conn).UpsertUsuario(ctx, db.UpsertUsuarioParams{Usuario: "alice", Senha: hex.EncodeToString(sum[:])})
	conn.Close()
	require.NoError(t, err)

	require.NoError(t, s.Login(ctx, session.New(), "alice", "correct"))

	conn, err = provider.Open(ctx)
	require.NoError(t, err)
	defer conn.Close()
	user, err := db.New(conn).GetUsuario(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, isLegacyDigest(user.Senha), "digest not upgraded: %s", user.Senha)

	// The upgraded digest keeps working.
	require.NoError(t, s.Login(ctx, session.New(), "alice", "correct"))
}

func TestAudit_RecordsMutations(t *testing.T) {
	s, _ := newDBService(t)

	sess := session.New()
	sess.Authenticate("alice")
	ctx := session.WithSession(context.Background(), sess)
	ctx = WithClientInfo(ctx, "10.0.0.7", "go-test")

	p, err := s.CreateProduct(ctx, "Café", money("10"))
	require.NoError(t, err)
	_, err = s.RecordSale(ctx, p.ID, 2, day(2024, 1, 1))
	require.NoError(t, err)

	entries, err := s.QueryAudit(ctx, AuditFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	actions := []AuditAction{entries[0].Action, entries[1].Action}
	assert.ElementsMatch(t, []AuditAction{ActionProductCreate, ActionSaleRecord}, actions)
	for _, e := range entries {
		assert.Equal(t, "alice", e.Username)
		assert.Equal(t, "10.0.0.7", e.IPAddress)
		assert.Equal(t, "go-test", e.UserAgent)
		assert.NotEmpty(t, e.ID)
	}

	sales, err := s.QueryAudit(ctx, AuditFilter{Action: ActionSaleRecord})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "2", fmt.Sprint(sales[0].Detail["quantidade"]))

	none, err := s.QueryAudit(ctx, AuditFilter{Username: "bob"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

// seedExample records the sales {(2024-01-01, 2 x 10.00), (2024-01-01,
// 1 x 5.00), (2024-01-02, 3 x 2.00)} and returns the product ids.
func seedExample(t *testing.T, s *Service) []int32 {
	t.Helper()
	ctx := context.Background()

	sales := []struct {
		name  string
		price string
		qty   int
		date  time.Time
	}{
		{"A", "10.00", 2, day(2024, 1, 1)},
		{"B", "5.00", 1, day(2024, 1, 1)},
		{"C", "2.00", 3, day(2024, 1, 2)},
	}

	ids := make([]int32, 0, len(sales))
	for _, sl := range sales {
		p, err := s.CreateProduct(ctx, sl.name, decimal.RequireFromString(sl.price))
		require.NoError(t, err)
		_, err = s.RecordSale(ctx, p.ID, sl.qty, sl.date)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	return ids
}
