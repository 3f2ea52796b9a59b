package statistics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"boleteria/common"
	"boleteria/internal/testutil"
	"boleteria/middleware"

	"github.com/gin-gonic/gin"
	json "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func seedSales(t *testing.T, db *gorm.DB) {
	t.Helper()
	luis := testutil.SeedUser(t, db, "Luis Vendedor", "luis@example.com")
	marta := testutil.SeedUser(t, db, "Marta Vendedora", "marta@example.com")

	testutil.SeedTicket(t, db, testutil.WithBuyer("Ana Ruiz", "1000000001", "ana@example.com", "3001"),
		testutil.WithClass("General"), testutil.WithPayment("Efectivo"), testutil.WithPrice("50.00"),
		testutil.WithSeller(luis), testutil.WithAge(20))
	testutil.SeedTicket(t, db, testutil.WithBuyer("Ana Ruiz", "1000000001", "ana@example.com", "3001"),
		testutil.WithClass("VIP"), testutil.WithPayment("Tarjeta"), testutil.WithPrice("120.50"),
		testutil.WithSeller(luis), testutil.WithAge(30))
	testutil.SeedTicket(t, db, testutil.WithBuyer("Bruno Diaz", "1000000002", "bruno@example.com", "3002"),
		testutil.WithClass("General"), testutil.WithPayment("Efectivo"), testutil.WithPrice("50.00"),
		testutil.WithSeller(marta), testutil.WithStatus(common.TicketStatusUsed), testutil.WithAge(40))
	testutil.SeedTicket(t, db, testutil.WithBuyer("Carla Mora", "1000000003", "carla@example.com", "3003"),
		testutil.WithClass("VIP"), testutil.WithPayment("Efectivo"), testutil.WithPrice("120.50"),
		testutil.WithSeller(marta), testutil.WithAge(50))
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestService_Dashboard(t *testing.T) {
	db := testutil.OpenDB(t)
	seedSales(t, db)
	svc := NewService(NewRepository(db))

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []StatusCount{
		{Status: common.TicketStatusSold, Count: 3},
		{Status: common.TicketStatusUsed, Count: 1},
	}, d.CountByStatus)

	require.Len(t, d.RevenueByStatus, 2)
	assertDecimal(t, "291.00", d.RevenueByStatus[0].Revenue)
	assertDecimal(t, "50.00", d.RevenueByStatus[1].Revenue)

	assert.Equal(t, []ClassCount{{Class: "General", Count: 1}, {Class: "VIP", Count: 2}}, d.CountByClass)
	require.Len(t, d.RevenueByClass, 2)
	assertDecimal(t, "50.00", d.RevenueByClass[0].Revenue)
	assertDecimal(t, "241.00", d.RevenueByClass[1].Revenue)

	assert.Equal(t, []BuyerCount{
		{BuyerName: "Ana Ruiz", Count: 2},
		{BuyerName: "Bruno Diaz", Count: 1},
		{BuyerName: "Carla Mora", Count: 1},
	}, d.TopBuyers)

	require.Len(t, d.Sellers, 2)
	assert.Equal(t, "Luis Vendedor", d.Sellers[0].SellerName)
	assert.Equal(t, int64(2), d.Sellers[0].Count)
	assertDecimal(t, "170.50", d.Sellers[0].Revenue)
	assert.Equal(t, "Marta Vendedora", d.Sellers[1].SellerName)
	assert.Equal(t, int64(1), d.Sellers[1].Count)
	assertDecimal(t, "120.50", d.Sellers[1].Revenue)

	assert.Equal(t, []PaymentShare{
		{PaymentMethod: "Efectivo", Count: 3, Percentage: 75},
		{PaymentMethod: "Tarjeta", Count: 1, Percentage: 25},
	}, d.PaymentMethods)

	assert.True(t, d.AverageAge.Valid)
	assert.InDelta(t, 35.0, d.AverageAge.Float64, 0.001)
}

func TestService_EmptyStore(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(NewRepository(db))

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	for _, c := range d.CountByStatus {
		assert.Zero(t, c.Count)
	}
	for _, r := range d.RevenueByStatus {
		assert.True(t, r.Revenue.IsZero())
	}
	assert.Empty(t, d.CountByClass)
	assert.Empty(t, d.RevenueByClass)
	assert.Empty(t, d.TopBuyers)
	assert.Empty(t, d.Sellers)
	assert.Empty(t, d.PaymentMethods)
	assert.False(t, d.AverageAge.Valid)
}

func TestService_TopBuyersLimit(t *testing.T) {
	db := testutil.OpenDB(t)
	seedSales(t, db)
	svc := NewService(NewRepository(db))
	ctx := context.Background()

	buyers, err := svc.TopBuyers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []BuyerCount{{BuyerName: "Ana Ruiz", Count: 2}}, buyers)

	_, err = svc.TopBuyers(ctx, -1)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
	_, err = svc.TopBuyers(ctx, MaxTopBuyers+1)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.OpenDB(t)

	router := gin.New()
	router.Use(middleware.RequestInit(), middleware.ResponseInit(zap.NewNop()))
	NewHandler(NewService(NewRepository(db))).RegisterRoutes(router.Group("/api"))

	t.Run("empty dashboard reports null age", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/statistics", nil))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body struct {
			Data struct {
				AverageAge *float64 `json:"average_age"`
				TopBuyers  []any    `json:"top_buyers"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Nil(t, body.Data.AverageAge)
		assert.Empty(t, body.Data.TopBuyers)
	})

	tests := []struct {
		name string
		path string
		want int
	}{
		{"status", "/api/statistics/status", http.StatusOK},
		{"class", "/api/statistics/class", http.StatusOK},
		{"top buyers", "/api/statistics/top-buyers?limit=3", http.StatusOK},
		{"top buyers bad limit", "/api/statistics/top-buyers?limit=abc", http.StatusBadRequest},
		{"top buyers out of range", "/api/statistics/top-buyers?limit=500", http.StatusBadRequest},
		{"sellers", "/api/statistics/sellers", http.StatusOK},
		{"payment methods", "/api/statistics/payment-methods", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}
