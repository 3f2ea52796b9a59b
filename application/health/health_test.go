package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"boleteria/internal/testutil"
	"boleteria/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestService_CheckHealth(t *testing.T) {
	db := testutil.OpenDB(t)
	client, mock := redismock.NewClientMock()
	mock.ExpectPing().SetVal("PONG")

	svc := NewService(NewRepository(db), NewRedisPinger(client))
	result, err := svc.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"database": "ok", "redis": "ok"}, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckHealth_RedisDown(t *testing.T) {
	db := testutil.OpenDB(t)
	client, mock := redismock.NewClientMock()
	mock.ExpectPing().SetErr(errors.New("connection refused"))

	svc := NewService(NewRepository(db), NewRedisPinger(client))
	result, err := svc.CheckHealth(context.Background())
	assert.ErrorIs(t, err, ErrUnhealthy)
	assert.Equal(t, "ok", result["database"])
	assert.Equal(t, "error", result["redis"])
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(db Pinger) *gin.Engine {
		r := gin.New()
		r.Use(middleware.RequestInit(), middleware.ResponseInit(zap.NewNop()))
		NewHandler(NewService(db, nil)).RegisterRoutes(r.Group(""))
		return r
	}

	healthy := newRouter(pingFunc(func(context.Context) error { return nil }))
	down := newRouter(pingFunc(func(context.Context) error { return errors.New("gone") }))

	w := httptest.NewRecorder()
	healthy.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)
	assert.NotContains(t, w.Body.String(), "redis")

	w = httptest.NewRecorder()
	down.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	healthy.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/stream", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"database":"ok"}]`, w.Body.String())
	assert.Equal(t, "1", w.Header().Get("X-Total-Count"))
}
