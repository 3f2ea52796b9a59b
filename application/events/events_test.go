package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"boleteria/common"
	"boleteria/internal/testutil"
	"boleteria/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_CRUD(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(NewRepository(db))
	ctx := context.Background()

	created, err := svc.Create(ctx, EventInput{
		Name:     "Concierto de Salsa",
		Date:     time.Date(2026, 11, 20, 21, 0, 0, 0, time.UTC),
		Venue:    "Plaza de Toros",
		Capacity: 500,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Concierto de Salsa", got.Name)

	updated, err := svc.Update(ctx, created.ID, EventInput{
		Name:     "Concierto de Salsa Brava",
		Date:     created.Date,
		Venue:    "Coliseo",
		Capacity: 800,
	})
	require.NoError(t, err)
	assert.Equal(t, 800, updated.Capacity)
	assert.Equal(t, "Coliseo", updated.Venue)

	_, err = svc.Update(ctx, 9999, EventInput{Name: "x"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.NoError(t, svc.Delete(ctx, created.ID))
}

func TestService_Search(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(NewRepository(db))
	ctx := context.Background()

	testutil.SeedEvent(t, db, "Festival de Rock", 100)
	testutil.SeedEvent(t, db, "ROCK al Parque", 100)
	testutil.SeedEvent(t, db, "Noche de Jazz", 100)

	events, err := svc.Search(ctx, "rock")
	require.NoError(t, err)
	assert.Len(t, events, 2)

	_, err = svc.Search(ctx, " ")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestService_Search_LiteralWildcards(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(NewRepository(db))
	ctx := context.Background()

	testutil.SeedEvent(t, db, "Noche de Jazz", 100)
	testutil.SeedEvent(t, db, "Rock 100% vivo", 100)

	events, err := svc.Search(ctx, "%")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Rock 100% vivo", events[0].Name)

	events, err = svc.Search(ctx, "_")
	require.NoError(t, err)
	assert.Empty(t, events)

	events, err = svc.Search(ctx, "100%")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestService_Delete_WithTickets(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewService(NewRepository(db))

	event := testutil.SeedEvent(t, db, "Festival", 100)
	testutil.SeedTicket(t, db, testutil.WithEvent(event))

	err := svc.Delete(context.Background(), event.ID)
	assert.ErrorIs(t, err, common.ErrInvalidState)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.OpenDB(t)
	event := testutil.SeedEvent(t, db, "Festival", 100)
	testutil.SeedTicket(t, db, testutil.WithEvent(event))

	router := gin.New()
	router.Use(middleware.RequestInit(), middleware.ResponseInit(zap.NewNop()))
	NewHandler(NewService(NewRepository(db))).RegisterRoutes(router.Group("/api"))

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"list", http.MethodGet, "/api/events", "", http.StatusOK},
		{"get", http.MethodGet, "/api/events/1", "", http.StatusOK},
		{"get missing", http.MethodGet, "/api/events/99", "", http.StatusNotFound},
		{"get bad id", http.MethodGet, "/api/events/abc", "", http.StatusBadRequest},
		{"search", http.MethodGet, "/api/events/search?name=fest", "", http.StatusOK},
		{"create", http.MethodPost, "/api/events", `{"name":"Nuevo","date":"2026-12-31T22:00:00Z","venue":"Parque","capacity":50}`, http.StatusCreated},
		{"create without name", http.MethodPost, "/api/events", `{"date":"2026-12-31T22:00:00Z"}`, http.StatusBadRequest},
		{"update", http.MethodPut, "/api/events/1", `{"name":"Festival 2","date":"2026-12-05T20:00:00Z","capacity":120}`, http.StatusOK},
		{"delete with tickets", http.MethodDelete, "/api/events/1", "", http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}
