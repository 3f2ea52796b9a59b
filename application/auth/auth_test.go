package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"boleteria/application/users"
	"boleteria/common"
	tokens "boleteria/internal/auth"
	"boleteria/internal/clock"
	"boleteria/internal/testutil"
	"boleteria/middleware"

	"github.com/gin-gonic/gin"
	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type harness struct {
	router  *gin.Engine
	tokens  *tokens.TokenService
	clock   *clock.Fake
	svc     *Service
	revoker *tokens.MemoryRevoker
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenDB(t)
	hasher := tokens.NewPasswordHasher(bcrypt.MinCost)
	userRepo := users.NewRepository(db)
	_, err := users.NewService(userRepo, hasher, nil).Create(context.Background(), users.CreateUserInput{
		Name:           "Laura Admin",
		Identification: "12345678",
		Email:          "laura@example.com",
		Password:       "secreto123",
		Roles:          []common.Role{common.RoleAdmin},
	})
	require.NoError(t, err)

	clk := clock.NewFake(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))
	ts, err := tokens.NewTokenService([]byte(strings.Repeat("k", tokens.MinKeySize)), time.Hour, clk)
	require.NoError(t, err)
	revoker := tokens.NewMemoryRevoker(clk)
	svc := NewService(userRepo, hasher, ts, revoker, nil)

	router := gin.New()
	router.Use(middleware.RequestInit(), middleware.ResponseInit(zap.NewNop()))
	api := router.Group("/api")
	protected := api.Group("", middleware.Authenticate(ts, revoker))
	NewHandler(svc).RegisterRoutes(api, protected)

	return &harness{router: router, tokens: ts, clock: clk, svc: svc, revoker: revoker}
}

func (h *harness) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) login(t *testing.T) string {
	t.Helper()
	w := h.do(http.MethodPost, "/api/auth/login", `{"email":"laura@example.com","password":"secreto123"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env struct {
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotEmpty(t, env.Data.Token)
	assert.Equal(t, int64(3600), env.Data.ExpiresIn)
	return env.Data.Token
}

func TestLogin(t *testing.T) {
	h := newHarness(t)

	token := h.login(t)
	assert.True(t, h.tokens.Validate(token, "laura@example.com"))

	tests := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"email":"laura@example.com","password":"nope"}`, http.StatusUnauthorized},
		{"unknown email", `{"email":"nadie@example.com","password":"secreto123"}`, http.StatusUnauthorized},
		{"missing fields", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(http.MethodPost, "/api/auth/login", tt.body, "")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestLogin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, errUnknown := h.svc.Login(ctx, LoginRequest{Email: "nadie@example.com", Password: "x"})
	_, errWrong := h.svc.Login(ctx, LoginRequest{Email: "laura@example.com", Password: "x"})
	assert.ErrorIs(t, errUnknown, ErrBadCredentials)
	assert.ErrorIs(t, errWrong, ErrBadCredentials)
	assert.ErrorIs(t, errWrong, common.ErrUnauthenticated)
}

func TestMe(t *testing.T) {
	h := newHarness(t)
	token := h.login(t)

	w := h.do(http.MethodGet, "/api/auth/me", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Data struct {
			ID    uint     `json:"id"`
			Email string   `json:"email"`
			Roles []string `json:"roles"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "laura@example.com", env.Data.Email)
	assert.Equal(t, []string{"ROLE_ADMIN"}, env.Data.Roles)

	w = h.do(http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(http.MethodGet, "/api/auth/me", "", "not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_ExpiredToken(t *testing.T) {
	h := newHarness(t)
	token := h.login(t)

	h.clock.Advance(time.Hour)
	w := h.do(http.MethodGet, "/api/auth/me", "", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_RevokesToken(t *testing.T) {
	h := newHarness(t)
	token := h.login(t)

	w := h.do(http.MethodPost, "/api/auth/logout", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, h.revoker.Len())

	w = h.do(http.MethodGet, "/api/auth/me", "", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other := h.login(t)
	w = h.do(http.MethodGet, "/api/auth/me", "", other)
	assert.Equal(t, http.StatusOK, w.Code)
}
