package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mesto/internal/auth"
	apperrors "mesto/internal/errors"
)

const testSecret = "test-secret"

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(_ context.Context, tokenID string) bool { return r[tokenID] }

func newTestServer(mw ...echo.MiddlewareFunc) (*echo.Echo, *int) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop())
	calls := 0
	e.GET("/protected", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, UserID(c))
	}, mw...)
	return e, &calls
}

func do(e *echo.Echo, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func signed(t *testing.T, secret string, claims *auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWT(t *testing.T) {
	jwtService := auth.NewJWTService(testSecret, time.Hour)
	valid, err := jwtService.GenerateToken("5f8d0d55b54764421b7156c1")
	require.NoError(t, err)
	claims, err := jwtService.ValidateToken(valid)
	require.NoError(t, err)

	revokedToken, err := jwtService.GenerateToken("5f8d0d55b54764421b7156c1")
	require.NoError(t, err)
	revokedClaims, err := jwtService.ValidateToken(revokedToken)
	require.NoError(t, err)

	expired := signed(t, testSecret, &auth.Claims{
		UserID: "5f8d0d55b54764421b7156c1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	foreign := signed(t, "other-secret", &auth.Claims{
		UserID: "5f8d0d55b54764421b7156c1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	tests := []struct {
		name        string
		authz       string
		wantStatus  int
		wantMessage string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "authorization required"},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, "authorization required"},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized, "invalid token"},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized, "invalid token"},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, "token expired"},
		{"revoked token", "Bearer " + revokedToken, http.StatusUnauthorized, "token revoked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, calls := newTestServer(JWT(jwtService, revokedSet{revokedClaims.ID: true}))
			rec := do(e, tt.authz)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, claims.UserID, rec.Body.String())
				assert.Equal(t, 1, *calls)
				return
			}
			assert.JSONEq(t, `{"message":"`+tt.wantMessage+`"}`, rec.Body.String())
			assert.Zero(t, *calls)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"app error", apperrors.Forbidden("you can delete only your own cards"), http.StatusForbidden, `{"message":"you can delete only your own cards"}`},
		{"internal hides cause", apperrors.Internal(errors.New("db password leaked")), http.StatusInternalServerError, `{"message":"internal server error"}`},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, `{"message":"internal server error"}`},
		{"echo not found", echo.ErrNotFound, http.StatusNotFound, `{"message":"requested resource not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.HTTPErrorHandler = ErrorHandler(zap.NewNop())
			e.GET("/fail", func(c echo.Context) error { return tt.err })

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestRecoverAndLogger(t *testing.T) {
	log := zap.NewNop()
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(log)
	e.Use(RequestLogger(log), Recover(log))
	e.GET("/panic", func(c echo.Context) error { panic("kaboom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"internal server error"}`, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop())
	e.POST("/signin", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RateLimit(1, 2))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/signin", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitDisabled(t *testing.T) {
	next := func(c echo.Context) error { return nil }
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	for i := 0; i < 100; i++ {
		require.NoError(t, RateLimit(0, 0)(next)(c))
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop())
	e.Use(metrics.Middleware())
	e.GET("/cards/:id", func(c echo.Context) error {
		if c.Param("id") == "missing" {
			return apperrors.NotFound("card not found")
		}
		return c.NoContent(http.StatusOK)
	})

	for _, id := range []string{"a", "b", "missing"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cards/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodGet, "/cards/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodGet, "/cards/:id", "404")))

	count, err := testutil.GatherAndCount(reg, "http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
