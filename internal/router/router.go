package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"mesto/internal/auth"
	apperrors "mesto/internal/errors"
	"mesto/internal/handler"
	"mesto/internal/middleware"
	"mesto/internal/validation"
)

// Options carries the collaborators shared by the middleware chain.
type Options struct {
	Logger     *zap.Logger
	JWT        *auth.JWTService
	Revocation middleware.RevocationChecker

	// Registry receives HTTP metrics and backs GET /metrics. Nil disables both.
	Registry *prometheus.Registry

	RateLimitRPS   float64
	RateLimitBurst int
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	opts Options,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	cardHandler *handler.CardHandler,
) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	e.HideBanner = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = middleware.ErrorHandler(log)

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.Recover(log))
	if opts.Registry != nil {
		e.Use(middleware.NewMetrics(opts.Registry).Middleware())
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	limit := middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst)
	e.POST("/signup", authHandler.Signup, limit)
	e.POST("/signin", authHandler.Signin, limit)

	// Secured routes. The JWT middleware is attached per route so that
	// unknown paths still fall through to the 404 handler.
	requireAuth := middleware.JWT(opts.JWT, opts.Revocation)
	secured := e.Group("")

	secured.POST("/signout", authHandler.Signout, requireAuth)

	secured.GET("/users", userHandler.ListUsers, requireAuth)
	secured.GET("/users/me", userHandler.Me, requireAuth)
	secured.GET("/users/:id", userHandler.GetUser, requireAuth)
	secured.PATCH("/users/me", userHandler.UpdateProfile, requireAuth)
	secured.PATCH("/users/me/avatar", userHandler.UpdateAvatar, requireAuth)

	secured.GET("/cards", cardHandler.List, requireAuth)
	secured.POST("/cards", cardHandler.Create, requireAuth)
	secured.DELETE("/cards/:id", cardHandler.Delete, requireAuth)
	secured.PUT("/cards/:id/likes", cardHandler.Like, requireAuth)
	secured.DELETE("/cards/:id/likes", cardHandler.Unlike, requireAuth)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return apperrors.NotFound("requested resource not found")
	})
}
