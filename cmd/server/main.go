package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"mesto/docs"
	"mesto/internal/app"
	"mesto/internal/config"
	"mesto/internal/handler"
	"mesto/internal/logger"
	"mesto/internal/router"
)

// @title Mesto API
// @version 1.0
// @description Users share photo cards, like them and manage their profiles.
// @host localhost:3000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.MustLoad()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	_ = log.Sync()
	if err != nil {
		log.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

// run serves HTTP until ctx is cancelled or the listener fails, then shuts
// the server down and releases every connection.
func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer a.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e := echo.New()
	router.Register(
		e,
		router.Options{
			Logger:         log,
			JWT:            a.JWT,
			Revocation:     a.Tokens,
			Registry:       registry,
			RateLimitRPS:   cfg.RateLimitRPS,
			RateLimitBurst: cfg.RateLimitBurst,
		},
		handler.NewAuthHandler(a.AuthService),
		handler.NewUserHandler(a.UserService),
		handler.NewCardHandler(a.CardService),
	)

	swaggerURL := swaggerBase(cfg.SwaggerHost, cfg.ServerPort) + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.Info("swagger documentation available", zap.String("url", swaggerURL))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- e.Start(":" + cfg.ServerPort)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// swaggerBase returns the external base URL. SwaggerHost may already carry a scheme.
func swaggerBase(host, port string) string {
	switch {
	case host == "":
		return "http://localhost:" + port
	case strings.HasPrefix(host, "http://"), strings.HasPrefix(host, "https://"):
		return host
	default:
		return "http://" + host
	}
}
