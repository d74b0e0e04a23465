package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"votely/docs" // swagger docs

	"votely/internal/auth"
	"votely/internal/cache"
	"votely/internal/config"
	"votely/internal/db"
	"votely/internal/handler"
	"votely/internal/repository"
	"votely/internal/router"
	"votely/internal/service"
)

// @title Votely API
// @version 1.0
// @description Single-vote ballot with local and OAuth sign-in, transactional vote casting and public results.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.Load()
	if keys := cfg.DefaultSecrets(); len(keys) > 0 {
		slog.Warn("using built-in signing secrets, set them in the environment", "keys", keys)
	}

	gormDB, err := db.Setup(cfg.DBDriver, cfg.DBDSN, cfg.ResetDB)
	if err != nil {
		slog.Error("database init failed", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		slog.Warn("redis unavailable, running without cache", "addr", cfg.RedisAddr, "error", err)
	}

	// Initialize repositories
	repos := repository.New(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	stateStore := auth.NewStateStore(cfg.SessionSecret, cacheClient)
	providers := auth.NewOAuthProviders(cfg)

	// Initialize services
	authService := service.NewAuthService(repos.Users, jwtService)
	federationService := service.NewFederationService(repos.Users)
	ballotService := service.NewBallotService(repos, cacheClient)
	resultsService := service.NewResultsService(repos, cacheClient)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, authService, router.Handlers{
		Auth:  handler.NewAuthHandler(authService),
		OAuth: handler.NewOAuthHandler(providers, stateStore, federationService, authService, strings.HasPrefix(cfg.PublicURL, "https://")),
		Vote:  handler.NewVoteHandler(ballotService, resultsService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	slog.Info("swagger documentation available", "url", cfg.PublicURL+"/swagger/index.html")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown", "error", err)
		}
	}()

	addr := ":" + cfg.ServerPort
	slog.Info("listening", "addr", addr, "api", cfg.PublicURL+"/api")
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server start", "error", err)
		os.Exit(1)
	}
	slog.Info("server closed")
}
