package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"cohorts/docs" // swagger docs

	"cohorts/internal/auth"
	"cohorts/internal/cache"
	"cohorts/internal/config"
	"cohorts/internal/handler"
	"cohorts/internal/logger"
	"cohorts/internal/repository"
	"cohorts/internal/router"
	"cohorts/internal/service"
)

//go:generate swag init -d ../../ -g cmd/server/main.go -o ../../docs --outputTypes go --parseDependency

const shutdownTimeout = 10 * time.Second

// @title Cohorts API
// @version 1.0
// @description Cohort and student management with JWT authentication.
// @host localhost:5005
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.ResetDB {
		appLogger.Warn().Msg("RESET_DB=true detected, dropping all collections and tables")
	}
	repos, err := repository.Open(ctx, cfg.StoreDriver, cfg.DatabaseURL, cfg.MongoDatabase, cfg.ResetDB)
	if err != nil {
		appLogger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("database init")
	}
	appLogger.Info().Str("driver", cfg.StoreDriver).Msg("connected to store")

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if !cacheClient.Enabled() {
		appLogger.Warn().Msg("REDIS_ADDR not set, logout will not revoke tokens")
	} else if err := cacheClient.Ping(ctx); err != nil {
		appLogger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, token revocation degraded")
	}

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	hasher := auth.NewBcryptHasher()

	// Initialize services
	authService := service.NewAuthService(repos.Users, jwtService, hasher, tokenStore)
	userService := service.NewUserService(repos.Users)
	cohortService := service.NewCohortService(repos.Cohorts)
	studentService := service.NewStudentService(repos.Students, repos.Cohorts)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, cfg, appLogger, authService, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(userService),
		Cohort:  handler.NewCohortHandler(cohortService),
		Student: handler.NewStudentHandler(studentService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	appLogger.Info().Msgf("Swagger documentation available at: %s", swaggerURL(cfg))

	addr := ":" + cfg.ServerPort
	go func() {
		appLogger.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("server start")
		}
	}()

	<-ctx.Done()
	appLogger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("server shutdown")
	}
	if err := repos.Close(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("close store")
	}
	if err := cacheClient.Close(); err != nil {
		appLogger.Error().Err(err).Msg("close redis")
	}
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
