package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"leagueboard/internal/config"
	"leagueboard/internal/espn"
	"leagueboard/internal/httpapi"
	"leagueboard/internal/hub"
	"leagueboard/internal/room"
	"leagueboard/internal/store"
)

func newLogger(cfg config.Config) *zap.Logger {
	build := zap.NewDevelopment
	if cfg.Production() {
		build = zap.NewProduction
	}
	logger, err := build()
	if err != nil {
		// Use log until zap is up.
		log.Fatalf("failed to build logger: %v", err)
	}
	return logger
}

func setupStore(cfg config.Config, logger *zap.Logger) store.Store {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL is not set, board state is held in memory only")
		return store.NewMemory()
	}

	st, err := store.OpenPostgres(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("database connection failed", zap.Error(err))
		os.Exit(1)
	}
	return st
}

func runGracefulShutdown(srv *http.Server, rm *room.Room, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutdown signal received")

		// Open streams hold their connections, so the drain is bounded.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", zap.Error(err))
		}

		rm.Inbox() <- room.Shutdown{}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	// A .env file is optional; deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	st := setupStore(cfg, logger)
	defer func() { _ = st.Close() }()

	h := hub.New(logger)
	rm := room.New(context.Background(), st, h, logger)

	client := espn.NewClient(cfg.ESPNBaseURL,
		espn.WithTimeout(cfg.ESPNTimeout),
		espn.WithLogger(logger))
	reporter := espn.NewReporter(client, cfg.TrackedTeams, cfg.ScoresCacheTTL, clock, logger)

	handler := httpapi.SetupRoutes(httpapi.Deps{
		Room:     rm,
		Store:    st,
		Reporter: reporter,
		Clock:    clock,
		Log:      logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	done := runGracefulShutdown(srv, rm, logger)

	logger.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	<-done
}
