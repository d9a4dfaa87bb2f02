package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miseventos/miseventos-go/internal/config"
	"github.com/miseventos/miseventos-go/internal/crypto"
	"github.com/miseventos/miseventos-go/internal/fakeapi"
	"github.com/miseventos/miseventos-go/internal/logging"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Warn("could not read .env file", "error", err)
	}

	cfg, err := config.LoadFakeAPI()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hashParams := crypto.DefaultHashParams()
	if cfg.Env != "production" {
		hashParams = crypto.LightHashParams()
	}

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: fakeapi.New(ctx, fakeapi.Options{
			JWTSecret:  cfg.JWTSecret,
			JWTExpiry:  cfg.JWTExpiry,
			HashParams: hashParams,
			Logger:     logger,
			AuthRPS:    5,
			AuthBurst:  10,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
