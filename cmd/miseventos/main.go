package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miseventos/miseventos-go/internal/app"
	"github.com/miseventos/miseventos-go/internal/cli"
	"github.com/miseventos/miseventos-go/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: read .env: %v\n", err)
		return 1
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	stopToasts := cli.PrintToasts(a.UI, os.Stderr)

	runErr := cli.Run(ctx, a, os.Args[1:], os.Stdout, os.Stderr)

	stopToasts()
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Close(closeCtx); err != nil {
		a.Logger.Warn("could not save session state", "error", err)
	}

	switch {
	case runErr == nil:
		return 0
	case errors.Is(runErr, cli.ErrFailed):
		return 1
	case errors.Is(runErr, cli.ErrUsage):
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		return 2
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		return 1
	}
}
