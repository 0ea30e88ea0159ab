package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/skynix/contact-service/internal/config"
	"github.com/skynix/contact-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
		os.Exit(1)
	}

	logCfg := cfg.Logger
	if os.Getenv("LOG_LEVEL") == "" {
		logCfg.Level = "warn"
	}
	logger, err := observability.NewLogger(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: init logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli{
		cfg:    cfg.Client,
		logger: logger.With(zap.String("component", "contact-cli")),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	code := app.run(ctx, os.Args[1:])
	stop()
	_ = logger.Sync()
	os.Exit(code)
}
