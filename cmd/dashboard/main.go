package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"sales-dashboard/internal/cli"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(observability.NewLogger(cfg.Logger))

	if err := cli.New(cli.Options{Config: cfg}).Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
