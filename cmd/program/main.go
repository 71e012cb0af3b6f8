package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	_ "time/tzdata" // EVENT_TIMEZONE must resolve on hosts without a zoneinfo database

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/confprogram/internal/cli"
)

var version = "dev"

func main() {
	// Load .env if present. Variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cli.SetVersion(version)

	if err := cli.Execute(context.Background()); err != nil {
		cli.NewPrinter(os.Stderr).Error(err)
		os.Exit(1)
	}
}
