package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/confprogram/internal/core"
	"github.com/JonMunkholm/confprogram/internal/metrics"
	"github.com/JonMunkholm/confprogram/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the program over HTTP",
		Long: `Start the HTTP server. The program is rebuilt from the spreadsheet at
start and every INPUT_REFRESH_INTERVAL; previews of other exports can be
posted to /api/program/preview.`,
		Args:    cobra.MaximumNArgs(1),
		GroupID: "server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context(), args)
		},
	}
}

func (a *app) serve(ctx context.Context, args []string) error {
	slog.SetDefault(a.logger)
	a.cfg.Input.Path = a.inputPath(args)

	a.logger.Info("configuration loaded", "config", a.cfg.String())

	recorder := metrics.NewRecorder()
	service, err := a.newService(a.logger, core.WithObserver(recorder))
	if err != nil {
		return err
	}

	programs := web.NewRefresher(service, web.FileLoader(a.cfg.Input.Path, a.sheetOptions()), a.cfg.Input.RefreshInterval)
	server := web.NewServer(a.cfg, service, programs, recorder)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go programs.Run(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	a.logger.Info("server stopped")
	return nil
}
