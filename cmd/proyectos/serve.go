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

	"github.com/spf13/cobra"

	"proyectos/internal/app"
	"proyectos/internal/logging"
	"proyectos/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr      string
		staticDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the project API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("static") {
				cfg.StaticDir = staticDir
			}

			logger := logging.New(cfg.Env, cmd.OutOrStdout())
			logger.Info("proyectos API", slog.String("version", Version), slog.String("store", cfg.Store.Driver))

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			store, err := app.OpenProjectStore(ctx, cfg, logger)
			cancel()
			if err != nil {
				logger.Error("unable to open store", slog.String("error", err.Error()))
				return err
			}
			defer store.Close()

			srv := server.New(store, logger, cfg.StaticDir, server.NewMetrics())
			httpServer := &http.Server{
				Addr:    cfg.Addr,
				Handler: srv.Engine(),
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting server", slog.String("addr", httpServer.Addr))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err, ok := <-errCh:
				if ok {
					logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
					return err
				}
				return nil
			case <-quit:
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("failed to shutdown server", slog.String("error", err.Error()))
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().StringVar(&staticDir, "static", "", "directory with the built front end")
	return cmd
}
