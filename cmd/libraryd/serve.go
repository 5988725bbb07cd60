package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/university-library-go/httpapi"
	"github.com/AntonStoeckl/university-library-go/shell/config"
	"github.com/AntonStoeckl/university-library-go/shell/logging"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API until SIGINT or SIGTERM",
		Args:  cobra.NoArgs,
	}

	loader := config.NewLoader(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := loader.Load()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cmd, cfg)
	}

	return cmd
}

func serve(ctx context.Context, cmd *cobra.Command, cfg config.Config) error {
	telemetry, err := config.NewTelemetryProviders(ctx, cfg, version())
	if err != nil {
		return fmt.Errorf("start telemetry: %w", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		_ = telemetry.Shutdown(shutdownCtx) // nothing left to report to
	}()

	logger, err := logging.New(logging.Options{
		Format: cfg.LogFormat,
		Level:  cfg.LogLevel,
		Output: cmd.ErrOrStderr(),
		Name:   instrumentationName,
	})
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "configuration loaded", "config", fmt.Sprintf("%+v", cfg.Redacted()))

	obs := newObservability(logger, telemetry != nil)

	store, err := config.OpenStore(ctx, cfg, obs.storeOptions()...)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if cfg.MigrateOnStart {
		if err = store.Migrate(ctx); err != nil {
			return err
		}
	}

	services, err := buildServices(store, obs)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewServer(services,
			httpapi.WithAllowedOrigins(cfg.CORSAllowedOrigin...),
			httpapi.WithContextualLogger(logger),
		),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "http server listening", "addr", cfg.HTTPAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
		logger.InfoContext(ctx, "shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err = <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
