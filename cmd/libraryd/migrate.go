package main

import (
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/university-library-go/library/sqlengine"
	"github.com/AntonStoeckl/university-library-go/shell/config"
	"github.com/AntonStoeckl/university-library-go/shell/logging"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and indexes, then exit",
		Args:  cobra.NoArgs,
	}

	loader := config.NewLoader(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := loader.Load()
		if err != nil {
			return err
		}

		logger, err := logging.New(logging.Options{
			Format: cfg.LogFormat,
			Level:  cfg.LogLevel,
			Output: cmd.ErrOrStderr(),
			Name:   instrumentationName,
		})
		if err != nil {
			return err
		}

		store, err := config.OpenStore(cmd.Context(), cfg, sqlengine.WithContextualLogger(logger))
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err = store.Migrate(cmd.Context()); err != nil {
			return err
		}

		logger.InfoContext(cmd.Context(), "schema migrated", "driver", cfg.DBDriver)

		return nil
	}

	return cmd
}
