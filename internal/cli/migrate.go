package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghm/hotel-booking/internal/config"
	"github.com/ghm/hotel-booking/internal/logging"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.StoreDriver != config.DriverMySQL {
				return errors.New("migrate needs STORE_DRIVER=mysql")
			}
			log, err := logging.New(cfg.Env)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			db, err := openDB(ctx, cfg, true, log)
			if err != nil {
				return err
			}
			return db.Close()
		},
	}
}
