package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghm/hotel-booking/internal/config"
	"github.com/ghm/hotel-booking/internal/logging"
	"github.com/ghm/hotel-booking/internal/model"
	"github.com/ghm/hotel-booking/internal/repository"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User management",
	}
	cmd.AddCommand(newUserCreateCmd())
	return cmd
}

// newUserCreateCmd provisions accounts, staff included.  Registration
// over HTTP only ever creates clients.
func newUserCreateCmd() *cobra.Command {
	var username, password, role string
	c := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			role = strings.ToLower(strings.TrimSpace(role))
			if !model.ValidRole(role) {
				return fmt.Errorf("invalid --ruolo %q (want %s, %s or %s)", role, model.RoleClient, model.RoleEmployee, model.RoleAdmin)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.StoreDriver != config.DriverMySQL {
				return errors.New("user create needs STORE_DRIVER=mysql")
			}
			log, err := logging.New(cfg.Env)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()
			db, err := openDB(ctx, cfg, false, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			u, err := repository.NewUserRepo(db).Create(ctx, username, password, role, cfg.BcryptCost)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.Username, u.Role)
			return nil
		},
	}
	c.Flags().StringVar(&username, "username", "", "username")
	c.Flags().StringVar(&password, "password", "", "password")
	c.Flags().StringVar(&role, "ruolo", model.RoleClient, "role: cliente, dipendente or admin")
	_ = c.MarkFlagRequired("username")
	_ = c.MarkFlagRequired("password")
	return c
}
