package system

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/konselapp/konsel_backend/config"
	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/model"
	"github.com/konselapp/konsel_backend/pkg/authorize"
)

// NewInitCommand validates a deployment before the server is started: the
// Casbin model must load and seed, and the collection store must answer.
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Validate authorization policies and the collection store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			fmt.Println("Checking authorization policies...")
			enforcer, err := authorize.NewEnforcer(cfg.Authorization.CasbinModelPath)
			if err != nil {
				return fmt.Errorf("casbin model: %w", err)
			}
			auth, err := authorize.NewAuthorization(enforcer)
			if err != nil {
				return fmt.Errorf("authorization: %w", err)
			}
			if err := authorize.SeedDefaultPolicies(ctx, auth); err != nil {
				return fmt.Errorf("seed policies: %w", err)
			}
			fmt.Println("Policies OK.")

			fmt.Println("Checking collection store...")
			gw := gateway.NewHTTPGateway(cfg.Gateway, slog.Default())
			var probe []model.Profile
			if err := gw.Select(ctx, gateway.Query{
				Collection: model.CollectionProfiles,
				Limit:      1,
			}, &probe); err != nil {
				return fmt.Errorf("collection store: %w", err)
			}
			fmt.Println("Collection store OK.")
			return nil
		},
	}

	return cmd
}
