package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ananses3m/shop-api/internal/infrastructure/db/mongo"
	"github.com/ananses3m/shop-api/internal/seed"
	"github.com/ananses3m/shop-api/pkg/logger"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load or remove demo data",
		Long:  "Replace the database contents with the demo catalogue and accounts, or wipe it.",
	}

	cmd.AddCommand(newSeedImportCmd())
	cmd.AddCommand(newSeedDestroyCmd())

	return cmd
}

// ---------- seed import ----------

func newSeedImportCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:     "import",
		Short:   "Wipe the database and insert the demo data",
		Example: `  shop-api seed import --password 123456`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSeeder(cmd.Context(), func(ctx context.Context, s *seed.Seeder) error {
				sum, err := s.Import(ctx, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Data imported: %d users, %d products\n", sum.Users, sum.Products)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&password, "password", "123456", "Password given to every demo account")
	return cmd
}

// ---------- seed destroy ----------

func newSeedDestroyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "destroy",
		Short: "Delete all users, products and orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSeeder(cmd.Context(), func(ctx context.Context, s *seed.Seeder) error {
				if err := s.Destroy(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Data destroyed")
				return nil
			})
		},
	}
}

func withSeeder(ctx context.Context, fn func(context.Context, *seed.Seeder) error) error {
	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	s := seed.New(
		mongo.NewUserRepository(db),
		mongo.NewProductRepository(db),
		mongo.NewOrderRepository(db),
		logger.Component("seed"),
	)
	return fn(ctx, s)
}
