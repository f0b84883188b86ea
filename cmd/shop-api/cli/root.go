package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ananses3m/shop-api/internal/infrastructure/config"
	"github.com/ananses3m/shop-api/pkg/logger"
)

// Execute creates the root command tree and runs it.
func Execute(version, commit string) error {
	return newRootCmd(version, commit).Execute()
}

func newRootCmd(version, commit string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop-api",
		Short: "Ananses3m Wear store backend",
		Long: `Backend for the Ananses3m Wear store: accounts, catalogue, orders,
image uploads and mobile-money payments.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newVersionCmd(version, commit))

	return cmd
}

func newVersionCmd(version, commit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shop-api %s (%s)\n", version, commit)
		},
	}
}

// bootstrap loads the configuration and initialises the process logger.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "shop-api",
	})
	return cfg, log, nil
}
