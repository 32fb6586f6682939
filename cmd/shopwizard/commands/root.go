package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Kerhoff/ShopWizard/internal/config"
	"github.com/Kerhoff/ShopWizard/pkg/logger"
)

// app holds what every subcommand needs. It is filled in once the flags
// are parsed, before any RunE runs.
type app struct {
	cfg *config.Config
	log *logrus.Logger
}

// Execute runs the shopwizard CLI. Without a subcommand it serves the bot.
func Execute() error {
	root, _ := newRootCmd()
	return root.Execute()
}

func newRootCmd() (*cobra.Command, *app) {
	rt := &app{}

	root := &cobra.Command{
		Use:           "shopwizard",
		Short:         "Telegram shopping list, contact book and weather bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			rt.cfg = cfg
			rt.log = logger.New(cfg.LogLevel, cfg.LogFile)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), rt.cfg, rt.log)
		},
	}

	root.AddCommand(serveCmd(rt), migrateCmd(rt))
	return root, rt
}
