package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xavierca1/buyerleads/internal/config"
	"github.com/xavierca1/buyerleads/internal/logger"
)

type app struct {
	configPath string
	cfg        *config.Config
	log        *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "leadctl",
		Short:         "Operate the buyer leads service from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			lg, err := logger.New(cfg.Logging.Level, "console", "leadctl")
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, lg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("CONFIG_PATH"), "YAML config file")

	root.AddCommand(
		newMigrateCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newTokenCmd(a),
		newEventsCmd(a),
	)
	return root
}
