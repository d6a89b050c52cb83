package commands

import (
	"context"

	"github.com/spf13/cobra"

	"devchain/internal/app"
)

var appCtx *app.App

func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "devchain",
		Short:        "Local hardhat dev chain orchestrator",
		SilenceUsage: true,
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		v, err := app.NewViper(root.PersistentFlags())
		if err != nil {
			return err
		}
		cfg, err := app.FromViper(v)
		if err != nil {
			return err
		}
		appCtx, err = app.NewWire(cfg)
		return err
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if appCtx != nil {
			_ = appCtx.Log.Sync()
		}
	}

	app.RegisterFlags(root.PersistentFlags())

	root.AddCommand(upCmd(), deployALCBCmd(), scrapeCmd(), scriptCmd())
	return root
}
