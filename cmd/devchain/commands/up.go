package commands

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"devchain/internal/orchestrator"
)

// up [--alcb]: run the dev chain until every shell exits or we are interrupted.
func upCmd() *cobra.Command {
	var withALCB bool
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Start a hardhat node and deploy the bridge contracts to it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			variant := orchestrator.VariantBasic
			if withALCB {
				variant = orchestrator.VariantALCB
			}
			appCtx.Log.Info("starting dev chain", zap.Stringer("variant", variant))

			err := appCtx.Runner(variant).Run(ctx)
			switch {
			case errors.Is(err, orchestrator.ErrRerunRequired):
				return nil
			case errors.Is(err, context.Canceled):
				appCtx.Log.Info("interrupted, shells stopped")
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&withALCB, "alcb", false, "deploy ALCB with the PublicStaking address once the node is ready")
	return cmd
}
