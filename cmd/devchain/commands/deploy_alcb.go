package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"devchain/internal/address"
	"devchain/internal/services/alcb"
)

// deploy-alcb <publicStaking>: deploy ALCB with <publicStaking> as shareholder.
func deployALCBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy-alcb <publicStaking>",
		Short: "Deploy ALCB to the dev node with PublicStaking as shareholder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shareholder, err := address.Parse(args[0])
			if err != nil {
				return fmt.Errorf("shareholder %q: %w", args[0], err)
			}
			cfg := appCtx.Config
			mint, err := cfg.MintWei()
			if err != nil {
				return err
			}
			art, err := alcb.LoadArtifact(appCtx.ArtifactPath())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.DeployTimeout)
			defer cancel()

			svc, closeFn, err := appCtx.ALCBDeployer(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.Deploy(ctx, art, alcb.Options{
				Shareholder:     shareholder,
				Percentage:      cfg.SharePercentage,
				IsMagicTransfer: cfg.MagicTransfer,
				MintValue:       mint,
				GasLimit:        cfg.GasLimit,
			})
			if err != nil {
				return err
			}
			appCtx.Log.Info("alcb deployed",
				zap.Stringer("address", res.Address),
				zap.Stringer("deployTx", res.DeployTx),
				zap.Stringer("mintTx", res.MintTx),
			)
			fmt.Fprintln(cmd.OutOrStdout(), res.Address.Hex())
			return nil
		},
	}
}
