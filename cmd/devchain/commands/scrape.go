package commands

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"devchain/internal/address"
)

// scrape: read deployer output on stdin, print each PublicStaking address.
func scrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Print PublicStaking addresses found in deployment output on stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			sc := bufio.NewScanner(cmd.InOrStdin())
			sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for sc.Scan() {
				addr, err := address.Scrape(sc.Text())
				if err != nil {
					continue
				}
				fmt.Fprintln(out, addr.Hex())
			}
			return sc.Err()
		},
	}
}
