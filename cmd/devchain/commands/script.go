package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// script: print the command lines each shell receives during up.
func scriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "script",
		Short: "Print the shell scripts sent during a run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := appCtx.Plan()
			out := cmd.OutOrStdout()
			section(out, "hardhat", plan.Node)
			section(out, "deployer", append(append([]string{}, plan.Preamble...), plan.Deploy...))
			section(out, "alcb", append(append([]string{}, plan.Secondary...), plan.ALCBCommand("<PublicStaking>")))
			return nil
		},
	}
}

func section(w io.Writer, name string, lines []string) {
	fmt.Fprintf(w, "# %s\n", name)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintln(w)
}
