package main

import (
	"os"

	"devchain/cmd/devchain/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
