// Package app wires application dependencies for the CLI.
//
// Config is assembled from flags, DEVCHAIN_* environment variables and an
// optional config file (viper). NewWire builds the logger, console, JSON-RPC
// client and shell launcher from it and exposes them on App, which commands
// use to build orchestrator runs and the ALCB deployer.
package app
