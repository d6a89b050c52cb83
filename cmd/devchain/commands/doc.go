// Package commands defines the devchain CLI and wires dependencies for subcommands.
//
// Commands
//
//   - up            Start the hardhat node and deploy the bridge contracts
//   - up --alcb     Same, then deploy ALCB from a third shell
//   - deploy-alcb   Deploy ALCB directly over JSON-RPC
//   - scrape        Print PublicStaking addresses found on stdin
//   - script        Print the shell scripts a run would send
//
// # Implementation
//
// The root command reads flags, DEVCHAIN_* environment variables and an
// optional config file into an app.Config and builds the dependency graph
// (logger, console, JSON-RPC client, shell launcher) before any subcommand
// runs.
package commands
