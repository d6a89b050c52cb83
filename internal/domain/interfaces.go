package domain

import (
	"context"
	"os"
)

// Process is a running child shell that accepts line-oriented commands.
//
// Lines and Done are closed/fired once the child has exited and both of its
// output streams are drained.
type Process interface {
	// Write sends one command line; a trailing newline is added.
	Write(command string) error
	// Lines streams stdout and stderr lines until the child exits.
	Lines() <-chan Line
	// Done yields the exit exactly once, after Lines is closed.
	Done() <-chan Exit
	// Kill signals the child. Repeated calls are no-ops.
	Kill(sig os.Signal) error
}

// Launcher spawns child shells.
type Launcher interface {
	Launch(ctx context.Context, source Source) (Process, error)
}

// ChainClient issues the dev-node configuration calls.
type ChainClient interface {
	SetAutomine(ctx context.Context, enabled bool) error
	SetIntervalMining(ctx context.Context, intervalMillis int64) error
}

// Console renders child output and operator-facing messages.
type Console interface {
	Echo(line Line)
	Warn(text string)
	Notice(text string)
}
