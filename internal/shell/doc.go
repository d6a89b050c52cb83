// Package shell runs the child shells devchain drives.
//
// Each shell is started with piped stdin/stdout/stderr in its own process
// group. Commands are written to stdin one line at a time; stdout and stderr
// are scanned line by line into a single channel, and the exit status is
// delivered once both streams are drained.
package shell
