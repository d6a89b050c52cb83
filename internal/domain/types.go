package domain

import "fmt"

// Source identifies which child shell produced a line or exit.
type Source int

const (
	SourceNode Source = iota
	SourceDeployer
	SourceSecondary
)

// String returns the short name used in log prefixes, e.g. "hardhat".
func (s Source) String() string {
	switch s {
	case SourceNode:
		return "hardhat"
	case SourceDeployer:
		return "deployer"
	case SourceSecondary:
		return "alcb"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// Stream is the output stream a Line was read from.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// Line is one line of child output, without the trailing newline.
type Line struct {
	Source Source
	Stream Stream
	Text   string
}

// Exit reports that a child shell has finished.
type Exit struct {
	Source Source
	Code   int
	Err    error // non-nil when the exit status could not be determined
}
