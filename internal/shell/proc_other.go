//go:build !unix

package shell

import (
	"os"
	"os/exec"
)

func setProcAttr(*exec.Cmd) {}

func signalGroup(p *os.Process, sig os.Signal) error {
	if sig == os.Interrupt {
		// Interrupt is not deliverable to child processes on Windows.
		return p.Kill()
	}
	return p.Signal(sig)
}
