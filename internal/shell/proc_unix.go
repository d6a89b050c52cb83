//go:build unix

package shell

import (
	"os"
	"os/exec"
	"syscall"
)

// setProcAttr puts the shell in its own process group so a signal reaches the
// commands it is running (e.g. `npx hardhat node`), not just the shell.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func signalGroup(p *os.Process, sig os.Signal) error {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return p.Signal(sig)
	}
	if err := syscall.Kill(-p.Pid, s); err != nil {
		if err == syscall.ESRCH {
			return os.ErrProcessDone
		}
		return err
	}
	return nil
}
