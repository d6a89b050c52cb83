package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"devchain/internal/domain"
)

const maxLineSize = 1 << 20

// Launcher spawns one interactive shell per source.
type Launcher struct {
	Shell string   // e.g. "bash"
	Args  []string // extra arguments passed to Shell
	Dir   string   // working directory, empty for the current one
	Log   *zap.Logger
}

var _ domain.Launcher = (*Launcher)(nil)

func (l *Launcher) Launch(ctx context.Context, source domain.Source) (domain.Process, error) {
	return Start(ctx, source, l.Shell, l.Args, l.Dir, l.Log)
}

// Process is a shell child fed commands over stdin.
type Process struct {
	source domain.Source
	cmd    *exec.Cmd
	log    *zap.Logger

	mu    sync.Mutex
	stdin io.WriteCloser

	lines chan domain.Line
	done  chan domain.Exit

	killOnce sync.Once
	killErr  error
}

var _ domain.Process = (*Process)(nil)

// Start spawns name with args and begins streaming its output. Cancelling
// ctx does not kill the child; use Kill.
func Start(ctx context.Context, source domain.Source, name string, args []string, dir string, log *zap.Logger) (*Process, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	setProcAttr(cmd)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%s stdin: %w", source, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%s stdout: %w", source, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%s stderr: %w", source, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s shell %q: %w", source, name, err)
	}

	p := &Process{
		source: source,
		cmd:    cmd,
		log:    log.With(zap.Stringer("source", source), zap.Int("pid", cmd.Process.Pid)),
		stdin:  stdin,
		lines:  make(chan domain.Line, 64),
		done:   make(chan domain.Exit, 1),
	}
	p.log.Debug("shell started", zap.String("shell", name))

	go p.pump(stdout, stderr)
	return p, nil
}

func (p *Process) pump(stdout, stderr io.Reader) {
	var g errgroup.Group
	g.Go(func() error { return p.scan(stdout, domain.Stdout) })
	g.Go(func() error { return p.scan(stderr, domain.Stderr) })
	if err := g.Wait(); err != nil {
		p.log.Debug("output stream ended with error", zap.Error(err))
	}
	close(p.lines)

	exit := domain.Exit{Source: p.source}
	if err := p.cmd.Wait(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			exit.Code = ee.ExitCode()
		} else {
			exit.Code = -1
			exit.Err = err
		}
	}
	p.log.Debug("shell exited", zap.Int("code", exit.Code))
	p.done <- exit
	close(p.done)
}

func (p *Process) scan(r io.Reader, stream domain.Stream) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		p.lines <- domain.Line{Source: p.source, Stream: stream, Text: sc.Text()}
	}
	return sc.Err()
}

func (p *Process) Write(command string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stdin == nil {
		return fmt.Errorf("%s: stdin closed", p.source)
	}
	if _, err := io.WriteString(p.stdin, command+"\n"); err != nil {
		return fmt.Errorf("%s: write %q: %w", p.source, command, err)
	}
	return nil
}

// closeInput closes the child's stdin so the shell exits once its current
// command ends.
func (p *Process) closeInput() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stdin == nil {
		return nil
	}
	err := p.stdin.Close()
	p.stdin = nil
	return err
}

func (p *Process) Lines() <-chan domain.Line { return p.lines }

func (p *Process) Done() <-chan domain.Exit { return p.done }

// Kill signals the shell's process group and closes its stdin. A shell that
// survives the signal still exits after its foreground job, and later writes
// fail.
func (p *Process) Kill(sig os.Signal) error {
	p.killOnce.Do(func() {
		defer func() {
			if err := p.closeInput(); err != nil {
				p.log.Debug("closing shell stdin", zap.Error(err))
			}
		}()
		p.killErr = signalGroup(p.cmd.Process, sig)
		if p.killErr == nil || errors.Is(p.killErr, os.ErrProcessDone) {
			p.killErr = nil
			p.log.Debug("shell was signalled", zap.Stringer("signal", sig))
			return
		}
		p.log.Error("shell signal failed", zap.Stringer("signal", sig), zap.Error(p.killErr))
	})
	return p.killErr
}
