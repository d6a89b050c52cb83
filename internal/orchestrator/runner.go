package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"devchain/internal/chainrpc"
	"devchain/internal/domain"
)

// Runner drives a Machine against real (or fake) child shells. All state
// transitions happen on the goroutine that called Run.
type Runner struct {
	Machine  Machine
	Launcher domain.Launcher
	Chain    domain.ChainClient
	Console  domain.Console
	Log      *zap.Logger
	// KillSignal is sent on the rerun branch and on cancellation. Defaults
	// to os.Interrupt.
	KillSignal os.Signal
}

// Run launches the shells and processes their output until one of:
//   - the deployer reports the generated folder was created (ErrRerunRequired)
//   - ctx is cancelled (ctx.Err(), after signalling every shell)
//   - every shell has exited (nil)
func (r *Runner) Run(ctx context.Context) error {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	sig := r.KillSignal
	if sig == nil {
		sig = os.Interrupt
	}

	procs := make(map[domain.Source]domain.Process)
	killAll := func() {
		for _, p := range procs {
			_ = p.Kill(sig)
		}
	}
	for _, src := range r.Machine.Sources() {
		p, err := r.Launcher.Launch(ctx, src)
		if err != nil {
			killAll()
			return fmt.Errorf("launch %s: %w", src, err)
		}
		procs[src] = p
	}

	stop := make(chan struct{})
	defer close(stop)
	events := make(chan Event, 64)
	send := func(ev Event) {
		select {
		case events <- ev:
		case <-stop:
		}
	}
	for _, p := range procs {
		go forward(p, send)
	}

	var calls sync.WaitGroup
	defer calls.Wait()

	ex := &executor{
		ctx:   ctx,
		log:   log,
		procs: procs,
		sig:   sig,
		r:     r,
		calls: &calls,
		send:  send,
	}

	running := len(procs)
	var state State
	ev := Event(Start{})
	for {
		next, effects := r.Machine.Transition(state, ev)
		if next.Phase != state.Phase {
			log.Debug("phase changed", zap.Stringer("from", state.Phase), zap.Stringer("to", next.Phase))
		}
		state = next
		if err := ex.apply(effects); err != nil {
			return err
		}
		if _, ok := ev.(ExitEvent); ok {
			running--
			if running == 0 {
				log.Info("all child processes exited")
				return nil
			}
		}

		select {
		case <-ctx.Done():
			log.Info("stopping child processes", zap.Error(ctx.Err()))
			killAll()
			return ctx.Err()
		case ev = <-events:
		}
	}
}

// forward turns a process's output and exit into machine events.
func forward(p domain.Process, send func(Event)) {
	for l := range p.Lines() {
		send(LineEvent{Line: l})
	}
	if exit, ok := <-p.Done(); ok {
		send(ExitEvent{Exit: exit})
	}
}

type executor struct {
	ctx   context.Context
	log   *zap.Logger
	procs map[domain.Source]domain.Process
	sig   os.Signal
	r     *Runner
	calls *sync.WaitGroup
	send  func(Event)
}

// apply runs effects in order and returns the error carried by a Halt.
func (e *executor) apply(effects []Effect) error {
	var halt error
	for _, eff := range effects {
		switch eff := eff.(type) {
		case Write:
			p, ok := e.procs[eff.Target]
			if !ok {
				e.log.Warn("no shell for command", zap.Stringer("target", eff.Target), zap.String("command", eff.Command))
				continue
			}
			e.log.Debug("writing command", zap.Stringer("target", eff.Target), zap.String("command", eff.Command))
			if err := p.Write(eff.Command); err != nil {
				e.log.Warn("write failed", zap.Error(err))
			}
		case Schedule:
			time.AfterFunc(eff.After, func() { e.send(DelayElapsed{}) })
		case Echo:
			if e.r.Console != nil {
				e.r.Console.Echo(eff.Line)
			}
		case Log:
			if ce := e.log.Check(eff.Level, eff.Message); ce != nil {
				ce.Write(eff.Fields...)
			}
		case Call:
			e.call(eff)
		case Kill:
			if p, ok := e.procs[eff.Target]; ok {
				_ = p.Kill(e.sig)
			}
		case Warn:
			if e.r.Console != nil {
				e.r.Console.Warn(eff.Text)
			}
		case Notice:
			if e.r.Console != nil {
				e.r.Console.Notice(eff.Text)
			}
		case Halt:
			halt = eff.Err
		}
	}
	return halt
}

// call issues a JSON-RPC effect in the background. Failures are logged and
// otherwise ignored.
func (e *executor) call(c Call) {
	if e.r.Chain == nil {
		return
	}
	e.calls.Add(1)
	go func() {
		defer e.calls.Done()
		var err error
		switch c.Method {
		case chainrpc.MethodSetAutomine:
			enabled, _ := firstParam[bool](c.Params)
			err = e.r.Chain.SetAutomine(e.ctx, enabled)
		case chainrpc.MethodSetIntervalMining:
			interval, _ := firstParam[int64](c.Params)
			err = e.r.Chain.SetIntervalMining(e.ctx, interval)
		default:
			err = errors.New("unsupported method")
		}
		if err != nil {
			e.log.Debug("rpc call failed", zap.String("method", c.Method), zap.Error(err))
			return
		}
		e.log.Debug("rpc call done", zap.String("method", c.Method))
	}()
}

func firstParam[T any](params []any) (T, bool) {
	var zero T
	if len(params) == 0 {
		return zero, false
	}
	v, ok := params[0].(T)
	return v, ok
}
