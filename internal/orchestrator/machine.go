package orchestrator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"devchain/internal/address"
	"devchain/internal/chainrpc"
	"devchain/internal/domain"
	"devchain/internal/script"
)

// ErrRerunRequired is returned when the deployer reports it had to create the
// generated scripts folder. The operator must simply run devchain again.
var ErrRerunRequired = errors.New("generated files created, run again")

const RerunWarning = "Files now generated, please run again!"

// NodeColorNotice is printed before any shell is written to.
const NodeColorNotice = "NOTE: Hardhat Output will be YELLOW"

type Phase int

const (
	Idle Phase = iota
	NodeStarting
	Deploying
	AddressCaptured
	SecondaryTriggered
	Ready
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case NodeStarting:
		return "node-starting"
	case Deploying:
		return "deploying"
	case AddressCaptured:
		return "address-captured"
	case SecondaryTriggered:
		return "secondary-deploy-triggered"
	case Ready:
		return "ready"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type Variant int

const (
	// VariantBasic runs the node and the deployment script.
	VariantBasic Variant = iota
	// VariantALCB additionally deploys ALCB with the scraped PublicStaking
	// address once the script reports readiness.
	VariantALCB
)

func (v Variant) String() string {
	if v == VariantALCB {
		return "alcb"
	}
	return "basic"
}

// State is the value threaded through Transition. The zero value is Idle.
type State struct {
	Phase         Phase
	NodeQuiet     bool
	PublicStaking common.Address
	HasAddress    bool
}

// Event is one input to the machine.
type Event interface{ isEvent() }

type (
	Start        struct{}
	DelayElapsed struct{}
	LineEvent    struct{ Line domain.Line }
	ExitEvent    struct{ Exit domain.Exit }
)

func (Start) isEvent()        {}
func (DelayElapsed) isEvent() {}
func (LineEvent) isEvent()    {}
func (ExitEvent) isEvent()    {}

// Effect is a side effect requested by a transition, executed by Runner.
type Effect interface{ isEffect() }

type (
	// Write sends a command line to a child shell.
	Write struct {
		Target  domain.Source
		Command string
	}
	// Schedule asks for a DelayElapsed event after the given delay.
	Schedule struct{ After time.Duration }
	// Echo forwards child output to the console.
	Echo struct{ Line domain.Line }
	// Log records a structured log entry.
	Log struct {
		Level   zapcore.Level
		Message string
		Fields  []zap.Field
	}
	// Call issues a best-effort JSON-RPC call to the node.
	Call struct {
		Method string
		Params []any
	}
	// Kill signals a child shell.
	Kill struct{ Target domain.Source }
	// Warn prints an operator-facing warning.
	Warn struct{ Text string }
	// Notice prints an uncoloured operator message.
	Notice struct{ Text string }
	// Halt stops the run with Err.
	Halt struct{ Err error }
)

func (Write) isEffect()    {}
func (Schedule) isEffect() {}
func (Echo) isEffect()     {}
func (Log) isEffect()      {}
func (Call) isEffect()     {}
func (Kill) isEffect()     {}
func (Warn) isEffect()     {}
func (Notice) isEffect()   {}
func (Halt) isEffect()     {}

// Machine holds the static inputs of a run. Transition is pure: it never
// touches processes, the network or the clock.
type Machine struct {
	Plan           script.Plan
	Variant        Variant
	StartupDelay   time.Duration
	MiningInterval time.Duration
}

// Sources lists the child shells the variant needs, in launch order.
func (m Machine) Sources() []domain.Source {
	if m.Variant == VariantALCB {
		return []domain.Source{domain.SourceNode, domain.SourceDeployer, domain.SourceSecondary}
	}
	return []domain.Source{domain.SourceNode, domain.SourceDeployer}
}

func (m Machine) Transition(s State, ev Event) (State, []Effect) {
	if s.Phase == Terminated {
		return s, nil
	}

	switch ev := ev.(type) {
	case Start:
		return m.start(s)
	case DelayElapsed:
		if s.Phase != NodeStarting {
			return s, nil
		}
		s.Phase = Deploying
		return s, writes(domain.SourceDeployer, m.Plan.Deploy)
	case LineEvent:
		return m.line(s, ev.Line)
	case ExitEvent:
		fields := []zap.Field{zap.Stringer("source", ev.Exit.Source), zap.Int("code", ev.Exit.Code)}
		if ev.Exit.Err != nil {
			fields = append(fields, zap.Error(ev.Exit.Err))
		}
		return s, []Effect{Log{Level: zapcore.InfoLevel, Message: "child process exited", Fields: fields}}
	default:
		return s, nil
	}
}

func (m Machine) start(s State) (State, []Effect) {
	if s.Phase != Idle {
		return s, nil
	}
	s.Phase = NodeStarting
	s.NodeQuiet = true

	effects := []Effect{Notice{Text: NodeColorNotice}}
	effects = append(effects, writes(domain.SourceDeployer, m.Plan.Preamble)...)
	effects = append(effects, writes(domain.SourceNode, m.Plan.Node)...)
	if m.Variant == VariantALCB {
		effects = append(effects, writes(domain.SourceSecondary, m.Plan.Secondary)...)
	}
	effects = append(effects, Schedule{After: m.StartupDelay})
	return s, effects
}

func (m Machine) line(s State, l domain.Line) (State, []Effect) {
	if l.Stream == domain.Stderr {
		return s, []Effect{Log{
			Level:   zapcore.WarnLevel,
			Message: l.Source.String() + "_stderr",
			Fields:  []zap.Field{zap.String("line", l.Text)},
		}}
	}

	switch l.Source {
	case domain.SourceNode:
		if s.NodeQuiet {
			return s, nil
		}
		return s, []Effect{Echo{Line: l}}
	case domain.SourceDeployer:
		return m.deployerLine(s, l)
	default:
		return s, []Effect{Echo{Line: l}}
	}
}

func (m Machine) deployerLine(s State, l domain.Line) (State, []Effect) {
	effects := []Effect{Echo{Line: l}}

	if strings.Contains(l.Text, script.FolderCreatedMarker) {
		effects = append(effects, Warn{Text: RerunWarning})
		for _, src := range []domain.Source{domain.SourceDeployer, domain.SourceNode} {
			effects = append(effects, Kill{Target: src})
		}
		if m.Variant == VariantALCB {
			effects = append(effects, Kill{Target: domain.SourceSecondary})
		}
		s.Phase = Terminated
		return s, append(effects, Halt{Err: ErrRerunRequired})
	}

	if strings.Contains(l.Text, script.DeployedMarker) && s.Phase != SecondaryTriggered {
		addr, err := address.Scrape(l.Text)
		if err != nil {
			effects = append(effects, Log{
				Level:   zapcore.WarnLevel,
				Message: "could not scrape PublicStaking address",
				Fields:  []zap.Field{zap.String("line", l.Text), zap.Error(err)},
			})
		} else {
			s.PublicStaking = addr
			s.HasAddress = true
			if s.Phase == Deploying {
				s.Phase = AddressCaptured
			}
			effects = append(effects, Log{
				Level:   zapcore.InfoLevel,
				Message: "captured PublicStaking address",
				Fields:  []zap.Field{zap.String("address", addr.Hex())},
			})
		}
	}

	if strings.Contains(l.Text, script.ReadyMarker) && s.NodeQuiet {
		s.NodeQuiet = false
		effects = append(effects,
			Log{Level: zapcore.InfoLevel, Message: "deployment finished, enabling node output"},
			Call{Method: chainrpc.MethodSetAutomine, Params: []any{true}},
			Call{Method: chainrpc.MethodSetIntervalMining, Params: []any{m.MiningInterval.Milliseconds()}},
		)
		switch {
		case m.Variant != VariantALCB:
			s.Phase = Ready
		case s.HasAddress:
			s.Phase = SecondaryTriggered
			effects = append(effects, Write{
				Target:  domain.SourceSecondary,
				Command: m.Plan.ALCBCommand(s.PublicStaking.Hex()),
			})
		default:
			s.Phase = Ready
			effects = append(effects, Warn{Text: "no PublicStaking address was captured, skipping ALCB deployment"})
		}
	}

	return s, effects
}

func writes(target domain.Source, commands []string) []Effect {
	out := make([]Effect, 0, len(commands))
	for _, c := range commands {
		out = append(out, Write{Target: target, Command: c})
	}
	return out
}
