package app

import (
	"go.uber.org/zap"

	"devchain/internal/domain"
	"devchain/internal/orchestrator"
	"devchain/internal/script"
)

// App is the shared context handed to every subcommand.
type App struct {
	Config   Config
	Log      *zap.Logger
	Console  domain.Console
	Chain    domain.ChainClient
	Launcher domain.Launcher
}

func New(cfg Config, log *zap.Logger, console domain.Console, chain domain.ChainClient, launcher domain.Launcher) *App {
	return &App{
		Config:   cfg,
		Log:      log,
		Console:  console,
		Chain:    chain,
		Launcher: launcher,
	}
}

// Plan renders the command scripts for the current configuration.
func (a *App) Plan() script.Plan {
	return script.Build(a.Config.Script)
}

// Runner builds an orchestrator for one run of the given variant.
func (a *App) Runner(variant orchestrator.Variant) *orchestrator.Runner {
	return &orchestrator.Runner{
		Machine: orchestrator.Machine{
			Plan:           a.Plan(),
			Variant:        variant,
			StartupDelay:   a.Config.StartupDelay,
			MiningInterval: a.Config.MiningInterval,
		},
		Launcher: a.Launcher,
		Chain:    a.Chain,
		Console:  a.Console,
		Log:      a.Log.Named("runner"),
	}
}
