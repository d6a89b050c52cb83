package app_test

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"devchain/internal/app"
	"devchain/internal/orchestrator"
)

func load(t *testing.T, args ...string) (app.Config, error) {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	app.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	v, err := app.NewViper(fs)
	if err != nil {
		return app.Config{}, err
	}
	return app.FromViper(v)
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := load(t)
	require.NoError(t, err)
	require.Equal(t, app.DefaultConfig(), cfg)
}

func TestFromViper_FlagsEnvAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devchain.yaml")
	require.NoError(t, os.WriteFile(path, []byte("network: testnet\nstartup-delay: 5s\nlock-duration: 42\n"), 0o600))
	t.Setenv("DEVCHAIN_BRIDGE_DIR", "/srv/bridge")

	cfg, err := load(t, "--config", path, "--rpc-url", "http://127.0.0.1:9545", "--lock-duration", "7")
	require.NoError(t, err)

	require.Equal(t, "/srv/bridge", cfg.Script.BridgeDir)
	require.Equal(t, "testnet", cfg.Script.Network)
	require.Equal(t, 5*time.Second, cfg.StartupDelay)
	require.Equal(t, "http://127.0.0.1:9545", cfg.RPCURL)
	require.Equal(t, int64(7), cfg.Script.LockDuration, "flags win over the config file")
}

func TestFromViper_MissingConfigFile(t *testing.T) {
	_, err := load(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*app.Config){
		"empty shell":          func(c *app.Config) { c.Shell = " " },
		"empty bridge":         func(c *app.Config) { c.Script.BridgeDir = "" },
		"bad factory":          func(c *app.Config) { c.Script.FactoryAddress = "0x1234" },
		"negative delay":       func(c *app.Config) { c.StartupDelay = -time.Second },
		"zero mining":          func(c *app.Config) { c.MiningInterval = 0 },
		"percentage too high":  func(c *app.Config) { c.SharePercentage = 1001 },
		"negative mint":        func(c *app.Config) { c.MintAmount = "-1" },
		"garbage mint":         func(c *app.Config) { c.MintAmount = "one" },
		"alcb command no verb": func(c *app.Config) { c.Script.ALCBCommand = "go run ./cmd/devchain deploy-alcb" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := app.DefaultConfig()
			mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), app.ErrInvalidConfig)
		})
	}
	require.NoError(t, app.DefaultConfig().Validate())
}

func TestMintWei(t *testing.T) {
	tests := map[string]string{
		"1":    "1000000000000000000",
		"0.25": "250000000000000000",
		".1":   "100000000000000000",
		"":     "0",
		"0":    "0",
	}
	for in, want := range tests {
		cfg := app.DefaultConfig()
		cfg.MintAmount = in
		got, err := cfg.MintWei()
		require.NoError(t, err, in)
		w, _ := new(big.Int).SetString(want, 10)
		require.Zero(t, w.Cmp(got), "%s: got %s", in, got)
	}
}

func TestApp_RunnerAndArtifactPath(t *testing.T) {
	cfg := app.DefaultConfig()
	a := app.New(cfg, nil, nil, nil, nil)

	require.Equal(t, filepath.Join("alicenet/bridge", "artifacts/contracts/ALCB.sol/ALCB.json"), a.ArtifactPath())
	a.Config.Artifact = "/abs/ALCB.json"
	require.Equal(t, "/abs/ALCB.json", a.ArtifactPath())

	require.Equal(t, "cd alicenet/bridge", a.Plan().Node[0])
}

func TestApp_Runner(t *testing.T) {
	a, err := app.NewWire(app.DefaultConfig())
	require.NoError(t, err)

	r := a.Runner(orchestrator.VariantALCB)
	require.Equal(t, orchestrator.VariantALCB, r.Machine.Variant)
	require.Equal(t, 2*time.Second, r.Machine.StartupDelay)
	require.Len(t, r.Machine.Sources(), 3)
}
