package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"devchain/internal/chainrpc"
	"devchain/internal/console"
	"devchain/internal/logging"
	"devchain/internal/services/alcb"
	"devchain/internal/shell"
)

// NewWire constructs the dependency graph from cfg: logger, console, JSON-RPC
// client and shell launcher.
func NewWire(cfg Config) (*App, error) {
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	out := console.New(cfg.NoColor)
	chain := chainrpc.New(cfg.RPCURL, cfg.RPCTimeout)
	launcher := &shell.Launcher{
		Shell: cfg.Shell,
		Log:   log.Named("shell"),
	}
	return New(cfg, log, out, chain, launcher), nil
}

// ALCBDeployer dials the dev node and builds an ALCB deployer owned by the
// configured private key. The returned func closes the connection.
func (a *App) ALCBDeployer(ctx context.Context) (*alcb.Service, func(), error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(a.Config.PrivateKey, "0x"))
	if err != nil {
		return nil, nil, fmt.Errorf("private key: %w", err)
	}
	client, err := ethclient.DialContext(ctx, a.Config.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", a.Config.RPCURL, err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("chain id: %w", err)
	}
	a.Log.Debug("connected to dev node", zap.String("url", a.Config.RPCURL), zap.Stringer("chainID", chainID))
	return alcb.New(client, key, chainID, a.Console, a.Log), client.Close, nil
}

// ArtifactPath resolves the ALCB artifact against the bridge directory.
func (a *App) ArtifactPath() string {
	if filepath.IsAbs(a.Config.Artifact) {
		return a.Config.Artifact
	}
	return filepath.Join(a.Config.Script.BridgeDir, a.Config.Artifact)
}
