package app

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"devchain/internal/script"
	"devchain/internal/services/alcb"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config keys, shared by flags, DEVCHAIN_* env vars and config files.
const (
	KeyConfigFile       = "config"
	KeyShell            = "shell"
	KeyBridgeDir        = "bridge-dir"
	KeyNetwork          = "network"
	KeyRPCURL           = "rpc-url"
	KeyRPCTimeout       = "rpc-timeout"
	KeyFactoryAddress   = "factory-address"
	KeyStartupDelay     = "startup-delay"
	KeyMiningInterval   = "mining-interval"
	KeyEnrollmentPeriod = "enrollment-period"
	KeyLockDuration     = "lock-duration"
	KeyTotalBonusAmount = "total-bonus-amount"
	KeyALCBCommand      = "alcb-command"
	KeyNoColor          = "no-color"
	KeyLogLevel         = "log-level"
	KeyPrivateKey       = "private-key"
	KeyArtifact         = "artifact"
	KeyMintAmount       = "mint-amount"
	KeySharePercentage  = "shareholder-percentage"
	KeyMagicTransfer    = "magic-transfer"
	KeyDeployTimeout    = "deploy-timeout"
	KeyGasLimit         = "gas-limit"
)

const (
	envPrefix = "DEVCHAIN"

	defaultShell         = "bash"
	defaultRPCURL        = "http://localhost:8545"
	defaultArtifactPath  = "artifacts/contracts/ALCB.sol/ALCB.json"
	defaultLogLevel      = "info"
	defaultStartupDelay  = 2 * time.Second
	defaultMiningPeriod  = 5 * time.Second
	defaultRPCTimeout    = 10 * time.Second
	defaultDeployTimeout = 2 * time.Minute
)

// HardhatAccount0Key is the well-known private key of the first hardhat node
// account. Never use it outside a local dev chain.
const HardhatAccount0Key = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// Config holds runtime wiring options for building the app.
type Config struct {
	Shell          string        // shell binary for child processes, e.g. bash
	Script         script.Params // bridge dir, network, factory and lockup parameters
	RPCURL         string        // dev node JSON-RPC endpoint
	RPCTimeout     time.Duration
	StartupDelay   time.Duration // wait between starting the node and deploying
	MiningInterval time.Duration // evm_setIntervalMining period
	NoColor        bool
	LogLevel       string

	// deploy-alcb
	PrivateKey      string // hex, without 0x
	Artifact        string // ALCB artifact, relative to the bridge dir unless absolute
	MintAmount      string // in ether, e.g. "1"
	SharePercentage int64
	MagicTransfer   bool
	DeployTimeout   time.Duration
	GasLimit        uint64 // zero estimates each transaction
}

// DefaultConfig mirrors the alicenet local development setup.
func DefaultConfig() Config {
	return Config{
		Shell:           defaultShell,
		Script:          script.DefaultParams(),
		RPCURL:          defaultRPCURL,
		RPCTimeout:      defaultRPCTimeout,
		StartupDelay:    defaultStartupDelay,
		MiningInterval:  defaultMiningPeriod,
		LogLevel:        defaultLogLevel,
		PrivateKey:      HardhatAccount0Key,
		Artifact:        defaultArtifactPath,
		MintAmount:      "1",
		SharePercentage: alcb.DefaultPercentage,
		MagicTransfer:   true,
		DeployTimeout:   defaultDeployTimeout,
	}
}

// RegisterFlags adds every config key to fs with its default.
func RegisterFlags(fs *pflag.FlagSet) {
	d := DefaultConfig()
	fs.String(KeyConfigFile, "", "config file (yaml, toml or json)")
	fs.String(KeyShell, d.Shell, "shell used for child processes")
	fs.String(KeyBridgeDir, d.Script.BridgeDir, "bridge project directory the shells cd into")
	fs.String(KeyNetwork, d.Script.Network, "hardhat network name")
	fs.String(KeyRPCURL, d.RPCURL, "dev node JSON-RPC URL")
	fs.Duration(KeyRPCTimeout, d.RPCTimeout, "timeout for each JSON-RPC call")
	fs.String(KeyFactoryAddress, d.Script.FactoryAddress, "factory address for lockup and bonus pool deployment")
	fs.Duration(KeyStartupDelay, d.StartupDelay, "wait after starting the node before deploying")
	fs.Duration(KeyMiningInterval, d.MiningInterval, "interval mining period set once deployment finishes")
	fs.Int64(KeyEnrollmentPeriod, d.Script.EnrollmentPeriod, "lockup enrollment period")
	fs.Int64(KeyLockDuration, d.Script.LockDuration, "lockup lock duration")
	fs.Int64(KeyTotalBonusAmount, d.Script.TotalBonusAmount, "lockup total bonus amount")
	fs.String(KeyALCBCommand, d.Script.ALCBCommand, "ALCB deploy command template (network, address)")
	fs.Bool(KeyNoColor, d.NoColor, "disable coloured output")
	fs.String(KeyLogLevel, d.LogLevel, "log level (debug, info, warn, error)")
	fs.String(KeyPrivateKey, d.PrivateKey, "owner private key for deploy-alcb (hex)")
	fs.String(KeyArtifact, d.Artifact, "ALCB artifact path, relative to the bridge dir")
	fs.String(KeyMintAmount, d.MintAmount, "ether sent with mint after deployment")
	fs.Int64(KeySharePercentage, d.SharePercentage, "shareholder percentage in tenths of a percent")
	fs.Bool(KeyMagicTransfer, d.MagicTransfer, "flag the shareholder as a magic transfer")
	fs.Duration(KeyDeployTimeout, d.DeployTimeout, "overall timeout for deploy-alcb")
	fs.Uint64(KeyGasLimit, d.GasLimit, "gas limit for deploy-alcb transactions (0 estimates)")
}

// NewViper binds fs and DEVCHAIN_* environment variables, then reads the
// config file named by --config, if any.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

// FromViper builds a validated Config.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Shell: v.GetString(KeyShell),
		Script: script.Params{
			BridgeDir:        v.GetString(KeyBridgeDir),
			Network:          v.GetString(KeyNetwork),
			FactoryAddress:   v.GetString(KeyFactoryAddress),
			EnrollmentPeriod: v.GetInt64(KeyEnrollmentPeriod),
			LockDuration:     v.GetInt64(KeyLockDuration),
			TotalBonusAmount: v.GetInt64(KeyTotalBonusAmount),
			ALCBCommand:      v.GetString(KeyALCBCommand),
		},
		RPCURL:          v.GetString(KeyRPCURL),
		RPCTimeout:      v.GetDuration(KeyRPCTimeout),
		StartupDelay:    v.GetDuration(KeyStartupDelay),
		MiningInterval:  v.GetDuration(KeyMiningInterval),
		NoColor:         v.GetBool(KeyNoColor),
		LogLevel:        v.GetString(KeyLogLevel),
		PrivateKey:      v.GetString(KeyPrivateKey),
		Artifact:        v.GetString(KeyArtifact),
		MintAmount:      v.GetString(KeyMintAmount),
		SharePercentage: v.GetInt64(KeySharePercentage),
		MagicTransfer:   v.GetBool(KeyMagicTransfer),
		DeployTimeout:   v.GetDuration(KeyDeployTimeout),
		GasLimit:        v.GetUint64(KeyGasLimit),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Shell) == "":
		return fmt.Errorf("%w: %s is empty", ErrInvalidConfig, KeyShell)
	case strings.TrimSpace(c.Script.BridgeDir) == "":
		return fmt.Errorf("%w: %s is empty", ErrInvalidConfig, KeyBridgeDir)
	case !common.IsHexAddress(c.Script.FactoryAddress):
		return fmt.Errorf("%w: %s %q is not a hex address", ErrInvalidConfig, KeyFactoryAddress, c.Script.FactoryAddress)
	case c.StartupDelay < 0:
		return fmt.Errorf("%w: %s is negative", ErrInvalidConfig, KeyStartupDelay)
	case c.MiningInterval <= 0:
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, KeyMiningInterval)
	case c.SharePercentage < 0 || c.SharePercentage > 1000:
		return fmt.Errorf("%w: %s must be within 0..1000", ErrInvalidConfig, KeySharePercentage)
	}
	if err := script.CheckALCBCommand(c.Script.ALCBCommand); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, KeyALCBCommand, err)
	}
	if _, err := c.MintWei(); err != nil {
		return err
	}
	return nil
}

// MintWei converts MintAmount, a decimal ether amount such as "1" or "0.25",
// to wei.
func (c Config) MintWei() (*big.Int, error) {
	if c.MintAmount == "" {
		return new(big.Int), nil
	}
	bad := fmt.Errorf("%w: %s %q is not a non-negative ether amount", ErrInvalidConfig, KeyMintAmount, c.MintAmount)

	whole, frac, _ := strings.Cut(c.MintAmount, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > etherDecimals {
		return nil, bad
	}
	frac += strings.Repeat("0", etherDecimals-len(frac))

	wei, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok || wei.Sign() < 0 || strings.ContainsAny(whole+frac, "+-") {
		return nil, bad
	}
	return wei, nil
}

const etherDecimals = 18
