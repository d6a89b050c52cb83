package script

import (
	"errors"
	"fmt"
	"strings"
)

// Markers the deployer shell prints that the orchestrator reacts to.
const (
	ReadyMarker         = "Enabling HH Output"
	FolderCreatedMarker = "Creating Folder at../scripts/generated since it didn't exist before!"
	DeployedMarker      = "Deployed PublicStaking"
)

const (
	DefaultBridgeDir        = "alicenet/bridge"
	DefaultNetwork          = "dev"
	DefaultFactoryAddress   = "0x77D7c620E3d913AA78a71acffA006fc1Ae178b66"
	DefaultEnrollmentPeriod = 1000
	DefaultLockDuration     = 6000
	DefaultTotalBonusAmount = 2000000
	DefaultALCBCommand      = "npx hardhat --network %s deployNewALCB %s"
)

// Params are the knobs of the deployment script.
type Params struct {
	BridgeDir        string
	Network          string
	FactoryAddress   string
	EnrollmentPeriod int64
	LockDuration     int64
	TotalBonusAmount int64
	// ALCBCommand is a template with two %s verbs: network, then address.
	// A template with a single %s receives only the address.
	ALCBCommand string
}

// DefaultParams mirrors the alicenet bridge layout.
func DefaultParams() Params {
	return Params{
		BridgeDir:        DefaultBridgeDir,
		Network:          DefaultNetwork,
		FactoryAddress:   DefaultFactoryAddress,
		EnrollmentPeriod: DefaultEnrollmentPeriod,
		LockDuration:     DefaultLockDuration,
		TotalBonusAmount: DefaultTotalBonusAmount,
		ALCBCommand:      DefaultALCBCommand,
	}
}

// Plan is the full set of command lines for one run.
type Plan struct {
	Node      []string
	Preamble  []string
	Deploy    []string
	Secondary []string
	params    Params
}

// Build renders every script for p.
func Build(p Params) Plan {
	cd := "cd " + Quote(p.BridgeDir)
	network := Quote(p.Network)
	factory := Quote(p.FactoryAddress)

	return Plan{
		Node: []string{
			cd,
			"npx hardhat node",
		},
		Preamble: []string{
			Echo("Quietly starting Local Hardhat Node..."),
		},
		Deploy: []string{
			cd,
			Echo("Deploying legacy token contract and minting to admin[0]"),
			Echo("Copy deploymentList to generated"),
			"rm -rf ../scripts/generated",
			"mkdir -p ../scripts/generated",
			"cp ../scripts/base-files/deploymentList ../scripts/generated/deploymentList",
			"npx hardhat deploy-legacy-token-and-update-deployment-args --network " + network,
			Echo("Deploying all contracts..."),
			"npx hardhat deploy-contracts --wait-confirmation 0 --input-folder ../scripts/generated --network " + network,
			fmt.Sprintf(
				"npx hardhat --network %s deploy-lockup-and-router --factory-address %s --enrollment-period %d --lock-duration %d --total-bonus-amount %d",
				network, factory, p.EnrollmentPeriod, p.LockDuration, p.TotalBonusAmount,
			),
			fmt.Sprintf("npx hardhat --network %s create-bonus-pool-position --factory-address %s", network, factory),
			Echo(ReadyMarker + " -- Development Node at Localhost:8545"),
		},
		Secondary: []string{
			cd,
		},
		params: p,
	}
}

var ErrBadTemplate = errors.New("script: ALCB command template needs one or two %s verbs and no others")

// CheckALCBCommand reports whether tmpl renders cleanly in ALCBCommand. An
// empty template falls back to DefaultALCBCommand.
func CheckALCBCommand(tmpl string) error {
	if tmpl == "" {
		return nil
	}
	bare := strings.ReplaceAll(tmpl, "%%", "")
	n := strings.Count(bare, "%s")
	if n < 1 || n > 2 || strings.Count(bare, "%") != n {
		return fmt.Errorf("%w: %q", ErrBadTemplate, tmpl)
	}
	return nil
}

// ALCBCommand renders the secondary deploy command for the given
// PublicStaking address.
func (p Plan) ALCBCommand(address string) string {
	tmpl := p.params.ALCBCommand
	if tmpl == "" {
		tmpl = DefaultALCBCommand
	}
	addr := Quote(address)
	if strings.Count(tmpl, "%s") == 1 {
		return fmt.Sprintf(tmpl, addr)
	}
	return fmt.Sprintf(tmpl, Quote(p.params.Network), addr)
}

// Echo returns a shell command that prints msg verbatim.
func Echo(msg string) string {
	return "echo " + Quote(msg)
}

// Quote single-quotes s for bash when it contains anything beyond a
// conservative set of safe characters.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !isSafe(r) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("@%+=:,./-_", r)
}
