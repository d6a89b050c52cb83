package alcb_test

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"

	"devchain/internal/domain"
	"devchain/internal/services/alcb"
)

// tokenRuntime is a stand-in for ALCB:
//
//	balanceOf(address) returns slot 0
//	mint() payable     reverts above 2^64-1 wei, else adds msg.value to slot 0 and returns it
//	anything else      reverts
const tokenRuntime = "600035" + "60e01c" + "80" + "6370a08231" + "14" + "601d57" + "631249c58b" + "14" + "602957" + "600080fd" +
	"5b" + "600054" + "600052" + "60206000f3" +
	"5b" + "67ffffffffffffffff" + "3411" + "604957" + "34" + "600054" + "01" + "80" + "600055" + "600052" + "60206000f3" +
	"5b600080fd"

// tokenInit copies the 0x4e byte runtime that follows it and returns it.
// Constructor arguments appended after the runtime are ignored.
const tokenInit = "604e80600b6000396000f3"

type noticeConsole struct {
	mu      sync.Mutex
	noticed []string
}

func (c *noticeConsole) Echo(domain.Line) {}
func (c *noticeConsole) Warn(string)      {}
func (c *noticeConsole) Notice(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.noticed = append(c.noticed, text)
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(params.Ether))
}

type chain struct {
	sim     *simulated.Backend
	svc     *alcb.Service
	console *noticeConsole
	art     alcb.Artifact
}

// newChain starts an in-process chain that seals a block every few
// milliseconds, with a funded owner.
func newChain(t *testing.T) *chain {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	owner := crypto.PubkeyToAddress(key.PublicKey)

	sim := simulated.NewBackend(types.GenesisAlloc{owner: {Balance: ether(1000)}})
	t.Cleanup(func() { _ = sim.Close() })

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		tick := time.NewTicker(20 * time.Millisecond)
		defer tick.Stop()
		for {
			select {
			case <-done:
				return
			case <-tick.C:
				sim.Commit()
			}
		}
	}()
	t.Cleanup(func() {
		close(done)
		wg.Wait()
	})

	client := sim.Client()
	chainID, err := client.ChainID(context.Background())
	require.NoError(t, err)

	abiJSON := strings.NewReplacer("%PCT%", "uint256", "%MINT%", "").Replace(alcbABI)
	art, err := alcb.ParseArtifact([]byte(`{"contractName": "ALCB", "abi": ` + abiJSON + `, "bytecode": "0x` + tokenInit + tokenRuntime + `"}`))
	require.NoError(t, err)

	out := &noticeConsole{}
	return &chain{
		sim:     sim,
		svc:     alcb.New(client, key, chainID, out, nil),
		console: out,
		art:     art,
	}
}

func deployCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestDeploy_MintsAndReportsBalances(t *testing.T) {
	c := newChain(t)
	ctx := deployCtx(t)
	owner := c.svc.Owner()

	res, err := c.svc.Deploy(ctx, c.art, alcb.Options{
		Shareholder:     shareholder,
		Percentage:      alcb.DefaultPercentage,
		IsMagicTransfer: true,
		MintValue:       ether(1),
	})
	require.NoError(t, err)

	require.Equal(t, owner, res.Owner)
	require.NotEqual(t, common.Address{}, res.Address)
	require.NotEqual(t, common.Hash{}, res.DeployTx)
	require.NotEqual(t, common.Hash{}, res.MintTx)
	require.Zero(t, res.InitialBalance.Sign())
	require.Zero(t, ether(1).Cmp(res.EndingBalance), "ending balance %s", res.EndingBalance)

	code, err := c.sim.Client().CodeAt(ctx, res.Address, nil)
	require.NoError(t, err)
	require.Equal(t, common.FromHex(tokenRuntime), code)

	require.Equal(t, []string{
		"Deploying New ALCB with shareHolderAccount: " + shareholder.Hex(),
		fmt.Sprintf("ALCB deployed to %s, owned by %s, shareholder is: %s", res.Address.Hex(), owner.Hex(), shareholder.Hex()),
		"ALCB Initial Owner Balance: 0, funding account: " + owner.Hex(),
		"ALCB Initial Ending Balance: 1000000000000000000",
	}, c.console.noticed)
}

func TestDeploy_ZeroMintSkipsMint(t *testing.T) {
	c := newChain(t)

	res, err := c.svc.Deploy(deployCtx(t), c.art, alcb.Options{
		Shareholder: shareholder,
		Percentage:  alcb.DefaultPercentage,
		MintValue:   new(big.Int),
	})
	require.NoError(t, err)

	require.Equal(t, common.Hash{}, res.MintTx)
	require.Zero(t, res.InitialBalance.Sign())
	require.Same(t, res.InitialBalance, res.EndingBalance)
	require.Len(t, c.console.noticed, 3)
}

func TestDeploy_RevertedMint(t *testing.T) {
	c := newChain(t)

	// A fixed gas limit skips estimation, so the reverting mint is mined.
	res, err := c.svc.Deploy(deployCtx(t), c.art, alcb.Options{
		Shareholder: shareholder,
		Percentage:  alcb.DefaultPercentage,
		MintValue:   ether(20),
		GasLimit:    1_000_000,
	})
	require.ErrorIs(t, err, alcb.ErrTxFailed)
	require.ErrorContains(t, err, "mint")

	require.NotEqual(t, common.Address{}, res.Address, "deployment itself succeeded")
	require.NotEqual(t, common.Hash{}, res.MintTx)
	require.Nil(t, res.EndingBalance)
}
