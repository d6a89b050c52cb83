package address_test

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"devchain/internal/address"
)

// First contract deployed by hardhat account 0 on a fresh node.
const checksummed = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

func TestScrape_DeployedLine(t *testing.T) {
	got, err := address.Scrape("Deployed PublicStaking " + checksummed + ", with factory 0x77D7c620E3d913AA78a71acffA006fc1Ae178b66")
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress(checksummed), got)
}

func TestScrape_PrefixedAndLowercase(t *testing.T) {
	lower := strings.ToLower(checksummed)
	got, err := address.Scrape("  [deploy] Deployed PublicStaking " + lower + ",")
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress(checksummed), got)
}

func TestScrape_ColourCodeBeforeDeployed(t *testing.T) {
	got, err := address.Scrape("\x1b[32mDeployed PublicStaking " + checksummed + ",")
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress(checksummed), got)
}

func TestScrape_NoMatch(t *testing.T) {
	for _, line := range []string{
		"",
		"Deployed PublicStaking",
		"Deployed ALCA 0x5FbDB2315678afecb367f032d93F642f64180aa3,",
		"Deployed PublicStaking pending...",
		"Deployed PublicStaking 0x1234,",
		"NotDeployed ALCA 0x5FbDB2315678afecb367f032d93F642f64180aa3",
	} {
		_, err := address.Scrape(line)
		require.ErrorIs(t, err, address.ErrNoAddress, "line %q", line)
	}
}

func TestScrape_BadChecksum(t *testing.T) {
	// flip the case of one letter
	bad := "0x5fbDB2315678afecb367f032d93F642f64180aa3"
	_, err := address.Scrape("Deployed PublicStaking " + bad + ",")
	require.ErrorIs(t, err, address.ErrBadChecksum)
}

func TestChecksum(t *testing.T) {
	// EIP-55 reference vectors
	for _, want := range []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
		checksummed,
	} {
		require.Equal(t, want, address.Checksum(strings.ToLower(want)))
		require.Equal(t, common.HexToAddress(want).Hex(), address.Checksum(want))
		require.True(t, address.ValidChecksum(want))
	}
}
