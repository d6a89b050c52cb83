package console_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"devchain/internal/console"
	"devchain/internal/domain"
)

func TestEcho_NoColor(t *testing.T) {
	var buf bytes.Buffer
	c := console.NewWithWriter(&buf, true)

	c.Echo(domain.Line{Source: domain.SourceDeployer, Text: "Deployed 100% {{of}} it"})
	c.Warn("Files now generated, please run again!")
	c.Notice("NOTE: Hardhat Output will be YELLOW")

	require.Equal(t, "Deployed 100% {{of}} it\nFiles now generated, please run again!\nNOTE: Hardhat Output will be YELLOW\n", buf.String())
}

func TestEcho_Color(t *testing.T) {
	var buf bytes.Buffer
	c := console.NewWithWriter(&buf, false)

	c.Echo(domain.Line{Source: domain.SourceNode, Text: "eth_blockNumber"})

	require.Contains(t, buf.String(), "\x1b[")
	require.Contains(t, buf.String(), "eth_blockNumber")
}
