package logging_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"devchain/internal/logging"
)

func TestNewWithWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.NewWithWriter("warn", &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	require.NoError(t, log.Sync())

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
	require.Contains(t, buf.String(), "devchain")
}

func TestNewWithWriter_BadLevel(t *testing.T) {
	_, err := logging.NewWithWriter("loud", &bytes.Buffer{})
	require.Error(t, err)
}
