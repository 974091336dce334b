package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/katalvlaran/affrel/logging"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.NewWithWriter(&buf, "info", "json")
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("visible", zap.String("node", "n1"))
	require.NoError(t, l.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "n1", entry["node"])
	assert.Contains(t, entry, "caller")
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.NewWithWriter(&buf, "debug", "console")
	require.NoError(t, err)
	l.Debug("trace on")
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "trace on")
}

func TestNew_Invalid(t *testing.T) {
	_, err := logging.New("loud", "json")
	require.Error(t, err)
	_, err = logging.New("info", "xml")
	require.Error(t, err)
}
