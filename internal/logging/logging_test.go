package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userdeck/userdeck/internal/config/data"
)

func TestSetupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "userdeck.log")
	log, cleanup, err := Setup(data.Logger{Level: "debug", File: path})
	require.NoError(t, err)

	log.Debug().Str("k", "v").Msg("hello")
	cleanup()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"message":"hello"`)
	assert.Contains(t, string(raw), `"k":"v"`)
}

func TestSetupNoFile(t *testing.T) {
	log, cleanup, err := Setup(data.Logger{})
	require.NoError(t, err)
	log.Info().Msg("dropped")
	cleanup()
}

func TestNewLevelFilter(t *testing.T) {
	var buff bytes.Buffer
	log, cleanup, err := New(data.Logger{Level: "WARN"}, &buff)
	require.NoError(t, err)
	defer cleanup()

	log.Info().Msg("quiet")
	log.Warn().Msg("loud")
	assert.NotContains(t, buff.String(), "quiet")
	assert.Contains(t, buff.String(), "loud")
}

func TestNewTextFormat(t *testing.T) {
	var buff bytes.Buffer
	log, _, err := New(data.Logger{Format: "text"}, &buff)
	require.NoError(t, err)

	log.Info().Msg("plain")
	assert.Contains(t, buff.String(), "INF")
	assert.Contains(t, buff.String(), "plain")
}

func TestSetupBadLevel(t *testing.T) {
	_, _, err := Setup(data.Logger{Level: "chatty"})
	require.Error(t, err)
}

func TestLokiRequiresURL(t *testing.T) {
	var buff bytes.Buffer
	_, _, err := New(data.Logger{Loki: data.Loki{Enabled: true}}, &buff)
	require.Error(t, err)
}
