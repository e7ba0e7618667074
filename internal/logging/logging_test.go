package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)

	level, err = ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetupWritesFileAndConsole(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	path := filepath.Join(t.TempDir(), "nested", "app.log")
	var console bytes.Buffer
	closer, err := Setup(Options{Level: "warn", File: path, Console: &console})
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("passage", "7").Msg("visible")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), `"passage":"7"`)
	assert.Contains(t, console.String(), "visible")
}

func TestSetupWithoutSinks(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	closer, err := Setup(Options{})
	require.NoError(t, err)
	log.Error().Msg("dropped")
	assert.NoError(t, closer.Close())
}
