package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSetsGlobalLevel(t *testing.T) {
	require.NoError(t, Init(Config{Level: "warn", Format: "json", Output: "stdout"}))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	require.NoError(t, Init(Config{Level: "debug", Format: "console", Output: "stderr"}))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init(Config{Level: "chatty"}))
}

func TestInitLevelIsCaseInsensitive(t *testing.T) {
	assert.NoError(t, Init(Config{Level: "INFO"}))
}
