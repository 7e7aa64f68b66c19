package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateforward/go-fsm/internal/config"
)

var variables = []string{
	"FSM_NAME", "FSM_FRAMES", "FSM_FRAME_INTERVAL", "FSM_MAX_CHAINED", "FSM_ASYNC",
	"FSM_LOG_LEVEL", "FSM_LOG_FORMAT", "FSM_TRACE", "FSM_DIAGRAM",
}

// clearEnv unsets every variable for the test. t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range variables {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "game", cfg.Name)
	assert.Equal(t, 240, cfg.Frames)
	assert.Equal(t, 16*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, 8, cfg.MaxChained)
	assert.False(t, cfg.Async)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("FSM_FRAMES", "3")
	t.Setenv("FSM_TRACE", "true")
	t.Setenv("FSM_MAX_CHAINED", "2")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Frames)
	assert.True(t, cfg.Trace)
	assert.Equal(t, 2, cfg.MaxChained)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load("testdata/.env.demo")
	require.NoError(t, err)
	assert.Equal(t, "arcade", cfg.Name)
	assert.Equal(t, 30, cfg.Frames)
	assert.Equal(t, 5*time.Millisecond, cfg.FrameInterval)
	assert.True(t, cfg.Async)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	_, err := config.Load("testdata/missing.env")
	assert.Error(t, err)

	t.Setenv("FSM_FRAMES", "many")
	_, err = config.Load()
	assert.ErrorIs(t, err, config.ErrParsingConfig)
	assert.Panics(t, func() { config.MustLoad() })

	t.Setenv("FSM_FRAMES", "-1")
	_, err = config.Load()
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
