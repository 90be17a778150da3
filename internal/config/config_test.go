package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LOOP_RUNTIME_PATH", "")

	c, err := ParseAppConfig()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".loopbot"), c.GetRuntimePath())
	assert.Equal(t, filepath.Join(home, ".loopbot", "hospitals.csv"), c.GetDatasetPath())
	assert.Equal(t, filepath.Join(home, ".loopbot", "loopbot.db"), c.GetDatabasePath())
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Equal(t, "selective", c.IntroMode)
	assert.True(t, c.IsHTTPSelected())
	assert.False(t, c.IsTelegramSelected())
	assert.False(t, c.IsCLISelected())
	assert.True(t, c.EnableTranscripts)
}

func TestParseAppConfig_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOOP_RUNTIME_PATH", dir)
	t.Setenv("LOOP_DATASET_PATH", "/data/list.csv")
	t.Setenv("LOOP_SESSION_TTL", "0")
	t.Setenv("LOOP_ENABLE_TELEGRAM", "true")

	c, err := ParseAppConfig()
	require.NoError(t, err)

	assert.Equal(t, dir, c.GetRuntimePath())
	assert.Equal(t, "/data/list.csv", c.GetDatasetPath())
	assert.Zero(t, c.SessionTTL)
	assert.True(t, c.IsTelegramSelected())
}

func TestTelegramConfig_IsAllowed(t *testing.T) {
	open := TelegramConfig{}
	assert.True(t, open.IsAllowed(42))

	closed := TelegramConfig{AllowedIDs: []int64{1, 2}}
	assert.True(t, closed.IsAllowed(2))
	assert.False(t, closed.IsAllowed(3))
}
