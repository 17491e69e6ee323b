package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/padwatch/internal/engine"
	"github.com/bnema/padwatch/internal/hotkey"
	"github.com/bnema/padwatch/internal/tracker"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useConfigFile points the package at path for one test
func useConfigFile(t *testing.T, path string) {
	t.Helper()
	viper.Reset()
	SetConfigPath(path)
	t.Cleanup(func() {
		viper.Reset()
		SetConfigPath("")
		Set(nil)
	})
}

func TestInitDefaults(t *testing.T) {
	useConfigFile(t, filepath.Join(t.TempDir(), "missing.toml"))

	require.NoError(t, Init())
	c := Get()
	assert.Equal(t, "any", c.Detection.TriggerMode)
	assert.Equal(t, 1000, c.Detection.EnumerationCacheMs)
	assert.Equal(t, "back+start", c.Hotkey.Combination)
	assert.True(t, c.Detection.Sources.HID)
	assert.False(t, c.IPC.Enabled)
	assert.NoError(t, c.Validate())
}

func TestInitFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "padwatch.toml")
	content := `
[detection]
trigger_mode = "startup-xinput"
poll_interval_ms = 250

[detection.sources]
bluetooth = false

[hotkey]
combination = "guide"
require_long_press = true
long_press_ms = 800
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	useConfigFile(t, path)

	require.NoError(t, Init())
	c := Get()
	assert.Equal(t, "startup-xinput", c.Detection.TriggerMode)
	assert.Equal(t, 250, c.Detection.PollIntervalMs)
	assert.False(t, c.Detection.Sources.Bluetooth)
	assert.True(t, c.Detection.Sources.HID, "unset keys keep their defaults")

	opts := c.EngineOptions()
	assert.Equal(t, tracker.ModeStartupXInput, opts.TriggerMode)
	assert.Equal(t, 250*time.Millisecond, opts.ConnectionInterval)
	assert.Equal(t, hotkey.ComboGuide, opts.Hotkey.Combination)
	assert.True(t, opts.Hotkey.RequireLongPress)
	assert.Equal(t, 800*time.Millisecond, opts.Hotkey.LongPressDuration)
}

func TestInitInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "padwatch.toml")
	require.NoError(t, os.WriteFile(path, []byte("[hotkey\ncombination = "), 0644))
	useConfigFile(t, path)

	assert.Error(t, Init())
}

func TestEnvOverride(t *testing.T) {
	useConfigFile(t, filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("PADWATCH_HOTKEY_COMBINATION", "lb+rb")
	t.Setenv("PADWATCH_DETECTION_TRIGGER_MODE", "xinput")

	require.NoError(t, Init())
	assert.Equal(t, "lb+rb", Get().Hotkey.Combination)
	assert.Equal(t, tracker.ModeXInput, Get().EngineOptions().TriggerMode)
}

func TestSnapshotsClamp(t *testing.T) {
	c := DefaultConfig
	c.Hotkey.LongPressMs = 50
	c.Hotkey.CooldownMs = 99999
	c.Hotkey.PollIntervalMs = 0
	c.Detection.PollIntervalMs = 1
	c.Detection.LockTimeoutMs = 60000
	c.Detection.EnumerationCacheMs = 0

	hk := c.HotkeySnapshot()
	assert.Equal(t, hotkey.MinLongPress, hk.LongPressDuration)
	assert.Equal(t, hotkey.MaxCooldown, hk.Cooldown)
	assert.Equal(t, hotkey.MinPollInterval, hk.PollInterval)

	assert.Equal(t, engine.MinConnectionInterval, c.EngineOptions().ConnectionInterval)
	assert.Equal(t, time.Second, c.LockTimeout())
	assert.Equal(t, 100*time.Millisecond, c.EnumerationCacheTTL())
}

func TestInvalidNamesFallBack(t *testing.T) {
	c := DefaultConfig
	c.Hotkey.Combination = "a+b+c"
	c.Detection.TriggerMode = "sometimes"

	assert.Error(t, c.Validate())
	assert.Equal(t, hotkey.ComboBackStart, c.HotkeySnapshot().Combination)
	assert.Equal(t, tracker.ModeAny, c.EngineOptions().TriggerMode)
}

func TestSetValueAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "padwatch.toml")
	useConfigFile(t, path)
	require.NoError(t, Init())

	require.NoError(t, SetValue("hotkey.cooldown_ms", "2500"))
	require.NoError(t, SetValue("ipc.enabled", "true"))
	require.NoError(t, SetValue("hotkey.combination", "select+start"))
	assert.Equal(t, 2500, Get().Hotkey.CooldownMs)
	assert.True(t, Get().IPC.Enabled)

	assert.ErrorContains(t, SetValue("hotkey.nope", "1"), "unknown config key")
	assert.Error(t, SetValue("hotkey.cooldown_ms", "soon"))
	assert.Error(t, SetValue("detection.trigger_mode", "sometimes"))

	require.NoError(t, Save())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cooldown_ms = 2500")

	// Reload from disk
	viper.Reset()
	require.NoError(t, Init())
	assert.Equal(t, 2500, Get().Hotkey.CooldownMs)
	assert.True(t, Get().IPC.Enabled)
}

func TestGetConfigPath(t *testing.T) {
	viper.Reset()
	SetConfigPath("")
	t.Setenv("HOME", "/home/testuser")
	assert.Equal(t, "/home/testuser/.config/padwatch/padwatch.toml", GetConfigPath())

	SetConfigPath("/tmp/custom.toml")
	defer SetConfigPath("")
	assert.Equal(t, "/tmp/custom.toml", GetConfigPath())
}

func TestGetBeforeInit(t *testing.T) {
	Set(nil)
	assert.Equal(t, &DefaultConfig, Get())
}

func TestSocketPath(t *testing.T) {
	c := DefaultConfig
	p, err := c.SocketPath()
	require.NoError(t, err)
	assert.Contains(t, p, "/tmp/padwatch-")

	c.IPC.SocketPath = "/run/user/1000/padwatch.sock"
	p, err = c.SocketPath()
	require.NoError(t, err)
	assert.Equal(t, "/run/user/1000/padwatch.sock", p)
}
