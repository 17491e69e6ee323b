// Package config handles configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/padwatch/internal/engine"
	"github.com/bnema/padwatch/internal/hotkey"
	"github.com/bnema/padwatch/internal/tracker"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// PADWATCH_HOTKEY_COMBINATION.
const EnvPrefix = "PADWATCH"

// Config represents the application configuration
type Config struct {
	Detection DetectionConfig `mapstructure:"detection"`
	Hotkey    HotkeyConfig    `mapstructure:"hotkey"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	IPC       IPCConfig       `mapstructure:"ipc"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DetectionConfig controls connection polling
type DetectionConfig struct {
	TriggerMode        string        `mapstructure:"trigger_mode"`
	PollIntervalMs     int           `mapstructure:"poll_interval_ms"`
	EnumerationCacheMs int           `mapstructure:"enumeration_cache_ms"`
	LockTimeoutMs      int           `mapstructure:"lock_timeout_ms"`
	Sources            SourcesConfig `mapstructure:"sources"`
}

// SourcesConfig switches individual detection sources on or off
type SourcesConfig struct {
	Fast           bool `mapstructure:"fast"`
	GameController bool `mapstructure:"game_controller"`
	HID            bool `mapstructure:"hid"`
	Bluetooth      bool `mapstructure:"bluetooth"`
}

// HotkeyConfig controls the hotkey state machine
type HotkeyConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	Combination      string `mapstructure:"combination"`
	RequireLongPress bool   `mapstructure:"require_long_press"`
	LongPressMs      int    `mapstructure:"long_press_ms"`
	CooldownMs       int    `mapstructure:"cooldown_ms"`
	PollIntervalMs   int    `mapstructure:"poll_interval_ms"`
}

// NotifyConfig contains desktop notification settings
type NotifyConfig struct {
	Desktop bool `mapstructure:"desktop"` // Show a notification on connection
	Sound   bool `mapstructure:"sound"`   // Beep on hotkey
}

// IPCConfig contains event socket settings
type IPCConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	SocketPath string `mapstructure:"socket_path"` // Empty means /tmp/padwatch-<user>.sock
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	FileLogging bool   `mapstructure:"file_logging"` // Enable/disable file logging
	LogLevel    string `mapstructure:"log_level"`    // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Detection: DetectionConfig{
			TriggerMode:        tracker.ModeAny.String(),
			PollIntervalMs:     500,
			EnumerationCacheMs: 1000,
			LockTimeoutMs:      100,
			Sources: SourcesConfig{
				Fast:           true,
				GameController: true,
				HID:            true,
				Bluetooth:      true,
			},
		},
		Hotkey: HotkeyConfig{
			Enabled:          true,
			Combination:      hotkey.ComboBackStart.String(),
			RequireLongPress: false,
			LongPressMs:      500,
			CooldownMs:       1000,
			PollIntervalMs:   50,
		},
		Notify: NotifyConfig{
			Desktop: false,
			Sound:   false,
		},
		IPC: IPCConfig{
			Enabled:    false,
			SocketPath: "",
		},
		Logging: LoggingConfig{
			FileLogging: false,
			LogLevel:    "", // Empty means use LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

func setDefaults() {
	viper.SetDefault("detection.trigger_mode", DefaultConfig.Detection.TriggerMode)
	viper.SetDefault("detection.poll_interval_ms", DefaultConfig.Detection.PollIntervalMs)
	viper.SetDefault("detection.enumeration_cache_ms", DefaultConfig.Detection.EnumerationCacheMs)
	viper.SetDefault("detection.lock_timeout_ms", DefaultConfig.Detection.LockTimeoutMs)
	viper.SetDefault("detection.sources.fast", DefaultConfig.Detection.Sources.Fast)
	viper.SetDefault("detection.sources.game_controller", DefaultConfig.Detection.Sources.GameController)
	viper.SetDefault("detection.sources.hid", DefaultConfig.Detection.Sources.HID)
	viper.SetDefault("detection.sources.bluetooth", DefaultConfig.Detection.Sources.Bluetooth)

	viper.SetDefault("hotkey.enabled", DefaultConfig.Hotkey.Enabled)
	viper.SetDefault("hotkey.combination", DefaultConfig.Hotkey.Combination)
	viper.SetDefault("hotkey.require_long_press", DefaultConfig.Hotkey.RequireLongPress)
	viper.SetDefault("hotkey.long_press_ms", DefaultConfig.Hotkey.LongPressMs)
	viper.SetDefault("hotkey.cooldown_ms", DefaultConfig.Hotkey.CooldownMs)
	viper.SetDefault("hotkey.poll_interval_ms", DefaultConfig.Hotkey.PollIntervalMs)

	viper.SetDefault("notify.desktop", DefaultConfig.Notify.Desktop)
	viper.SetDefault("notify.sound", DefaultConfig.Notify.Sound)

	viper.SetDefault("ipc.enabled", DefaultConfig.IPC.Enabled)
	viper.SetDefault("ipc.socket_path", DefaultConfig.IPC.SocketPath)

	viper.SetDefault("logging.file_logging", DefaultConfig.Logging.FileLogging)
	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)
}

// Init initializes the configuration system. A .env file in the working
// directory is loaded first so PADWATCH_* and LOG_LEVEL can live there.
func Init() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error reading .env file: %w", err)
	}

	viper.SetConfigName("padwatch")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "padwatch"))
		}
		viper.AddConfigPath(".") // Current directory (lowest priority)
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(configPathOverride != "" && errors.Is(err, os.ErrNotExist)) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	return load()
}

func load() error {
	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	cfg = c
	return nil
}

// Watch reloads the configuration whenever the config file changes and hands
// the new value to onChange. Invalid edits are reported through onError and
// the previous configuration stays in place.
func Watch(onChange func(*Config), onError func(error)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		if err := load(); err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(Get())
	})
	viper.WatchConfig()
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		return &DefaultConfig
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Save saves the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "padwatch.toml"
	}
	return filepath.Join(home, ".config", "padwatch", "padwatch.toml")
}

// Keys lists every known configuration key in sorted order
func Keys() []string {
	keys := viper.AllKeys()
	sort.Strings(keys)
	return keys
}

// SetValue validates and sets a single key, then refreshes the in-memory
// config. It does not save.
func SetValue(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if !viper.InConfig(key) && !isKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}

	switch key {
	case "detection.trigger_mode":
		if _, err := tracker.ParseTriggerMode(value); err != nil {
			return err
		}
	case "hotkey.combination":
		if _, err := hotkey.ParseCombination(value); err != nil {
			return err
		}
	}

	typed, err := coerce(viper.Get(key), value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	viper.Set(key, typed)
	return load()
}

// coerce parses value into the type of the key's current value so the saved
// TOML keeps booleans and numbers unquoted.
func coerce(current any, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch current.(type) {
	case bool:
		return strconv.ParseBool(value)
	case int, int64:
		return strconv.Atoi(value)
	default:
		return value, nil
	}
}

func isKnownKey(key string) bool {
	for _, k := range viper.AllKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// Validate reports values that cannot be used as given. Out-of-range numbers
// are not errors: they are clamped when snapshots are taken.
func (c *Config) Validate() error {
	var errs []error
	if _, err := tracker.ParseTriggerMode(c.Detection.TriggerMode); err != nil {
		errs = append(errs, err)
	}
	if _, err := hotkey.ParseCombination(c.Hotkey.Combination); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// HotkeySnapshot converts the hotkey section into a clamped state machine
// config. An unparseable combination falls back to the default.
func (c *Config) HotkeySnapshot() hotkey.Config {
	combo, err := hotkey.ParseCombination(c.Hotkey.Combination)
	if err != nil {
		combo = hotkey.ComboBackStart
	}
	return hotkey.Config{
		Combination:       combo,
		RequireLongPress:  c.Hotkey.RequireLongPress,
		LongPressDuration: ms(c.Hotkey.LongPressMs),
		Cooldown:          ms(c.Hotkey.CooldownMs),
		PollInterval:      ms(c.Hotkey.PollIntervalMs),
	}.Clamp()
}

// EngineOptions builds the engine's configuration snapshot. An unparseable
// trigger mode falls back to "any".
func (c *Config) EngineOptions() engine.Options {
	mode, err := tracker.ParseTriggerMode(c.Detection.TriggerMode)
	if err != nil {
		mode = tracker.ModeAny
	}
	return engine.Options{
		TriggerMode:        mode,
		ConnectionInterval: max(ms(c.Detection.PollIntervalMs), engine.MinConnectionInterval),
		HotkeyEnabled:      c.Hotkey.Enabled,
		Hotkey:             c.HotkeySnapshot(),
	}
}

// EnumerationCacheTTL is the enumeration tier cache lifetime, at least 100ms
func (c *Config) EnumerationCacheTTL() time.Duration {
	return max(ms(c.Detection.EnumerationCacheMs), 100*time.Millisecond)
}

// LockTimeout is the native lock wait, between 10ms and 1s
func (c *Config) LockTimeout() time.Duration {
	return min(max(ms(c.Detection.LockTimeoutMs), 10*time.Millisecond), time.Second)
}

// SocketPath returns the configured IPC socket path or the per-user default
func (c *Config) SocketPath() (string, error) {
	if c.IPC.SocketPath != "" {
		return c.IPC.SocketPath, nil
	}
	return DefaultSocketPath()
}

// DefaultSocketPath is /tmp/padwatch-<username>.sock
func DefaultSocketPath() (string, error) {
	currentUser, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}
	return filepath.Join("/tmp", fmt.Sprintf("padwatch-%s.sock", currentUser.Username)), nil
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
