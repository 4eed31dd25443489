package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// HostConfig is the configuration of the local bot host.
type HostConfig struct {
	BotPaths      []string     `mapstructure:"bot_paths"`
	LogLevel      string       `mapstructure:"log_level"`
	Ticks         int          `mapstructure:"ticks"`
	TickTimeoutMs int          `mapstructure:"tick_timeout_ms"`
	Wasm          WasmConfig   `mapstructure:"wasm"`
	Memory        MemoryConfig `mapstructure:"memory"`
}

// WasmConfig holds Wasm runtime configuration.
type WasmConfig struct {
	// Memory limit per module (in pages, 64KB each).
	MemoryPages uint32 `mapstructure:"memory_pages"`
	// Enable debug logging.
	Debug bool `mapstructure:"debug"`
	// Compilation cache directory.
	CacheDir string `mapstructure:"cache_dir"`
	// Maximum concurrent instances.
	MaxInstances int `mapstructure:"max_instances"`
}

// MemoryConfig controls the persisted save-state snapshot.
type MemoryConfig struct {
	// Snapshot file path. Empty disables persistence.
	SnapshotPath string `mapstructure:"snapshot_path"`
	// Compression applied to snapshot payloads: "none" or "zstd".
	Compression string `mapstructure:"compression"`
	// Maximum segment size in bytes when splitting encoded snapshots.
	SegmentLimit int `mapstructure:"segment_limit"`
}

// EnvPrefix prefixes environment overrides, e.g. SCREEPS_LOG_LEVEL or
// SCREEPS_WASM_DEBUG.
const EnvPrefix = "SCREEPS"

// LoadHostConfig layers defaults, an optional YAML file, SCREEPS_*
// environment variables and any flags that were set on the command line.
// configPath and flags may both be empty.
func LoadHostConfig(configPath string, flags *pflag.FlagSet) (*HostConfig, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("bot_paths", []string{"./bots"})
	v.SetDefault("log_level", "info")
	v.SetDefault("ticks", 1)
	v.SetDefault("tick_timeout_ms", 500)

	// Wasm defaults
	v.SetDefault("wasm.memory_pages", 256) // 16MB
	v.SetDefault("wasm.debug", false)
	v.SetDefault("wasm.cache_dir", "./build/wasm-cache")
	v.SetDefault("wasm.max_instances", 100)

	// Memory defaults
	v.SetDefault("memory.snapshot_path", "./build/memory.snap")
	v.SetDefault("memory.compression", "zstd")
	v.SetDefault("memory.segment_limit", 100*1024)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg HostConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"log-level":     "log_level",
	"bots":          "bot_paths",
	"ticks":         "ticks",
	"tick-timeout":  "tick_timeout_ms",
	"snapshot":      "memory.snapshot_path",
	"compression":   "memory.compression",
	"wasm-debug":    "wasm.debug",
	"memory-pages":  "wasm.memory_pages",
	"max-instances": "wasm.max_instances",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Validate checks values viper cannot type-check on its own.
func (c *HostConfig) Validate() error {
	if c.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", c.Ticks)
	}
	if c.TickTimeoutMs <= 0 {
		return fmt.Errorf("tick_timeout_ms must be positive, got %d", c.TickTimeoutMs)
	}
	switch c.Memory.Compression {
	case "none", "zstd":
	default:
		return fmt.Errorf("unknown memory.compression %q (must be one of: none, zstd)", c.Memory.Compression)
	}
	if c.Memory.SegmentLimit <= 0 {
		return fmt.Errorf("memory.segment_limit must be positive, got %d", c.Memory.SegmentLimit)
	}
	return nil
}
