package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadHostConfigDefaults(t *testing.T) {
	cfg, err := LoadHostConfig("", nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Default log level mismatch: got %s, want info", cfg.LogLevel)
	}

	if cfg.Ticks != 1 {
		t.Errorf("Default ticks mismatch: got %d, want 1", cfg.Ticks)
	}

	if cfg.TickTimeoutMs != 500 {
		t.Errorf("Default tick timeout mismatch: got %d, want 500", cfg.TickTimeoutMs)
	}

	if len(cfg.BotPaths) != 1 || cfg.BotPaths[0] != "./bots" {
		t.Errorf("Default bot paths mismatch: got %v, want [./bots]", cfg.BotPaths)
	}

	if cfg.Wasm.MemoryPages != 256 {
		t.Errorf("Default memory pages mismatch: got %d, want 256", cfg.Wasm.MemoryPages)
	}

	if cfg.Memory.Compression != "zstd" {
		t.Errorf("Default compression mismatch: got %s, want zstd", cfg.Memory.Compression)
	}

	if cfg.Memory.SegmentLimit != 100*1024 {
		t.Errorf("Default segment limit mismatch: got %d, want %d", cfg.Memory.SegmentLimit, 100*1024)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadHostConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
ticks: 10
bot_paths:
  - ./a
  - ./b
memory:
  compression: none
wasm:
  debug: true
`)

	cfg, err := LoadHostConfig(path, nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Log level mismatch: got %s, want debug", cfg.LogLevel)
	}

	if cfg.Ticks != 10 {
		t.Errorf("Ticks mismatch: got %d, want 10", cfg.Ticks)
	}

	if len(cfg.BotPaths) != 2 || cfg.BotPaths[1] != "./b" {
		t.Errorf("Bot paths mismatch: got %v", cfg.BotPaths)
	}

	if cfg.Memory.Compression != "none" {
		t.Errorf("Compression mismatch: got %s, want none", cfg.Memory.Compression)
	}

	if !cfg.Wasm.Debug {
		t.Error("wasm.debug should be enabled")
	}

	// Unset keys keep their defaults.
	if cfg.Wasm.MemoryPages != 256 {
		t.Errorf("Memory pages mismatch: got %d, want 256", cfg.Wasm.MemoryPages)
	}
}

func TestLoadHostConfigMissingFile(t *testing.T) {
	if _, err := LoadHostConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadHostConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"ticks":       "ticks: 0\n",
		"timeout":     "tick_timeout_ms: -1\n",
		"compression": "memory:\n  compression: lz77\n",
		"segment":     "memory:\n  segment_limit: 0\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadHostConfig(writeConfig(t, content), nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadHostConfigEnv(t *testing.T) {
	t.Setenv("SCREEPS_LOG_LEVEL", "warn")
	t.Setenv("SCREEPS_MEMORY_COMPRESSION", "none")

	cfg, err := LoadHostConfig("", nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("Log level mismatch: got %s, want warn", cfg.LogLevel)
	}

	if cfg.Memory.Compression != "none" {
		t.Errorf("Compression mismatch: got %s, want none", cfg.Memory.Compression)
	}
}

func TestLoadHostConfigFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "ticks: 3\nlog_level: debug\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("ticks", 1, "")
	flags.String("log-level", "info", "")
	if err := flags.Parse([]string{"--ticks=7"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadHostConfig(path, flags)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Ticks != 7 {
		t.Errorf("Ticks mismatch: got %d, want 7", cfg.Ticks)
	}

	// Unchanged flags do not shadow the file.
	if cfg.LogLevel != "debug" {
		t.Errorf("Log level mismatch: got %s, want debug", cfg.LogLevel)
	}
}
