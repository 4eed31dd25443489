package bot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/woxQAQ/screeps-go/internal/config"
	"github.com/woxQAQ/screeps-go/internal/wasm"
)

// reactorWasm exports "memory", an empty "loop" and a "spin" that never
// returns.
var reactorWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	0x03, 0x03, 0x02, 0x00, 0x00,
	0x05, 0x03, 0x01, 0x00, 0x01,
	0x07, 0x18, 0x03,
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00,
	0x04, 0x6c, 0x6f, 0x6f, 0x70, 0x00, 0x00,
	0x04, 0x73, 0x70, 0x69, 0x6e, 0x00, 0x01,
	0x0a, 0x0c, 0x02,
	0x02, 0x00, 0x0b,
	0x07, 0x00, 0x03, 0x40, 0x0c, 0x00, 0x0b, 0x0b,
}

// tickWasm exports "loop" taking the tick as an i32.
var tickWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x05, 0x01, 0x60, 0x01, 0x7f, 0x00,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x08, 0x01, 0x04, 0x6c, 0x6f, 0x6f, 0x70, 0x00, 0x00,
	0x0a, 0x04, 0x01, 0x02, 0x00, 0x0b,
}

// writeBot creates root/dir with a manifest and, when wasm is non-nil, the
// Wasm file bot.wasm.
func writeBot(t *testing.T, root, dir, manifest string, wasm []byte) string {
	t.Helper()
	botDir := filepath.Join(root, dir)
	if err := os.MkdirAll(botDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(botDir, ManifestFile), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if wasm != nil {
		if err := os.WriteFile(filepath.Join(botDir, "bot.wasm"), wasm, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return botDir
}

func botManifest(name, entry string) string {
	m := "name: " + name + "\nversion: 1.0.0\nwasm:\n  file: bot.wasm\n"
	if entry != "" {
		m += "entry: " + entry + "\n"
	}
	return m
}

func newTestRuntime(t *testing.T, logger *zap.Logger) *wasm.Runtime {
	t.Helper()
	runtime, err := wasm.NewRuntime(context.Background(), logger, wasm.DefaultRuntimeConfig())
	if err != nil {
		t.Fatalf("Failed to create runtime: %v", err)
	}
	t.Cleanup(func() { runtime.Close(context.Background()) })
	return runtime
}

func newTestManager(t *testing.T, paths ...string) *Manager {
	t.Helper()
	logger := zaptest.NewLogger(t)
	cfg := &config.HostConfig{
		BotPaths:      paths,
		TickTimeoutMs: 50,
		Wasm:          config.WasmConfig{MaxInstances: 10},
	}
	return NewManager(cfg, newTestRuntime(t, logger), wasm.NewHostFunctions(logger, true), logger)
}
