package bot

import (
	"context"
	"fmt"
	"time"
)

// ManifestNotFoundError occurs when manifest.yaml is not found in a directory.
type ManifestNotFoundError struct {
	Path string
	Err  error
}

func (e *ManifestNotFoundError) Error() string {
	return fmt.Sprintf("manifest not found at '%s': %v", e.Path, e.Err)
}

func (e *ManifestNotFoundError) Unwrap() error {
	return e.Err
}

// ManifestParseError occurs when manifest.yaml cannot be parsed as valid YAML.
type ManifestParseError struct {
	Path string
	Err  error
}

func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("failed to parse manifest at '%s': %v", e.Path, e.Err)
}

func (e *ManifestParseError) Unwrap() error {
	return e.Err
}

// ManifestValidationError occurs when manifest.yaml fails validation.
type ManifestValidationError struct {
	Path    string
	Field   string
	Message string
}

func (e *ManifestValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("manifest validation failed at '%s': %s (field: %s)",
			e.Path, e.Message, e.Field)
	}
	return fmt.Sprintf("manifest validation failed at '%s': %s", e.Path, e.Message)
}

// WasmNotFoundError occurs when the Wasm file referenced in manifest doesn't exist.
type WasmNotFoundError struct {
	ManifestPath string
	WasmFile     string
}

func (e *WasmNotFoundError) Error() string {
	return fmt.Sprintf("Wasm file '%s' not found (referenced in manifest '%s')",
		e.WasmFile, e.ManifestPath)
}

// LoadError occurs when bot loading fails.
type LoadError struct {
	BotName string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load bot '%s': %v", e.BotName, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NotFoundError occurs when a bot is not in the registry.
type NotFoundError struct {
	BotName string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("bot '%s' not found", e.BotName)
}

// AlreadyRegisteredError occurs when attempting to register a duplicate bot.
type AlreadyRegisteredError struct {
	BotName string
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("bot '%s' is already registered", e.BotName)
}

// NoBotsFoundError occurs when no bots are found in the configured paths.
type NoBotsFoundError struct {
	Paths []string
}

func (e *NoBotsFoundError) Error() string {
	return fmt.Sprintf("no bots found in paths: %v", e.Paths)
}

// TickError occurs when a bot's entry point fails during a tick.
type TickError struct {
	BotName string
	Tick    uint64
	Err     error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("bot '%s' failed at tick %d: %v", e.BotName, e.Tick, e.Err)
}

func (e *TickError) Unwrap() error {
	return e.Err
}

// TimeoutError occurs when a bot exceeds the per-tick time budget. The bot's
// instance is discarded and recreated on its next tick.
type TimeoutError struct {
	BotName string
	Tick    uint64
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("bot '%s' exceeded %v at tick %d", e.BotName, e.Timeout, e.Tick)
}

func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}
