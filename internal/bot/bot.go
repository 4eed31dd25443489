package bot

import (
	"time"

	"github.com/woxQAQ/screeps-go/internal/wasm"
)

// Bot represents a loaded bot with its manifest and compiled Wasm module.
type Bot struct {
	// Manifest is the parsed bot metadata
	Manifest *Manifest

	// Compiled is the compiled Wasm module
	Compiled *wasm.CompiledModule

	// LoadedAt is the timestamp when the bot was loaded
	LoadedAt time.Time
}

// Name returns the bot name.
func (b *Bot) Name() string {
	return b.Manifest.Name
}

// Shard returns the shard the bot plays on.
func (b *Bot) Shard() string {
	return b.Manifest.Shard
}

// Version returns the bot version.
func (b *Bot) Version() string {
	return b.Manifest.Version
}

// Entry returns the exported function called once per tick.
func (b *Bot) Entry() string {
	return b.Manifest.Entry
}
