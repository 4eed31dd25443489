package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/woxQAQ/screeps-go/internal/wasm"
)

// Loader handles loading bots from disk.
type Loader struct {
	moduleLoader *wasm.ModuleLoader
	logger       *zap.Logger
}

// NewLoader creates a new bot loader.
func NewLoader(runtime *wasm.Runtime, logger *zap.Logger) *Loader {
	return &Loader{
		moduleLoader: wasm.NewModuleLoader(runtime, logger),
		logger:       logger.With(zap.String("component", "bot-loader")),
	}
}

// LoadBot loads a single bot from a directory.
func (l *Loader) LoadBot(ctx context.Context, dir string) (*Bot, error) {
	manifest, err := ParseManifest(dir)
	if err != nil {
		return nil, err
	}

	l.logger.Info("Loading bot",
		zap.String("name", manifest.Name),
		zap.String("version", manifest.Version),
		zap.String("shard", manifest.Shard),
	)

	// Compile Wasm module (uses internal caching keyed by path)
	compiled, err := l.moduleLoader.LoadModuleFromFile(ctx, manifest.WasmPath())
	if err != nil {
		return nil, &LoadError{
			BotName: manifest.Name,
			Err:     err,
		}
	}

	bot := &Bot{
		Manifest: manifest,
		Compiled: compiled,
		LoadedAt: time.Now(),
	}

	l.logger.Info("Bot loaded successfully",
		zap.String("name", manifest.Name),
		zap.Int64("size_bytes", compiled.SizeBytes),
	)

	return bot, nil
}

// DiscoverBots scans directories for bots. Each direct subdirectory holding
// a manifest is one bot. Directories are visited in name order.
func (l *Loader) DiscoverBots(ctx context.Context, paths []string) ([]*Bot, error) {
	var bots []*Bot
	var failed int

	for _, basePath := range paths {
		l.logger.Debug("Scanning bot directory", zap.String("path", basePath))

		entries, err := os.ReadDir(basePath)
		if err != nil {
			if os.IsNotExist(err) {
				l.logger.Warn("Bot path does not exist", zap.String("path", basePath))
				continue
			}
			return nil, fmt.Errorf("failed to read directory '%s': %w", basePath, err)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !entry.IsDir() {
				continue
			}

			botDir := filepath.Join(basePath, entry.Name())

			bot, err := l.LoadBot(ctx, botDir)
			if err != nil {
				l.logger.Error("Failed to load bot",
					zap.String("dir", botDir),
					zap.Error(err),
				)
				failed++
				continue
			}

			bots = append(bots, bot)
		}
	}

	if len(bots) > 0 && failed > 0 {
		l.logger.Warn("Some bots failed to load",
			zap.Int("loaded", len(bots)),
			zap.Int("failed", failed),
		)
	}

	if len(bots) == 0 {
		return nil, &NoBotsFoundError{Paths: paths}
	}

	return bots, nil
}
