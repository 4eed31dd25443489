// Package host wires the Wasm runtime, the bots and the save-state snapshot
// into a tick loop.
package host

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/woxQAQ/screeps-go/internal/bot"
	"github.com/woxQAQ/screeps-go/internal/config"
	"github.com/woxQAQ/screeps-go/internal/memory"
	"github.com/woxQAQ/screeps-go/internal/wasm"
)

// Server runs bots for a fixed number of ticks and persists what they track.
type Server struct {
	cfg      *config.HostConfig
	logger   *zap.Logger
	bots     *bot.Manager
	store    *memory.Store
	recorder *memory.Recorder
}

// NewServer builds the runtime and bot manager and loads the previous
// snapshot, if any.
func NewServer(ctx context.Context, cfg *config.HostConfig, logger *zap.Logger) (*Server, error) {
	compression, err := memory.ParseCompression(cfg.Memory.Compression)
	if err != nil {
		return nil, err
	}

	store := memory.NewStore(cfg.Memory.SnapshotPath, compression, logger)
	snap, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	recorder := memory.NewRecorder(snap)

	wasmConfig := &wasm.RuntimeConfig{
		MemoryPages:  cfg.Wasm.MemoryPages,
		DebugEnabled: cfg.Wasm.Debug,
		CacheDir:     cfg.Wasm.CacheDir,
		MaxInstances: cfg.Wasm.MaxInstances,
	}

	wasmRuntime, err := wasm.NewRuntime(ctx, logger, wasmConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Wasm runtime: %w", err)
	}

	hostFuncs := wasm.NewHostFunctions(logger, cfg.Wasm.Debug).WithTracker(recorder)

	logger.Info("Host initialized",
		zap.Uint64("resume_tick", snap.Tick),
		zap.Int("tracked_objects", len(snap.Objects)),
		zap.String("snapshot", cfg.Memory.SnapshotPath),
	)

	return &Server{
		cfg:      cfg,
		logger:   logger.With(zap.String("component", "host")),
		bots:     bot.NewManager(cfg, wasmRuntime, hostFuncs, logger),
		store:    store,
		recorder: recorder,
	}, nil
}

// Bots returns the bot manager.
func (s *Server) Bots() *bot.Manager {
	return s.bots
}

// Snapshot returns the state recorded so far.
func (s *Server) Snapshot() *memory.Snapshot {
	return s.recorder.Snapshot()
}

// Segments returns the current snapshot encoded as RawMemory-style string
// segments of at most cfg.Memory.SegmentLimit bytes each.
func (s *Server) Segments() ([]string, error) {
	encoded, err := memory.EncodeString(s.recorder.Snapshot(), s.store.Compression())
	if err != nil {
		return nil, err
	}
	return memory.Segments(encoded, s.cfg.Memory.SegmentLimit)
}

// Run loads the bots unless already loaded and runs cfg.Ticks ticks, continuing from the tick of
// the loaded snapshot. Bot failures are logged and do not stop the loop.
// The snapshot is saved when the loop ends, including on cancellation.
func (s *Server) Run(ctx context.Context) error {
	if !s.bots.IsLoaded() {
		if err := s.bots.LoadAll(ctx); err != nil {
			return fmt.Errorf("failed to load bots: %w", err)
		}
	}

	first := s.recorder.Tick() + 1
	last := first + uint64(s.cfg.Ticks) - 1

	s.logger.Info("Starting tick loop",
		zap.Uint64("first_tick", first),
		zap.Uint64("last_tick", last),
		zap.Int("bots", s.bots.Registry().Count()),
		zap.Duration("tick_timeout", s.bots.TickTimeout()),
	)

	var runErr error
	for tick := first; tick <= last; tick++ {
		if err := ctx.Err(); err != nil {
			s.logger.Info("Tick loop interrupted", zap.Uint64("tick", tick))
			break
		}

		if err := s.bots.RunAll(ctx, tick); err != nil {
			s.logTickErrors(tick, err)
		}
		s.recorder.SetTick(tick)
	}

	if err := s.store.Save(context.WithoutCancel(ctx), s.recorder.Snapshot()); err != nil {
		runErr = fmt.Errorf("failed to save snapshot: %w", err)
	}

	fields := []zap.Field{zap.Uint64("tick", s.recorder.Tick())}
	if segs, err := s.Segments(); err == nil {
		fields = append(fields, zap.Int("segments", len(segs)))
	}
	s.logger.Info("Tick loop finished", fields...)
	return runErr
}

func (s *Server) logTickErrors(tick uint64, err error) {
	for _, e := range multierr.Errors(err) {
		var timeout *bot.TimeoutError
		if errors.As(e, &timeout) {
			s.logger.Warn("Bot exceeded tick budget",
				zap.Uint64("tick", tick),
				zap.String("bot", timeout.BotName),
			)
			continue
		}
		s.logger.Error("Bot tick failed", zap.Uint64("tick", tick), zap.Error(e))
	}
}

// Close gracefully shuts down the server.
func (s *Server) Close(ctx context.Context) error {
	s.logger.Info("Shutting down host")

	if err := s.bots.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shutdown bots", zap.Error(err))
		return err
	}

	s.logger.Info("Host shutdown complete")
	return nil
}
