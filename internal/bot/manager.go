package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/woxQAQ/screeps-go/internal/config"
	"github.com/woxQAQ/screeps-go/internal/wasm"
)

// Stats summarizes a bot's ticks since it was loaded.
type Stats struct {
	Ticks        uint64
	Failures     uint64
	Timeouts     uint64
	LastDuration time.Duration
}

// runner owns the live instance of one bot. Ticks of the same bot never run
// concurrently.
type runner struct {
	mu       sync.Mutex
	instance *wasm.Instance
	stats    Stats
}

// Manager manages bot lifecycle.
type Manager struct {
	cfg         *config.HostConfig
	runtime     *wasm.Runtime
	loader      *Loader
	registry    *Registry
	instanceMgr *wasm.InstanceManager
	logger      *zap.Logger

	mu      sync.RWMutex
	loaded  bool
	runners map[string]*runner
}

// NewManager creates a new bot manager.
func NewManager(
	cfg *config.HostConfig,
	runtime *wasm.Runtime,
	hostFuncs *wasm.HostFunctions,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		cfg:         cfg,
		runtime:     runtime,
		loader:      NewLoader(runtime, logger),
		registry:    NewRegistry(logger),
		instanceMgr: wasm.NewInstanceManager(runtime, hostFuncs, logger),
		logger:      logger.With(zap.String("component", "bot-manager")),
		runners:     make(map[string]*runner),
	}
}

// LoadAll discovers and loads all bots from configured paths.
func (m *Manager) LoadAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		return fmt.Errorf("bots already loaded")
	}

	m.logger.Info("Loading bots", zap.Strings("paths", m.cfg.BotPaths))

	bots, err := m.loader.DiscoverBots(ctx, m.cfg.BotPaths)
	if err != nil {
		var none *NoBotsFoundError
		if errors.As(err, &none) {
			m.logger.Warn("No bots found in configured paths",
				zap.Strings("paths", m.cfg.BotPaths),
			)
			m.loaded = true
			return nil
		}
		return err
	}

	for _, bot := range bots {
		if err := m.registry.Register(bot); err != nil {
			m.logger.Error("Failed to register bot",
				zap.String("name", bot.Name()),
				zap.Error(err),
			)
			continue
		}
		m.runners[bot.Name()] = &runner{}
	}

	m.loaded = true

	m.logger.Info("Bots loaded successfully", zap.Int("count", m.registry.Count()))

	return nil
}

// Register adds an already loaded bot, e.g. one built in memory.
func (m *Manager) Register(bot *Bot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.registry.Register(bot); err != nil {
		return err
	}
	m.runners[bot.Name()] = &runner{}
	return nil
}

// GetBot retrieves a bot by name.
func (m *Manager) GetBot(name string) (*Bot, error) {
	bot, ok := m.registry.Get(name)
	if !ok {
		return nil, &NotFoundError{BotName: name}
	}
	return bot, nil
}

// BotsForShard returns the bots playing on a shard.
func (m *Manager) BotsForShard(shard string) []*Bot {
	return m.registry.LookupByShard(shard)
}

// Instantiate creates a new instance of a bot. The caller owns the instance;
// RunTick keeps its own.
func (m *Manager) Instantiate(ctx context.Context, name string) (*wasm.Instance, error) {
	bot, ok := m.registry.Get(name)
	if !ok {
		return nil, &NotFoundError{BotName: name}
	}

	return m.instanceMgr.Instantiate(ctx, &wasm.InstanceConfig{
		ModuleName: bot.Compiled.Name,
		Exports:    []string{bot.Entry()},
	})
}

func (m *Manager) runner(name string) (*runner, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runners[name]
	return r, ok
}

// TickTimeout returns the per-tick time budget.
func (m *Manager) TickTimeout() time.Duration {
	return time.Duration(m.cfg.TickTimeoutMs) * time.Millisecond
}

// RunTick calls the bot's entry point once. Entry points take no arguments
// or a single tick number, truncated to 32 bits. The bot is instantiated on
// its first tick and again after a timeout or trap.
func (m *Manager) RunTick(ctx context.Context, name string, tick uint64) error {
	bot, ok := m.registry.Get(name)
	if !ok {
		return &NotFoundError{BotName: name}
	}
	r, ok := m.runner(name)
	if !ok {
		return &NotFoundError{BotName: name}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.instance == nil {
		instance, err := m.Instantiate(ctx, name)
		if err != nil {
			r.stats.Failures++
			return &TickError{BotName: name, Tick: tick, Err: err}
		}
		r.instance = instance
	}

	entry := bot.Entry()
	var params []uint64
	switch n := r.instance.ParamCount(entry); n {
	case -1:
		r.stats.Failures++
		return &TickError{BotName: name, Tick: tick, Err: &wasm.FunctionNotFoundError{
			ModuleName: bot.Compiled.Name, FunctionName: entry,
		}}
	case 0:
	case 1:
		params = []uint64{uint64(uint32(tick))}
	default:
		r.stats.Failures++
		return &TickError{BotName: name, Tick: tick, Err: fmt.Errorf("entry '%s' takes %d parameters, want 0 or 1", entry, n)}
	}

	timeout := m.TickTimeout()
	tickCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	_, err := r.instance.Call(tickCtx, entry, params...)
	r.stats.LastDuration = time.Since(start)
	r.stats.Ticks++

	if err == nil {
		return nil
	}

	// A trapped or interrupted guest cannot be resumed.
	m.discard(ctx, name, r)

	var timeoutErr *wasm.TimeoutError
	if errors.As(err, &timeoutErr) {
		r.stats.Timeouts++
		m.logger.Warn("Bot tick timed out",
			zap.String("bot", name),
			zap.Uint64("tick", tick),
			zap.Duration("timeout", timeout),
		)
		return &TimeoutError{BotName: name, Tick: tick, Timeout: timeout}
	}

	r.stats.Failures++
	return &TickError{BotName: name, Tick: tick, Err: err}
}

func (m *Manager) discard(ctx context.Context, name string, r *runner) {
	if r.instance == nil {
		return
	}
	if err := r.instance.Close(context.WithoutCancel(ctx)); err != nil {
		m.logger.Debug("Closing failed instance", zap.String("bot", name), zap.Error(err))
	}
	r.instance = nil
}

// RunAll runs one tick of every registered bot concurrently. The errors of
// the bots that failed are combined with multierr; multierr.Errors splits
// them again.
func (m *Manager) RunAll(ctx context.Context, tick uint64) error {
	p := pool.New()
	if n := m.cfg.Wasm.MaxInstances; n > 0 {
		p = p.WithMaxGoroutines(n)
	}

	var (
		mu   sync.Mutex
		errs error
	)
	for _, name := range m.registry.Names() {
		p.Go(func() {
			if err := m.RunTick(ctx, name, tick); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		})
	}
	p.Wait()

	return errs
}

// Stats returns a copy of the bot's tick statistics.
func (m *Manager) Stats(name string) (Stats, bool) {
	r, ok := m.runner(name)
	if !ok {
		return Stats{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats, true
}

// Shutdown closes every bot instance, then the runtime.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("Shutting down bot manager")

	m.mu.Lock()
	var err error
	for name, r := range m.runners {
		r.mu.Lock()
		if r.instance != nil {
			err = multierr.Append(err, r.instance.Close(ctx))
			r.instance = nil
		}
		r.mu.Unlock()
		m.logger.Debug("Closed bot", zap.String("bot", name))
	}
	m.mu.Unlock()

	err = multierr.Append(err, m.runtime.Close(ctx))
	if err != nil {
		m.logger.Error("Failed to shutdown cleanly", zap.Error(err))
		return err
	}

	m.logger.Info("Bot manager shutdown complete")
	return nil
}

// Registry returns the bot registry (for testing/inspection).
func (m *Manager) Registry() *Registry {
	return m.registry
}

// IsLoaded returns whether bots have been loaded.
func (m *Manager) IsLoaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}
