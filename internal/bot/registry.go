package bot

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Registry indexes loaded bots by name and by shard.
type Registry struct {
	sync.RWMutex
	bots    map[string]*Bot   // name -> bot
	byShard map[string][]*Bot // shard -> bots
	logger  *zap.Logger
}

// NewRegistry creates a new bot registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		bots:    make(map[string]*Bot),
		byShard: make(map[string][]*Bot),
		logger:  logger.With(zap.String("component", "bot-registry")),
	}
}

// Register adds a bot to the registry.
func (r *Registry) Register(bot *Bot) error {
	r.Lock()
	defer r.Unlock()

	name := bot.Name()
	if _, exists := r.bots[name]; exists {
		return &AlreadyRegisteredError{BotName: name}
	}

	r.bots[name] = bot
	r.byShard[bot.Shard()] = append(r.byShard[bot.Shard()], bot)

	r.logger.Info("Bot registered",
		zap.String("name", name),
		zap.String("shard", bot.Shard()),
	)

	return nil
}

// Get retrieves a bot by name.
func (r *Registry) Get(name string) (*Bot, bool) {
	r.RLock()
	defer r.RUnlock()

	bot, ok := r.bots[name]
	return bot, ok
}

// LookupByShard returns the bots playing on a shard, in registration order.
func (r *Registry) LookupByShard(shard string) []*Bot {
	r.RLock()
	defer r.RUnlock()

	bots := r.byShard[shard]
	result := make([]*Bot, len(bots))
	copy(result, bots)
	return result
}

// Names returns all registered bot names, sorted.
func (r *Registry) Names() []string {
	r.RLock()
	defer r.RUnlock()

	names := make([]string, 0, len(r.bots))
	for name := range r.bots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all registered bots sorted by name.
func (r *Registry) List() []*Bot {
	names := r.Names()

	r.RLock()
	defer r.RUnlock()

	result := make([]*Bot, 0, len(names))
	for _, name := range names {
		if bot, ok := r.bots[name]; ok {
			result = append(result, bot)
		}
	}
	return result
}

// Unregister removes a bot from the registry.
func (r *Registry) Unregister(name string) {
	r.Lock()
	defer r.Unlock()

	bot, ok := r.bots[name]
	if !ok {
		return
	}

	shard := bot.Shard()
	bots := r.byShard[shard]
	for i, b := range bots {
		if b.Name() == name {
			r.byShard[shard] = append(bots[:i:i], bots[i+1:]...)
			break
		}
	}
	if len(r.byShard[shard]) == 0 {
		delete(r.byShard, shard)
	}

	delete(r.bots, name)

	r.logger.Info("Bot unregistered", zap.String("name", name))
}

// Count returns the number of registered bots.
func (r *Registry) Count() int {
	r.RLock()
	defer r.RUnlock()

	return len(r.bots)
}
