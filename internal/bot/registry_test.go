package bot

import (
	"testing"

	"go.uber.org/zap"
)

func testBot(name, shard string) *Bot {
	return &Bot{Manifest: &Manifest{Name: name, Shard: shard, dir: "/tmp/" + name}}
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	if err := registry.Register(testBot("alpha", "shard0")); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	if registry.Count() != 1 {
		t.Errorf("expected count 1, got %d", registry.Count())
	}

	bot, ok := registry.Get("alpha")
	if !ok || bot.Name() != "alpha" {
		t.Errorf("Get(alpha) = %v, %v", bot, ok)
	}
}

func TestRegistry_Duplicate(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	if err := registry.Register(testBot("alpha", "shard0")); err != nil {
		t.Fatalf("First Register() failed: %v", err)
	}

	err := registry.Register(testBot("alpha", "shard1"))
	if _, ok := err.(*AlreadyRegisteredError); !ok {
		t.Errorf("expected AlreadyRegisteredError, got %T", err)
	}

	if registry.Count() != 1 {
		t.Errorf("expected count 1 after duplicate, got %d", registry.Count())
	}
}

func TestRegistry_LookupByShard(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	registry.Register(testBot("a", "shard0"))
	registry.Register(testBot("b", "shard1"))
	registry.Register(testBot("c", "shard0"))

	bots := registry.LookupByShard("shard0")
	if len(bots) != 2 || bots[0].Name() != "a" || bots[1].Name() != "c" {
		t.Errorf("LookupByShard(shard0) returned %d bots", len(bots))
	}

	if bots := registry.LookupByShard("shard9"); len(bots) != 0 {
		t.Errorf("expected no bots for shard9, got %d", len(bots))
	}
}

func TestRegistry_ListSorted(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	for _, name := range []string{"zed", "alpha", "mid"} {
		registry.Register(testBot(name, "shard0"))
	}

	bots := registry.List()
	want := []string{"alpha", "mid", "zed"}
	if len(bots) != len(want) {
		t.Fatalf("expected %d bots, got %d", len(want), len(bots))
	}
	for i, bot := range bots {
		if bot.Name() != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, bot.Name(), want[i])
		}
	}
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	registry.Register(testBot("a", "shard0"))
	registry.Register(testBot("b", "shard0"))

	registry.Unregister("a")
	registry.Unregister("missing")

	if _, ok := registry.Get("a"); ok {
		t.Error("bot should be removed")
	}

	bots := registry.LookupByShard("shard0")
	if len(bots) != 1 || bots[0].Name() != "b" {
		t.Errorf("shard index not updated: %d bots", len(bots))
	}

	registry.Unregister("b")
	if registry.Count() != 0 {
		t.Errorf("expected empty registry, got %d", registry.Count())
	}
}
