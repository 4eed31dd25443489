package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/woxQAQ/screeps-go/pkg/objectid"
)

func TestRecorderConcurrentTrack(t *testing.T) {
	r := NewRecorder(nil)
	pos := mustPos(t, 0, 0, 1, 1)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Track(objectid.MustParse(fmt.Sprintf("%x", i)), pos, "creep")
		}(i)
	}
	wg.Wait()

	if n := len(r.Snapshot().Objects); n != 32 {
		t.Errorf("recorded %d objects, want 32", n)
	}
}

func TestRecorderCopiesBase(t *testing.T) {
	base := testSnapshot(t)
	r := NewRecorder(base)
	r.SetTick(base.Tick + 1)
	r.Track(objectid.MustParse("ff"), mustPos(t, 0, 0, 0, 0), "spawn")

	if len(base.Objects) != 3 || base.Tick != 4242 {
		t.Error("recorder modified its base snapshot")
	}

	snap := r.Snapshot()
	if snap.Tick != 4243 || len(snap.Objects) != 4 {
		t.Errorf("Snapshot = tick %d, %d objects", snap.Tick, len(snap.Objects))
	}

	snap.Objects[0].Kind = "changed"
	if r.Snapshot().Objects[0].Kind == "changed" {
		t.Error("Snapshot should return a copy")
	}
}

func TestRecorderTrackUpdatesInPlace(t *testing.T) {
	base := testSnapshot(t)
	r := NewRecorder(base)
	moved := mustPos(t, 3, 3, 7, 7)

	// Re-tracking a base object replaces it instead of appending.
	r.Track(base.Objects[1].ID, moved, "creep")
	for i := 0; i < 5000; i++ {
		r.Track(objectid.MustParse(fmt.Sprintf("%x", i%1000+0x1000)), moved, "road")
	}

	if n := r.Len(); n != 1003 {
		t.Fatalf("Len = %d, want 1003", n)
	}
	e, ok := r.Snapshot().Lookup(base.Objects[1].ID)
	if !ok || e.Pos != moved || e.Kind != "creep" {
		t.Errorf("re-tracked entry = %+v, %v", e, ok)
	}
}
