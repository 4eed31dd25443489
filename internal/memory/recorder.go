package memory

import (
	"slices"
	"sync"

	"github.com/woxQAQ/screeps-go/pkg/objectid"
	"github.com/woxQAQ/screeps-go/pkg/position"
)

// Recorder accumulates tracked objects from concurrently running bots into a
// snapshot.
type Recorder struct {
	mu    sync.Mutex
	snap  Snapshot
	index map[objectid.RawID]int // position in snap.Objects
}

// NewRecorder starts from a copy of base, which may be nil.
func NewRecorder(base *Snapshot) *Recorder {
	r := &Recorder{index: make(map[objectid.RawID]int)}
	if base == nil {
		return r
	}
	r.snap.Tick = base.Tick
	for _, e := range base.Objects {
		r.put(e)
	}
	return r
}

// Track records or updates an object.
func (r *Recorder) Track(id objectid.RawID, pos position.Position, kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(Entry{ID: id, Pos: pos, Kind: kind})
}

func (r *Recorder) put(e Entry) {
	if i, ok := r.index[e.ID]; ok {
		r.snap.Objects[i] = e
		return
	}
	r.index[e.ID] = len(r.snap.Objects)
	r.snap.Objects = append(r.snap.Objects, e)
}

// Len returns the number of distinct objects recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snap.Objects)
}

// SetTick records the tick the snapshot reflects.
func (r *Recorder) SetTick(tick uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Tick = tick
}

// Tick returns the recorded tick.
func (r *Recorder) Tick() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap.Tick
}

// Snapshot returns a copy of the recorded state.
func (r *Recorder) Snapshot() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &Snapshot{Tick: r.snap.Tick, Objects: slices.Clone(r.snap.Objects)}
}
