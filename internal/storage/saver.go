package storage

import (
	"context"
	"log"
	"sync"
	"time"
)

// SaveDebounce coalesces rapid successive mutations into one write.
const SaveDebounce = time.Second

// Saver owns the debounce timer between the state container and the
// persistence adapter. The model performs no I/O itself; it only notifies,
// and the saver decides when to write. A failed save is logged and
// naturally retried by the next mutation's debounce window.
type Saver struct {
	store Store
	delay time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	key      string
	snapshot func() BoardData
}

// NewSaver wires a saver to a persistence adapter. delay <= 0 falls back
// to SaveDebounce.
func NewSaver(store Store, delay time.Duration) *Saver {
	if delay <= 0 {
		delay = SaveDebounce
	}
	return &Saver{store: store, delay: delay}
}

// Schedule (re)arms the debounce timer for contextKey. The snapshot
// function runs when the timer fires, so the write always captures the
// latest state rather than the state at schedule time.
func (sv *Saver) Schedule(contextKey string, snapshot func() BoardData) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	sv.key = contextKey
	sv.snapshot = snapshot
	if sv.timer != nil {
		sv.timer.Stop()
	}
	sv.timer = time.AfterFunc(sv.delay, sv.fire)
}

func (sv *Saver) fire() {
	sv.mu.Lock()
	key, snapshot := sv.key, sv.snapshot
	sv.snapshot = nil
	sv.mu.Unlock()
	if snapshot == nil {
		return
	}
	if err := sv.store.Save(context.Background(), key, snapshot()); err != nil {
		log.Printf("[storage] save of %q failed: %v", key, err)
	}
}

// Flush performs any pending save immediately. Called best-effort when
// the window loses focus or closes; completion is not guaranteed.
func (sv *Saver) Flush() {
	sv.mu.Lock()
	if sv.timer != nil {
		sv.timer.Stop()
	}
	sv.mu.Unlock()
	sv.fire()
}
