package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/state"
	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/storage"
)

// stubBackend counts saves and serves a canned load result.
type stubBackend struct {
	mu      sync.Mutex
	data    *storage.BoardData
	loadErr error
	saves   int
}

func (b *stubBackend) Load(ctx context.Context, key string) (*storage.BoardData, error) {
	return b.data, b.loadErr
}

func (b *stubBackend) Save(ctx context.Context, key string, data storage.BoardData) error {
	b.mu.Lock()
	b.saves++
	b.mu.Unlock()
	return nil
}

func (b *stubBackend) Close() error { return nil }

func (b *stubBackend) saveCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

func newTestSession(backend *stubBackend) *session {
	return &session{
		store:   state.NewStore(),
		backend: backend,
		saver:   storage.NewSaver(backend, time.Hour),
		key:     "default",
		loading: true,
	}
}

func TestFailedLoadKeepsSavesSuppressed(t *testing.T) {
	backend := &stubBackend{loadErr: errors.New("connection reset")}
	sess := newTestSession(backend)

	sess.finishLoad(0, "default", nil, backend.loadErr)

	// The board the user now sees is empty, but it must never be
	// written over the persisted one we failed to read.
	sess.scheduleSave()
	sess.saver.Flush()
	if n := backend.saveCount(); n != 0 {
		t.Fatalf("saved %d times after a failed load, want 0", n)
	}
}

func TestSuccessfulLoadAppliesAndEnablesSaves(t *testing.T) {
	backend := &stubBackend{data: &storage.BoardData{
		Objects: []state.Object{{
			ID: "r1", Type: state.TypeRectangle,
			X: 10, Y: 20, Width: 100, Height: 80,
		}},
	}}
	sess := newTestSession(backend)

	sess.finishLoad(0, "default", backend.data, nil)

	if got := len(sess.store.Objects()); got != 1 {
		t.Fatalf("store holds %d objects after load, want 1", got)
	}
	sess.scheduleSave()
	sess.saver.Flush()
	if n := backend.saveCount(); n != 1 {
		t.Fatalf("saved %d times after a successful load, want 1", n)
	}
}

func TestStaleLoadResultIsDropped(t *testing.T) {
	backend := &stubBackend{}
	sess := newTestSession(backend)
	sess.generation = 2

	stale := &storage.BoardData{Objects: []state.Object{{
		ID: "old", Type: state.TypeRectangle,
		X: 0, Y: 0, Width: 50, Height: 50,
	}}}
	sess.finishLoad(1, "previous", stale, nil)

	if got := len(sess.store.Objects()); got != 0 {
		t.Fatalf("stale load applied %d objects, want 0", got)
	}
	sess.scheduleSave()
	sess.saver.Flush()
	if n := backend.saveCount(); n != 0 {
		t.Fatalf("saved %d times while a newer load is pending, want 0", n)
	}
}
