package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/geom"
)

type recordingStore struct {
	mu    sync.Mutex
	saves []BoardData
	keys  []string
}

func (r *recordingStore) Load(ctx context.Context, key string) (*BoardData, error) {
	return nil, nil
}

func (r *recordingStore) Save(ctx context.Context, key string, data BoardData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, data)
	r.keys = append(r.keys, key)
	return nil
}

func (r *recordingStore) Close() error { return nil }

func (r *recordingStore) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func TestSaverCoalescesBursts(t *testing.T) {
	rec := &recordingStore{}
	sv := NewSaver(rec, 30*time.Millisecond)

	// A drag produces many schedule calls in quick succession.
	for i := 0; i < 20; i++ {
		sv.Schedule("k", func() BoardData { return BoardData{} })
		time.Sleep(time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)

	if got := rec.count(); got != 1 {
		t.Fatalf("burst produced %d saves, want 1", got)
	}
}

func TestSaverSnapshotsAtFireTime(t *testing.T) {
	rec := &recordingStore{}
	sv := NewSaver(rec, 20*time.Millisecond)

	var mu sync.Mutex
	zoom := float32(1)
	sv.Schedule("k", func() BoardData {
		mu.Lock()
		defer mu.Unlock()
		return BoardData{Canvas: geom.CanvasState{Zoom: zoom}}
	})
	mu.Lock()
	zoom = 3
	mu.Unlock()
	time.Sleep(80 * time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.saves) != 1 {
		t.Fatalf("saves = %d, want 1", len(rec.saves))
	}
	if rec.saves[0].Canvas.Zoom != 3 {
		t.Fatalf("snapshot taken at schedule time, want fire time (zoom=%v)", rec.saves[0].Canvas.Zoom)
	}
}

func TestSaverFlush(t *testing.T) {
	rec := &recordingStore{}
	sv := NewSaver(rec, time.Hour)
	sv.Schedule("k", func() BoardData { return BoardData{} })
	sv.Flush()
	if got := rec.count(); got != 1 {
		t.Fatalf("flush produced %d saves, want 1", got)
	}
	// A second flush with nothing pending is a no-op.
	sv.Flush()
	if got := rec.count(); got != 1 {
		t.Fatalf("idle flush produced %d saves, want 1", got)
	}
}
