package state

import (
	"fmt"
	"testing"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/geom"
)

func TestCullingSkippedBelowThreshold(t *testing.T) {
	objs := make([]Object, 0, CullingThreshold-1)
	for i := 0; i < CullingThreshold-1; i++ {
		// All far outside any viewport.
		objs = append(objs, Object{ID: fmt.Sprintf("o%d", i), Type: TypeRectangle,
			X: 1e6, Y: 1e6, Width: 10, Height: 10})
	}
	got := VisibleObjects(objs, 800, 600, geom.CanvasState{Zoom: 1})
	if len(got) != len(objs) {
		t.Fatalf("culled %d of %d below threshold, want none", len(objs)-len(got), len(objs))
	}
}

func TestCullingFiltersOffscreen(t *testing.T) {
	var objs []Object
	for i := 0; i < CullingThreshold; i++ {
		objs = append(objs, Object{ID: fmt.Sprintf("in%d", i), Type: TypeRectangle,
			X: float32(i * 10), Y: 0, Width: 10, Height: 10})
	}
	objs = append(objs,
		Object{ID: "far", Type: TypeRectangle, X: 1e6, Y: 1e6, Width: 10, Height: 10},
		// Just outside the viewport but inside the padding band.
		Object{ID: "near", Type: TypeRectangle, X: -CullingPadding + 1, Y: 0, Width: 10, Height: 10},
		// Connectors are never culled by their own (zeroed) bounds.
		Object{ID: "conn", Type: TypeConnector, Data: Payload{StartID: "in0", EndID: "in1"}},
	)

	got := VisibleObjects(objs, 800, 600, geom.CanvasState{Zoom: 1})
	byID := map[string]bool{}
	for _, o := range got {
		byID[o.ID] = true
	}
	if byID["far"] {
		t.Fatal("object fully outside the padded viewport must be culled")
	}
	if !byID["near"] {
		t.Fatal("object inside the padding band must be kept")
	}
	if !byID["conn"] {
		t.Fatal("connectors must always be kept")
	}
	if !byID["in0"] || !byID["in49"] {
		t.Fatal("on-screen objects must be kept")
	}
}

func TestConnectorLiveness(t *testing.T) {
	s := NewStore()
	a := s.AddObject(Object{Type: TypeRectangle, X: 0, Y: 0, Width: 100, Height: 80})
	b := s.AddObject(Object{Type: TypeRectangle, X: 300, Y: 0, Width: 100, Height: 80})
	cid := s.AddObject(Object{Type: TypeConnector, Data: Payload{StartID: a, EndID: b}})
	conn, _ := s.Object(cid)

	x1, y1, _, _, ok := s.ResolveConnector(conn)
	if !ok || x1 != 50 || y1 != 40 {
		t.Fatalf("start endpoint = (%v,%v,%v), want center of A (50,40)", x1, y1, ok)
	}

	// Moving A re-routes the connector with no update to the connector.
	s.UpdateObject(a, Update{X: f32(100)})
	s.SaveToHistory()
	x1, _, _, _, ok = s.ResolveConnector(conn)
	if !ok || x1 != 150 {
		t.Fatalf("start x after move = %v, want 150", x1)
	}

	// Deleting A makes the connector a no-render, not a crash.
	s.DeleteObject(a)
	if _, _, _, _, ok := s.ResolveConnector(conn); ok {
		t.Fatal("connector with a deleted endpoint must not resolve")
	}

	// Undo restores the endpoint and the visible link.
	s.Undo()
	if _, _, _, _, ok := s.ResolveConnector(conn); !ok {
		t.Fatal("undoing the deletion must restore the link")
	}
}
