package geom

import (
	"math"
	"testing"
)

func absDiff(a, b float32) float32 {
	return float32(math.Abs(float64(a - b)))
}

func TestWorldScreenRoundTrip(t *testing.T) {
	states := []CanvasState{
		{Zoom: 1},
		{PanX: 120, PanY: -40, Zoom: 1},
		{PanX: -999, PanY: 512, Zoom: 0.1},
		{PanX: 33.3, PanY: 66.6, Zoom: 5},
		{PanX: 0.5, PanY: -0.5, Zoom: 2.75},
	}
	points := [][2]float32{
		{0, 0}, {1, 1}, {-250, 4000}, {12345.5, -0.25}, {0.001, 99999},
	}
	for _, cs := range states {
		for _, p := range points {
			sx, sy := WorldToScreen(p[0], p[1], cs)
			wx, wy := ScreenToWorld(sx, sy, cs)
			if absDiff(wx, p[0]) > 0.01 || absDiff(wy, p[1]) > 0.01 {
				t.Fatalf("round trip of (%v,%v) through %+v gave (%v,%v)", p[0], p[1], cs, wx, wy)
			}
		}
	}
}

func TestZoomAtKeepsPointerFixed(t *testing.T) {
	cs := CanvasState{PanX: 50, PanY: -20, Zoom: 1}
	px, py := float32(400), float32(300)
	wx, wy := ScreenToWorld(px, py, cs)

	zoomed := ZoomAt(cs, px, py, 1.5)
	sx, sy := WorldToScreen(wx, wy, zoomed)
	if absDiff(sx, px) > 0.01 || absDiff(sy, py) > 0.01 {
		t.Fatalf("world point under pointer moved to (%v,%v)", sx, sy)
	}
	if zoomed.Zoom != 1.5 {
		t.Fatalf("zoom = %v, want 1.5", zoomed.Zoom)
	}
}

func TestZoomClamp(t *testing.T) {
	cs := CanvasState{Zoom: 4}
	if got := ZoomAt(cs, 0, 0, 10).Zoom; got != MaxZoom {
		t.Fatalf("zoom = %v, want clamped to %v", got, MaxZoom)
	}
	cs = CanvasState{Zoom: 0.2}
	if got := ZoomAt(cs, 0, 0, 0.01).Zoom; got != MinZoom {
		t.Fatalf("zoom = %v, want clamped to %v", got, MinZoom)
	}
	if got := (CanvasState{}).Clamped().Zoom; got != 1 {
		t.Fatalf("zero-value zoom clamped to %v, want 1", got)
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	cases := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlapping", Rect{X: 50, Y: 50, Width: 100, Height: 100}, true},
		{"contained", Rect{X: 10, Y: 10, Width: 5, Height: 5}, true},
		{"touching edge", Rect{X: 100, Y: 0, Width: 10, Height: 10}, true},
		{"disjoint right", Rect{X: 101, Y: 0, Width: 10, Height: 10}, false},
		{"disjoint above", Rect{X: 0, Y: -50, Width: 10, Height: 10}, false},
	}
	for _, tc := range cases {
		if got := a.Intersects(tc.b); got != tc.want {
			t.Errorf("%s: Intersects = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: -5, Width: 10, Height: 10}
	u := a.Union(b)
	want := Rect{X: 0, Y: -5, Width: 30, Height: 15}
	if u != want {
		t.Fatalf("Union = %+v, want %+v", u, want)
	}
	if got := a.Union(Rect{}); got != a {
		t.Fatalf("union with empty rect = %+v, want %+v", got, a)
	}
}

func TestContainsRotated(t *testing.T) {
	// A wide flat rect rotated 90 degrees becomes tall and thin.
	r := Rect{X: -50, Y: -10, Width: 100, Height: 20}
	if !r.ContainsRotated(40, 0, 0) {
		t.Fatal("unrotated rect should contain (40,0)")
	}
	if r.ContainsRotated(40, 0, 90) {
		t.Fatal("rect rotated 90 should not contain (40,0)")
	}
	if !r.ContainsRotated(0, 40, 90) {
		t.Fatal("rect rotated 90 should contain (0,40)")
	}
}

func TestVisibleWorldRect(t *testing.T) {
	cs := CanvasState{PanX: 100, PanY: 100, Zoom: 2}
	r := VisibleWorldRect(800, 600, cs, 0)
	if absDiff(r.X, -50) > 0.01 || absDiff(r.Y, -50) > 0.01 {
		t.Fatalf("origin = (%v,%v), want (-50,-50)", r.X, r.Y)
	}
	if absDiff(r.Width, 400) > 0.01 || absDiff(r.Height, 300) > 0.01 {
		t.Fatalf("size = (%v,%v), want (400,300)", r.Width, r.Height)
	}
	padded := VisibleWorldRect(800, 600, cs, 100)
	if absDiff(padded.Width, 600) > 0.01 {
		t.Fatalf("padded width = %v, want 600", padded.Width)
	}
}

func TestSnap(t *testing.T) {
	if got := Snap(47, 25); got != 50 {
		t.Fatalf("Snap(47,25) = %v, want 50", got)
	}
	if got := Snap(-12, 25); got != 0 {
		t.Fatalf("Snap(-12,25) = %v, want 0", got)
	}
	if got := Snap(13, 0); got != 13 {
		t.Fatalf("Snap with zero grid = %v, want 13", got)
	}
}

func TestFinite(t *testing.T) {
	if !Finite(1, -2.5, 0) {
		t.Fatal("plain values should be finite")
	}
	if Finite(float32(math.NaN())) {
		t.Fatal("NaN should not be finite")
	}
	if Finite(float32(math.Inf(1))) {
		t.Fatal("Inf should not be finite")
	}
}
