package ui

import (
	"math"
	"testing"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/geom"
	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/state"
)

func TestHitTopmostPicksHighestZ(t *testing.T) {
	objs := []state.Object{
		{ID: "bottom", Type: state.TypeRectangle, X: 0, Y: 0, Width: 100, Height: 100, ZIndex: 1},
		{ID: "top", Type: state.TypeRectangle, X: 50, Y: 50, Width: 100, Height: 100, ZIndex: 2},
	}

	hit, ok := HitTopmost(objs, 75, 75)
	if !ok || hit.ID != "top" {
		t.Fatalf("expected top object, got %q ok=%v", hit.ID, ok)
	}

	hit, ok = HitTopmost(objs, 10, 10)
	if !ok || hit.ID != "bottom" {
		t.Fatalf("expected bottom object, got %q ok=%v", hit.ID, ok)
	}

	if _, ok := HitTopmost(objs, 500, 500); ok {
		t.Fatal("empty space should not hit")
	}
}

func TestHitTopmostLaterWinsOnEqualZ(t *testing.T) {
	objs := []state.Object{
		{ID: "first", Type: state.TypeRectangle, Width: 100, Height: 100, ZIndex: 3},
		{ID: "second", Type: state.TypeRectangle, Width: 100, Height: 100, ZIndex: 3},
	}
	hit, ok := HitTopmost(objs, 10, 10)
	if !ok || hit.ID != "second" {
		t.Fatalf("tie should go to the later object, got %q", hit.ID)
	}
}

func TestHitTopmostIgnoresConnectors(t *testing.T) {
	objs := []state.Object{
		{ID: "c", Type: state.TypeConnector, ZIndex: 100},
	}
	if _, ok := HitTopmost(objs, 0, 0); ok {
		t.Fatal("connectors must not be hit-testable")
	}
}

func TestBoxSelectPartialOverlap(t *testing.T) {
	objs := []state.Object{
		{ID: "in", Type: state.TypeRectangle, X: 0, Y: 0, Width: 100, Height: 100},
		{ID: "edge", Type: state.TypeRectangle, X: 190, Y: 0, Width: 100, Height: 100},
		{ID: "out", Type: state.TypeRectangle, X: 500, Y: 500, Width: 50, Height: 50},
		{ID: "conn", Type: state.TypeConnector},
	}
	cs := geom.CanvasState{Zoom: 1}
	sel := geom.Rect{X: 0, Y: 0, Width: 200, Height: 200}

	ids := BoxSelect(objs, sel, cs)
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %v", ids)
	}
	if ids[0] != "in" || ids[1] != "edge" {
		t.Fatalf("unexpected selection %v", ids)
	}
}

func TestBoxSelectFindsUpLeftLine(t *testing.T) {
	// An up-left drag leaves signed dimensions; the line occupies the
	// world box 40..100 x 60..100 and must still project to a positive
	// screen rect.
	objs := []state.Object{
		{ID: "l", Type: state.TypeLine, X: 100, Y: 100, Width: -60, Height: -40},
	}
	cs := geom.CanvasState{Zoom: 1}

	b := screenBounds(objs[0], cs)
	if b.X != 40 || b.Y != 60 || b.Width != 60 || b.Height != 40 {
		t.Fatalf("screen bounds = %+v, want the normalized box at (40, 60) 60x40", b)
	}

	ids := BoxSelect(objs, geom.Rect{X: 45, Y: 65, Width: 10, Height: 10}, cs)
	if len(ids) != 1 || ids[0] != "l" {
		t.Fatalf("box inside the line's occupied area selected %v, want [l]", ids)
	}

	hx, hy := handlePosition(objs[0], cs)
	if hx != 100 || hy != 100 {
		t.Fatalf("handle at (%v, %v), want the normalized bottom-right (100, 100)", hx, hy)
	}
}

func TestBoxSelectRespectsZoom(t *testing.T) {
	// At zoom 0.5 an object at world x=300 projects to screen x=150.
	objs := []state.Object{
		{ID: "far", Type: state.TypeRectangle, X: 300, Y: 0, Width: 100, Height: 100},
	}
	cs := geom.CanvasState{Zoom: 0.5}
	ids := BoxSelect(objs, geom.Rect{X: 140, Y: 0, Width: 50, Height: 50}, cs)
	if len(ids) != 1 || ids[0] != "far" {
		t.Fatalf("zoomed-out object should fall inside the screen box, got %v", ids)
	}
}

func TestCommitShapeThresholdAndFloor(t *testing.T) {
	if _, ok := CommitShape(10, 10, 13, 12); ok {
		t.Fatal("a sub-threshold drag must not create a shape")
	}

	r, ok := CommitShape(10, 10, 30, 18)
	if !ok {
		t.Fatal("drag past threshold should commit")
	}
	if r.Width != minShapeSize || r.Height != minShapeSize {
		t.Fatalf("small shapes must floor to %v, got %vx%v", minShapeSize, r.Width, r.Height)
	}

	r, ok = CommitShape(0, 0, 120, 80)
	if !ok || r.Width != 120 || r.Height != 80 {
		t.Fatalf("large drag should keep its size, got %vx%v", r.Width, r.Height)
	}
}

func TestCommitShapeNormalizesDirection(t *testing.T) {
	r, ok := CommitShape(100, 100, 20, 30)
	if !ok {
		t.Fatal("expected commit")
	}
	if r.X != 20 || r.Y != 30 || r.Width != 80 || r.Height != 70 {
		t.Fatalf("up-left drag should normalize, got %+v", r)
	}
}

func TestResizeToClampsMinimum(t *testing.T) {
	o := state.Object{ID: "a", Type: state.TypeRectangle, X: 100, Y: 100, Width: 200, Height: 150}
	u := ResizeTo(o, 90, 90)
	if *u.Width != minResize || *u.Height != minResize {
		t.Fatalf("resize past the origin should clamp, got %vx%v", *u.Width, *u.Height)
	}
}

func TestResizeToScalesFontFromInitialSize(t *testing.T) {
	o := state.Object{
		ID: "t", Type: state.TypeText,
		X: 0, Y: 0, Width: 300, Height: 75,
		Style: state.Style{FontSize: 24},
		Data: state.Payload{
			InitialWidth: 200, InitialHeight: 50, InitialFontSize: 16,
		},
	}

	// Doubling the original dimensions doubles the original font size,
	// regardless of the already-scaled current values.
	u := ResizeTo(o, 400, 100)
	if u.Style == nil {
		t.Fatal("expected a style update")
	}
	if got := u.Style.FontSize; math.Abs(float64(got-32)) > 0.01 {
		t.Fatalf("expected font size 32, got %v", got)
	}

	// Uneven scaling averages the two ratios: (3 + 1) / 2 = 2.
	u = ResizeTo(o, 600, 50)
	if got := u.Style.FontSize; math.Abs(float64(got-32)) > 0.01 {
		t.Fatalf("expected averaged font size 32, got %v", got)
	}
}

func TestResizeToPlainShapeHasNoStyleUpdate(t *testing.T) {
	o := state.Object{ID: "r", Type: state.TypeRectangle, Width: 100, Height: 100}
	if u := ResizeTo(o, 150, 150); u.Style != nil {
		t.Fatal("shapes should not scale fonts")
	}
}

func TestToolForRune(t *testing.T) {
	cases := map[rune]state.Tool{
		'v': state.ToolPointer,
		'n': state.ToolSticky,
		't': state.ToolText,
		'r': state.ToolRectangle,
		'c': state.ToolCircle,
		'l': state.ToolLine,
		'a': state.ToolArrow,
		'i': state.ToolImage,
	}
	for r, want := range cases {
		got, ok := ToolForRune(r)
		if !ok || got != want {
			t.Fatalf("rune %q: got %v ok=%v, want %v", r, got, ok, want)
		}
	}
	if _, ok := ToolForRune('x'); ok {
		t.Fatal("unmapped rune should not switch tools")
	}
}

func TestFitCanvasCentersContent(t *testing.T) {
	objs := []state.Object{
		{ID: "a", Type: state.TypeRectangle, X: 0, Y: 0, Width: 100, Height: 100},
		{ID: "b", Type: state.TypeRectangle, X: 900, Y: 400, Width: 100, Height: 100},
	}
	cs := FitCanvas(objs, 800, 600)

	// The content center (500, 250) must land at the viewport center.
	sx, sy := geom.WorldToScreen(500, 250, cs)
	if math.Abs(float64(sx-400)) > 0.5 || math.Abs(float64(sy-300)) > 0.5 {
		t.Fatalf("content center projected to (%v, %v), want (400, 300)", sx, sy)
	}
	if cs.Zoom <= 0 || cs.Zoom > 1 {
		t.Fatalf("content wider than the view should zoom out, got %v", cs.Zoom)
	}
}

func TestFitCanvasEmptyBoardResets(t *testing.T) {
	cs := FitCanvas(nil, 800, 600)
	if cs != geom.DefaultCanvas() {
		t.Fatalf("empty board should reset the view, got %+v", cs)
	}
}

func TestHandleHit(t *testing.T) {
	o := state.Object{ID: "a", Type: state.TypeRectangle, X: 0, Y: 0, Width: 100, Height: 100}
	cs := geom.CanvasState{Zoom: 1}

	if !hitHandle(o, cs, 100, 100) {
		t.Fatal("exact corner should grab the handle")
	}
	if !hitHandle(o, cs, 105, 95) {
		t.Fatal("within the handle radius should grab")
	}
	if hitHandle(o, cs, 120, 120) {
		t.Fatal("outside the radius should miss")
	}

	// The handle tracks the projected corner under pan and zoom.
	cs = geom.CanvasState{PanX: 50, PanY: 20, Zoom: 2}
	if !hitHandle(o, cs, 250, 220) {
		t.Fatal("handle should follow the projected corner")
	}
}
