package ui

import (
	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/geom"
	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/state"
)

// Gesture thresholds, in the units that matter for each decision.
const (
	// dragCommitThreshold is the world-space size below which a
	// creation drag is treated as an accidental click and discarded.
	dragCommitThreshold float32 = 5
	// minShapeSize is the floor applied to committed shapes.
	minShapeSize float32 = 50
	// handleSize is the screen-space hit radius of the resize handle.
	handleSize float32 = 10
	// minResize stops a handle drag from collapsing an object.
	minResize float32 = 10
)

// HitTopmost returns the id of the topmost object containing the world
// point, honoring z-order and rotation. Connectors never hit.
func HitTopmost(objs []state.Object, wx, wy float32) (state.Object, bool) {
	best := -1
	for i, o := range objs {
		if !o.HitTest(wx, wy) {
			continue
		}
		// Higher z wins; insertion order breaks ties, so a later
		// equal-z object shadows an earlier one.
		if best == -1 || objs[i].ZIndex >= objs[best].ZIndex {
			best = i
		}
	}
	if best == -1 {
		return state.Object{}, false
	}
	return objs[best], true
}

// screenBounds projects an object's world box into screen space. It
// projects the normalized Bounds, not the raw fields, so lines and
// arrows with signed dimensions still yield a positive rect.
func screenBounds(o state.Object, cs geom.CanvasState) geom.Rect {
	b := o.Bounds()
	x, y := geom.WorldToScreen(b.X, b.Y, cs)
	return geom.Rect{X: x, Y: y, Width: b.Width * cs.Zoom, Height: b.Height * cs.Zoom}
}

// BoxSelect returns the ids of all objects whose projected screen box
// overlaps the screen-space selection rectangle; partial overlap counts.
func BoxSelect(objs []state.Object, sel geom.Rect, cs geom.CanvasState) []string {
	var ids []string
	for _, o := range objs {
		if o.Type == state.TypeConnector {
			continue
		}
		if screenBounds(o, cs).Intersects(sel) {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// CommitShape turns a creation drag from the anchor to (wx, wy) into the
// rect to insert. Sub-threshold drags report ok=false and nothing is
// created; committed shapes are floored to the minimum size.
func CommitShape(anchorX, anchorY, wx, wy float32) (geom.Rect, bool) {
	r := geom.RectFromPoints(anchorX, anchorY, wx, wy)
	if r.Width <= dragCommitThreshold && r.Height <= dragCommitThreshold {
		return geom.Rect{}, false
	}
	if r.Width < minShapeSize {
		r.Width = minShapeSize
	}
	if r.Height < minShapeSize {
		r.Height = minShapeSize
	}
	return r, true
}

// handlePosition is the screen-space center of the resize handle, at the
// bottom-right corner of the object's projected box.
func handlePosition(o state.Object, cs geom.CanvasState) (float32, float32) {
	b := screenBounds(o, cs)
	return b.X + b.Width, b.Y + b.Height
}

// hitHandle reports whether a screen point grabs the resize handle.
func hitHandle(o state.Object, cs geom.CanvasState, sx, sy float32) bool {
	hx, hy := handlePosition(o, cs)
	return geom.Dist(sx, sy, hx, hy) <= handleSize
}

// ResizeTo recomputes an object's size from a handle drag to the world
// point (wx, wy). Text and sticky font sizes scale proportionally to the
// average of the width and height ratios against the object's original
// (pre-any-resize) dimensions, so repeated resizes compound instead of
// drifting from the already-scaled size.
func ResizeTo(o state.Object, wx, wy float32) state.Update {
	w := max(wx-o.X, minResize)
	h := max(wy-o.Y, minResize)
	u := state.Update{Width: &w, Height: &h}

	if (o.Type == state.TypeText || o.Type == state.TypeSticky) &&
		o.Data.InitialWidth > 0 && o.Data.InitialHeight > 0 && o.Data.InitialFontSize > 0 {
		ratio := (w/o.Data.InitialWidth + h/o.Data.InitialHeight) / 2
		style := o.Style
		style.FontSize = o.Data.InitialFontSize * ratio
		u.Style = &style
	}
	return u
}

// ToolForRune maps the single-letter keyboard shortcuts to tools.
func ToolForRune(r rune) (state.Tool, bool) {
	switch r {
	case 'v':
		return state.ToolPointer, true
	case 'n':
		return state.ToolSticky, true
	case 't':
		return state.ToolText, true
	case 'r':
		return state.ToolRectangle, true
	case 'c':
		return state.ToolCircle, true
	case 'l':
		return state.ToolLine, true
	case 'a':
		return state.ToolArrow, true
	case 'i':
		return state.ToolImage, true
	}
	return "", false
}

// FitCanvas computes the pan/zoom that shows every object with a margin,
// bounded by the zoom clamp. An empty board resets to the identity view.
func FitCanvas(objs []state.Object, viewW, viewH float32) geom.CanvasState {
	var bounds geom.Rect
	found := false
	for _, o := range objs {
		if o.Type == state.TypeConnector {
			continue
		}
		if !found {
			bounds = o.Bounds()
			found = true
			continue
		}
		bounds = bounds.Union(o.Bounds())
	}
	if !found || bounds.IsEmpty() {
		return geom.DefaultCanvas()
	}
	const margin float32 = 60
	zoom := min((viewW-2*margin)/bounds.Width, (viewH-2*margin)/bounds.Height)
	zoom = geom.Clamp(zoom, geom.MinZoom, geom.MaxZoom)
	cx, cy := bounds.Center()
	return geom.CanvasState{
		PanX: viewW/2 - cx*zoom,
		PanY: viewH/2 - cy*zoom,
		Zoom: zoom,
	}
}
