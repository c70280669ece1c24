package geom

import "math"

// Zoom is clamped so the world/screen mapping never degenerates.
const (
	MinZoom float32 = 0.1
	MaxZoom float32 = 5.0
)

// CanvasState is the single affine mapping from world to screen
// coordinates: screen = world*Zoom + Pan.
type CanvasState struct {
	PanX float32 `json:"panX"`
	PanY float32 `json:"panY"`
	Zoom float32 `json:"zoom"`
}

// DefaultCanvas returns the identity view.
func DefaultCanvas() CanvasState {
	return CanvasState{Zoom: 1}
}

// Clamped returns a copy with the zoom forced into [MinZoom, MaxZoom].
// A zero zoom (e.g. an uninitialized struct) is treated as 1.
func (cs CanvasState) Clamped() CanvasState {
	if cs.Zoom == 0 {
		cs.Zoom = 1
	}
	cs.Zoom = Clamp(cs.Zoom, MinZoom, MaxZoom)
	return cs
}

// WorldToScreen projects a world point into viewport pixels.
func WorldToScreen(x, y float32, cs CanvasState) (float32, float32) {
	return x*cs.Zoom + cs.PanX, y*cs.Zoom + cs.PanY
}

// ScreenToWorld is the exact inverse of WorldToScreen.
func ScreenToWorld(x, y float32, cs CanvasState) (float32, float32) {
	return (x - cs.PanX) / cs.Zoom, (y - cs.PanY) / cs.Zoom
}

// ZoomAt rescales the view by factor while keeping the screen point
// (px, py) anchored on the same world point.
func ZoomAt(cs CanvasState, px, py, factor float32) CanvasState {
	oldZoom := cs.Clamped().Zoom
	newZoom := Clamp(oldZoom*factor, MinZoom, MaxZoom)
	ratio := newZoom / oldZoom
	return CanvasState{
		PanX: px - (px-cs.PanX)*ratio,
		PanY: py - (py-cs.PanY)*ratio,
		Zoom: newZoom,
	}
}

// VisibleWorldRect inverse-transforms the viewport into world space and
// expands it by padding world units on every side.
func VisibleWorldRect(viewW, viewH float32, cs CanvasState, padding float32) Rect {
	x0, y0 := ScreenToWorld(0, 0, cs)
	x1, y1 := ScreenToWorld(viewW, viewH, cs)
	return Rect{
		X:      x0 - padding,
		Y:      y0 - padding,
		Width:  (x1 - x0) + 2*padding,
		Height: (y1 - y0) + 2*padding,
	}
}

// Rect is an axis-aligned box in world coordinates.
type Rect struct {
	X, Y, Width, Height float32
}

// RectFromPoints builds the normalized rect spanned by two corners.
func RectFromPoints(x1, y1, x2, y2 float32) Rect {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports partial or full overlap; touching edges count.
func (r Rect) Intersects(o Rect) bool {
	return !(r.X+r.Width < o.X || o.X+o.Width < r.X ||
		r.Y+r.Height < o.Y || o.Y+o.Height < r.Y)
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	minX := min(r.X, o.X)
	minY := min(r.Y, o.Y)
	maxX := max(r.X+r.Width, o.X+o.Width)
	maxY := max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Center returns the midpoint, which is invariant under rotation about it.
func (r Rect) Center() (float32, float32) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// ContainsRotated tests a point against the rect rotated by rotation
// degrees around its center. The query point is rotated by -rotation into
// the rect's local frame and then tested axis-aligned.
func (r Rect) ContainsRotated(x, y, rotation float32) bool {
	if rotation == 0 {
		return r.Contains(x, y)
	}
	cx, cy := r.Center()
	lx, ly := RotatePoint(x, y, cx, cy, -rotation)
	return r.Contains(lx, ly)
}

// RotatePoint rotates (x, y) around (cx, cy) by deg degrees.
func RotatePoint(x, y, cx, cy, deg float32) (float32, float32) {
	rad := float64(deg) * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx, dy := float64(x-cx), float64(y-cy)
	return cx + float32(dx*cos-dy*sin), cy + float32(dx*sin+dy*cos)
}

// Snap rounds v to the nearest multiple of grid. A non-positive grid is a
// no-op.
func Snap(v, grid float32) float32 {
	if grid <= 0 {
		return v
	}
	return float32(math.Round(float64(v/grid))) * grid
}

func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ArrowHead returns the two barb points of an arrow head of the given
// size at (x2, y2), for a shaft running from (x1, y1).
func ArrowHead(x1, y1, x2, y2, size float32) (hx1, hy1, hx2, hy2 float32) {
	angle := math.Atan2(float64(y2-y1), float64(x2-x1))
	const spread = math.Pi / 7
	hx1 = x2 - size*float32(math.Cos(angle-spread))
	hy1 = y2 - size*float32(math.Sin(angle-spread))
	hx2 = x2 - size*float32(math.Cos(angle+spread))
	hy2 = y2 - size*float32(math.Sin(angle+spread))
	return hx1, hy1, hx2, hy2
}

// Dist returns the euclidean distance between two points.
func Dist(x1, y1, x2, y2 float32) float32 {
	dx, dy := float64(x2-x1), float64(y2-y1)
	return float32(math.Hypot(dx, dy))
}

// Finite reports whether every value is a usable coordinate.
func Finite(vs ...float32) bool {
	for _, v := range vs {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
