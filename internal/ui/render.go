package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/geom"
	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/state"
)

// gridSize is the world-space spacing of the background grid.
const gridSize float32 = 50

var (
	colorBackground = color.NRGBA{R: 0xF8, G: 0xFA, B: 0xFC, A: 0xFF}
	colorGrid       = color.NRGBA{R: 0xE2, G: 0xE8, B: 0xF0, A: 0xFF}
	colorSelection  = color.NRGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF}
	colorBoxFill    = color.NRGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0x30}
	colorLink       = color.NRGBA{R: 0xF5, G: 0x9E, B: 0x0B, A: 0xFF}
	colorConnector  = color.NRGBA{R: 0x64, G: 0x74, B: 0x8B, A: 0xFF}
	colorText       = color.NRGBA{R: 0x1E, G: 0x29, B: 0x3B, A: 0xFF}
)

// parseHexColor decodes "#RRGGBB" into an opaque color, falling back on
// anything malformed.
func parseHexColor(s string, fallback color.Color) color.Color {
	if len(s) != 7 || s[0] != '#' {
		return fallback
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexVal(s[1+i*2])
		lo, ok2 := hexVal(s[2+i*2])
		if !ok1 || !ok2 {
			return fallback
		}
		rgb[i] = hi<<4 | lo
	}
	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xFF}
}

func hexVal(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// boardRenderer rebuilds the full canvas object list on every refresh.
// The scene is small enough after culling that rebuilding beats diffing.
type boardRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	objects    []fyne.CanvasObject

	// decoded images keyed by source path, kept across refreshes
	images map[string]*canvas.Image
}

func newBoardRenderer(b *BoardWidget) *boardRenderer {
	return &boardRenderer{
		board:      b,
		background: canvas.NewRectangle(colorBackground),
		images:     make(map[string]*canvas.Image),
	}
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.Refresh()
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *boardRenderer) Destroy() {}

func (r *boardRenderer) Refresh() {
	b := r.board
	size := b.Size()
	cs := b.store.Canvas()
	all := b.store.ZOrdered()

	objs := []fyne.CanvasObject{r.background}
	r.background.Resize(size)

	if b.store.ShowGrid() {
		objs = r.appendGrid(objs, size, cs)
	}

	visible := state.VisibleObjects(all, size.Width, size.Height, cs)
	for _, o := range visible {
		objs = r.appendObject(objs, o, all, cs)
	}

	objs = r.appendSelection(objs, cs)
	objs = r.appendLinkHighlight(objs, cs)
	objs = r.appendGestureOverlay(objs, cs)

	if b.editor != nil {
		objs = append(objs, b.editor)
	}

	r.objects = objs
	canvas.Refresh(b)
}

// appendGrid draws world-aligned grid lines across the viewport. The grid
// drops out when zoomed far enough that lines would bunch together.
func (r *boardRenderer) appendGrid(objs []fyne.CanvasObject, size fyne.Size, cs geom.CanvasState) []fyne.CanvasObject {
	step := gridSize * cs.Zoom
	if step < 8 {
		return objs
	}
	world := geom.VisibleWorldRect(size.Width, size.Height, cs, 0)
	for x := geom.Snap(world.X, gridSize) - gridSize; x <= world.X+world.Width; x += gridSize {
		sx, _ := geom.WorldToScreen(x, 0, cs)
		l := canvas.NewLine(colorGrid)
		l.Position1 = fyne.NewPos(sx, 0)
		l.Position2 = fyne.NewPos(sx, size.Height)
		objs = append(objs, l)
	}
	for y := geom.Snap(world.Y, gridSize) - gridSize; y <= world.Y+world.Height; y += gridSize {
		_, sy := geom.WorldToScreen(0, y, cs)
		l := canvas.NewLine(colorGrid)
		l.Position1 = fyne.NewPos(0, sy)
		l.Position2 = fyne.NewPos(size.Width, sy)
		objs = append(objs, l)
	}
	return objs
}

func (r *boardRenderer) appendObject(objs []fyne.CanvasObject, o state.Object, all []state.Object, cs geom.CanvasState) []fyne.CanvasObject {
	switch o.Type {
	case state.TypeConnector:
		return r.appendConnector(objs, o, all, cs)
	case state.TypeSticky:
		return r.appendSticky(objs, o, cs)
	case state.TypeText:
		return r.appendText(objs, o, cs)
	case state.TypeRectangle:
		return r.appendRect(objs, o, cs)
	case state.TypeCircle:
		return r.appendCircle(objs, o, cs)
	case state.TypeLine, state.TypeArrow:
		return r.appendLine(objs, o, cs)
	case state.TypeImage:
		return r.appendImage(objs, o, cs)
	}
	return objs
}

func (r *boardRenderer) appendConnector(objs []fyne.CanvasObject, o state.Object, all []state.Object, cs geom.CanvasState) []fyne.CanvasObject {
	x1, y1, x2, y2, ok := state.ConnectorEndpoints(all, o)
	if !ok {
		return objs
	}
	sx1, sy1 := geom.WorldToScreen(x1, y1, cs)
	sx2, sy2 := geom.WorldToScreen(x2, y2, cs)
	l := canvas.NewLine(colorConnector)
	l.StrokeWidth = o.Style.StrokeWidth * cs.Zoom
	l.Position1 = fyne.NewPos(sx1, sy1)
	l.Position2 = fyne.NewPos(sx2, sy2)
	return append(objs, l)
}

func (r *boardRenderer) appendSticky(objs []fyne.CanvasObject, o state.Object, cs geom.CanvasState) []fyne.CanvasObject {
	b := screenBounds(o, cs)
	rect := canvas.NewRectangle(parseHexColor(o.Style.Fill, color.NRGBA{R: 0xFF, G: 0xD9, B: 0x66, A: 0xFF}))
	rect.CornerRadius = 6 * cs.Zoom
	rect.Move(fyne.NewPos(b.X, b.Y))
	rect.Resize(fyne.NewSize(b.Width, b.Height))
	objs = append(objs, rect)

	pad := 10 * cs.Zoom
	if o.Data.Title != "" {
		title := canvas.NewText(o.Data.Title, colorText)
		title.TextSize = o.Style.FontSize * cs.Zoom
		title.TextStyle = fyne.TextStyle{Bold: true}
		title.Move(fyne.NewPos(b.X+pad, b.Y+pad))
		objs = append(objs, title)
	}
	if o.Data.Content != "" {
		body := canvas.NewText(o.Data.Content, colorText)
		body.TextSize = o.Style.FontSize * cs.Zoom * 0.85
		body.Move(fyne.NewPos(b.X+pad, b.Y+pad+o.Style.FontSize*cs.Zoom*1.4))
		objs = append(objs, body)
	}
	return objs
}

func (r *boardRenderer) appendText(objs []fyne.CanvasObject, o state.Object, cs geom.CanvasState) []fyne.CanvasObject {
	b := screenBounds(o, cs)
	t := canvas.NewText(o.Data.Text, parseHexColor(o.Style.Color, colorText))
	t.TextSize = o.Style.FontSize * cs.Zoom
	t.Move(fyne.NewPos(b.X, b.Y))
	return append(objs, t)
}

func (r *boardRenderer) appendRect(objs []fyne.CanvasObject, o state.Object, cs geom.CanvasState) []fyne.CanvasObject {
	b := screenBounds(o, cs)
	rect := canvas.NewRectangle(color.Transparent)
	if o.Style.Fill != "" {
		rect.FillColor = parseHexColor(o.Style.Fill, color.Transparent)
	}
	rect.StrokeColor = parseHexColor(o.Style.Color, colorText)
	rect.StrokeWidth = o.Style.StrokeWidth * cs.Zoom
	rect.Move(fyne.NewPos(b.X, b.Y))
	rect.Resize(fyne.NewSize(b.Width, b.Height))
	return append(objs, rect)
}

func (r *boardRenderer) appendCircle(objs []fyne.CanvasObject, o state.Object, cs geom.CanvasState) []fyne.CanvasObject {
	b := screenBounds(o, cs)
	c := canvas.NewCircle(color.Transparent)
	if o.Style.Fill != "" {
		c.FillColor = parseHexColor(o.Style.Fill, color.Transparent)
	}
	c.StrokeColor = parseHexColor(o.Style.Color, colorText)
	c.StrokeWidth = o.Style.StrokeWidth * cs.Zoom
	c.Position1 = fyne.NewPos(b.X, b.Y)
	c.Position2 = fyne.NewPos(b.X+b.Width, b.Y+b.Height)
	return append(objs, c)
}

func (r *boardRenderer) appendLine(objs []fyne.CanvasObject, o state.Object, cs geom.CanvasState) []fyne.CanvasObject {
	x1, y1, x2, y2 := o.LineEndpoints()
	sx1, sy1 := geom.WorldToScreen(x1, y1, cs)
	sx2, sy2 := geom.WorldToScreen(x2, y2, cs)
	col := parseHexColor(o.Style.Color, colorText)
	width := o.Style.StrokeWidth * cs.Zoom

	l := canvas.NewLine(col)
	l.StrokeWidth = width
	l.Position1 = fyne.NewPos(sx1, sy1)
	l.Position2 = fyne.NewPos(sx2, sy2)
	objs = append(objs, l)

	if o.Type == state.TypeArrow {
		hx1, hy1, hx2, hy2 := geom.ArrowHead(sx1, sy1, sx2, sy2, 12*cs.Zoom)
		for _, p := range [][4]float32{{sx2, sy2, hx1, hy1}, {sx2, sy2, hx2, hy2}} {
			h := canvas.NewLine(col)
			h.StrokeWidth = width
			h.Position1 = fyne.NewPos(p[0], p[1])
			h.Position2 = fyne.NewPos(p[2], p[3])
			objs = append(objs, h)
		}
	}
	return objs
}

func (r *boardRenderer) appendImage(objs []fyne.CanvasObject, o state.Object, cs geom.CanvasState) []fyne.CanvasObject {
	b := screenBounds(o, cs)
	img, ok := r.images[o.Data.Src]
	if !ok {
		img = canvas.NewImageFromFile(o.Data.Src)
		img.FillMode = canvas.ImageFillStretch
		r.images[o.Data.Src] = img
	}
	img.Move(fyne.NewPos(b.X, b.Y))
	img.Resize(fyne.NewSize(b.Width, b.Height))
	return append(objs, img)
}

func (r *boardRenderer) appendSelection(objs []fyne.CanvasObject, cs geom.CanvasState) []fyne.CanvasObject {
	sel := r.board.store.Selection()
	for _, id := range sel {
		o, ok := r.board.store.Object(id)
		if !ok || o.Type == state.TypeConnector {
			continue
		}
		b := screenBounds(o, cs)
		outline := canvas.NewRectangle(color.Transparent)
		outline.StrokeColor = colorSelection
		outline.StrokeWidth = 2
		outline.Move(fyne.NewPos(b.X-2, b.Y-2))
		outline.Resize(fyne.NewSize(b.Width+4, b.Height+4))
		objs = append(objs, outline)

		if len(sel) == 1 && !o.Locked {
			hx, hy := handlePosition(o, cs)
			handle := canvas.NewRectangle(colorSelection)
			handle.Move(fyne.NewPos(hx-handleSize/2, hy-handleSize/2))
			handle.Resize(fyne.NewSize(handleSize, handleSize))
			objs = append(objs, handle)
		}
	}
	return objs
}

func (r *boardRenderer) appendLinkHighlight(objs []fyne.CanvasObject, cs geom.CanvasState) []fyne.CanvasObject {
	id := r.board.store.LinkStart()
	if id == "" {
		return objs
	}
	o, ok := r.board.store.Object(id)
	if !ok {
		return objs
	}
	b := screenBounds(o, cs)
	outline := canvas.NewRectangle(color.Transparent)
	outline.StrokeColor = colorLink
	outline.StrokeWidth = 3
	outline.Move(fyne.NewPos(b.X-3, b.Y-3))
	outline.Resize(fyne.NewSize(b.Width+6, b.Height+6))
	return append(objs, outline)
}

// appendGestureOverlay draws the in-progress shape preview or the box
// select marquee.
func (r *boardRenderer) appendGestureOverlay(objs []fyne.CanvasObject, cs geom.CanvasState) []fyne.CanvasObject {
	g := r.board.gest
	switch g.kind {
	case gestureDraw:
		if g.preview.IsEmpty() {
			return objs
		}
		sx, sy := geom.WorldToScreen(g.preview.X, g.preview.Y, cs)
		switch g.tool {
		case state.ToolLine, state.ToolArrow:
			l := canvas.NewLine(colorSelection)
			l.StrokeWidth = 2
			ax, ay := geom.WorldToScreen(g.anchorX, g.anchorY, cs)
			bx, by := geom.WorldToScreen(g.endX, g.endY, cs)
			l.Position1 = fyne.NewPos(ax, ay)
			l.Position2 = fyne.NewPos(bx, by)
			objs = append(objs, l)
		default:
			rect := canvas.NewRectangle(color.Transparent)
			rect.StrokeColor = colorSelection
			rect.StrokeWidth = 2
			rect.Move(fyne.NewPos(sx, sy))
			rect.Resize(fyne.NewSize(g.preview.Width*cs.Zoom, g.preview.Height*cs.Zoom))
			objs = append(objs, rect)
		}
	case gestureBoxSelect:
		if g.box.IsEmpty() {
			return objs
		}
		rect := canvas.NewRectangle(colorBoxFill)
		rect.StrokeColor = colorSelection
		rect.StrokeWidth = 1
		rect.Move(fyne.NewPos(g.box.X, g.box.Y))
		rect.Resize(fyne.NewSize(g.box.Width, g.box.Height))
		objs = append(objs, rect)
	}
	return objs
}
