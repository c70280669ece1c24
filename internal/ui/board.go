package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/geom"
	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/state"
)

// dragUpdateInterval throttles object updates during a drag so one frame
// of mouse movement produces at most one store write.
const dragUpdateInterval = 16 * time.Millisecond

// zoomStep is the per-wheel-notch zoom factor.
const zoomStep float32 = 1.1

type gestureKind int

const (
	gestureNone gestureKind = iota
	gesturePan
	gestureMove
	gestureResize
	gestureBoxSelect
	gestureDraw
)

// gesture tracks one press-drag-release interaction from MouseDown to
// MouseUp. All world coordinates are captured at press time.
type gesture struct {
	kind             gestureKind
	tool             state.Tool // active tool at press time
	anchorX, anchorY float32    // world-space press point
	startX, startY   float32 // screen-space press point
	moved            bool
	selectedOnPress  bool
	origins          map[string]geom.Rect // pre-drag bounds of moving objects
	resizeOrig       state.Object
	endX, endY       float32   // world-space drag endpoint, draw gesture
	preview          geom.Rect // world space, draw gesture
	box              geom.Rect // screen space, box select
	lastUpdate       time.Time
}

// BoardWidget is the whiteboard canvas. It owns all pointer and keyboard
// interaction and renders the scene from the store on every refresh.
type BoardWidget struct {
	widget.BaseWidget

	store *state.Store

	gest      gesture
	ctrlHeld  bool
	shiftHeld bool

	// last hover position, used as the anchor for wheel zoom
	pointerX, pointerY float32

	editor *boardEditor
}

var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ desktop.Keyable = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ fyne.DoubleTappable = (*BoardWidget)(nil)
var _ fyne.Shortcutable = (*BoardWidget)(nil)

func NewBoardWidget(store *state.Store) *BoardWidget {
	b := &BoardWidget{store: store}
	b.ExtendBaseWidget(b)
	store.Subscribe(func(state.EventKind) {
		b.Refresh()
	})
	return b
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return newBoardRenderer(b)
}

func (b *BoardWidget) toWorld(p fyne.Position) (float32, float32) {
	return geom.ScreenToWorld(p.X, p.Y, b.store.Canvas())
}

func (b *BoardWidget) focus() {
	if c := fyne.CurrentApp().Driver().CanvasForObject(b); c != nil {
		c.Focus(b)
	}
}

// MouseDown starts a gesture. What the press means depends on the active
// tool, the mouse button and what sits under the cursor.
func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	b.focus()
	if b.editor != nil {
		b.commitEdit()
	}

	if e.Button == desktop.MouseButtonSecondary || e.Button == desktop.MouseButtonTertiary {
		b.gest = gesture{kind: gesturePan, startX: e.Position.X, startY: e.Position.Y}
		return
	}
	if e.Button != desktop.MouseButtonPrimary {
		return
	}

	wx, wy := b.toWorld(e.Position)
	shift := e.Modifier&fyne.KeyModifierShift != 0

	switch b.store.Tool() {
	case state.ToolPointer:
		b.pointerDown(e.Position, wx, wy, shift)
	case state.ToolSticky:
		b.showStickyPicker(e.AbsolutePosition, wx, wy)
	case state.ToolText:
		b.store.AddObject(state.Object{
			Type: state.TypeText,
			X:    wx, Y: wy,
		})
		b.openEditor()
	case state.ToolRectangle, state.ToolCircle, state.ToolLine, state.ToolArrow:
		b.gest = gesture{
			kind:    gestureDraw,
			tool:    b.store.Tool(),
			anchorX: wx, anchorY: wy,
			startX: e.Position.X, startY: e.Position.Y,
		}
	case state.ToolConnector:
		b.connectorDown(wx, wy)
	case state.ToolImage:
		// Insertion happens through the toolbar's file picker.
	}
}

func (b *BoardWidget) pointerDown(pos fyne.Position, wx, wy float32, shift bool) {
	cs := b.store.Canvas()

	// A grab on the resize handle of the sole selected object beats any
	// hit test underneath it.
	if sel := b.store.Selection(); len(sel) == 1 {
		if o, ok := b.store.Object(sel[0]); ok && !o.Locked && hitHandle(o, cs, pos.X, pos.Y) {
			b.gest = gesture{kind: gestureResize, resizeOrig: o}
			return
		}
	}

	hit, ok := HitTopmost(b.store.Objects(), wx, wy)
	if !ok {
		if !shift {
			b.store.ClearSelection()
		}
		b.gest = gesture{
			kind:   gestureBoxSelect,
			startX: pos.X, startY: pos.Y,
		}
		return
	}

	g := gesture{
		kind:    gestureMove,
		anchorX: wx, anchorY: wy,
		startX: pos.X, startY: pos.Y,
	}
	if !b.store.IsSelected(hit.ID) {
		b.store.SelectObject(hit.ID, shift)
		// The press that performed the selection is select-only; a move
		// starts on the next press, when the object is already selected.
		g.selectedOnPress = true
		g.kind = gestureNone
	} else if shift {
		// Shift-click on a selected object toggles it out.
		b.store.SelectObject(hit.ID, true)
		g.kind = gestureNone
	}

	if g.kind == gestureMove && !g.selectedOnPress {
		g.origins = make(map[string]geom.Rect)
		for _, id := range b.store.Selection() {
			if o, ok := b.store.Object(id); ok && !o.Locked {
				g.origins[id] = o.Bounds()
			}
		}
		if len(g.origins) == 0 {
			g.kind = gestureNone
		}
	}
	b.gest = g
}

func (b *BoardWidget) connectorDown(wx, wy float32) {
	hit, ok := HitTopmost(b.store.Objects(), wx, wy)
	if !ok {
		b.store.CancelLink()
		return
	}
	if b.store.LinkStart() == "" {
		b.store.BeginLink(hit.ID)
		return
	}
	b.store.CompleteLink(hit.ID)
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	switch b.gest.kind {
	case gesturePan:
		b.store.Pan(e.Dragged.DX, e.Dragged.DY)
		b.gest.moved = true
		return
	case gestureNone:
		return
	}

	now := time.Now()
	if now.Sub(b.gest.lastUpdate) < dragUpdateInterval {
		return
	}
	b.gest.lastUpdate = now

	wx, wy := b.toWorld(e.Position)

	switch b.gest.kind {
	case gestureMove:
		dx, dy := wx-b.gest.anchorX, wy-b.gest.anchorY
		for id, orig := range b.gest.origins {
			x, y := orig.X+dx, orig.Y+dy
			b.store.UpdateObject(id, state.Update{X: &x, Y: &y})
		}
		b.gest.moved = true
	case gestureResize:
		b.store.UpdateObject(b.gest.resizeOrig.ID, ResizeTo(b.gest.resizeOrig, wx, wy))
		b.gest.moved = true
	case gestureDraw:
		b.gest.endX, b.gest.endY = wx, wy
		b.gest.preview = geom.RectFromPoints(b.gest.anchorX, b.gest.anchorY, wx, wy)
		b.gest.moved = true
		b.Refresh()
	case gestureBoxSelect:
		b.gest.box = geom.RectFromPoints(b.gest.startX, b.gest.startY, e.Position.X, e.Position.Y)
		b.gest.moved = true
		b.Refresh()
	}
}

func (b *BoardWidget) DragEnd() {
	b.finishGesture()
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	b.finishGesture()
}

// finishGesture commits whatever the ended gesture was building. It is
// called from both DragEnd and MouseUp and must be safe to run twice.
func (b *BoardWidget) finishGesture() {
	g := b.gest
	b.gest = gesture{}

	switch g.kind {
	case gestureMove, gestureResize:
		if g.moved {
			b.store.SaveToHistory()
		}
	case gestureDraw:
		b.commitDraw(g)
	case gestureBoxSelect:
		if g.moved {
			ids := BoxSelect(b.store.Objects(), g.box, b.store.Canvas())
			b.store.SelectMultiple(ids)
		}
		b.Refresh()
	}
}

func (b *BoardWidget) commitDraw(g gesture) {
	if !g.moved {
		return
	}
	tool := g.tool
	switch tool {
	case state.ToolLine, state.ToolArrow:
		// Lines keep their drag direction as signed dimensions and have
		// no minimum size beyond the accidental-click threshold.
		w, h := g.endX-g.anchorX, g.endY-g.anchorY
		if geom.Dist(0, 0, w, h) <= dragCommitThreshold {
			b.Refresh()
			return
		}
		b.store.AddObject(state.Object{
			Type: objectTypeForTool(tool),
			X:    g.anchorX, Y: g.anchorY,
			Width: w, Height: h,
		})
	default:
		r, ok := CommitShape(g.anchorX, g.anchorY, g.endX, g.endY)
		if !ok {
			b.Refresh()
			return
		}
		b.store.AddObject(state.Object{
			Type: objectTypeForTool(tool),
			X:    r.X, Y: r.Y,
			Width: r.Width, Height: r.Height,
		})
	}
}

func objectTypeForTool(t state.Tool) state.ObjectType {
	switch t {
	case state.ToolRectangle:
		return state.TypeRectangle
	case state.ToolCircle:
		return state.TypeCircle
	case state.ToolLine:
		return state.TypeLine
	case state.ToolArrow:
		return state.TypeArrow
	default:
		return state.TypeRectangle
	}
}

// Scrolled zooms when ctrl is held and pans otherwise; shift swaps the
// pan axes so a plain vertical wheel moves the board horizontally.
func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	if b.ctrlHeld {
		factor := zoomStep
		if e.Scrolled.DY < 0 {
			factor = 1 / zoomStep
		}
		b.store.SetCanvas(geom.ZoomAt(b.store.Canvas(), b.pointerX, b.pointerY, factor))
		return
	}
	dx, dy := e.Scrolled.DX, e.Scrolled.DY
	if b.shiftHeld {
		dx, dy = dy, dx
	}
	b.store.Pan(dx, dy)
}

func (b *BoardWidget) MouseIn(e *desktop.MouseEvent) {
	b.pointerX, b.pointerY = e.Position.X, e.Position.Y
}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.pointerX, b.pointerY = e.Position.X, e.Position.Y
}

func (b *BoardWidget) MouseOut() {}

func (b *BoardWidget) DoubleTapped(e *fyne.PointEvent) {
	wx, wy := b.toWorld(e.Position)
	hit, ok := HitTopmost(b.store.Objects(), wx, wy)
	if !ok {
		return
	}
	if hit.Type != state.TypeSticky && hit.Type != state.TypeText {
		return
	}
	b.store.SelectObject(hit.ID, false)
	b.store.StartEditing(hit.ID)
	b.openEditor()
}

// Keyboard handling. The widget holds focus whenever the canvas was the
// last thing clicked; modifier state is tracked for the scroll handler.

func (b *BoardWidget) FocusGained() {}
func (b *BoardWidget) FocusLost() {
	b.ctrlHeld, b.shiftHeld = false, false
}

func (b *BoardWidget) KeyDown(e *fyne.KeyEvent) {
	switch e.Name {
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		b.ctrlHeld = true
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		b.shiftHeld = true
	}
}

func (b *BoardWidget) KeyUp(e *fyne.KeyEvent) {
	switch e.Name {
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		b.ctrlHeld = false
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		b.shiftHeld = false
	}
}

func (b *BoardWidget) TypedKey(e *fyne.KeyEvent) {
	switch e.Name {
	case fyne.KeyDelete, fyne.KeyBackspace:
		b.store.DeleteSelected()
	case fyne.KeyEscape:
		// Clears the selection, cancels a pending connector link and
		// returns to the pointer, all in one stroke.
		b.store.SetTool(state.ToolPointer)
	}
}

func (b *BoardWidget) TypedRune(r rune) {
	if b.store.EditingID() != "" {
		return
	}
	switch r {
	case 'q', 'e':
		delta := float32(15)
		if r == 'q' {
			delta = -15
		}
		rotated := false
		for _, id := range b.store.Selection() {
			if o, ok := b.store.Object(id); ok && !o.Locked {
				rot := o.Rotation + delta
				b.store.UpdateObject(id, state.Update{Rotation: &rot})
				rotated = true
			}
		}
		if rotated {
			b.store.SaveToHistory()
		}
		return
	case ']':
		for _, id := range b.store.Selection() {
			b.store.BringToFront(id)
		}
		return
	case '[':
		for _, id := range b.store.Selection() {
			b.store.SendToBack(id)
		}
		return
	}
	if t, ok := ToolForRune(r); ok {
		b.store.SetTool(t)
	}
}

func (b *BoardWidget) TypedShortcut(s fyne.Shortcut) {
	switch s.(type) {
	case *fyne.ShortcutCopy:
		b.store.CopySelected()
	case *fyne.ShortcutPaste:
		b.store.Paste()
	case *fyne.ShortcutSelectAll:
		b.store.SelectAll()
	case *fyne.ShortcutUndo:
		b.store.Undo()
	case *fyne.ShortcutRedo:
		b.store.Redo()
	}
}
