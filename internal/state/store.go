package state

import (
	"log"
	"sort"
	"sync"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/geom"
)

// EventKind classifies store change notifications so observers can react
// only to the slices they care about.
type EventKind int

const (
	// EventObjects fires on any change to the object collection.
	EventObjects EventKind = iota
	// EventCanvas fires on pan/zoom changes.
	EventCanvas
	// EventSelection fires on selection changes.
	EventSelection
	// EventView fires on editor UI flag changes (tool, grid, editing,
	// connector-linking) that need a repaint but no persistence.
	EventView
)

// Store is the single owner of all whiteboard state: the object
// collection, selection, active tool, canvas transform, history and
// editor UI flags. All mutation funnels through it. Operations are
// synchronous and side-effect the in-memory model only — persistence is
// driven by observers.
//
// Unknown-id mutations are silent no-ops: undo/redo and debounced
// handlers can legitimately race with pending UI events.
type Store struct {
	mu sync.RWMutex

	objects []Object
	byID    map[string]int // id -> index in objects

	selection []string
	tool      Tool
	canvas    geom.CanvasState
	hist      history
	clipboard []Object

	showGrid  bool
	editingID string // in-place text edit session, not part of history
	linkStart string // pending connector start object

	listeners []func(EventKind)
}

// NewStore returns an empty board with the pointer tool active.
func NewStore() *Store {
	return &Store{
		byID:     map[string]int{},
		tool:     ToolPointer,
		canvas:   geom.DefaultCanvas(),
		hist:     newHistory(nil),
		showGrid: true,
	}
}

// Subscribe registers a change observer. Listeners are invoked
// synchronously after the mutation completes, outside the store lock.
func (s *Store) Subscribe(fn func(EventKind)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) notify(kind EventKind) {
	s.mu.RLock()
	ls := make([]func(EventKind), len(s.listeners))
	copy(ls, s.listeners)
	s.mu.RUnlock()
	for _, fn := range ls {
		fn(kind)
	}
}

func (s *Store) reindex() {
	s.byID = make(map[string]int, len(s.objects))
	for i, o := range s.objects {
		s.byID[o.ID] = i
	}
}

// Objects returns a copy of the collection in insertion order.
func (s *Store) Objects() []Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// ZOrdered returns a copy sorted by z-index, insertion order breaking
// ties. Connectors sort behind everything by their negative z-index.
func (s *Store) ZOrdered() []Object {
	out := s.Objects()
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// Object looks an object up by id.
func (s *Store) Object(id string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return Object{}, false
	}
	return s.objects[i], true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *Store) maxZLocked() int {
	z := 0
	for _, o := range s.objects {
		if o.ZIndex > z {
			z = o.ZIndex
		}
	}
	return z
}

func (s *Store) minZLocked() int {
	z := 0
	for _, o := range s.objects {
		if o.ZIndex < z {
			z = o.ZIndex
		}
	}
	return z
}

// AddObject fills defaults, inserts at top z-order, selects the new
// object, commits a history snapshot and — for one-shot tools — resets
// the active tool to the pointer. It returns the new object's id.
func (s *Store) AddObject(o Object) string {
	s.mu.Lock()
	if o.ID == "" {
		o.ID = NewID()
	}
	applyDefaults(&o)
	if !validGeometry(o) {
		s.mu.Unlock()
		log.Printf("[store] rejected add of %s with degenerate bounds", o.Type)
		return ""
	}
	if o.Type != TypeConnector {
		o.ZIndex = s.maxZLocked() + 1
	}
	s.objects = append(s.objects, o)
	s.byID[o.ID] = len(s.objects) - 1
	s.selection = []string{o.ID}
	if editableOnCreate(o.Type) {
		s.editingID = o.ID
	}
	if oneShot(s.tool) {
		s.tool = ToolPointer
	}
	s.hist.push(cloneObjects(s.objects))
	s.mu.Unlock()

	s.notify(EventObjects)
	s.notify(EventSelection)
	return o.ID
}

// validGeometry is the render-safety rule applied to every add and
// update. Lines and arrows carry signed, possibly flat dimensions and
// only need a nonzero length; connectors have no intrinsic geometry.
func validGeometry(o Object) bool {
	if !geom.Finite(o.X, o.Y, o.Width, o.Height, o.Rotation) {
		return false
	}
	switch o.Type {
	case TypeConnector:
		return true
	case TypeLine, TypeArrow:
		return o.Width != 0 || o.Height != 0
	default:
		return o.Width > 0 && o.Height > 0
	}
}

// Update carries the fields of a shallow merge; nil fields are left
// untouched.
type Update struct {
	X, Y, Width, Height *float32
	Rotation            *float32
	ZIndex              *int
	Style               *Style
	Data                *Payload
	Locked              *bool
}

// UpdateObject shallow-merges fields into an object. It does not commit
// history: callers batch many updates per drag frame and checkpoint once
// with SaveToHistory at gesture end. Invalid geometry is rejected whole.
func (s *Store) UpdateObject(id string, u Update) {
	s.mu.Lock()
	i, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	o := s.objects[i]
	if u.X != nil {
		o.X = *u.X
	}
	if u.Y != nil {
		o.Y = *u.Y
	}
	if u.Width != nil {
		o.Width = *u.Width
	}
	if u.Height != nil {
		o.Height = *u.Height
	}
	if u.Rotation != nil {
		o.Rotation = *u.Rotation
	}
	if u.ZIndex != nil {
		o.ZIndex = *u.ZIndex
	}
	if u.Style != nil {
		o.Style = *u.Style
	}
	if u.Data != nil {
		o.Data = *u.Data
	}
	if u.Locked != nil {
		o.Locked = *u.Locked
	}
	if !validGeometry(o) {
		s.mu.Unlock()
		log.Printf("[store] rejected update of %s: non-renderable geometry", id)
		return
	}
	s.objects[i] = o
	s.mu.Unlock()
	s.notify(EventObjects)
}

// DeleteObject removes an object from the collection and selection and
// commits history. Unknown ids and locked objects are ignored.
func (s *Store) DeleteObject(id string) {
	s.mu.Lock()
	if _, ok := s.byID[id]; !ok {
		s.mu.Unlock()
		return
	}
	if !s.deleteLocked([]string{id}) {
		s.mu.Unlock()
		return
	}
	s.hist.push(cloneObjects(s.objects))
	s.mu.Unlock()
	s.notify(EventObjects)
	s.notify(EventSelection)
}

// DeleteSelected removes every selected object in one history step.
// Locked objects stay on the board and stay selected.
func (s *Store) DeleteSelected() {
	s.mu.Lock()
	if len(s.selection) == 0 {
		s.mu.Unlock()
		return
	}
	if !s.deleteLocked(s.selection) {
		s.mu.Unlock()
		return
	}
	s.hist.push(cloneObjects(s.objects))
	s.mu.Unlock()
	s.notify(EventObjects)
	s.notify(EventSelection)
}

// deleteLocked removes the given ids, except locked objects, which are
// immune to deletion. Reports whether anything was removed.
func (s *Store) deleteLocked(ids []string) bool {
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		if i, ok := s.byID[id]; ok && !s.objects[i].Locked {
			doomed[id] = true
		}
	}
	if len(doomed) == 0 {
		return false
	}
	kept := s.objects[:0]
	for _, o := range s.objects {
		if !doomed[o.ID] {
			kept = append(kept, o)
		}
	}
	s.objects = kept
	s.reindex()
	sel := s.selection[:0]
	for _, id := range s.selection {
		if !doomed[id] {
			sel = append(sel, id)
		}
	}
	s.selection = sel
	if doomed[s.editingID] {
		s.editingID = ""
	}
	if doomed[s.linkStart] {
		s.linkStart = ""
	}
	return true
}

// DuplicateObject clones an object with a +20,+20 world offset, a fresh
// id and top z-order, selects the clone and commits history.
func (s *Store) DuplicateObject(id string) string {
	s.mu.Lock()
	i, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return ""
	}
	clone := s.objects[i]
	clone.ID = NewID()
	clone.X += 20
	clone.Y += 20
	if clone.Type != TypeConnector {
		clone.ZIndex = s.maxZLocked() + 1
	}
	s.objects = append(s.objects, clone)
	s.byID[clone.ID] = len(s.objects) - 1
	s.selection = []string{clone.ID}
	s.hist.push(cloneObjects(s.objects))
	s.mu.Unlock()
	s.notify(EventObjects)
	s.notify(EventSelection)
	return clone.ID
}

// Selection returns a copy of the selected ids.
func (s *Store) Selection() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.selection))
	copy(out, s.selection)
	return out
}

// IsSelected reports selection membership.
func (s *Store) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sid := range s.selection {
		if sid == id {
			return true
		}
	}
	return false
}

// SelectObject selects one object. With multiSelect it toggles
// membership; without it the selection is replaced, and re-clicking the
// sole selected object deselects it.
func (s *Store) SelectObject(id string, multiSelect bool) {
	s.mu.Lock()
	if _, ok := s.byID[id]; !ok {
		s.mu.Unlock()
		return
	}
	if multiSelect {
		toggled := s.selection[:0]
		found := false
		for _, sid := range s.selection {
			if sid == id {
				found = true
				continue
			}
			toggled = append(toggled, sid)
		}
		if !found {
			toggled = append(toggled, id)
		}
		s.selection = toggled
	} else if len(s.selection) == 1 && s.selection[0] == id {
		s.selection = nil
	} else {
		s.selection = []string{id}
	}
	s.mu.Unlock()
	s.notify(EventSelection)
}

// SelectMultiple replaces the selection wholesale; used by box-select.
// Unknown ids are dropped.
func (s *Store) SelectMultiple(ids []string) {
	s.mu.Lock()
	sel := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := s.byID[id]; ok {
			sel = append(sel, id)
		}
	}
	s.selection = sel
	s.mu.Unlock()
	s.notify(EventSelection)
}

func (s *Store) ClearSelection() {
	s.mu.Lock()
	s.selection = nil
	s.mu.Unlock()
	s.notify(EventSelection)
}

func (s *Store) SelectAll() {
	s.mu.Lock()
	s.selection = make([]string, 0, len(s.objects))
	for _, o := range s.objects {
		s.selection = append(s.selection, o.ID)
	}
	s.mu.Unlock()
	s.notify(EventSelection)
}

// Tool returns the active tool.
func (s *Store) Tool() Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tool
}

// SetTool switches the input interpretation mode and clears the selection
// and any pending connector start.
func (s *Store) SetTool(t Tool) {
	s.mu.Lock()
	s.tool = t
	s.selection = nil
	s.linkStart = ""
	s.mu.Unlock()
	s.notify(EventView)
	s.notify(EventSelection)
}

// Canvas returns the current pan/zoom state.
func (s *Store) Canvas() geom.CanvasState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canvas
}

// SetCanvas replaces the pan/zoom state, clamping the zoom.
func (s *Store) SetCanvas(cs geom.CanvasState) {
	s.mu.Lock()
	s.canvas = cs.Clamped()
	s.mu.Unlock()
	s.notify(EventCanvas)
}

// Pan shifts the view by a screen-space delta.
func (s *Store) Pan(dx, dy float32) {
	s.mu.Lock()
	s.canvas.PanX += dx
	s.canvas.PanY += dy
	s.mu.Unlock()
	s.notify(EventCanvas)
}

// SaveToHistory commits the current collection as an explicit checkpoint.
// The input layer calls it once at the end of a drag/resize/edit gesture.
func (s *Store) SaveToHistory() {
	s.mu.Lock()
	s.hist.push(cloneObjects(s.objects))
	s.mu.Unlock()
	s.notify(EventObjects)
}

// Undo restores the previous snapshot. Any in-place edit session ends;
// editing state does not participate in history.
func (s *Store) Undo() {
	s.mu.Lock()
	snap, ok := s.hist.undo()
	if !ok {
		s.mu.Unlock()
		return
	}
	s.applySnapshotLocked(snap)
	s.mu.Unlock()
	s.notify(EventObjects)
	s.notify(EventSelection)
}

// Redo re-applies the snapshot undone last.
func (s *Store) Redo() {
	s.mu.Lock()
	snap, ok := s.hist.redo()
	if !ok {
		s.mu.Unlock()
		return
	}
	s.applySnapshotLocked(snap)
	s.mu.Unlock()
	s.notify(EventObjects)
	s.notify(EventSelection)
}

func (s *Store) applySnapshotLocked(snap snapshot) {
	s.objects = cloneObjects(snap)
	s.reindex()
	s.editingID = ""
	sel := s.selection[:0]
	for _, id := range s.selection {
		if _, ok := s.byID[id]; ok {
			sel = append(sel, id)
		}
	}
	s.selection = sel
}

func (s *Store) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hist.canUndo()
}

func (s *Store) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hist.canRedo()
}

// CopySelected snapshots the selected objects into the clipboard.
func (s *Store) CopySelected() {
	s.mu.Lock()
	s.clipboard = s.clipboard[:0]
	for _, id := range s.selection {
		if i, ok := s.byID[id]; ok {
			s.clipboard = append(s.clipboard, s.objects[i])
		}
	}
	s.mu.Unlock()
}

// Paste re-inserts clipboard clones with fresh ids, offset by the current
// pan so pasted content lands near the visible viewport, selects them and
// commits one history snapshot. Connector endpoints are remapped when
// both ends were copied together.
func (s *Store) Paste() {
	s.mu.Lock()
	if len(s.clipboard) == 0 {
		s.mu.Unlock()
		return
	}
	cs := s.canvas.Clamped()
	dx := -cs.PanX/cs.Zoom + 40
	dy := -cs.PanY/cs.Zoom + 40

	remap := make(map[string]string, len(s.clipboard))
	for _, o := range s.clipboard {
		remap[o.ID] = NewID()
	}
	z := s.maxZLocked()
	sel := make([]string, 0, len(s.clipboard))
	for _, o := range s.clipboard {
		clone := o
		clone.ID = remap[o.ID]
		clone.X += dx
		clone.Y += dy
		if clone.Type == TypeConnector {
			if nid, ok := remap[clone.Data.StartID]; ok {
				clone.Data.StartID = nid
			}
			if nid, ok := remap[clone.Data.EndID]; ok {
				clone.Data.EndID = nid
			}
		} else {
			z++
			clone.ZIndex = z
		}
		s.objects = append(s.objects, clone)
		s.byID[clone.ID] = len(s.objects) - 1
		sel = append(sel, clone.ID)
	}
	s.selection = sel
	s.hist.push(cloneObjects(s.objects))
	s.mu.Unlock()
	s.notify(EventObjects)
	s.notify(EventSelection)
}

// BringToFront raises an object one past the current maximum z-index.
func (s *Store) BringToFront(id string) {
	s.mu.Lock()
	i, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	s.objects[i].ZIndex = s.maxZLocked() + 1
	s.hist.push(cloneObjects(s.objects))
	s.mu.Unlock()
	s.notify(EventObjects)
}

// SendToBack lowers an object one past the current minimum z-index.
func (s *Store) SendToBack(id string) {
	s.mu.Lock()
	i, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	s.objects[i].ZIndex = s.minZLocked() - 1
	s.hist.push(cloneObjects(s.objects))
	s.mu.Unlock()
	s.notify(EventObjects)
}

// LoadObjects replaces the whole collection and re-initializes history
// with it as the sole present. Used on initial load and board switches.
func (s *Store) LoadObjects(objs []Object) {
	s.mu.Lock()
	s.objects = cloneObjects(objs)
	s.reindex()
	s.selection = nil
	s.editingID = ""
	s.linkStart = ""
	s.hist = newHistory(cloneObjects(s.objects))
	s.mu.Unlock()
	s.notify(EventObjects)
	s.notify(EventSelection)
}

// ClearAll resets every piece of state to defaults.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.objects = nil
	s.byID = map[string]int{}
	s.selection = nil
	s.clipboard = nil
	s.tool = ToolPointer
	s.canvas = geom.DefaultCanvas()
	s.editingID = ""
	s.linkStart = ""
	s.hist = newHistory(nil)
	s.mu.Unlock()
	s.notify(EventObjects)
	s.notify(EventCanvas)
	s.notify(EventSelection)
}

// ShowGrid reports the grid flag.
func (s *Store) ShowGrid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.showGrid
}

func (s *Store) ToggleGrid() {
	s.mu.Lock()
	s.showGrid = !s.showGrid
	s.mu.Unlock()
	s.notify(EventView)
}

// EditingID returns the id of the object in an in-place text edit
// session, or "".
func (s *Store) EditingID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editingID
}

func (s *Store) StartEditing(id string) {
	s.mu.Lock()
	if _, ok := s.byID[id]; !ok {
		s.mu.Unlock()
		return
	}
	s.editingID = id
	s.mu.Unlock()
	s.notify(EventView)
}

func (s *Store) StopEditing() {
	s.mu.Lock()
	s.editingID = ""
	s.mu.Unlock()
	s.notify(EventView)
}

// LinkStart returns the pending connector start object, or "".
func (s *Store) LinkStart() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.linkStart
}

// BeginLink records the first click of the connector tool. The second
// click on a different object completes the connector; clicking empty
// canvas cancels.
func (s *Store) BeginLink(id string) {
	s.mu.Lock()
	if _, ok := s.byID[id]; !ok {
		s.mu.Unlock()
		return
	}
	s.linkStart = id
	s.mu.Unlock()
	s.notify(EventView)
}

func (s *Store) CancelLink() {
	s.mu.Lock()
	s.linkStart = ""
	s.mu.Unlock()
	s.notify(EventView)
}

// CompleteLink creates a connector from the pending start to the given
// object and returns the pointer tool. It refuses self-links.
func (s *Store) CompleteLink(endID string) string {
	s.mu.Lock()
	start := s.linkStart
	s.linkStart = ""
	_, okStart := s.byID[start]
	_, okEnd := s.byID[endID]
	s.mu.Unlock()
	if start == "" || start == endID || !okStart || !okEnd {
		s.notify(EventView)
		return ""
	}
	id := s.AddObject(Object{
		Type: TypeConnector,
		Data: Payload{StartID: start, EndID: endID},
	})
	s.SetTool(ToolPointer)
	return id
}
