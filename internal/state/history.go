package state

// MaxHistory bounds the undo depth; the oldest snapshot is evicted once
// the cap is reached, so memory stays bounded regardless of session length.
const MaxHistory = 50

// A snapshot is a full copy of the object collection at a point in time.
type snapshot []Object

func cloneObjects(objs []Object) snapshot {
	out := make(snapshot, len(objs))
	copy(out, objs)
	return out
}

// history keeps linear undo/redo state: past...present...future. Pushing a
// new snapshot clears future — once the user diverges from the redo line,
// that line is gone.
type history struct {
	past    []snapshot
	present snapshot
	future  []snapshot
}

func newHistory(initial snapshot) history {
	return history{present: initial}
}

func (h *history) push(snap snapshot) {
	h.past = append(h.past, h.present)
	if len(h.past) > MaxHistory {
		h.past = h.past[1:]
	}
	h.present = snap
	h.future = nil
}

func (h *history) undo() (snapshot, bool) {
	if len(h.past) == 0 {
		return nil, false
	}
	last := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append([]snapshot{h.present}, h.future...)
	h.present = last
	return last, true
}

func (h *history) redo() (snapshot, bool) {
	if len(h.future) == 0 {
		return nil, false
	}
	next := h.future[0]
	h.future = h.future[1:]
	h.past = append(h.past, h.present)
	h.present = next
	return next, true
}

func (h *history) canUndo() bool { return len(h.past) > 0 }
func (h *history) canRedo() bool { return len(h.future) > 0 }
