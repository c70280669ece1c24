package ui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/state"
)

// boardEditor is the in-place text entry overlaid on a sticky or text
// object while it is being edited. Enter commits, Escape cancels, and
// losing focus commits as well.
type boardEditor struct {
	widget.Entry

	onCommit func(text string)
	onCancel func()
	closed   bool
}

func newBoardEditor(initial string, onCommit func(string), onCancel func()) *boardEditor {
	e := &boardEditor{onCommit: onCommit, onCancel: onCancel}
	e.ExtendBaseWidget(e)
	e.MultiLine = true
	e.Wrapping = fyne.TextWrapWord
	e.SetText(initial)
	return e
}

func (e *boardEditor) TypedKey(k *fyne.KeyEvent) {
	switch k.Name {
	case fyne.KeyEscape:
		if !e.closed {
			e.closed = true
			e.onCancel()
		}
		return
	case fyne.KeyReturn, fyne.KeyEnter:
		e.commit()
		return
	}
	e.Entry.TypedKey(k)
}

func (e *boardEditor) FocusLost() {
	e.Entry.FocusLost()
	e.commit()
}

func (e *boardEditor) commit() {
	if e.closed {
		return
	}
	e.closed = true
	e.onCommit(e.Text)
}

// openEditor overlays an entry on the object the store marked as being
// edited and moves keyboard focus into it.
func (b *BoardWidget) openEditor() {
	id := b.store.EditingID()
	if id == "" {
		return
	}
	o, ok := b.store.Object(id)
	if !ok {
		return
	}

	initial := o.Data.Text
	if o.Type == state.TypeSticky {
		initial = o.Data.Title
		if o.Data.Content != "" {
			initial += "\n" + o.Data.Content
		}
	}

	ed := newBoardEditor(initial,
		func(text string) { b.applyEdit(o, text) },
		func() { b.closeEditor() },
	)
	sb := screenBounds(o, b.store.Canvas())
	ed.Move(fyne.NewPos(sb.X, sb.Y))
	ed.Resize(fyne.NewSize(max(sb.Width, 120), max(sb.Height, 40)))
	b.editor = ed
	b.Refresh()
	if c := fyne.CurrentApp().Driver().CanvasForObject(b); c != nil {
		c.Focus(ed)
	}
}

// applyEdit writes the entered text back to the object. Sticky notes
// split the first line into the title and keep the rest as content; a
// text object emptied out is removed instead of left invisible.
func (b *BoardWidget) applyEdit(o state.Object, text string) {
	defer b.closeEditor()

	switch o.Type {
	case state.TypeSticky:
		data := o.Data
		data.Title, data.Content, _ = strings.Cut(text, "\n")
		b.store.UpdateObject(o.ID, state.Update{Data: &data})
		b.store.SaveToHistory()
	case state.TypeText:
		if strings.TrimSpace(text) == "" {
			b.store.DeleteObject(o.ID)
			return
		}
		data := o.Data
		data.Text = text
		b.store.UpdateObject(o.ID, state.Update{Data: &data})
		b.store.SaveToHistory()
	}
}

func (b *BoardWidget) closeEditor() {
	if b.editor == nil {
		return
	}
	b.editor = nil
	b.store.StopEditing()
	b.Refresh()
	b.focus()
}

// commitEdit force-commits an open editor, used when a click lands on
// the canvas while editing.
func (b *BoardWidget) commitEdit() {
	if b.editor != nil {
		b.editor.commit()
	}
}
