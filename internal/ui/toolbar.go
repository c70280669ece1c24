package ui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/export"
	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/geom"
	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/state"
)

// Toolbar is the strip of tool and action buttons above the board.
type Toolbar struct {
	store *state.Store
	board *BoardWidget
	win   fyne.Window

	toolButtons map[state.Tool]*widget.Button
	undoBtn     *widget.Button
	redoBtn     *widget.Button
	picking     bool

	root fyne.CanvasObject
}

func NewToolbar(store *state.Store, board *BoardWidget, win fyne.Window) *Toolbar {
	t := &Toolbar{
		store:       store,
		board:       board,
		win:         win,
		toolButtons: make(map[state.Tool]*widget.Button),
	}
	t.build()
	store.Subscribe(func(kind state.EventKind) {
		t.sync()
	})
	t.sync()
	return t
}

func (t *Toolbar) Root() fyne.CanvasObject {
	return t.root
}

func (t *Toolbar) build() {
	tools := []struct {
		label string
		tool  state.Tool
	}{
		{"Select", state.ToolPointer},
		{"Note", state.ToolSticky},
		{"Text", state.ToolText},
		{"Rect", state.ToolRectangle},
		{"Circle", state.ToolCircle},
		{"Line", state.ToolLine},
		{"Arrow", state.ToolArrow},
		{"Link", state.ToolConnector},
	}

	var items []fyne.CanvasObject
	for _, spec := range tools {
		tool := spec.tool
		btn := widget.NewButton(spec.label, func() {
			t.store.SetTool(tool)
		})
		t.toolButtons[tool] = btn
		items = append(items, btn)
	}

	imageBtn := widget.NewButton("Image", func() {
		t.store.SetTool(state.ToolImage)
	})
	t.toolButtons[state.ToolImage] = imageBtn
	items = append(items, imageBtn, widget.NewSeparator())

	t.undoBtn = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), t.store.Undo)
	t.redoBtn = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), t.store.Redo)
	items = append(items, t.undoBtn, t.redoBtn, widget.NewSeparator())

	items = append(items,
		widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() { t.zoomBy(1.25) }),
		widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() { t.zoomBy(1/1.25) }),
		widget.NewButtonWithIcon("", theme.ZoomFitIcon(), t.fitToContent),
		widget.NewButton("100%", func() { t.store.SetCanvas(geom.DefaultCanvas()) }),
		widget.NewSeparator(),
		widget.NewButtonWithIcon("", theme.GridIcon(), t.store.ToggleGrid),
		widget.NewButton("PDF", t.exportPDF),
		widget.NewButton("PNG", t.exportPNG),
		widget.NewButtonWithIcon("", theme.ViewFullScreenIcon(), func() {
			t.win.SetFullScreen(!t.win.FullScreen())
		}),
	)

	t.root = container.NewHScroll(container.NewHBox(items...))
}

// sync reflects store state onto the buttons: the active tool is
// highlighted and undo/redo availability is mirrored.
func (t *Toolbar) sync() {
	active := t.store.Tool()
	for tool, btn := range t.toolButtons {
		imp := widget.MediumImportance
		if tool == active {
			imp = widget.HighImportance
		}
		if btn.Importance != imp {
			btn.Importance = imp
			btn.Refresh()
		}
	}

	setEnabled(t.undoBtn, t.store.CanUndo())
	setEnabled(t.redoBtn, t.store.CanRedo())

	// Activating the image tool, from the button or the keyboard
	// shortcut, goes straight to the file chooser.
	if active == state.ToolImage && !t.picking {
		t.picking = true
		t.pickImage()
	}
}

func setEnabled(btn *widget.Button, enabled bool) {
	if enabled {
		btn.Enable()
	} else {
		btn.Disable()
	}
}

func (t *Toolbar) zoomBy(factor float32) {
	size := t.board.Size()
	t.store.SetCanvas(geom.ZoomAt(t.store.Canvas(), size.Width/2, size.Height/2, factor))
}

func (t *Toolbar) fitToContent() {
	size := t.board.Size()
	t.store.SetCanvas(FitCanvas(t.store.Objects(), size.Width, size.Height))
}

// pickImage opens the file chooser; the image lands at the viewport
// center. Cancelling falls back to the pointer tool without inserting.
func (t *Toolbar) pickImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		defer func() {
			t.picking = false
			t.store.SetTool(state.ToolPointer)
		}()
		if err != nil {
			dialog.ShowError(err, t.win)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		size := t.board.Size()
		cx, cy := geom.ScreenToWorld(size.Width/2, size.Height/2, t.store.Canvas())
		t.store.AddObject(state.Object{
			Type: state.TypeImage,
			X:    cx - state.DefaultImageWidth/2,
			Y:    cy - state.DefaultImageHeight/2,
			Data: state.Payload{Src: path},
		})
	}, t.win)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif"}))
	fd.Show()
}

func (t *Toolbar) exportPDF() {
	t.exportWith("board.pdf", func(path string) error {
		return export.PDF(path, t.store.ZOrdered())
	})
}

func (t *Toolbar) exportPNG() {
	t.exportWith("board.png", func(path string) error {
		return export.PNG(path, t.store.ZOrdered())
	})
}

func (t *Toolbar) exportWith(suggested string, write func(path string) error) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.win)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := write(path); err != nil {
			log.Printf("[ui] export to %s failed: %v", path, err)
			dialog.ShowError(err, t.win)
			return
		}
		log.Printf("[ui] exported board to %s", path)
	}, t.win)
	fd.SetFileName(suggested)
	fd.Show()
}
