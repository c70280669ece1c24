package ui

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/state"
)

// stickyPalette is the set of note colors offered by the radial picker.
var stickyPalette = []string{
	"#FFD966", // yellow
	"#F4A7B9", // pink
	"#A7F3D0", // mint
	"#93C5FD", // blue
	"#FDBA74", // orange
	"#D8B4FE", // violet
}

const (
	swatchSize    float32 = 28
	pickerRadius  float32 = 48
	pickerPadding float32 = 8
)

// colorSwatch is a tappable colored circle inside the picker.
type colorSwatch struct {
	widget.BaseWidget
	fill  color.Color
	onTap func()
}

func newColorSwatch(fill color.Color, onTap func()) *colorSwatch {
	s := &colorSwatch{fill: fill, onTap: onTap}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	c := canvas.NewCircle(s.fill)
	c.StrokeColor = color.NRGBA{A: 0x40}
	c.StrokeWidth = 1
	return widget.NewSimpleRenderer(c)
}

func (s *colorSwatch) MinSize() fyne.Size {
	return fyne.NewSize(swatchSize, swatchSize)
}

func (s *colorSwatch) Tapped(*fyne.PointEvent) {
	s.onTap()
}

// showStickyPicker pops a ring of color swatches around the click point.
// The note is only inserted once a color is chosen; dismissing the popup
// inserts nothing.
func (b *BoardWidget) showStickyPicker(abs fyne.Position, wx, wy float32) {
	cv := fyne.CurrentApp().Driver().CanvasForObject(b)
	if cv == nil {
		return
	}

	box := container.NewWithoutLayout()
	side := 2*(pickerRadius+swatchSize/2) + 2*pickerPadding
	center := side / 2

	var popup *widget.PopUp
	for i, hex := range stickyPalette {
		angle := 2 * math.Pi * float64(i) / float64(len(stickyPalette))
		x := center + pickerRadius*float32(math.Cos(angle)) - swatchSize/2
		y := center + pickerRadius*float32(math.Sin(angle)) - swatchSize/2

		fill := hex
		sw := newColorSwatch(parseHexColor(hex, color.White), func() {
			popup.Hide()
			b.insertSticky(wx, wy, fill)
		})
		sw.Resize(fyne.NewSize(swatchSize, swatchSize))
		sw.Move(fyne.NewPos(x, y))
		box.Add(sw)
	}
	box.Resize(fyne.NewSize(side, side))

	popup = widget.NewPopUp(box, cv)
	popup.ShowAtPosition(fyne.NewPos(abs.X-center, abs.Y-center))
}

func (b *BoardWidget) insertSticky(wx, wy float32, fill string) {
	b.store.AddObject(state.Object{
		Type:  state.TypeSticky,
		X:     wx,
		Y:     wy,
		Style: state.Style{Fill: fill},
	})
	b.openEditor()
}
