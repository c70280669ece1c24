package export

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/geom"
	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/state"
)

// PDF writes the board to path as a single landscape A4 page, scaled to
// fit the content bounds.
func PDF(path string, objs []state.Object) error {
	bounds, ok := contentBounds(objs)
	if !ok {
		return fmt.Errorf("nothing to export")
	}

	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()
	pageW, pageH := p.GetPageSize()

	scale := float64(pageW) / float64(bounds.Width)
	if s := float64(pageH) / float64(bounds.Height); s < scale {
		scale = s
	}
	tx := func(x float32) float64 { return float64(x-bounds.X) * scale }
	ty := func(y float32) float64 { return float64(y-bounds.Y) * scale }

	p.SetLineWidth(0.4)
	for _, o := range drawOrder(objs) {
		switch o.Type {
		case state.TypeConnector:
			x1, y1, x2, y2, ok := state.ConnectorEndpoints(objs, o)
			if !ok {
				continue
			}
			p.SetDrawColor(100, 116, 139)
			p.Line(tx(x1), ty(y1), tx(x2), ty(y2))
		case state.TypeSticky:
			r, g, b := hexRGB(o.Style.Fill)
			p.SetFillColor(r, g, b)
			withRotation(p, o, tx, ty, scale, func() {
				p.Rect(tx(o.X), ty(o.Y), float64(o.Width)*scale, float64(o.Height)*scale, "F")
			})
			p.SetFont("Helvetica", "B", 10)
			p.SetTextColor(30, 41, 59)
			p.Text(tx(o.X)+2, ty(o.Y)+5, o.Data.Title)
			if o.Data.Content != "" {
				p.SetFont("Helvetica", "", 8)
				p.Text(tx(o.X)+2, ty(o.Y)+9, o.Data.Content)
			}
		case state.TypeText:
			p.SetFont("Helvetica", "", float64(o.Style.FontSize)*scale*2.83)
			p.SetTextColor(hexRGB(o.Style.Color))
			p.Text(tx(o.X), ty(o.Y)+float64(o.Style.FontSize)*scale, o.Data.Text)
		case state.TypeRectangle:
			p.SetDrawColor(hexRGB(o.Style.Color))
			withRotation(p, o, tx, ty, scale, func() {
				p.Rect(tx(o.X), ty(o.Y), float64(o.Width)*scale, float64(o.Height)*scale, "D")
			})
		case state.TypeCircle:
			p.SetDrawColor(hexRGB(o.Style.Color))
			cx, cy := o.Bounds().Center()
			p.Ellipse(tx(cx), ty(cy), float64(o.Width)/2*scale, float64(o.Height)/2*scale, 0, "D")
		case state.TypeLine, state.TypeArrow:
			p.SetDrawColor(hexRGB(o.Style.Color))
			x1, y1, x2, y2 := o.LineEndpoints()
			p.Line(tx(x1), ty(y1), tx(x2), ty(y2))
			if o.Type == state.TypeArrow {
				hx1, hy1, hx2, hy2 := geom.ArrowHead(x1, y1, x2, y2, 12)
				p.Line(tx(x2), ty(y2), tx(hx1), ty(hy1))
				p.Line(tx(x2), ty(y2), tx(hx2), ty(hy2))
			}
		case state.TypeImage:
			if o.Data.Src == "" {
				continue
			}
			p.ImageOptions(o.Data.Src, tx(o.X), ty(o.Y),
				float64(o.Width)*scale, float64(o.Height)*scale, false,
				gofpdf.ImageOptions{}, 0, "")
		}
	}
	return p.OutputFileAndClose(path)
}

// withRotation wraps a draw call in a rotate-about-center transform when
// the object is rotated.
func withRotation(p *gofpdf.Fpdf, o state.Object, tx, ty func(float32) float64, scale float64, draw func()) {
	if o.Rotation == 0 {
		draw()
		return
	}
	cx, cy := o.Bounds().Center()
	p.TransformBegin()
	p.TransformRotate(-float64(o.Rotation), tx(cx), ty(cy))
	draw()
	p.TransformEnd()
}
