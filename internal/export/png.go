package export

import (
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/geom"
	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/state"
)

// PNG rasterizes the board to path at 1 world unit = 1 pixel, capped so a
// sprawling board cannot allocate an absurd image.
func PNG(path string, objs []state.Object) error {
	bounds, ok := contentBounds(objs)
	if !ok {
		return fmt.Errorf("nothing to export")
	}

	scale := float32(1)
	const maxDim float32 = 4096
	if bounds.Width > maxDim || bounds.Height > maxDim {
		scale = min(maxDim/bounds.Width, maxDim/bounds.Height)
	}
	w := int(bounds.Width * scale)
	h := int(bounds.Height * scale)

	dc := gg.NewContext(w, h)
	dc.SetHexColor("#FFFFFF")
	dc.Clear()
	dc.Scale(float64(scale), float64(scale))
	dc.Translate(-float64(bounds.X), -float64(bounds.Y))

	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	faceFor := func(size float32) font.Face {
		if size <= 0 {
			size = state.DefaultFontSize
		}
		return truetype.NewFace(ttf, &truetype.Options{Size: float64(size), DPI: 72})
	}

	for _, o := range drawOrder(objs) {
		switch o.Type {
		case state.TypeConnector:
			x1, y1, x2, y2, ok := state.ConnectorEndpoints(objs, o)
			if !ok {
				continue
			}
			dc.SetHexColor("#64748B")
			dc.SetLineWidth(float64(o.Style.StrokeWidth))
			dc.DrawLine(float64(x1), float64(y1), float64(x2), float64(y2))
			dc.Stroke()
		case state.TypeSticky:
			rotated(dc, o, func() {
				dc.SetHexColor(o.Style.Fill)
				dc.DrawRectangle(float64(o.X), float64(o.Y), float64(o.Width), float64(o.Height))
				dc.Fill()
				dc.SetHexColor("#1E293B")
				dc.SetFontFace(faceFor(o.Style.FontSize))
				dc.DrawStringWrapped(o.Data.Title, float64(o.X)+8, float64(o.Y)+8, 0, 0,
					float64(o.Width)-16, 1.3, gg.AlignLeft)
				if o.Data.Content != "" {
					dc.SetFontFace(faceFor(o.Style.FontSize * 0.8))
					dc.DrawStringWrapped(o.Data.Content, float64(o.X)+8,
						float64(o.Y)+8+float64(o.Style.FontSize)*1.6, 0, 0,
						float64(o.Width)-16, 1.3, gg.AlignLeft)
				}
			})
		case state.TypeText:
			rotated(dc, o, func() {
				dc.SetHexColor(textColor(o))
				dc.SetFontFace(faceFor(o.Style.FontSize))
				dc.DrawStringWrapped(o.Data.Text, float64(o.X), float64(o.Y), 0, 0,
					float64(o.Width), 1.3, gg.AlignLeft)
			})
		case state.TypeRectangle:
			rotated(dc, o, func() {
				strokeRect(dc, o)
			})
		case state.TypeCircle:
			cx, cy := o.Bounds().Center()
			dc.SetHexColor(o.Style.Color)
			dc.SetLineWidth(float64(o.Style.StrokeWidth))
			dc.DrawEllipse(float64(cx), float64(cy), float64(o.Width)/2, float64(o.Height)/2)
			dc.Stroke()
		case state.TypeLine, state.TypeArrow:
			x1, y1, x2, y2 := o.LineEndpoints()
			dc.SetHexColor(o.Style.Color)
			dc.SetLineWidth(float64(o.Style.StrokeWidth))
			dc.DrawLine(float64(x1), float64(y1), float64(x2), float64(y2))
			dc.Stroke()
			if o.Type == state.TypeArrow {
				hx1, hy1, hx2, hy2 := geom.ArrowHead(x1, y1, x2, y2, 12)
				dc.DrawLine(float64(x2), float64(y2), float64(hx1), float64(hy1))
				dc.DrawLine(float64(x2), float64(y2), float64(hx2), float64(hy2))
				dc.Stroke()
			}
		case state.TypeImage:
			if o.Data.Src == "" {
				continue
			}
			img, err := gg.LoadImage(o.Data.Src)
			if err != nil {
				// A missing source degrades to a placeholder box.
				strokeRect(dc, o)
				continue
			}
			b := img.Bounds()
			rotated(dc, o, func() {
				dc.Push()
				dc.Translate(float64(o.X), float64(o.Y))
				dc.Scale(float64(o.Width)/float64(b.Dx()), float64(o.Height)/float64(b.Dy()))
				dc.DrawImage(img, 0, 0)
				dc.Pop()
			})
		}
	}
	return dc.SavePNG(path)
}

func strokeRect(dc *gg.Context, o state.Object) {
	dc.SetHexColor(o.Style.Color)
	dc.SetLineWidth(float64(o.Style.StrokeWidth))
	dc.DrawRectangle(float64(o.X), float64(o.Y), float64(o.Width), float64(o.Height))
	dc.Stroke()
}

func textColor(o state.Object) string {
	if o.Style.Color != "" {
		return o.Style.Color
	}
	return "#1E293B"
}

func rotated(dc *gg.Context, o state.Object, draw func()) {
	if o.Rotation == 0 {
		draw()
		return
	}
	cx, cy := o.Bounds().Center()
	dc.Push()
	dc.RotateAbout(gg.Radians(float64(o.Rotation)), float64(cx), float64(cy))
	draw()
	dc.Pop()
}
