package state

import (
	"github.com/google/uuid"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/geom"
)

// ObjectType is the closed set of board object variants.
type ObjectType string

const (
	TypeSticky    ObjectType = "sticky"
	TypeText      ObjectType = "text"
	TypeRectangle ObjectType = "rectangle"
	TypeCircle    ObjectType = "circle"
	TypeLine      ObjectType = "line"
	TypeArrow     ObjectType = "arrow"
	TypeImage     ObjectType = "image"
	TypeConnector ObjectType = "connector"
)

// Tool determines how the input layer interprets a click or drag on the
// canvas. Tools mirror the object types plus the pointer.
type Tool string

const (
	ToolPointer   Tool = "pointer"
	ToolSticky    Tool = "sticky"
	ToolText      Tool = "text"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
	ToolLine      Tool = "line"
	ToolArrow     Tool = "arrow"
	ToolImage     Tool = "image"
	ToolConnector Tool = "connector"
)

// Style holds free-form visual attributes shared by all variants.
type Style struct {
	Color       string  `json:"color,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	StrokeWidth float32 `json:"strokeWidth,omitempty"`
	FontSize    float32 `json:"fontSize,omitempty"`
	Opacity     float32 `json:"opacity,omitempty"`
}

// Payload is the variant-specific data of an object. Only the fields for
// the object's own variant are meaningful; the rest stay zero.
type Payload struct {
	Title   string `json:"title,omitempty"` // sticky
	Content string `json:"content,omitempty"`
	Text    string `json:"text,omitempty"` // text
	Src     string `json:"src,omitempty"`  // image file URI

	// Connector endpoints, referenced by id only. Geometry is derived at
	// render time; a missing endpoint makes the connector a no-render.
	StartID string `json:"startId,omitempty"`
	EndID   string `json:"endId,omitempty"`

	// Pre-any-resize dimensions, cached so proportional font scaling
	// compounds correctly across repeated resizes.
	InitialWidth    float32 `json:"initialWidth,omitempty"`
	InitialHeight   float32 `json:"initialHeight,omitempty"`
	InitialFontSize float32 `json:"initialFontSize,omitempty"`
}

// Object is the atomic scene entity. Cross references between objects use
// ids, never embedded pointers.
type Object struct {
	ID       string     `json:"id"`
	Type     ObjectType `json:"type"`
	X        float32    `json:"x"`
	Y        float32    `json:"y"`
	Width    float32    `json:"width"`
	Height   float32    `json:"height"`
	Rotation float32    `json:"rotation,omitempty"` // degrees around box center
	ZIndex   int        `json:"zIndex"`
	Style    Style      `json:"style"`
	Data     Payload    `json:"data"`
	Locked   bool       `json:"locked,omitempty"`
}

// NewID returns a globally unique object id. Ids are never reused.
func NewID() string {
	return uuid.NewString()
}

// Bounds returns the object's axis-aligned bounding box. Lines and
// arrows carry signed dimensions to preserve direction; the box they
// occupy is normalized here.
func (o Object) Bounds() geom.Rect {
	r := geom.Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}
	if r.Width < 0 {
		r.X, r.Width = r.X+r.Width, -r.Width
	}
	if r.Height < 0 {
		r.Y, r.Height = r.Y+r.Height, -r.Height
	}
	return r
}

// LineEndpoints returns the endpoints of a line/arrow object: the box
// corners, rotated about the box center.
func (o Object) LineEndpoints() (x1, y1, x2, y2 float32) {
	x1, y1 = o.X, o.Y
	x2, y2 = o.X+o.Width, o.Y+o.Height
	if o.Rotation != 0 {
		cx, cy := o.Bounds().Center()
		x1, y1 = geom.RotatePoint(x1, y1, cx, cy, o.Rotation)
		x2, y2 = geom.RotatePoint(x2, y2, cx, cy, o.Rotation)
	}
	return x1, y1, x2, y2
}

// HitTest reports whether the world point falls inside the object,
// honoring rotation. Connectors have no intrinsic geometry and never hit.
func (o Object) HitTest(wx, wy float32) bool {
	if o.Type == TypeConnector {
		return false
	}
	return o.Bounds().ContainsRotated(wx, wy, o.Rotation)
}

// Default sizes and styles for objects created by a bare click.
const (
	DefaultStickySize   float32 = 200
	DefaultTextWidth    float32 = 200
	DefaultTextHeight   float32 = 50
	DefaultImageWidth   float32 = 300
	DefaultImageHeight  float32 = 200
	DefaultFontSize     float32 = 16
	DefaultStickyColor          = "#FFD966"
	DefaultShapeColor           = "#1E293B"
	ConnectorZIndex             = -1
)

// applyDefaults fills the zero-valued fields of a freshly added object the
// way addObject specifies: position/size per variant, style, z-order.
func applyDefaults(o *Object) {
	if o.Style.StrokeWidth == 0 {
		o.Style.StrokeWidth = 2
	}
	if o.Style.Opacity == 0 {
		o.Style.Opacity = 1
	}
	switch o.Type {
	case TypeSticky:
		if o.Width == 0 {
			o.Width = DefaultStickySize
		}
		if o.Height == 0 {
			o.Height = DefaultStickySize
		}
		if o.Style.Fill == "" {
			o.Style.Fill = DefaultStickyColor
		}
		if o.Style.FontSize == 0 {
			o.Style.FontSize = DefaultFontSize
		}
	case TypeText:
		if o.Width == 0 {
			o.Width = DefaultTextWidth
		}
		if o.Height == 0 {
			o.Height = DefaultTextHeight
		}
		if o.Style.FontSize == 0 {
			o.Style.FontSize = DefaultFontSize
		}
	case TypeImage:
		if o.Width == 0 {
			o.Width = DefaultImageWidth
		}
		if o.Height == 0 {
			o.Height = DefaultImageHeight
		}
	case TypeLine, TypeArrow:
		// Dimensions are the signed drag vector; zero on one axis is a
		// flat line, not a missing default.
		if o.Style.Color == "" {
			o.Style.Color = DefaultShapeColor
		}
	case TypeConnector:
		// Connectors derive geometry from their endpoints and sort
		// behind everything else.
		o.X, o.Y, o.Width, o.Height = 0, 0, 0, 0
		if o.ZIndex == 0 {
			o.ZIndex = ConnectorZIndex
		}
	default:
		if o.Width == 0 {
			o.Width = 100
		}
		if o.Height == 0 {
			o.Height = 100
		}
		if o.Style.Color == "" {
			o.Style.Color = DefaultShapeColor
		}
	}
	if o.Style.FontSize != 0 && o.Data.InitialFontSize == 0 {
		o.Data.InitialFontSize = o.Style.FontSize
		o.Data.InitialWidth = o.Width
		o.Data.InitialHeight = o.Height
	}
}

// editableOnCreate reports whether adding this variant immediately enters
// in-place text editing.
func editableOnCreate(t ObjectType) bool {
	return t == TypeSticky || t == TypeText
}

// oneShot reports whether the tool resets to the pointer after creating a
// single object.
func oneShot(t Tool) bool {
	switch t {
	case ToolPointer, ToolConnector, ToolImage:
		return false
	}
	return true
}
