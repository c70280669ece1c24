package state

import "github.com/CodeOfYukicks/jobzai-whiteboard/internal/geom"

const (
	// CullingThreshold is the population below which culling is skipped
	// entirely; filtering costs more than it saves on small boards.
	CullingThreshold = 50
	// CullingPadding expands the visible rect by world units so objects
	// just off-screen are still handed to the renderer.
	CullingPadding float32 = 100
)

// VisibleObjects filters objs to those intersecting the padded viewport.
// Connectors are always kept: their geometry lives on their endpoints, so
// their own zeroed bounds say nothing about visibility.
func VisibleObjects(objs []Object, viewW, viewH float32, cs geom.CanvasState) []Object {
	if len(objs) < CullingThreshold {
		return objs
	}
	visible := geom.VisibleWorldRect(viewW, viewH, cs.Clamped(), CullingPadding)
	out := make([]Object, 0, len(objs))
	for _, o := range objs {
		if o.Type == TypeConnector || o.Bounds().Intersects(visible) {
			out = append(out, o)
		}
	}
	return out
}
