// Package export renders a board to PDF or PNG, fitted to its content
// bounds. Connectors draw first so they sit beneath the shapes they link.
package export

import (
	"sort"
	"strconv"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/geom"
	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/state"
)

const padding float32 = 40

// contentBounds unions every non-connector object's box. Connectors have
// no intrinsic geometry and always land between their endpoints.
func contentBounds(objs []state.Object) (geom.Rect, bool) {
	var bounds geom.Rect
	found := false
	for _, o := range objs {
		if o.Type == state.TypeConnector {
			continue
		}
		if !found {
			bounds = o.Bounds()
			found = true
			continue
		}
		bounds = bounds.Union(o.Bounds())
	}
	if !found {
		return geom.Rect{}, false
	}
	bounds.X -= padding
	bounds.Y -= padding
	bounds.Width += 2 * padding
	bounds.Height += 2 * padding
	return bounds, true
}

// drawOrder returns the objects sorted by z-index, ties kept stable.
func drawOrder(objs []state.Object) []state.Object {
	out := make([]state.Object, len(objs))
	copy(out, objs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// hexRGB parses "#RRGGBB" into 0-255 components. Unparseable input is
// rendered black rather than failing the export.
func hexRGB(s string) (int, int, int) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0
	}
	r, err1 := strconv.ParseUint(s[1:3], 16, 8)
	g, err2 := strconv.ParseUint(s[3:5], 16, 8)
	b, err3 := strconv.ParseUint(s[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0
	}
	return int(r), int(g), int(b)
}
