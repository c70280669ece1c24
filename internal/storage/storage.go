package storage

import (
	"context"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/geom"
	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/state"
)

// BoardData is the persisted form of one whiteboard: the full object
// collection and the canvas transform. Saves are overwrite-whole, never
// incremental patches.
type BoardData struct {
	Objects []state.Object   `json:"objects"`
	Canvas  geom.CanvasState `json:"canvasState"`
}

// Store is the persistence adapter boundary. The in-memory model is
// authoritative; a failed Save is logged by the caller and retried on the
// next debounce window. Load returns (nil, nil) when no saved state
// exists for the context.
type Store interface {
	Load(ctx context.Context, contextKey string) (*BoardData, error)
	Save(ctx context.Context, contextKey string, data BoardData) error
	Close() error
}

// LegacyNote is a note from the prior flat "sticky-note list" format.
type LegacyNote struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	X       *float32 `json:"x,omitempty"`
	Y       *float32 `json:"y,omitempty"`
	Color   string   `json:"color,omitempty"`
}

// LegacyConnection links two legacy notes by id.
type LegacyConnection struct {
	FromID string `json:"fromId"`
	ToID   string `json:"toId"`
}

// MigrateLegacy converts the old note-list representation into board
// objects: each note becomes a sticky, each connection a connector drawn
// beneath the notes. Notes without a stored position fall back to a
// staggered layout so they do not stack exactly on top of each other.
// Callers persist the result immediately so migration never re-runs.
func MigrateLegacy(notes []LegacyNote, conns []LegacyConnection) []state.Object {
	objs := make([]state.Object, 0, len(notes)+len(conns))
	for i, n := range notes {
		fallback := float32(100 + i*20)
		x, y := fallback, fallback
		if n.X != nil {
			x = *n.X
		}
		if n.Y != nil {
			y = *n.Y
		}
		fill := n.Color
		if fill == "" {
			fill = state.DefaultStickyColor
		}
		objs = append(objs, state.Object{
			ID:     n.ID,
			Type:   state.TypeSticky,
			X:      x,
			Y:      y,
			Width:  state.DefaultStickySize,
			Height: state.DefaultStickySize,
			ZIndex: i + 1,
			Style: state.Style{
				Fill:        fill,
				FontSize:    state.DefaultFontSize,
				StrokeWidth: 2,
				Opacity:     1,
			},
			Data: state.Payload{Title: n.Title, Content: n.Content},
		})
	}
	for _, c := range conns {
		objs = append(objs, state.Object{
			ID:     state.NewID(),
			Type:   state.TypeConnector,
			ZIndex: state.ConnectorZIndex,
			Style:  state.Style{StrokeWidth: 2, Opacity: 1},
			Data:   state.Payload{StartID: c.FromID, EndID: c.ToID},
		})
	}
	return objs
}
