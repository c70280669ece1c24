package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/state"
)

func sampleBoard() []state.Object {
	return []state.Object{
		{ID: "s1", Type: state.TypeSticky, X: 0, Y: 0, Width: 200, Height: 200,
			Style: state.Style{Fill: "#FFD966", FontSize: 16, StrokeWidth: 2},
			Data:  state.Payload{Title: "Prep", Content: "notes"}},
		{ID: "r1", Type: state.TypeRectangle, X: 400, Y: 100, Width: 120, Height: 80,
			Rotation: 30, Style: state.Style{Color: "#1E293B", StrokeWidth: 2}},
		{ID: "a1", Type: state.TypeArrow, X: 100, Y: 300, Width: 200, Height: 50,
			Style: state.Style{Color: "#1E293B", StrokeWidth: 2}},
		{ID: "c1", Type: state.TypeConnector, ZIndex: -1,
			Style: state.Style{StrokeWidth: 2},
			Data:  state.Payload{StartID: "s1", EndID: "r1"}},
		{ID: "dangling", Type: state.TypeConnector, ZIndex: -1,
			Data: state.Payload{StartID: "s1", EndID: "gone"}},
	}
}

func TestContentBounds(t *testing.T) {
	b, ok := contentBounds(sampleBoard())
	if !ok {
		t.Fatal("bounds not found")
	}
	if b.X != -padding || b.Y != -padding {
		t.Fatalf("origin = (%v,%v), want (-%v,-%v)", b.X, b.Y, padding, padding)
	}
	if b.Width != 520+2*padding || b.Height != 350+2*padding {
		t.Fatalf("size = (%v,%v)", b.Width, b.Height)
	}
	if _, ok := contentBounds(nil); ok {
		t.Fatal("empty board should have no bounds")
	}
	// A board of only connectors has nothing to fit.
	if _, ok := contentBounds([]state.Object{{Type: state.TypeConnector}}); ok {
		t.Fatal("connector-only board should have no bounds")
	}
}

func TestDrawOrderPutsConnectorsFirst(t *testing.T) {
	ordered := drawOrder(sampleBoard())
	if ordered[0].Type != state.TypeConnector || ordered[1].Type != state.TypeConnector {
		t.Fatal("connectors must draw beneath shapes")
	}
}

func TestHexRGB(t *testing.T) {
	if r, g, b := hexRGB("#FFD966"); r != 255 || g != 217 || b != 102 {
		t.Fatalf("got (%d,%d,%d)", r, g, b)
	}
	if r, g, b := hexRGB("garbage"); r != 0 || g != 0 || b != 0 {
		t.Fatal("unparseable color should fall back to black")
	}
}

func TestPNGSmoke(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.png")
	if err := PNG(path, sampleBoard()); err != nil {
		t.Fatalf("png export: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("no png written: %v", err)
	}
	if err := PNG(path, nil); err == nil {
		t.Fatal("empty board export should fail")
	}
}

func TestPDFSmoke(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.pdf")
	if err := PDF(path, sampleBoard()); err != nil {
		t.Fatalf("pdf export: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("no pdf written: %v", err)
	}
}
