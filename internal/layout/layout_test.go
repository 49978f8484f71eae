package layout

import (
	"math"
	"testing"

	"github.com/tinytelemetry/autocruise/internal/model"
)

func TestShape_FixedLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n          int
		cols, rows int
	}{
		{0, 2, 1},
		{1, 2, 1},
		{2, 2, 1},
		{3, 2, 2},
		{4, 2, 2},
		{5, 3, 2},
		{6, 3, 2},
		{7, 3, 3},
		{8, 3, 3},
		{9, 3, 3},
		{14, 3, 3},
	}
	for _, tt := range tests {
		cols, rows := Shape(tt.n)
		if cols != tt.cols || rows != tt.rows {
			t.Errorf("Shape(%d) = %dx%d, want %dx%d", tt.n, cols, rows, tt.cols, tt.rows)
		}
	}
}

func TestTile_CellGeometry(t *testing.T) {
	t.Parallel()

	vp := model.Viewport{Width: 1005, Height: 805}
	g := Tile(vp, 4)

	if g.Cols != 2 || g.Rows != 2 {
		t.Fatalf("grid = %dx%d, want 2x2", g.Cols, g.Rows)
	}
	if len(g.Cells) != 4 {
		t.Fatalf("cells = %d, want 4", len(g.Cells))
	}

	// winW=1000 winH=800 outer=500x400 inner=495x395
	wantScale := math.Min(495.0/1000.0, 395.0/800.0)
	if g.Scale != wantScale {
		t.Errorf("scale = %v, want %v", g.Scale, wantScale)
	}

	want := []Rect{
		{Left: 5, Top: 5, Width: 495, Height: 395},
		{Left: 505, Top: 5, Width: 495, Height: 395},
		{Left: 5, Top: 405, Width: 495, Height: 395},
		{Left: 505, Top: 405, Width: 495, Height: 395},
	}
	for i, c := range g.Cells {
		if c.Container != want[i] {
			t.Errorf("cell %d = %+v, want %+v", i, c.Container, want[i])
		}
		if got := c.FrameW * c.Scale; math.Abs(got-495) > 1e-9 {
			t.Errorf("cell %d scaled frame width = %v, want 495", i, got)
		}
	}
}

func TestTile_ScaledFrameFitsCell(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 9; n++ {
		g := Tile(model.Viewport{Width: 1280, Height: 720}, n)
		for i, c := range g.Cells {
			if c.FrameW*c.Scale > c.Container.Width+1e-9 {
				t.Errorf("n=%d cell %d: scaled width %v exceeds cell %v", n, i, c.FrameW*c.Scale, c.Container.Width)
			}
			if c.FrameH*c.Scale > c.Container.Height+1e-9 {
				t.Errorf("n=%d cell %d: scaled height %v exceeds cell %v", n, i, c.FrameH*c.Scale, c.Container.Height)
			}
		}
	}
}

func TestTile_OverflowStacksOnLastCell(t *testing.T) {
	t.Parallel()

	g := Tile(model.Viewport{Width: 905, Height: 905}, 11)
	last := g.Cells[8].Container
	for i := 9; i < 11; i++ {
		if g.Cells[i].Container != last {
			t.Errorf("cell %d = %+v, want last cell %+v", i, g.Cells[i].Container, last)
		}
	}
}

func TestHitTest_ResolvesCell(t *testing.T) {
	t.Parallel()

	g := Tile(model.Viewport{Width: 1005, Height: 805}, 3)

	// Three pages leave the bottom-right quadrant empty.
	idx, ok := HitTest(g, 600, 450)
	if ok {
		t.Fatalf("HitTest in empty quadrant = %d, want miss", idx)
	}

	idx, ok = HitTest(g, 10, 410)
	if !ok || idx != 2 {
		t.Fatalf("HitTest bottom-left = (%d, %v), want (2, true)", idx, ok)
	}

	if _, ok := HitTest(g, 2, 2); ok {
		t.Fatal("HitTest inside margin should miss")
	}
}

func TestCycle_FillsBelowHeader(t *testing.T) {
	t.Parallel()

	c := Cycle(model.Viewport{Width: 800, Height: 600})
	if c.Container.Top != model.HeaderHeight {
		t.Errorf("top = %v, want %d", c.Container.Top, model.HeaderHeight)
	}
	if c.FrameW != 800 || c.FrameH != 600-model.CycleFrameInset {
		t.Errorf("frame = %vx%v, want 800x%d", c.FrameW, c.FrameH, 600-model.CycleFrameInset)
	}
	if c.Scale != 1 {
		t.Errorf("scale = %v, want 1", c.Scale)
	}
}

func TestHitTest_StackedCellPicksLastPage(t *testing.T) {
	t.Parallel()

	g := Tile(model.Viewport{Width: 905, Height: 905}, 11)
	c := g.Cells[8].Container
	idx, ok := HitTest(g, c.Left+1, c.Top+1)
	if !ok || idx != 10 {
		t.Fatalf("HitTest on stacked cell = (%d, %v), want (10, true)", idx, ok)
	}
}

func TestTile_TinyViewportNeverNegative(t *testing.T) {
	t.Parallel()

	for _, vp := range []model.Viewport{{Width: 12, Height: 12}, {Width: 3, Height: 3}, {Width: 0, Height: 0}, {Width: 30, Height: 400}} {
		g := Tile(vp, 9)
		if g.Scale < 0 {
			t.Errorf("%+v: scale = %v, want >= 0", vp, g.Scale)
		}
		for i, c := range g.Cells {
			if c.Container.Width < 0 || c.Container.Height < 0 || c.Scale < 0 || c.FrameW < 0 || c.FrameH < 0 {
				t.Errorf("%+v: cell %d has negative geometry %+v", vp, i, c)
			}
		}
	}
}
