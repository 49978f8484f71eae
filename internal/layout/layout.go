// Package layout computes cruise page geometry for the cycle and tile views.
//
// Every function is pure: the same viewport and page count always produce the
// same geometry. Frames in tile view are laid out at (roughly) full viewport
// size and scaled down, so embedded pages reflow as if they were still full
// size instead of hitting their own responsive breakpoints.
package layout

import (
	"math"

	"github.com/tinytelemetry/autocruise/internal/model"
)

// Rect is an axis-aligned box in viewport units.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether the point lies inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x < r.Left+r.Width && y >= r.Top && y < r.Top+r.Height
}

// Cell is the geometry of one page slot.
type Cell struct {
	Container Rect    `json:"container"`
	FrameW    float64 `json:"frame_width"`
	FrameH    float64 `json:"frame_height"`
	Scale     float64 `json:"scale"`
}

// Grid is the tile view layout for a page count.
type Grid struct {
	Cols  int     `json:"cols"`
	Rows  int     `json:"rows"`
	Scale float64 `json:"scale"`
	Cells []Cell  `json:"cells"`
}

// Shape returns the fixed columns x rows lookup for n pages.
// More than nine pages still get a 3x3 grid.
func Shape(n int) (cols, rows int) {
	switch {
	case n > 6:
		return 3, 3
	case n > 4:
		return 3, 2
	case n > 2:
		return 2, 2
	default:
		return 2, 1
	}
}

// Tile lays out n pages on the viewport.
func Tile(vp model.Viewport, n int) Grid {
	cols, rows := Shape(n)
	margin := float64(model.TileMargin)

	winW := vp.Width - margin
	winH := vp.Height - margin
	outerW := math.Floor(winW / float64(cols))
	outerH := math.Floor(winH / float64(rows))
	// Viewports too small for the margins collapse cells to zero instead of
	// producing negative sizes and a mirroring scale.
	w := math.Max(outerW-margin, 0)
	h := math.Max(outerH-margin, 0)

	scale := 0.0
	if winW > 0 && winH > 0 {
		scale = math.Min(w/winW, h/winH)
	}
	frameW, frameH := w, h
	if scale > 0 {
		frameW = w / scale
		frameH = h / scale
	}

	grid := Grid{Cols: cols, Rows: rows, Scale: scale, Cells: make([]Cell, n)}
	last := cols*rows - 1
	for i := 0; i < n; i++ {
		pos := i
		if pos > last {
			pos = last
		}
		grid.Cells[i] = Cell{
			Container: Rect{
				Left:   outerW*float64(pos%cols) + margin,
				Top:    outerH*float64(pos/cols) + margin,
				Width:  w,
				Height: h,
			},
			FrameW: frameW,
			FrameH: frameH,
			Scale:  scale,
		}
	}
	return grid
}

// HitTest returns the index of the topmost cell containing the point. Cells
// stacked on the last position are drawn in page order, so the last wins.
func HitTest(g Grid, x, y float64) (int, bool) {
	for i := len(g.Cells) - 1; i >= 0; i-- {
		if g.Cells[i].Container.Contains(x, y) {
			return i, true
		}
	}
	return 0, false
}

// Cycle returns the single-page geometry shared by every slot in cycle view:
// the page fills the viewport below the header, unscaled.
func Cycle(vp model.Viewport) Cell {
	return Cell{
		Container: Rect{
			Left:   0,
			Top:    model.HeaderHeight,
			Width:  vp.Width,
			Height: math.Max(0, vp.Height-model.HeaderHeight),
		},
		FrameW: vp.Width,
		FrameH: math.Max(0, vp.Height-model.CycleFrameInset),
		Scale:  1,
	}
}
