package tui

import (
	"github.com/tinytelemetry/autocruise/internal/cruise"
	"github.com/tinytelemetry/autocruise/internal/model"
)

// Terminal cells are mapped onto a virtual pixel viewport so the browser
// layout constants keep their proportions: the 20px header is one row.
const (
	cellPxW = 10
	cellPxH = 20
)

// pageView is what the terminal knows about one slot.
type pageView struct {
	slot    cruise.PageSlot
	title   string
	err     error
	fetched bool
}

// termSurface records machine output for View. It is only touched from the
// Bubble Tea update goroutine.
type termSurface struct {
	cfg     model.Config
	pages   []pageView
	header  cruise.Header
	fetches []fetchRequest
	resizes int
}

type fetchRequest struct {
	index int
	url   string
}

func (s *termSurface) Build(cfg model.Config, slots []*cruise.PageSlot) {
	s.cfg = cfg
	s.pages = make([]pageView, len(slots))
	for i, slot := range slots {
		s.pages[i] = pageView{slot: *slot}
	}
}

func (s *termSurface) RenderSlot(slot *cruise.PageSlot) {
	if slot.Index < 0 || slot.Index >= len(s.pages) {
		return
	}
	s.pages[slot.Index].slot = *slot
}

func (s *termSurface) RenderHeader(h cruise.Header) { s.header = h }

func (s *termSurface) AssignSource(index int, url string) {
	if index < 0 || index >= len(s.pages) {
		return
	}
	s.pages[index].slot.Frame.Src = url
	s.pages[index].slot.Load = cruise.LoadInFlight
	s.fetches = append(s.fetches, fetchRequest{index: index, url: url})
}

// A terminal has no nested frames to notify; the count is kept for the status line.
func (s *termSurface) BroadcastResize() { s.resizes++ }

// takeFetches returns and clears the fetches requested since the last call.
func (s *termSurface) takeFetches() []fetchRequest {
	f := s.fetches
	s.fetches = nil
	return f
}

func (s *termSurface) loaded(index int, title string, err error) {
	if index < 0 || index >= len(s.pages) {
		return
	}
	p := &s.pages[index]
	p.title = title
	p.err = err
	p.fetched = true
	p.slot.Load = cruise.LoadDone
}

// frontPage returns the index of the visible slot in cycle view, or -1.
func (s *termSurface) frontPage() int {
	front, z := -1, 0
	for i, p := range s.pages {
		if p.slot.Container.Z > z {
			front, z = i, p.slot.Container.Z
		}
	}
	return front
}

// cellViewport converts a terminal size to the virtual pixel viewport.
func cellViewport(width, height int) model.Viewport {
	return model.Viewport{Width: float64(width * cellPxW), Height: float64(height * cellPxH)}
}
