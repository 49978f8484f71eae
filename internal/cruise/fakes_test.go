package cruise

import (
	"time"

	"github.com/tinytelemetry/autocruise/internal/model"
)

type slotRender struct {
	Index int
	Z     int
}

// recordingSurface captures every call the machine makes.
type recordingSurface struct {
	builds     int
	buildPages int
	headers    []Header
	renders    []slotRender
	sources    []int
	broadcasts int
}

func (s *recordingSurface) Build(cfg model.Config, slots []*PageSlot) {
	s.builds++
	s.buildPages = len(slots)
}

func (s *recordingSurface) RenderSlot(slot *PageSlot) {
	s.renders = append(s.renders, slotRender{Index: slot.Index, Z: slot.Container.Z})
}

func (s *recordingSurface) RenderHeader(h Header) { s.headers = append(s.headers, h) }

func (s *recordingSurface) AssignSource(index int, _ string) { s.sources = append(s.sources, index) }

func (s *recordingSurface) BroadcastResize() { s.broadcasts++ }

func (s *recordingSurface) lastHeader() Header {
	if len(s.headers) == 0 {
		return Header{}
	}
	return s.headers[len(s.headers)-1]
}

// manualClock only moves when a test advances it.
type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	clock   *manualClock
	tasks   *TaskQueue
	surface *recordingSurface
	m       *Machine
}

func newHarness(cfg model.Config) *harness {
	h := &harness{
		clock:   &manualClock{now: epoch},
		tasks:   NewTaskQueue(),
		surface: &recordingSurface{},
	}
	h.m = NewMachine(cfg, h.surface, h.clock, h.tasks, model.Viewport{Width: 1005, Height: 805})
	return h
}

// advance moves the clock forward by d, running every task at its due time.
func (h *harness) advance(d time.Duration) {
	target := h.clock.now.Add(d)
	for {
		due, ok := h.tasks.Next()
		if !ok || due.After(target) {
			break
		}
		h.clock.now = due
		h.tasks.RunDue(due)
	}
	h.clock.now = target
}

func pagesConfig(n int, interval time.Duration) model.Config {
	cfg := model.DefaultConfig()
	cfg.Interval = interval
	for i := 0; i < n; i++ {
		cfg.Pages = append(cfg.Pages, "https://example.com/page"+string(rune('a'+i)))
	}
	return cfg
}
