// Package cruise is the cruise runtime: the page slot registry, the
// sequential page loader, the cycle/tile view state machine with its
// rotation task, and resize coordination.
//
// A Machine is not safe for concurrent use. It is driven from a single
// goroutine, normally a Session loop or a Bubble Tea Update.
package cruise

import (
	"fmt"
	"math"
	"time"

	"github.com/tinytelemetry/autocruise/internal/layout"
	"github.com/tinytelemetry/autocruise/internal/model"
)

// Mode is the top-level view state.
type Mode int

const (
	ModeCycle Mode = iota
	ModeTile
)

func (m Mode) String() string {
	if m == ModeTile {
		return "tile"
	}
	return "cycle"
}

// Machine owns the runtime context of one cruise: the active page, the next
// rotation deadline, the view mode and the header state.
type Machine struct {
	cfg      model.Config
	reg      *Registry
	loader   *Loader
	surface  Surface
	clock    Clock
	tasks    *TaskQueue
	viewport model.Viewport

	current    int
	nextUpdate time.Time
	mode       Mode
	header     Header
	started    bool

	rotation     *rotation
	markerCancel CancelFunc
}

// NewMachine creates a machine for cfg. Nothing is rendered until Start.
func NewMachine(cfg model.Config, surface Surface, clock Clock, tasks *TaskQueue, vp model.Viewport) *Machine {
	if clock == nil {
		clock = SystemClock{}
	}
	if tasks == nil {
		tasks = NewTaskQueue()
	}
	reg := NewRegistry(cfg.Pages)
	m := &Machine{
		cfg:      cfg,
		reg:      reg,
		loader:   NewLoader(reg, surface),
		surface:  surface,
		clock:    clock,
		tasks:    tasks,
		viewport: vp,
		current:  -1,
	}
	m.rotation = &rotation{m: m}
	return m
}

// Start builds the surface, begins sequential page loading and enters the
// configured initial view. A configuration without pages renders nothing.
func (m *Machine) Start() {
	if m.started || !m.cfg.HasPages() {
		return
	}
	m.started = true

	m.surface.Build(m.cfg, m.reg.Slots())
	m.loader.Start(0)

	if m.cfg.View.IsTile() {
		m.enterTile()
	} else {
		m.enterCycle()
	}
}

// SelectPage handles a cover click on page i: the page becomes active with a
// fresh countdown and the view switches to cycle.
func (m *Machine) SelectPage(i int) {
	if !m.started || m.reg.Slot(i) == nil {
		return
	}
	m.current = i
	m.nextUpdate = m.clock.Now().Add(m.cfg.Interval)
	m.enterCycle()
}

// HeaderClick handles a click on the status region. It switches cycle view
// to tile view; in tile view it does nothing.
func (m *Machine) HeaderClick() {
	if !m.started {
		return
	}
	m.clearMarker()
	if m.mode == ModeCycle {
		m.enterTile()
		return
	}
	m.surface.RenderHeader(m.header)
}

// Pause delays the next automatic rotation by the pause length and marks the
// header for PauseMarkerWindow. It does not change the active page. Only
// meaningful in cycle view.
func (m *Machine) Pause() {
	if !m.started || m.mode != ModeCycle {
		return
	}
	now := m.clock.Now()
	m.nextUpdate = now.Add(m.cfg.PauseLength)

	m.header.Paused = true
	m.header.Text = fmt.Sprintf(
		"Cycle view is paused for %d sec;  click here to switch to the tile view",
		wholeSeconds(m.cfg.PauseLength),
	)
	m.surface.RenderHeader(m.header)

	if m.markerCancel != nil {
		m.markerCancel()
	}
	m.markerCancel = m.tasks.After(now, model.PauseMarkerWindow, func() {
		m.markerCancel = nil
		m.clearMarker()
		m.surface.RenderHeader(m.header)
	})
}

// Hover toggles the header hover highlight.
func (m *Machine) Hover(in bool) {
	if !m.started || m.header.Hover == in {
		return
	}
	m.header.Hover = in
	m.surface.RenderHeader(m.header)
}

// FrameLoaded reports that slot i finished loading, successfully or not.
func (m *Machine) FrameLoaded(i int) {
	m.loader.Loaded(i)
}

// Mode returns the current view mode.
func (m *Machine) Mode() Mode { return m.mode }

// Current returns the active page index, or -1 before the first rotation.
func (m *Machine) Current() int { return m.current }

// NextUpdate returns the deadline of the next automatic rotation.
func (m *Machine) NextUpdate() time.Time { return m.nextUpdate }

// Header returns the current header state.
func (m *Machine) Header() Header { return m.header }

// Registry returns the slot registry.
func (m *Machine) Registry() *Registry { return m.reg }

// Config returns the configuration the machine was built from.
func (m *Machine) Config() model.Config { return m.cfg }

// Viewport returns the last known viewport.
func (m *Machine) Viewport() model.Viewport { return m.viewport }

func (m *Machine) enterCycle() {
	m.mode = ModeCycle
	m.applyCycleLayout()
	m.rotation.start()
}

func (m *Machine) enterTile() {
	m.mode = ModeTile
	m.rotation.stop()
	m.applyTileLayout()
}

func (m *Machine) applyCycleLayout() {
	m.header.Visible = true
	m.surface.RenderHeader(m.header)

	cell := layout.Cycle(m.viewport)
	for _, slot := range m.reg.Slots() {
		z := 0
		if slot.Index == m.current {
			z = 1
		}
		slot.Container = Container{Rect: cell.Container, Z: z}
		slot.Frame.Width = cell.FrameW
		slot.Frame.Height = cell.FrameH
		slot.Frame.Scale = 1
		slot.Cover = Cover{}
		m.surface.RenderSlot(slot)
	}
}

func (m *Machine) applyTileLayout() {
	m.header.Visible = false
	m.surface.RenderHeader(m.header)

	grid := layout.Tile(m.viewport, m.reg.Len())
	for i, slot := range m.reg.Slots() {
		cell := grid.Cells[i]
		slot.Container = Container{Rect: cell.Container, Z: 1, Clip: true}
		slot.Frame.Width = cell.FrameW
		slot.Frame.Height = cell.FrameH
		slot.Frame.Scale = cell.Scale
		slot.Cover = Cover{Width: cell.FrameW, Height: cell.FrameH, Visible: true}
		m.surface.RenderSlot(slot)
	}
}

// raise brings slot i to the visible layer in two steps: above every other
// slot first, then down to the normal visible layer once the others are
// lowered, so the previous page never flashes through.
func (m *Machine) raise(i int) {
	top := m.reg.Slot(i)
	if top == nil {
		return
	}
	top.Container.Z = 2
	m.surface.RenderSlot(top)
	for _, slot := range m.reg.Slots() {
		if slot.Index != i {
			slot.Container.Z = 0
			m.surface.RenderSlot(slot)
		}
	}
	top.Container.Z = 1
	m.surface.RenderSlot(top)
}

func (m *Machine) clearMarker() {
	if m.markerCancel != nil {
		m.markerCancel()
		m.markerCancel = nil
	}
	m.header.Paused = false
}

// wholeSeconds rounds d up to whole seconds.
func wholeSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
