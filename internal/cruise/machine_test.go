package cruise

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/tinytelemetry/autocruise/internal/model"
)

func TestMachine_EndToEndCycleTileCycle(t *testing.T) {
	t.Parallel()

	h := newHarness(pagesConfig(3, 10*time.Second))
	h.m.Start()

	if h.m.Mode() != ModeCycle {
		t.Fatalf("initial mode = %v, want cycle", h.m.Mode())
	}
	if h.m.Current() != 0 {
		t.Fatalf("initial page = %d, want 0", h.m.Current())
	}
	firstDeadline := h.m.NextUpdate()
	if !firstDeadline.Equal(epoch.Add(10 * time.Second)) {
		t.Fatalf("next update = %v, want start+10s", firstDeadline)
	}

	h.advance(10 * time.Second)
	if h.m.Current() != 1 {
		t.Fatalf("page after 10s = %d, want 1", h.m.Current())
	}
	if got := h.m.NextUpdate().Sub(firstDeadline); got != 10*time.Second {
		t.Fatalf("next update advanced by %v, want 10s", got)
	}

	h.m.HeaderClick()
	if h.m.Mode() != ModeTile {
		t.Fatalf("mode after header click = %v, want tile", h.m.Mode())
	}
	if h.m.Status().Rotating {
		t.Fatal("rotation must be suspended in tile view")
	}
	if h.m.Header().Visible {
		t.Fatal("header must be hidden in tile view")
	}
	// 3 pages -> 2x2 grid: the third slot sits in the bottom-left cell.
	third := h.m.Registry().Slot(2).Container
	if third.Left != 5 || third.Top != 405 {
		t.Fatalf("slot 2 at (%v,%v), want (5,405) in a 2x2 grid", third.Left, third.Top)
	}
	for _, slot := range h.m.Registry().Slots() {
		if !slot.Cover.Visible {
			t.Fatalf("slot %d cover hidden in tile view", slot.Index)
		}
	}

	// Time passing in tile view never rotates.
	h.advance(time.Minute)
	if h.m.Current() != 1 {
		t.Fatalf("page changed in tile view: %d", h.m.Current())
	}

	h.m.SelectPage(2)
	if h.m.Mode() != ModeCycle {
		t.Fatalf("mode after cover click = %v, want cycle", h.m.Mode())
	}
	if h.m.Current() != 2 {
		t.Fatalf("page after cover click = %d, want 2", h.m.Current())
	}
	if got := h.m.Status().Remaining; got != 10*time.Second {
		t.Fatalf("countdown after cover click = %v, want 10s", got)
	}
	if !h.m.Header().Visible {
		t.Fatal("header must be visible in cycle view")
	}
}

func TestMachine_TickIsIdempotentBeforeDeadline(t *testing.T) {
	t.Parallel()

	h := newHarness(pagesConfig(3, 30*time.Second))
	h.m.Start()

	deadline := h.m.NextUpdate()
	for i := 0; i < 5; i++ {
		h.m.tick()
	}
	h.advance(29 * time.Second)
	h.m.tick()

	if h.m.Current() != 0 {
		t.Fatalf("page = %d, want 0", h.m.Current())
	}
	if !h.m.NextUpdate().Equal(deadline) {
		t.Fatalf("deadline moved from %v to %v", deadline, h.m.NextUpdate())
	}
}

func TestMachine_RotationWrapsAround(t *testing.T) {
	t.Parallel()

	h := newHarness(pagesConfig(2, 5*time.Second))
	h.m.Start()

	var seen []int
	for i := 0; i < 4; i++ {
		seen = append(seen, h.m.Current())
		h.advance(5 * time.Second)
	}
	want := []int{0, 1, 0, 1}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("rotation = %v, want %v", seen, want)
		}
	}
}

func TestMachine_StatusText(t *testing.T) {
	t.Parallel()

	h := newHarness(pagesConfig(3, 10*time.Second))
	h.m.Start()

	want := "0/3, 10s: https://example.com/pagea"
	if got := h.m.Header().Text; got != want {
		t.Fatalf("status = %q, want %q", got, want)
	}

	h.advance(4 * time.Second)
	want = "0/3, 6s: https://example.com/pagea"
	if got := h.m.Header().Text; got != want {
		t.Fatalf("status = %q, want %q", got, want)
	}
}

func TestMachine_TwoStepLayerSwap(t *testing.T) {
	t.Parallel()

	h := newHarness(pagesConfig(3, 10*time.Second))
	h.m.Start()
	h.surface.renders = nil

	h.advance(10 * time.Second)

	want := []slotRender{
		{Index: 1, Z: 2},
		{Index: 0, Z: 0},
		{Index: 2, Z: 0},
		{Index: 1, Z: 1},
	}
	if len(h.surface.renders) != len(want) {
		t.Fatalf("renders = %+v, want %+v", h.surface.renders, want)
	}
	for i := range want {
		if h.surface.renders[i] != want[i] {
			t.Fatalf("render %d = %+v, want %+v", i, h.surface.renders[i], want[i])
		}
	}
}

func TestMachine_PauseExtendsCountdown(t *testing.T) {
	t.Parallel()

	cfg := pagesConfig(3, 10*time.Second)
	cfg.PauseLength = 30 * time.Second
	h := newHarness(cfg)
	h.m.Start()

	h.advance(3 * time.Second)
	h.m.Pause()

	pausedAt := h.clock.Now()
	if !h.m.NextUpdate().Equal(pausedAt.Add(30 * time.Second)) {
		t.Fatalf("next update = %v, want pause+30s", h.m.NextUpdate())
	}
	if h.m.Current() != 0 {
		t.Fatalf("pause changed the page to %d", h.m.Current())
	}
	hdr := h.m.Header()
	if !hdr.Paused || hdr.Color() != HeaderColorPaused {
		t.Fatalf("header not marked: %+v", hdr)
	}
	if !strings.Contains(hdr.Text, "paused for 30 sec") {
		t.Fatalf("header text = %q", hdr.Text)
	}

	// The first 10s deadline passes without a rotation.
	h.advance(9*time.Second + 999*time.Millisecond)
	if h.m.Current() != 0 {
		t.Fatalf("rotated during pause: %d", h.m.Current())
	}
	if !h.m.Header().Paused {
		t.Fatal("marker cleared before 10s")
	}
	if !strings.Contains(h.m.Header().Text, "paused") {
		t.Fatal("status tick overwrote the pause message")
	}

	h.advance(time.Millisecond)
	if h.m.Header().Paused {
		t.Fatal("marker still set after 10s")
	}
	if h.m.Header().Color() != HeaderColorNormal {
		t.Fatalf("header color = %s, want gray", h.m.Header().Color())
	}

	// Pause deadline is pause+30s; the next tick after it rotates.
	h.advance(21 * time.Second)
	if h.m.Current() != 1 {
		t.Fatalf("page after pause elapsed = %d, want 1", h.m.Current())
	}
}

func TestMachine_PauseMarkerIndependentOfPauseLength(t *testing.T) {
	t.Parallel()

	cfg := pagesConfig(3, 10*time.Second)
	cfg.PauseLength = 2 * time.Second
	h := newHarness(cfg)
	h.m.Start()

	h.m.Pause()
	h.advance(5 * time.Second)
	if !h.m.Header().Paused {
		t.Fatal("marker cleared before 10s with short pause length")
	}
	h.advance(5 * time.Second)
	if h.m.Header().Paused {
		t.Fatal("marker still set after 10s")
	}
}

func TestMachine_PauseIgnoredInTile(t *testing.T) {
	t.Parallel()

	cfg := pagesConfig(4, 10*time.Second)
	cfg.View = model.ViewTile
	h := newHarness(cfg)
	h.m.Start()

	h.m.Pause()
	if h.m.Header().Paused {
		t.Fatal("pause must be a no-op in tile view")
	}
	if h.tasks.Len() != 0 {
		t.Fatalf("tasks scheduled in tile view: %d", h.tasks.Len())
	}
}

func TestMachine_HeaderClickInTileIsNoop(t *testing.T) {
	t.Parallel()

	cfg := pagesConfig(4, 10*time.Second)
	cfg.View = model.ViewTile
	h := newHarness(cfg)
	h.m.Start()

	h.m.HeaderClick()
	if h.m.Mode() != ModeTile {
		t.Fatalf("mode = %v, want tile", h.m.Mode())
	}
	if h.m.Current() != -1 {
		t.Fatalf("current = %d, want -1", h.m.Current())
	}
}

func TestMachine_UnknownViewBehavesAsCycle(t *testing.T) {
	t.Parallel()

	cfg := pagesConfig(2, 10*time.Second)
	cfg.View = "mosaic"
	h := newHarness(cfg)
	h.m.Start()

	if h.m.Mode() != ModeCycle {
		t.Fatalf("mode = %v, want cycle", h.m.Mode())
	}
}

func TestMachine_NoPagesRendersNothing(t *testing.T) {
	t.Parallel()

	h := newHarness(model.DefaultConfig())
	h.m.Start()
	h.m.HeaderClick()
	h.m.SelectPage(0)
	h.m.Resize(model.Viewport{Width: 10, Height: 10})

	if h.surface.builds != 0 || len(h.surface.headers) != 0 || len(h.surface.renders) != 0 {
		t.Fatalf("surface touched without pages: %+v", h.surface)
	}
}

func TestMachine_SelectOutOfRangeIgnored(t *testing.T) {
	t.Parallel()

	h := newHarness(pagesConfig(2, 10*time.Second))
	h.m.Start()
	h.m.HeaderClick()
	h.m.SelectPage(7)

	if h.m.Mode() != ModeTile {
		t.Fatalf("mode = %v, want tile", h.m.Mode())
	}
}

func TestMachine_ReenteringCycleKeepsSingleRotation(t *testing.T) {
	t.Parallel()

	h := newHarness(pagesConfig(3, 10*time.Second))
	h.m.Start()
	for i := 0; i < 5; i++ {
		h.m.HeaderClick()
		h.m.SelectPage(i % 3)
	}
	if h.tasks.Len() != 1 {
		t.Fatalf("pending tasks = %d, want exactly one rotation tick", h.tasks.Len())
	}
}

func TestMachine_HoverIsCosmetic(t *testing.T) {
	t.Parallel()

	h := newHarness(pagesConfig(2, 10*time.Second))
	h.m.Start()

	h.m.Hover(true)
	if h.m.Header().Color() != HeaderColorHover || h.m.Header().Background() != "gray" {
		t.Fatalf("hover header = %+v", h.m.Header())
	}
	h.m.Hover(false)
	if h.m.Header().Color() != HeaderColorNormal || h.m.Header().Background() != "black" {
		t.Fatalf("header after leave = %+v", h.m.Header())
	}
	if h.m.Mode() != ModeCycle || h.m.Current() != 0 {
		t.Fatal("hover changed state")
	}
}

func TestTickPeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		interval time.Duration
		want     time.Duration
	}{
		{10 * time.Second, 2 * time.Second},
		{25 * time.Second, 5 * time.Second},
		{60 * time.Second, 5 * time.Second},
		{time.Second, 200 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := TickPeriod(tt.interval); got != tt.want {
			t.Errorf("TickPeriod(%v) = %v, want %v", tt.interval, got, tt.want)
		}
	}
}

func TestMachine_LargestIntervalNeverRotates(t *testing.T) {
	t.Parallel()

	h := newHarness(pagesConfig(3, time.Duration(math.MaxInt64)))
	h.m.Start()
	h.advance(time.Minute)

	if h.m.Current() != 0 {
		t.Fatalf("page after 1m = %d, want 0", h.m.Current())
	}
	if text := h.m.Header().Text; strings.Contains(text, "-") {
		t.Fatalf("header = %q, want a positive countdown", text)
	}
}
