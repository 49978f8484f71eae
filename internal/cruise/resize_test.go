package cruise

import (
	"testing"
	"time"

	"github.com/tinytelemetry/autocruise/internal/model"
)

func TestResize_ReappliesCurrentLayoutAndBroadcasts(t *testing.T) {
	t.Parallel()

	h := newHarness(pagesConfig(5, 10*time.Second))
	h.m.Start()
	h.advance(3 * time.Second)

	deadline := h.m.NextUpdate()
	h.m.Resize(model.Viewport{Width: 605, Height: 405})

	if h.m.Mode() != ModeCycle || h.m.Current() != 0 {
		t.Fatalf("resize changed state: mode=%v current=%d", h.m.Mode(), h.m.Current())
	}
	if !h.m.NextUpdate().Equal(deadline) {
		t.Fatal("resize moved the rotation deadline")
	}
	if got := h.m.Registry().Slot(0).Frame.Width; got != 605 {
		t.Fatalf("cycle frame width = %v, want 605", got)
	}
	if h.surface.broadcasts != 1 {
		t.Fatalf("broadcasts = %d, want 1", h.surface.broadcasts)
	}

	h.m.HeaderClick()
	h.m.Resize(model.Viewport{Width: 905, Height: 605})
	if h.m.Mode() != ModeTile {
		t.Fatalf("mode = %v, want tile", h.m.Mode())
	}
	// 5 pages -> 3x2 grid over 900x600: outer cells 300x300.
	if got := h.m.Registry().Slot(4).Container.Left; got != 305 {
		t.Fatalf("slot 4 left = %v, want 305", got)
	}
	if got := h.m.Registry().Slot(4).Container.Top; got != 305 {
		t.Fatalf("slot 4 top = %v, want 305", got)
	}
	if h.surface.broadcasts != 2 {
		t.Fatalf("broadcasts = %d, want 2", h.surface.broadcasts)
	}
}

func TestMessage_OnlyResizeSignalHandled(t *testing.T) {
	t.Parallel()

	h := newHarness(pagesConfig(2, 10*time.Second))
	h.m.Start()

	if h.m.Message("reload", model.Viewport{Width: 400, Height: 300}) {
		t.Fatal("unknown message reported as handled")
	}
	if h.surface.broadcasts != 0 {
		t.Fatalf("broadcasts = %d, want 0", h.surface.broadcasts)
	}

	if !h.m.Message(ResizeSignal, model.Viewport{}) {
		t.Fatal("resize message not handled")
	}
	if h.surface.broadcasts != 1 {
		t.Fatalf("broadcasts = %d, want 1", h.surface.broadcasts)
	}
	if got := h.m.Viewport(); got.Width != 1005 || got.Height != 805 {
		t.Fatalf("viewport = %+v, want the last known size", got)
	}
}

func TestMessage_ResizeUsesDeliveredViewport(t *testing.T) {
	t.Parallel()

	h := newHarness(pagesConfig(2, 10*time.Second))
	h.m.Start()

	if h.m.Message("reload", model.Viewport{Width: 400, Height: 300}); h.m.Viewport().Width != 1005 {
		t.Fatalf("unknown message changed viewport to %+v", h.m.Viewport())
	}
	if !h.m.Message(ResizeSignal, model.Viewport{Width: 640, Height: 480}) {
		t.Fatal("resize message not handled")
	}
	if got := h.m.Viewport(); got.Width != 640 || got.Height != 480 {
		t.Fatalf("viewport = %+v, want 640x480", got)
	}
	if h.surface.broadcasts != 1 {
		t.Fatalf("broadcasts = %d, want 1", h.surface.broadcasts)
	}
}
