package cruise

import (
	"testing"
	"time"
)

func TestLoader_AssignsOneFrameAtATime(t *testing.T) {
	t.Parallel()

	h := newHarness(pagesConfig(3, 10*time.Second))
	h.m.Start()

	if len(h.surface.sources) != 1 || h.surface.sources[0] != 0 {
		t.Fatalf("sources after start = %v, want [0]", h.surface.sources)
	}

	// Completion of a slot that is not in flight is ignored.
	h.m.FrameLoaded(2)
	if len(h.surface.sources) != 1 {
		t.Fatalf("out-of-order completion started a load: %v", h.surface.sources)
	}

	h.m.FrameLoaded(0)
	h.m.FrameLoaded(0)
	if len(h.surface.sources) != 2 || h.surface.sources[1] != 1 {
		t.Fatalf("sources = %v, want [0 1]", h.surface.sources)
	}

	h.m.FrameLoaded(1)
	h.m.FrameLoaded(2)
	want := []int{0, 1, 2}
	for i := range want {
		if h.surface.sources[i] != want[i] {
			t.Fatalf("sources = %v, want %v", h.surface.sources, want)
		}
	}

	reg := h.m.Registry()
	for _, slot := range reg.Slots() {
		if slot.Load != LoadDone {
			t.Errorf("slot %d load = %v, want loaded", slot.Index, slot.Load)
		}
		if slot.Frame.Src != slot.URL {
			t.Errorf("slot %d src = %q, want %q", slot.Index, slot.Frame.Src, slot.URL)
		}
	}
}

func TestLoader_StartIndex(t *testing.T) {
	t.Parallel()

	surface := &recordingSurface{}
	reg := NewRegistry([]string{"a", "b", "c"})
	l := NewLoader(reg, surface)

	l.Start(1)
	if l.InFlight() != 1 {
		t.Fatalf("in flight = %d, want 1", l.InFlight())
	}
	l.Loaded(1)
	l.Loaded(2)
	if !l.Done() {
		t.Fatal("loader should be done")
	}
	if reg.Slot(0).Load != LoadIdle {
		t.Errorf("slot 0 load = %v, want idle", reg.Slot(0).Load)
	}
}

func TestRegistry_KeepsOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	reg := NewRegistry([]string{"x", "y", "x"})
	if reg.Len() != 3 {
		t.Fatalf("len = %d", reg.Len())
	}
	for i, want := range []string{"x", "y", "x"} {
		slot := reg.Slot(i)
		if slot.Index != i || slot.URL != want {
			t.Errorf("slot %d = %+v", i, slot)
		}
	}
	if reg.Slot(-1) != nil || reg.Slot(3) != nil {
		t.Error("out-of-range slots should be nil")
	}
}
