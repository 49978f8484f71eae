package cruise

import "github.com/tinytelemetry/autocruise/internal/model"

// ResizeSignal is the cross-frame message that asks a nested cruise to
// re-layout.
const ResizeSignal = "resize"

// Resize re-applies the layout of the current view for a new viewport and
// forwards the signal to every embedded frame. The view state, active page
// and countdown are unchanged. A zero viewport keeps the last known size.
func (m *Machine) Resize(vp model.Viewport) {
	if vp.Width > 0 && vp.Height > 0 {
		m.viewport = vp
	}
	if !m.started {
		return
	}
	m.relayout()
	m.surface.BroadcastResize()
}

// Message handles a message posted by the embedding parent or top window,
// with the viewport read when it arrived. Only ResizeSignal is understood;
// it is reported back as handled.
func (m *Machine) Message(data string, vp model.Viewport) bool {
	if data != ResizeSignal {
		return false
	}
	m.Resize(vp)
	return true
}

func (m *Machine) relayout() {
	if m.mode == ModeTile {
		m.applyTileLayout()
		return
	}
	m.applyCycleLayout()
}
