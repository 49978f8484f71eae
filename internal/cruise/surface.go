package cruise

import "github.com/tinytelemetry/autocruise/internal/model"

// Surface renders cruise state. Implementations push state to a browser
// shell or draw it in a terminal; the Machine never reads anything back.
type Surface interface {
	// Build replaces the whole surface with a header and one slot per page.
	Build(cfg model.Config, slots []*PageSlot)
	// RenderSlot pushes the current container, frame and cover state of a slot.
	RenderSlot(slot *PageSlot)
	// RenderHeader pushes the header/status region.
	RenderHeader(h Header)
	// AssignSource points a slot's frame at its page URL.
	AssignSource(index int, url string)
	// BroadcastResize forwards the "resize" signal to every embedded frame.
	BroadcastResize()
}

// Header is the status region above the cycle view.
type Header struct {
	Text    string `json:"text"`
	Paused  bool   `json:"paused"` // pause marker: drawn in the alternate color
	Hover   bool   `json:"hover"`
	Visible bool   `json:"visible"`
}

// Header colors as used by the browser shell.
const (
	HeaderColorNormal = "gray"
	HeaderColorPaused = "red"
	HeaderColorHover  = "white"
)

// Color returns the text color the header should be drawn in.
func (h Header) Color() string {
	switch {
	case h.Paused:
		return HeaderColorPaused
	case h.Hover:
		return HeaderColorHover
	default:
		return HeaderColorNormal
	}
}

// Background returns the header background color.
func (h Header) Background() string {
	if h.Hover {
		return "gray"
	}
	return "black"
}
