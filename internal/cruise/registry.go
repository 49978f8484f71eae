package cruise

import "github.com/tinytelemetry/autocruise/internal/layout"

// LoadState tracks a slot's frame through the sequential loader.
type LoadState int

const (
	LoadIdle LoadState = iota
	LoadInFlight
	LoadDone
)

func (s LoadState) String() string {
	switch s {
	case LoadInFlight:
		return "loading"
	case LoadDone:
		return "loaded"
	default:
		return "idle"
	}
}

// Container is the positioned box holding a slot's frame and cover.
type Container struct {
	layout.Rect
	Z    int  `json:"z"`
	Clip bool `json:"clip"` // overflow hidden
}

// Frame is the embedding frame of a slot. It is drawn at Width x Height and
// scaled by Scale from its top-left corner.
type Frame struct {
	Src    string  `json:"src,omitempty"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

// Cover is the invisible overlay that captures clicks on a slot.
type Cover struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Visible bool    `json:"visible"`
}

// PageSlot is the per-page container/frame/cover triple.
// Index is its position in the configured page list and never changes.
type PageSlot struct {
	Index     int       `json:"index"`
	URL       string    `json:"url"`
	Container Container `json:"container"`
	Frame     Frame     `json:"frame"`
	Cover     Cover     `json:"cover"`
	Load      LoadState `json:"load"`
}

// Registry is the ordered slot collection built once per configuration.
type Registry struct {
	slots []*PageSlot
}

// NewRegistry creates one slot per page, in page order.
func NewRegistry(pages []string) *Registry {
	slots := make([]*PageSlot, len(pages))
	for i, url := range pages {
		slots[i] = &PageSlot{Index: i, URL: url, Frame: Frame{Scale: 1}}
	}
	return &Registry{slots: slots}
}

// Len returns the number of slots.
func (r *Registry) Len() int { return len(r.slots) }

// Slot returns slot i, or nil when i is out of range.
func (r *Registry) Slot(i int) *PageSlot {
	if i < 0 || i >= len(r.slots) {
		return nil
	}
	return r.slots[i]
}

// Slots returns the slots in page order.
func (r *Registry) Slots() []*PageSlot { return r.slots }
