package model

import "time"

// View is the initial view mode of a cruise.
// Values other than ViewTile are kept verbatim and behave as ViewCycle.
type View string

const (
	ViewCycle View = "cycle"
	ViewTile  View = "tile"
)

// IsTile reports whether the view starts in tile mode.
func (v View) IsTile() bool { return v == ViewTile }

// Config is the resolved cruise configuration. It is not modified after resolution.
type Config struct {
	Title           string        `json:"title,omitempty"`
	View            View          `json:"view"`
	Interval        time.Duration `json:"interval"`
	PauseLength     time.Duration `json:"pause_length"`
	BackgroundColor string        `json:"background_color"`
	Pages           []string      `json:"pages"` // display and rotation order; duplicates allowed
}

// HasPages reports whether there is anything to cruise through.
func (c Config) HasPages() bool { return len(c.Pages) > 0 }

// DefaultConfig returns the configuration used before any source is applied.
func DefaultConfig() Config {
	return Config{
		View:            ViewCycle,
		Interval:        DefaultInterval,
		PauseLength:     DefaultPauseLength,
		BackgroundColor: DefaultBackgroundColor,
		Pages:           []string{},
	}
}

// DocumentMeta is the optional meta block of a remote configuration document.
type DocumentMeta struct {
	Title *string `json:"title"`
}

// Document is a remote configuration document.
// Pointer fields distinguish "absent" from zero values.
type Document struct {
	Title    *string       `json:"title"`
	Interval *float64      `json:"interval"`
	View     *string       `json:"view"`
	Pages    []string      `json:"pages"`
	Meta     *DocumentMeta `json:"meta"`
}

// Viewport is the size of the area a cruise is rendered into.
// Browser surfaces report pixels, the terminal surface reports cells.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
