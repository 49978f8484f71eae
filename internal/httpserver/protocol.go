package httpserver

import (
	"fmt"

	"github.com/tinytelemetry/autocruise/internal/cruise"
	"github.com/tinytelemetry/autocruise/internal/model"
)

// Operations pushed to the browser shell.
const (
	opBuild     = "build"
	opSlot      = "slot"
	opHeader    = "header"
	opSrc       = "src"
	opBroadcast = "broadcast"
)

// Events reported by the browser shell.
const (
	evHello   = "hello"
	evClick   = "click"
	evHeader  = "header"
	evPause   = "pause"
	evResize  = "resize"
	evMessage = "message"
	evLoaded  = "loaded"
	evHover   = "hover"
)

type headerState struct {
	Text       string `json:"text"`
	Color      string `json:"color"`
	Background string `json:"background"`
	Visible    bool   `json:"visible"`
}

func newHeaderState(h cruise.Header) *headerState {
	return &headerState{
		Text:       h.Text,
		Color:      h.Color(),
		Background: h.Background(),
		Visible:    h.Visible,
	}
}

type outMessage struct {
	Op         string            `json:"op"`
	Title      string            `json:"title,omitempty"`
	Background string            `json:"background,omitempty"`
	Slots      []cruise.PageSlot `json:"slots,omitempty"`
	Slot       *cruise.PageSlot  `json:"slot,omitempty"`
	Header     *headerState      `json:"header,omitempty"`
	Index      int               `json:"index"`
	URL        string            `json:"url,omitempty"`
	Data       string            `json:"data,omitempty"`
}

type inMessage struct {
	Type   string  `json:"type"`
	Index  int     `json:"index"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Data   string  `json:"data"`
	In     bool    `json:"in"`
}

func (m inMessage) viewport() model.Viewport {
	return model.Viewport{Width: m.Width, Height: m.Height}
}

// sessionInput is the part of *cruise.Session the shell drives.
type sessionInput interface {
	Click(i int) error
	HeaderClick() error
	Pause() error
	Resize(vp model.Viewport) error
	Message(data string, vp model.Viewport) error
	FrameLoaded(i int) error
	Hover(in bool) error
}

// deliver routes one shell event to the session.
func deliver(s sessionInput, msg inMessage) error {
	switch msg.Type {
	case evClick:
		return s.Click(msg.Index)
	case evHeader:
		return s.HeaderClick()
	case evPause:
		return s.Pause()
	case evResize:
		return s.Resize(msg.viewport())
	case evMessage:
		return s.Message(msg.Data, msg.viewport())
	case evLoaded:
		return s.FrameLoaded(msg.Index)
	case evHover:
		return s.Hover(msg.In)
	default:
		return fmt.Errorf("httpserver: unknown event %q", msg.Type)
	}
}
