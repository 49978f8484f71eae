package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/tinytelemetry/autocruise/internal/cruise"
	"github.com/tinytelemetry/autocruise/internal/model"
)

const (
	helloTimeout   = 10 * time.Second
	writeTimeout   = 10 * time.Second
	outboundBuffer = 256
)

var fallbackViewport = model.Viewport{Width: 1280, Height: 720}

// wsSurface renders a cruise into a browser shell. It is called from the
// session goroutine; messages are encoded immediately and written by
// writeLoop, so slot state is never shared with the writer.
type wsSurface struct {
	out  chan []byte
	done <-chan struct{}
}

func newWSSurface(ctx context.Context) *wsSurface {
	return &wsSurface{
		out:  make(chan []byte, outboundBuffer),
		done: ctx.Done(),
	}
}

func (w *wsSurface) send(msg outMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("httpserver: encode %s: %v", msg.Op, err)
		return
	}
	select {
	case w.out <- data:
	case <-w.done:
	}
}

func (w *wsSurface) Build(cfg model.Config, slots []*cruise.PageSlot) {
	msg := outMessage{
		Op:         opBuild,
		Title:      cfg.Title,
		Background: cfg.BackgroundColor,
		Slots:      make([]cruise.PageSlot, len(slots)),
	}
	for i, s := range slots {
		msg.Slots[i] = *s
	}
	w.send(msg)
}

func (w *wsSurface) RenderSlot(slot *cruise.PageSlot) {
	s := *slot
	w.send(outMessage{Op: opSlot, Slot: &s, Index: s.Index})
}

func (w *wsSurface) RenderHeader(h cruise.Header) {
	w.send(outMessage{Op: opHeader, Header: newHeaderState(h)})
}

func (w *wsSurface) AssignSource(index int, url string) {
	w.send(outMessage{Op: opSrc, Index: index, URL: url})
}

func (w *wsSurface) BroadcastResize() {
	w.send(outMessage{Op: opBroadcast, Data: cruise.ResizeSignal})
}

// writeLoop drains the outbound queue onto the connection.
func (w *wsSurface) writeLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case data := <-w.out:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return fmt.Errorf("httpserver: write: %w", err)
			}
		}
	}
}

// readHello waits for the shell's first message, which carries its viewport.
func readHello(ctx context.Context, conn *websocket.Conn) (model.Viewport, error) {
	ctx, cancel := context.WithTimeout(ctx, helloTimeout)
	defer cancel()

	var msg inMessage
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		return model.Viewport{}, fmt.Errorf("httpserver: read hello: %w", err)
	}
	if msg.Type != evHello {
		return model.Viewport{}, fmt.Errorf("httpserver: expected hello, got %q", msg.Type)
	}
	vp := msg.viewport()
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = fallbackViewport
	}
	return vp, nil
}

// readLoop forwards shell events to the session until the connection closes.
func readLoop(ctx context.Context, conn *websocket.Conn, s sessionInput) error {
	for {
		var msg inMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway ||
				ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("httpserver: read: %w", err)
		}
		if err := deliver(s, msg); err != nil {
			if errors.Is(err, cruise.ErrSessionClosed) {
				return nil
			}
			log.Printf("httpserver: %v", err)
		}
	}
}
