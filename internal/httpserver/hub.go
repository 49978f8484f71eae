package httpserver

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/tinytelemetry/autocruise/internal/cruise"
	"github.com/tinytelemetry/autocruise/internal/model"
)

// Hub tracks the live browser sessions of a server. It implements
// socketrpc.Controller.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*hubEntry
}

type hubEntry struct {
	id      string
	remote  string
	started time.Time
	session *cruise.Session
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*hubEntry)}
}

func (h *Hub) add(id, remote string, s *cruise.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[id] = &hubEntry{id: id, remote: remote, started: time.Now(), session: s}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

// Len returns the number of registered sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// snapshot returns the entries oldest first.
func (h *Hub) snapshot() []*hubEntry {
	h.mu.Lock()
	entries := make([]*hubEntry, 0, len(h.sessions))
	for _, e := range h.sessions {
		entries = append(entries, e)
	}
	h.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].started.Equal(entries[j].started) {
			return entries[i].started.Before(entries[j].started)
		}
		return entries[i].id < entries[j].id
	})
	return entries
}

// Sessions returns a status snapshot of every live session.
func (h *Hub) Sessions(ctx context.Context) ([]cruise.SessionInfo, error) {
	entries := h.snapshot()
	infos := make([]cruise.SessionInfo, 0, len(entries))
	for _, e := range entries {
		st, err := e.session.Status(ctx)
		if errors.Is(err, cruise.ErrSessionClosed) {
			continue
		}
		if err != nil {
			return nil, err
		}
		infos = append(infos, cruise.SessionInfo{
			ID:      e.id,
			Remote:  e.remote,
			Started: e.started,
			Status:  st,
		})
	}
	return infos, nil
}

// broadcast applies fn to every session and returns how many accepted it.
// Sessions that closed in the meantime are skipped.
func (h *Hub) broadcast(ctx context.Context, fn func(*cruise.Session) error) (int, error) {
	n := 0
	for _, e := range h.snapshot() {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		err := fn(e.session)
		if errors.Is(err, cruise.ErrSessionClosed) {
			continue
		}
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Tile switches every cycling session to the tile view.
func (h *Hub) Tile(ctx context.Context) (int, error) {
	return h.broadcast(ctx, (*cruise.Session).ShowTile)
}

// Select brings page index to the front of every session, as a cover click would.
func (h *Hub) Select(ctx context.Context, index int) (int, error) {
	return h.broadcast(ctx, func(s *cruise.Session) error { return s.Click(index) })
}

// Pause pauses every cycling session.
func (h *Hub) Pause(ctx context.Context) (int, error) {
	return h.broadcast(ctx, (*cruise.Session).Pause)
}

// Resize makes every session re-apply its layout at its last known size.
func (h *Hub) Resize(ctx context.Context) (int, error) {
	return h.broadcast(ctx, func(s *cruise.Session) error { return s.Resize(model.Viewport{}) })
}
