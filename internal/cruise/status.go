package cruise

import "time"

// Status is a point-in-time snapshot of a machine.
type Status struct {
	Mode       string        `json:"mode"`
	Current    int           `json:"current"`
	Pages      int           `json:"pages"`
	URL        string        `json:"url,omitempty"`
	NextUpdate time.Time     `json:"next_update"`
	Remaining  time.Duration `json:"remaining"`
	Paused     bool          `json:"paused"`
	Rotating   bool          `json:"rotating"`
	Loading    int           `json:"loading"` // slot in flight, -1 when idle
	Header     string        `json:"header"`
}

// Status returns a snapshot of the machine.
func (m *Machine) Status() Status {
	st := Status{
		Mode:       m.mode.String(),
		Current:    m.current,
		Pages:      m.reg.Len(),
		NextUpdate: m.nextUpdate,
		Paused:     m.header.Paused,
		Rotating:   m.rotation.active(),
		Loading:    m.loader.InFlight(),
		Header:     m.header.Text,
	}
	if slot := m.reg.Slot(m.current); slot != nil {
		st.URL = slot.URL
	}
	if !m.nextUpdate.IsZero() {
		st.Remaining = m.nextUpdate.Sub(m.clock.Now())
	}
	return st
}

// SessionInfo describes one live session as listed by the server.
type SessionInfo struct {
	ID      string    `json:"id"`
	Remote  string    `json:"remote,omitempty"`
	Started time.Time `json:"started"`
	Status  Status    `json:"status"`
}
