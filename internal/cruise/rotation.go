package cruise

import (
	"fmt"
	"time"

	"github.com/tinytelemetry/autocruise/internal/model"
)

// rotation is the repeating cycle-view task. At most one chain of ticks is
// scheduled at any time; stopping it is how tile view suspends rotation.
type rotation struct {
	m      *Machine
	cancel CancelFunc
}

func (r *rotation) start() {
	r.stop()
	r.run()
}

func (r *rotation) stop() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *rotation) active() bool { return r.cancel != nil }

func (r *rotation) run() {
	r.cancel = nil
	r.m.tick()
	r.cancel = r.m.tasks.After(r.m.clock.Now(), TickPeriod(r.m.cfg.Interval), r.run)
}

// TickPeriod is the rotation tick resolution: a fifth of the interval, never
// coarser than model.MaxTickPeriod.
func TickPeriod(interval time.Duration) time.Duration {
	p := interval / 5
	if p <= 0 || p > model.MaxTickPeriod {
		return model.MaxTickPeriod
	}
	return p
}

// tick advances the active page when no page is selected yet or the
// countdown has elapsed, then refreshes the status text unless the pause
// marker is showing.
func (m *Machine) tick() {
	n := m.reg.Len()
	if n == 0 {
		return
	}
	now := m.clock.Now()
	remaining := m.nextUpdate.Sub(now)
	if m.current < 0 || remaining <= 0 {
		m.current = (m.current + 1) % n
		remaining = m.cfg.Interval
		m.nextUpdate = now.Add(remaining)
		m.raise(m.current)
	}

	if !m.header.Paused {
		m.header.Text = StatusText(m.current, n, remaining, m.reg.Slot(m.current).URL)
		m.surface.RenderHeader(m.header)
	}
}

// StatusText formats the cycle-view status line.
func StatusText(index, count int, remaining time.Duration, url string) string {
	return fmt.Sprintf("%d/%d, %ds: %s", index, count, wholeSeconds(remaining), url)
}
