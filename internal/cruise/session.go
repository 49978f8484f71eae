package cruise

import (
	"context"
	"errors"
	"time"

	"github.com/tinytelemetry/autocruise/internal/model"
)

const sessionEventBuffer = 64

// ErrSessionClosed is returned when posting to a session whose loop has exited.
var ErrSessionClosed = errors.New("cruise: session closed")

// Session runs one Machine on its own goroutine. Inputs from any goroutine
// are queued as events; timer tasks fire on the same loop, so the machine is
// only ever touched by Run.
type Session struct {
	machine *Machine
	tasks   *TaskQueue
	clock   Clock
	events  chan func(*Machine)
	done    chan struct{}
}

// NewSession creates a session for cfg rendering into surface.
func NewSession(cfg model.Config, surface Surface, vp model.Viewport) *Session {
	return newSession(cfg, surface, vp, SystemClock{})
}

func newSession(cfg model.Config, surface Surface, vp model.Viewport, clock Clock) *Session {
	tasks := NewTaskQueue()
	return &Session{
		machine: NewMachine(cfg, surface, clock, tasks, vp),
		tasks:   tasks,
		clock:   clock,
		events:  make(chan func(*Machine), sessionEventBuffer),
		done:    make(chan struct{}),
	}
}

// Run starts the machine and processes events until ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)

	s.machine.Start()

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		s.tasks.RunDue(s.clock.Now())

		wait := time.Hour
		if due, ok := s.tasks.Next(); ok {
			wait = max(due.Sub(s.clock.Now()), 0)
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-s.events:
			fn(s.machine)
		case <-timer.C:
		}
	}
}

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) post(fn func(*Machine)) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.events <- fn:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// Click reports a cover click on page i.
func (s *Session) Click(i int) error {
	return s.post(func(m *Machine) { m.SelectPage(i) })
}

// HeaderClick reports a click on the status region.
func (s *Session) HeaderClick() error {
	return s.post(func(m *Machine) { m.HeaderClick() })
}

// ShowTile switches to tile view if the session is cycling.
func (s *Session) ShowTile() error {
	return s.post(func(m *Machine) {
		if m.Mode() == ModeCycle {
			m.HeaderClick()
		}
	})
}

// Pause reports a pause trigger.
func (s *Session) Pause() error {
	return s.post(func(m *Machine) { m.Pause() })
}

// Hover reports the pointer entering or leaving the header.
func (s *Session) Hover(in bool) error {
	return s.post(func(m *Machine) { m.Hover(in) })
}

// Resize reports a new viewport. A zero viewport re-applies the last one.
func (s *Session) Resize(vp model.Viewport) error {
	return s.post(func(m *Machine) { m.Resize(vp) })
}

// Message reports a cross-frame message and the viewport at delivery.
func (s *Session) Message(data string, vp model.Viewport) error {
	return s.post(func(m *Machine) { m.Message(data, vp) })
}

// FrameLoaded reports load completion of slot i.
func (s *Session) FrameLoaded(i int) error {
	return s.post(func(m *Machine) { m.FrameLoaded(i) })
}

// Status returns a snapshot taken on the session loop.
func (s *Session) Status(ctx context.Context) (Status, error) {
	reply := make(chan Status, 1)
	if err := s.post(func(m *Machine) { reply <- m.Status() }); err != nil {
		return Status{}, err
	}
	select {
	case st := <-reply:
		return st, nil
	case <-s.done:
		return Status{}, ErrSessionClosed
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
}
