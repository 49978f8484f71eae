package cruise

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tinytelemetry/autocruise/internal/model"
)

func TestSession_ProcessesEventsOnLoop(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewSession(pagesConfig(3, time.Minute), &recordingSurface{}, model.Viewport{Width: 800, Height: 600})
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	if err := s.HeaderClick(); err != nil {
		t.Fatalf("HeaderClick: %v", err)
	}
	st, err := s.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Mode != "tile" {
		t.Fatalf("mode = %s, want tile", st.Mode)
	}

	if err := s.Click(2); err != nil {
		t.Fatalf("Click: %v", err)
	}
	st, err = s.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Mode != "cycle" || st.Current != 2 || st.Pages != 3 {
		t.Fatalf("status = %+v", st)
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}

	if err := s.Pause(); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("Pause after stop = %v, want ErrSessionClosed", err)
	}
}
