package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tinytelemetry/autocruise/internal/cruise"
)

type fakeController struct {
	sessions []cruise.SessionInfo
	calls    []string
	selected int
	err      error
}

func (f *fakeController) Status() ([]cruise.SessionInfo, error) {
	f.calls = append(f.calls, "status")
	return f.sessions, f.err
}
func (f *fakeController) Tile() (int, error) { f.calls = append(f.calls, "tile"); return 2, f.err }
func (f *fakeController) Select(i int) (int, error) {
	f.calls = append(f.calls, "select")
	f.selected = i
	return 2, f.err
}
func (f *fakeController) Pause() (int, error)  { f.calls = append(f.calls, "pause"); return 2, f.err }
func (f *fakeController) Resize() (int, error) { f.calls = append(f.calls, "resize"); return 2, f.err }

func TestRun_Broadcasts(t *testing.T) {
	t.Parallel()

	for _, cmd := range []string{"tile", "pause", "resize"} {
		f := &fakeController{}
		var out bytes.Buffer
		if err := run(&out, f, []string{cmd}, false); err != nil {
			t.Fatalf("%s: %v", cmd, err)
		}
		if len(f.calls) != 1 || f.calls[0] != cmd {
			t.Errorf("%s: calls = %v", cmd, f.calls)
		}
		if !strings.Contains(out.String(), "2 session(s)") {
			t.Errorf("%s: output = %q", cmd, out.String())
		}
	}
}

func TestRun_Select(t *testing.T) {
	t.Parallel()

	f := &fakeController{}
	var out bytes.Buffer
	if err := run(&out, f, []string{"select", "3"}, true); err != nil {
		t.Fatal(err)
	}
	if f.selected != 3 {
		t.Errorf("selected = %d, want 3", f.selected)
	}
	if strings.TrimSpace(out.String()) != `{"sessions":2}` {
		t.Errorf("json output = %q", out.String())
	}

	for _, args := range [][]string{{"select"}, {"select", "x"}, {"select", "-1"}} {
		if err := run(&out, &fakeController{}, args, false); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Parallel()

	if err := run(&bytes.Buffer{}, &fakeController{}, []string{"explode"}, false); err == nil {
		t.Fatal("expected error")
	}
}

func TestRun_ControllerError(t *testing.T) {
	t.Parallel()

	f := &fakeController{err: errors.New("socket gone")}
	if err := run(&bytes.Buffer{}, f, []string{"tile"}, false); err == nil || !strings.Contains(err.Error(), "socket gone") {
		t.Fatalf("err = %v", err)
	}
}

func TestRun_StatusTable(t *testing.T) {
	t.Parallel()

	f := &fakeController{sessions: []cruise.SessionInfo{{
		ID:      "abc",
		Remote:  "10.0.0.1:5000",
		Started: time.Now().Add(-time.Minute),
		Status:  cruise.Status{Mode: "cycle", Current: 1, Pages: 3, Rotating: true, Remaining: 42 * time.Second},
	}}}
	var out bytes.Buffer
	if err := run(&out, f, []string{"status"}, false); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"abc", "10.0.0.1:5000", "cycle 2/3 next 42s"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("status output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRenderSessions_Empty(t *testing.T) {
	t.Parallel()

	if got := renderSessions(nil, time.Now()); !strings.Contains(got, "no sessions") {
		t.Errorf("renderSessions(nil) = %q", got)
	}
}

func TestSessionState_Paused(t *testing.T) {
	t.Parallel()

	got := sessionState(cruise.Status{Mode: "tile", Current: 0, Pages: 4, Paused: true})
	if got != "tile 1/4 paused" {
		t.Errorf("sessionState = %q", got)
	}
}
