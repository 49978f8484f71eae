package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/autocruise/internal/cruise"
	"github.com/tinytelemetry/autocruise/internal/layout"
	"github.com/tinytelemetry/autocruise/internal/model"
)

// CruisePageID identifies the cruise page.
const CruisePageID = "cruise"

// tickInterval is how often due machine tasks are run.
const tickInterval = 250 * time.Millisecond

// cruiseTickMsg drains the machine's task queue.
type cruiseTickMsg time.Time

// Options configures a CruisePage. Zero values select the defaults.
type Options struct {
	Fetch TitleFunc
	Clock cruise.Clock
	Keys  *KeyMap
}

// CruisePage runs a cruise in the terminal. The machine is driven entirely
// from Update, so it needs no session loop.
type CruisePage struct {
	cfg     model.Config
	machine *cruise.Machine
	tasks   *cruise.TaskQueue
	clock   cruise.Clock
	surface *termSurface
	fetch   TitleFunc

	keys     KeyMap
	help     help.Model
	showHelp bool

	highlight int
	started   bool
	width     int
	height    int
}

// NewCruisePage creates the cruise page for cfg. Nothing is rendered until
// the first window size arrives.
func NewCruisePage(cfg model.Config, opts Options) *CruisePage {
	if opts.Fetch == nil {
		opts.Fetch = HTTPTitle(nil)
	}
	if opts.Clock == nil {
		opts.Clock = cruise.SystemClock{}
	}
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	surface := &termSurface{}
	tasks := cruise.NewTaskQueue()
	return &CruisePage{
		cfg:     cfg,
		machine: cruise.NewMachine(cfg, surface, opts.Clock, tasks, model.Viewport{}),
		tasks:   tasks,
		clock:   opts.Clock,
		surface: surface,
		fetch:   opts.Fetch,
		keys:    keys,
		help:    help.New(),
	}
}

func (p *CruisePage) ID() string { return CruisePageID }

func (p *CruisePage) Init() tea.Cmd { return p.tickCmd() }

func (p *CruisePage) tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return cruiseTickMsg(t)
	})
}

// Machine exposes the underlying state machine.
func (p *CruisePage) Machine() *cruise.Machine { return p.machine }

func (p *CruisePage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
		p.help.Width = msg.Width
		p.machine.Resize(cellViewport(msg.Width, msg.Height))
		if !p.started {
			p.started = true
			p.machine.Start()
		}
		return p.flush(), nil

	case cruiseTickMsg:
		p.tasks.RunDue(p.clock.Now())
		return tea.Batch(p.flush(), p.tickCmd()), nil

	case pageLoadedMsg:
		p.surface.loaded(msg.Index, msg.Title, msg.Err)
		p.machine.FrameLoaded(msg.Index)
		return p.flush(), nil

	case tea.KeyMsg:
		return p.handleKey(msg), nil

	case tea.MouseMsg:
		p.handleMouse(msg)
		return p.flush(), nil
	}
	return nil, nil
}

// flush turns page assignments made by the machine into fetch commands.
func (p *CruisePage) flush() tea.Cmd {
	reqs := p.surface.takeFetches()
	if len(reqs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(reqs))
	for i, req := range reqs {
		cmds[i] = fetchCmd(p.fetch, req)
	}
	return tea.Batch(cmds...)
}

func (p *CruisePage) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.ForceQuit), key.Matches(msg, p.keys.Quit):
		return tea.Quit
	case key.Matches(msg, p.keys.Help):
		p.showHelp = !p.showHelp
		p.help.ShowAll = p.showHelp
		return nil
	case key.Matches(msg, p.keys.Tile):
		if p.machine.Mode() == cruise.ModeCycle {
			p.machine.HeaderClick()
			p.highlight = max(p.machine.Current(), 0)
		}
	case key.Matches(msg, p.keys.Pause):
		p.machine.Pause()
	case key.Matches(msg, p.keys.Select):
		p.machine.SelectPage(int(msg.String()[0] - '1'))
	case key.Matches(msg, p.keys.Enter):
		if p.machine.Mode() == cruise.ModeTile {
			p.machine.SelectPage(p.highlight)
		}
	case key.Matches(msg, p.keys.Left):
		p.moveHighlight(-1, 0)
	case key.Matches(msg, p.keys.Right):
		p.moveHighlight(1, 0)
	case key.Matches(msg, p.keys.Up):
		p.moveHighlight(0, -1)
	case key.Matches(msg, p.keys.Down):
		p.moveHighlight(0, 1)
	case key.Matches(msg, p.keys.Relayout):
		p.machine.Resize(model.Viewport{})
	}
	return p.flush()
}

// moveHighlight moves the tile view highlight by whole cells.
func (p *CruisePage) moveHighlight(dx, dy int) {
	n := len(p.cfg.Pages)
	if p.machine.Mode() != cruise.ModeTile || n == 0 {
		return
	}
	cols, _ := layout.Shape(n)
	next := p.highlight + dx + dy*cols
	if next < 0 || next >= n {
		return
	}
	p.highlight = next
}

// handleMouse maps terminal mouse events onto the browser gestures: the
// header row is the status region, a tile is a cover, and a click on the
// cycle body stands in for a click inside the page.
func (p *CruisePage) handleMouse(msg tea.MouseMsg) {
	if !p.started {
		return
	}
	mode := p.machine.Mode()

	if msg.Action == tea.MouseActionMotion {
		p.machine.Hover(mode == cruise.ModeCycle && msg.Y == 0)
		return
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}

	if mode == cruise.ModeCycle {
		if msg.Y == 0 {
			p.machine.HeaderClick()
			p.highlight = max(p.machine.Current(), 0)
			return
		}
		p.machine.Pause()
		return
	}

	if i, ok := p.tileAt(msg.X, msg.Y); ok {
		p.machine.SelectPage(i)
	}
}

// tileAt resolves a terminal cell to a page in tile view.
func (p *CruisePage) tileAt(x, y int) (int, bool) {
	n := len(p.cfg.Pages)
	if n == 0 || p.width <= 0 || p.height <= 0 {
		return 0, false
	}
	grid := layout.Tile(p.machine.Viewport(), n)
	px := float64(x*cellPxW + cellPxW/2)
	py := float64(y*cellPxH + cellPxH/2)
	if i, ok := layout.HitTest(grid, px, py); ok {
		return i, true
	}

	// Margins are narrower than a cell; fall back to the drawn boxes.
	col := x * grid.Cols / p.width
	row := y * grid.Rows / p.height
	i := row*grid.Cols + col
	if i >= n || col >= grid.Cols || row >= grid.Rows {
		return 0, false
	}
	return i, true
}
