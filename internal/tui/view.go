package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/autocruise/internal/cruise"
	"github.com/tinytelemetry/autocruise/internal/layout"
	"github.com/tinytelemetry/autocruise/internal/resolver"
)

// maxTiles is the number of positions a tile grid has.
const maxTiles = 9

// View renders the cruise.
func (p *CruisePage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return "Initializing cruise..."
	}
	if !p.cfg.HasPages() {
		return lipgloss.NewStyle().Width(width).Foreground(ColorGray).Render(resolver.Usage)
	}
	if !p.started {
		return renderLoadingPlaceholder(width, height)
	}

	var base string
	if p.machine.Mode() == cruise.ModeTile {
		base = p.renderTile(width, height)
	} else {
		base = p.renderCycle(width, height)
	}

	if p.showHelp {
		return p.renderHelpModal(width, height)
	}
	return base
}

func (p *CruisePage) headerStyle() lipgloss.Style {
	h := p.surface.header
	style := lipgloss.NewStyle().Background(ColorBlack).Foreground(ColorGray)
	switch {
	case h.Paused:
		style = style.Foreground(ColorRed)
	case h.Hover:
		style = style.Foreground(ColorWhite)
	}
	if h.Hover {
		style = style.Background(ColorGray)
	}
	return style
}

func (p *CruisePage) renderCycle(width, height int) string {
	header := p.headerStyle().Width(width).MaxWidth(width).Render(p.surface.header.Text)

	bodyHeight := height - 1
	front := p.surface.frontPage()
	if front < 0 || bodyHeight < 3 {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.NewStyle().Width(width).Height(max(bodyHeight, 0)).Render(""))
	}
	body := renderPageBox(p.surface.pages[front], width, bodyHeight, false)
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (p *CruisePage) renderTile(width, height int) string {
	n := len(p.surface.pages)
	cols, rows := layout.Shape(n)
	cellW, cellH := width/cols, height/rows

	lines := make([]string, 0, rows)
	for r := 0; r < rows; r++ {
		boxes := make([]string, 0, cols)
		for c := 0; c < cols; c++ {
			idx := r*cols + c
			if idx >= n {
				boxes = append(boxes, lipgloss.NewStyle().Width(cellW).Height(cellH).Render(""))
				continue
			}
			// Pages past the grid stack on its last position; the last one is on top.
			if idx == maxTiles-1 && n > maxTiles {
				idx = n - 1
			}
			boxes = append(boxes, renderPageBox(p.surface.pages[idx], cellW, cellH, idx == p.highlight))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderPageBox draws one page as a bordered box of exactly width x height cells.
func renderPageBox(pv pageView, width, height int, highlighted bool) string {
	if width < 4 || height < 3 {
		return lipgloss.NewStyle().Width(max(width, 0)).Height(max(height, 0)).Render("")
	}
	innerW, innerH := width-2, height-2

	border := borderColor(highlighted)

	title := pv.title
	if title == "" {
		title = "(untitled)"
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(ColorWhite).Render(fmt.Sprintf("#%d  %s", pv.slot.Index+1, title)),
		lipgloss.NewStyle().Foreground(ColorGray).Render(pv.slot.URL),
		loadLabel(pv),
	}
	content := strings.Join(lines, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(innerW).
		Height(innerH).
		MaxHeight(height).
		Render(lipgloss.NewStyle().MaxWidth(innerW).Render(content))
}

func borderColor(highlighted bool) lipgloss.Color {
	if highlighted {
		return ColorHighlight
	}
	return ColorGray
}

func loadLabel(pv pageView) string {
	switch {
	case pv.err != nil:
		return lipgloss.NewStyle().Foreground(ColorRed).Render("error: " + pv.err.Error())
	case pv.slot.Load == cruise.LoadDone:
		return lipgloss.NewStyle().Foreground(ColorGreen).Render("loaded")
	case pv.slot.Load == cruise.LoadInFlight:
		return lipgloss.NewStyle().Foreground(ColorYellow).Render(spinnerFrame() + " loading")
	default:
		return lipgloss.NewStyle().Foreground(ColorGray).Render("waiting")
	}
}

func (p *CruisePage) renderHelpModal(width, height int) string {
	title := lipgloss.NewStyle().
		Foreground(ColorBlue).
		Bold(true).
		Render("Autocruise Help")

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", p.help.View(p.keys)))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
