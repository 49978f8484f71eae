package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerFrame picks a frame from the wall clock so it animates on re-render.
// The cruise tick re-renders often enough to drive it.
func spinnerFrame() string {
	return spinnerFrames[time.Now().UnixMilli()/120%int64(len(spinnerFrames))]
}

// renderLoadingPlaceholder renders an animated loading indicator.
func renderLoadingPlaceholder(width, height int) string {
	loadingStyle := lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)

	text := loadingStyle.Render(spinnerFrame() + " Waiting for terminal size...")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}
