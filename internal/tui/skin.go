package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/tinytelemetry/autocruise/internal/model"
)

// Palette used by every view. InitializeSkin replaces it before the program starts.
var (
	ColorBlue   lipgloss.Color = "12"
	ColorGray   lipgloss.Color = "8"
	ColorWhite  lipgloss.Color = "15"
	ColorRed    lipgloss.Color = "9"
	ColorGreen  lipgloss.Color = "10"
	ColorYellow lipgloss.Color = "11"
	ColorBlack  lipgloss.Color = "0"

	// ColorHighlight borders the highlighted tile.
	ColorHighlight lipgloss.Color = "12"
)

// Skin is the on-disk color scheme, read from <configDir>/skins/<name>.yml.
// Empty fields keep the built-in color.
type Skin struct {
	Accent     string `yaml:"accent"`
	Muted      string `yaml:"muted"`
	Text       string `yaml:"text"`
	Paused     string `yaml:"paused"`
	Loaded     string `yaml:"loaded"`
	Loading    string `yaml:"loading"`
	Background string `yaml:"background"`
	Highlight  string `yaml:"highlight"`
}

// LoadSkin reads a skin file.
func LoadSkin(path string) (Skin, error) {
	var s Skin
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("tui: read skin: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("tui: parse skin %s: %w", path, err)
	}
	return s, nil
}

// InitializeSkin applies the named skin. The default skin needs no file.
func InitializeSkin(name, configDir string) error {
	if name == "" || name == model.DefaultSkin {
		return nil
	}
	s, err := LoadSkin(filepath.Join(configDir, "skins", name+".yml"))
	if err != nil {
		return err
	}
	s.apply()
	return nil
}

func (s Skin) apply() {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&ColorBlue, s.Accent)
	set(&ColorGray, s.Muted)
	set(&ColorWhite, s.Text)
	set(&ColorRed, s.Paused)
	set(&ColorGreen, s.Loaded)
	set(&ColorYellow, s.Loading)
	set(&ColorBlack, s.Background)
	set(&ColorHighlight, s.Highlight)
}
