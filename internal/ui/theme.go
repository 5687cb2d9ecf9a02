package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles styles, symbols and the panel border.
// Renderers take a Theme instead of reading a global.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.Color

	// Plain themes draw task blocks with characters instead of colors.
	Plain bool

	SymOK, SymFail, SymTask string
	BarFree                 string
}

// Named returns the theme called name; unknown names get classic.
func Named(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		return Theme{
			Name:        "neon",
			Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("13"),
			SymOK:       "✔",
			SymFail:     "✖",
			SymTask:     "◆",
			BarFree:     "·",
		}
	case "mono":
		plain := lipgloss.NewStyle()
		return Theme{
			Name:        "mono",
			Title:       plain,
			Muted:       plain,
			Accent:      plain,
			Success:     plain,
			Error:       plain,
			Pending:     plain,
			Border:      lipgloss.ASCIIBorder(),
			BorderColor: lipgloss.Color(""),
			Plain:       true,
			SymOK:       "ok",
			SymFail:     "error:",
			SymTask:     "-",
			BarFree:     ".",
		}
	default:
		return Theme{
			Name:        "classic",
			Title:       lipgloss.NewStyle().Bold(true),
			Muted:       lipgloss.NewStyle().Faint(true),
			Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("8"),
			SymOK:       "✔",
			SymFail:     "✖",
			SymTask:     "•",
			BarFree:     "░",
		}
	}
}
