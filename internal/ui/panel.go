package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PanelString frames content with the theme border.
func PanelString(t Theme, content string) string {
	style := lipgloss.NewStyle().
		Border(t.Border).
		Padding(0, 1)
	if t.BorderColor != "" {
		style = style.BorderForeground(t.BorderColor)
	}
	return style.Render(content)
}

// Panel writes lines inside a framed box.
func Panel(w io.Writer, t Theme, lines []string) {
	fmt.Fprintln(w, PanelString(t, strings.Join(lines, "\n")))
}

func OK(w io.Writer, t Theme, msg string) {
	fmt.Fprintln(w, t.Success.Render(t.SymOK+" "+msg))
}

func Fail(w io.Writer, t Theme, msg string) {
	fmt.Fprintln(w, t.Error.Render(t.SymFail+" "+msg))
}
