package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/idilsaglam/sprint/internal/model"
	"github.com/idilsaglam/sprint/internal/palette"
)

// MinBarWidth is the narrowest capacity bar Board draws.
const MinBarWidth = 10

// Board renders an allocation: one header and one capacity bar per person,
// their tasks, then the work that did not fit.
//
// Each task takes a share of the bar proportional to days/capacity. Cell
// boundaries are computed from running totals so rounding never adds up to
// more than the bar width.
func Board(t Theme, res model.Result, barWidth int) []string {
	barWidth = max(barWidth, MinBarWidth)

	var lines []string
	if len(res.Assignments) == 0 {
		lines = append(lines, t.Muted.Render("nobody on the roster"))
	}
	for i, a := range res.Assignments {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, fmt.Sprintf("%s (Capacity: %d days, Allocated: %d days)",
			t.Title.Render(a.Person), a.Capacity, a.Allocated()))
		lines = append(lines, capacityBar(t, a, barWidth))
		for _, task := range a.Tasks {
			lines = append(lines, "  "+taskLine(t, task))
		}
	}

	if len(res.Unallocated) > 0 {
		lines = append(lines, "", t.Error.Render("Unallocated"))
		for _, it := range res.Unallocated {
			lines = append(lines, "  "+taskLine(t, it))
		}
	}
	return lines
}

// Summary is a one-line load meter for the whole team.
func Summary(t Theme, res model.Result, width int) string {
	capacity, allocated := 0, 0
	for _, a := range res.Assignments {
		capacity += a.Capacity
		allocated += a.Allocated()
	}
	return fmt.Sprintf("%s %s  %s",
		t.Accent.Render("Load"),
		ProgressBar(allocated, capacity, width),
		t.Muted.Render(fmt.Sprintf("%d/%d days, %d unallocated", allocated, capacity, len(res.Unallocated))))
}

func capacityBar(t Theme, a model.Assignment, width int) string {
	if a.Capacity <= 0 {
		return t.Muted.Render("(no capacity)")
	}

	var b strings.Builder
	used, start := 0, 0
	for _, task := range a.Tasks {
		used += max(task.Days, 0)
		end := min(used*width/a.Capacity, width)
		if end > start {
			b.WriteString(block(t, task, end-start))
		}
		start = max(start, end)
	}
	if a.FreeCapacity > 0 && start < width {
		b.WriteString(t.Muted.Render(strings.Repeat(t.BarFree, width-start)))
	}
	return b.String()
}

// block draws one task segment of exactly cells columns.
func block(t Theme, task model.WorkItem, cells int) string {
	if t.Plain {
		if cells == 1 {
			return "#"
		}
		label := runewidth.Truncate(task.Description, cells-1, "")
		return "[" + label + strings.Repeat("=", cells-1-runewidth.StringWidth(label))
	}
	label := runewidth.FillRight(runewidth.Truncate(" "+task.Description, cells, "…"), cells)
	style := lipgloss.NewStyle()
	if task.Color != "" {
		style = style.
			Background(lipgloss.Color(task.Color)).
			Foreground(lipgloss.Color(palette.TextOn(task.Color)))
	}
	return style.Render(label)
}

func taskLine(t Theme, it model.WorkItem) string {
	marker := t.SymTask
	if !t.Plain && it.Color != "" {
		marker = lipgloss.NewStyle().Foreground(lipgloss.Color(it.Color)).Render(marker)
	}
	line := fmt.Sprintf("%s %s (%d days)", marker, it.Description, it.Days)
	if it.Constrained() {
		line += " " + t.Muted.Render("@"+strings.Join(it.AssignTo, " @"))
	}
	return line
}
