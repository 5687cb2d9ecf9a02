// Package tui is the interactive sprint board: the roster and work items on
// the left, the live allocation on the right.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/sprint/internal/model"
	"github.com/idilsaglam/sprint/internal/plan"
	"github.com/idilsaglam/sprint/internal/ui"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

type entryKind int

const (
	personEntry entryKind = iota
	itemEntry
)

// entry adapts a person or a work item to bubbles/list.Item
type entry struct {
	kind   entryKind
	person model.Person
	item   model.WorkItem
}

func (e entry) Title() string {
	if e.kind == personEntry {
		return fmt.Sprintf("%s (%d days)", e.person.Name, e.person.AvailableDays)
	}
	s := fmt.Sprintf("%s (%d days)", e.item.Description, e.item.Days)
	if e.item.Constrained() {
		s += " @" + strings.Join(e.item.AssignTo, " @")
	}
	return s
}

func (e entry) Description() string { return "" }

func (e entry) FilterValue() string {
	if e.kind == personEntry {
		return e.person.Name
	}
	return e.item.Description
}

// Custom delegate to control how entries render (single line)
type entryDelegate struct {
	theme ui.Theme
}

func (d entryDelegate) Height() int                               { return 1 }
func (d entryDelegate) Spacing() int                              { return 0 }
func (d entryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d entryDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	e, _ := li.(entry)
	marker := d.theme.Accent.Render("●")
	if d.theme.Plain {
		marker = "P"
	}
	if e.kind == itemEntry {
		marker = d.theme.SymTask
		if !d.theme.Plain && e.item.Color != "" {
			marker = lipgloss.NewStyle().Foreground(lipgloss.Color(e.item.Color)).Render("■")
		}
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+marker+" "+e.Title())
}

type inputMode int

const (
	noInput inputMode = iota
	personInput
	itemInput
	daysInput
)

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	addPersonKey = key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "add person"))
	addItemKey   = key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "add work"))
	sprintKey    = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sprint days"))
	deleteKey    = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	undoKey      = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	clearKey     = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear all"))
)

// Model is the Bubble Tea model of the board.
type Model struct {
	plan   *plan.Plan
	theme  ui.Theme
	logger *slog.Logger

	list list.Model
	ti   textinput.Model

	mode     inputMode
	inputErr string
	status   string

	changed bool

	// Undo support (single-level): the plan as it was before the last
	// delete or clear.
	undo *plan.Plan

	width, height int
}

// New builds the board around p. The model edits p in place.
func New(p *plan.Plan, theme ui.Theme, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	l := list.New(nil, entryDelegate{theme: theme}, 0, 0)
	l.Title = "People & work"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = theme.Title
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("entry", "entries")

	// d and u are ours; keep paging on the other keys
	l.KeyMap.NextPage.SetKeys("right", "l", "pgdown", "f")
	l.KeyMap.PrevPage.SetKeys("left", "h", "pgup", "b")

	bindings := []key.Binding{addPersonKey, addItemKey, sprintKey, deleteKey, undoKey, clearKey}
	l.AdditionalShortHelpKeys = func() []key.Binding { return bindings }
	l.AdditionalFullHelpKeys = func() []key.Binding { return bindings }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{
		plan:   p,
		theme:  theme,
		logger: logger,
		list:   l,
		ti:     ti,
	}
	m.resize(defaultWidth, defaultHeight)
	m.refresh()
	return m
}

// Plan is the edited plan.
func (m Model) Plan() *plan.Plan { return m.plan }

// Changed reports whether anything was edited since New.
func (m Model) Changed() bool { return m.changed }

// Run shows the board until the user quits. It works on a copy of p and
// returns the edited copy together with whether it changed.
func Run(ctx context.Context, p *plan.Plan, theme ui.Theme, logger *slog.Logger) (*plan.Plan, bool, error) {
	m := New(p.Clone(), theme, logger)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, false, err
	}
	fm, ok := final.(Model)
	if !ok {
		return p, false, nil
	}
	return fm.Plan(), fm.Changed(), nil
}

// Update and View implement Bubble Tea's Model on Model
func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.resize(size.Width, size.Height)
		return m, nil
	}

	// input mode
	if m.mode != noInput {
		var cmd tea.Cmd
		if x, ok := msg.(tea.KeyMsg); ok {
			switch x.String() {
			case "enter":
				m.submit()
				return m, nil
			case "esc":
				m.closeInput()
				return m, nil
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	// typing a filter: every key belongs to the list
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if x, ok := msg.(tea.KeyMsg); ok {
		switch x.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.list.FilterState() != list.FilterApplied {
				return m, tea.Quit
			}
		case "p":
			return m, m.openInput(personInput, "", "name days, e.g. Alice 5")
		case "w":
			return m, m.openInput(itemInput, "", "days description @name, e.g. 3 fix login @alice")
		case "s":
			current := ""
			if m.plan.SprintDays > 0 {
				current = fmt.Sprint(m.plan.SprintDays)
			}
			return m, m.openInput(daysInput, current, "sprint length in days")
		case "d":
			m.removeSelected()
			return m, nil
		case "u":
			m.restore()
			return m, nil
		case "c":
			if !m.plan.Empty() {
				m.undo = m.plan.Clone()
				m.plan.Clear()
				m.changed = true
				m.status = "cleared, u to undo"
				m.logger.Info("plan cleared")
				m.refresh()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	left := ui.PanelString(m.theme, m.list.View())
	right := ui.PanelString(m.theme, strings.Join(m.boardLines(), "\n"))
	content := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	if m.mode != noInput {
		title := map[inputMode]string{
			personInput: "Add person",
			itemInput:   "Add work item",
			daysInput:   "Sprint length",
		}[m.mode]
		if m.inputErr != "" {
			title += ": " + m.theme.Error.Render(m.inputErr)
		}
		content += "\n" + ui.PanelString(m.theme, title+"\n"+m.ti.View())
	} else if m.status != "" {
		content += "\n" + m.theme.Muted.Render(m.status)
	}
	return content
}

func (m Model) boardLines() []string {
	head := fmt.Sprintf("%s  %s", m.theme.Title.Render("Sprint"), m.sprintLabel())
	res, ok := m.plan.Allocate()
	if !ok {
		return []string{head, "", m.theme.Muted.Render("Press s to set the sprint length.")}
	}
	lines := []string{head, ui.Summary(m.theme, res, 12), ""}
	return append(lines, ui.Board(m.theme, res, m.barWidth())...)
}

func (m Model) sprintLabel() string {
	if m.plan.SprintDays <= 0 {
		return m.theme.Muted.Render("no length set")
	}
	return fmt.Sprintf("%d days", m.plan.SprintDays)
}

// leftWidth is the outer width of the list panel.
func (m Model) leftWidth() int {
	return max(32, m.width/3)
}

func (m Model) barWidth() int {
	// two borders and two padding columns on the board panel
	return max(ui.MinBarWidth, m.width-m.leftWidth()-4)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	listHeight := height - 4
	if m.mode != noInput {
		listHeight = height - 8
	}
	m.list.SetSize(m.leftWidth()-4, max(listHeight, 5))
}

// refresh rebuilds the list from the plan, keeping the cursor in range.
func (m *Model) refresh() {
	entries := make([]list.Item, 0, len(m.plan.People)+len(m.plan.WorkItems))
	for _, p := range m.plan.People {
		entries = append(entries, entry{kind: personEntry, person: p})
	}
	for _, it := range m.plan.WorkItems {
		entries = append(entries, entry{kind: itemEntry, item: it})
	}
	idx := m.list.Index()
	m.list.SetItems(entries)
	if n := len(entries); n > 0 && idx >= n {
		m.list.Select(n - 1)
	}
}

func (m *Model) openInput(mode inputMode, value, placeholder string) tea.Cmd {
	m.mode = mode
	m.inputErr = ""
	m.status = ""
	m.ti.Placeholder = placeholder
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	m.resize(m.width, m.height)
	return m.ti.Focus()
}

func (m *Model) closeInput() {
	m.mode = noInput
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize(m.width, m.height)
}

func (m *Model) submit() {
	value := strings.TrimSpace(m.ti.Value())
	var err error
	switch m.mode {
	case personInput:
		var name string
		var days int
		if name, days, err = plan.ParsePerson(value); err == nil {
			err = m.plan.AddPerson(name, days)
		}
		if err == nil {
			m.status = "added " + name
			m.logger.Info("person added", "name", name, "availableDays", days)
		}
	case itemInput:
		var item model.WorkItem
		if item, err = plan.ParseWorkItem(value); err == nil {
			err = m.plan.AddWorkItem(item)
		}
		if err == nil {
			m.status = "added " + item.Description
			m.logger.Info("work item added", "description", item.Description, "days", item.Days)
		}
	case daysInput:
		var days int
		if days, err = plan.ParseDays(value); err == nil {
			err = m.plan.SetSprintDays(days)
		}
		if err == nil {
			m.status = fmt.Sprintf("sprint is %d days", days)
			m.logger.Info("sprint length set", "days", days)
		}
	}
	if err != nil {
		m.inputErr = err.Error()
		return
	}
	m.changed = true
	m.closeInput()
	m.refresh()
}

func (m *Model) removeSelected() {
	e, ok := m.list.SelectedItem().(entry)
	if !ok {
		return
	}
	before := m.plan.Clone()
	removed := false
	name := ""
	switch e.kind {
	case personEntry:
		name = e.person.Name
		removed = m.plan.RemovePerson(name)
	case itemEntry:
		name = e.item.Description
		removed = m.plan.RemoveWorkItem(name)
	}
	if !removed {
		return
	}
	m.undo = before
	m.changed = true
	m.status = "removed " + name + ", u to undo"
	m.logger.Info("entry removed", "name", name)
	m.refresh()
}

func (m *Model) restore() {
	if m.undo == nil {
		return
	}
	m.plan.People = m.undo.People
	m.plan.WorkItems = m.undo.WorkItems
	m.plan.SprintDays = m.undo.SprintDays
	m.undo = nil
	m.changed = true
	m.status = "restored"
	m.logger.Info("undo")
	m.refresh()
}
