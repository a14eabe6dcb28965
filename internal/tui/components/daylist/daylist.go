package daylist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/models"
	"github.com/julianstephens/routinely/internal/tracker"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	itemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	skippedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	reminderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type ToggleMsg struct {
	RoutineID string
	Day       calendar.Date
}

type SkipMsg struct {
	RoutineID string
	Day       calendar.Date
}

type EditScheduleMsg struct {
	Routine models.Routine
}

type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Skip   key.Binding
	Edit   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("x", "enter"),
			key.WithHelp("x/enter", "toggle done"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit schedule"),
		),
	}
}

// Model lists the routines due on one day with their status.
type Model struct {
	Keys   KeyMap
	day    calendar.Date
	items  []tracker.DueItem
	cursor int
}

func New() Model {
	return Model{Keys: DefaultKeyMap()}
}

// SetItems replaces the list. The cursor stays on the same row when possible.
func (m *Model) SetItems(day calendar.Date, items []tracker.DueItem) {
	if day != m.day {
		m.cursor = 0
	}
	m.day = day
	m.items = items
	if m.cursor >= len(items) {
		m.cursor = max(len(items)-1, 0)
	}
}

func (m Model) Day() calendar.Date {
	return m.day
}

func (m Model) Selected() (tracker.DueItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return tracker.DueItem{}, false
	}
	return m.items[m.cursor], true
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles list navigation and turns the action keys into messages for
// the parent model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.Keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.Keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.Keys.Toggle):
		if item, ok := m.Selected(); ok {
			day := m.day
			return m, func() tea.Msg { return ToggleMsg{RoutineID: item.Routine.ID, Day: day} }
		}
	case key.Matches(keyMsg, m.Keys.Skip):
		if item, ok := m.Selected(); ok {
			day := m.day
			return m, func() tea.Msg { return SkipMsg{RoutineID: item.Routine.ID, Day: day} }
		}
	case key.Matches(keyMsg, m.Keys.Edit):
		if item, ok := m.Selected(); ok {
			return m, func() tea.Msg { return EditScheduleMsg{Routine: item.Routine} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", m.day.Weekday(), m.day)))
	b.WriteString("\n")

	if len(m.items) == 0 {
		b.WriteString(itemStyle.Render("Nothing due."))
		return b.String()
	}

	for i, item := range m.items {
		line := mark(item.Status) + " " + item.Routine.Name
		if s := item.Routine.Schedule; s != nil && s.ReminderTime != "" {
			line += " " + reminderStyle.Render("@ "+s.ReminderTime)
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
		if i < len(m.items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func mark(s models.CompletionStatus) string {
	switch s {
	case models.StatusCompleted:
		return doneStyle.Render("✓")
	case models.StatusSkipped:
		return skippedStyle.Render("–")
	default:
		return "○"
	}
}
