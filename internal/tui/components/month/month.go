package month

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/routinely/internal/calendar"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	weekdayStyle = lipgloss.NewStyle().Width(7).Foreground(lipgloss.Color("240"))
	cellStyle    = lipgloss.NewStyle().Width(7)
	outsideStyle = cellStyle.Foreground(lipgloss.Color("238"))
	todayStyle   = cellStyle.Bold(true).Foreground(lipgloss.Color("214"))
	cursorStyle  = cellStyle.Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
)

type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev day"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev week"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next week"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next month"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
	}
}

// Model is a navigable 6x7 month grid with a due count on each day.
type Model struct {
	Keys   KeyMap
	cursor calendar.Date
	today  calendar.Date
	counts map[calendar.Date]int
}

func New(today calendar.Date) Model {
	return Model{
		Keys:   DefaultKeyMap(),
		cursor: today,
		today:  today,
		counts: map[calendar.Date]int{},
	}
}

func (m Model) Cursor() calendar.Date {
	return m.cursor
}

// Grid returns the dates shown for the cursor's month.
func (m Model) Grid() [calendar.GridSize]calendar.Date {
	return calendar.MonthGrid(m.cursor.Year, m.cursor.Month)
}

func (m *Model) SetCounts(counts map[calendar.Date]int) {
	m.counts = counts
}

// SetCursor moves the cursor to d. The grid follows the cursor's month.
func (m *Model) SetCursor(d calendar.Date) {
	m.cursor = d
}

// ShiftMonth moves the cursor n months, clamping the day to the target month's length.
func (m *Model) ShiftMonth(n int) {
	first := time.Date(m.cursor.Year, m.cursor.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	day := min(m.cursor.Day, calendar.DaysInMonth(first.Year(), first.Month()))
	m.cursor = calendar.New(first.Year(), first.Month(), day)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.Keys.Left):
		m.cursor = m.cursor.AddDays(-1)
	case key.Matches(keyMsg, m.Keys.Right):
		m.cursor = m.cursor.AddDays(1)
	case key.Matches(keyMsg, m.Keys.Up):
		m.cursor = m.cursor.AddDays(-7)
	case key.Matches(keyMsg, m.Keys.Down):
		m.cursor = m.cursor.AddDays(7)
	case key.Matches(keyMsg, m.Keys.PrevMonth):
		m.ShiftMonth(-1)
	case key.Matches(keyMsg, m.Keys.NextMonth):
		m.ShiftMonth(1)
	case key.Matches(keyMsg, m.Keys.Today):
		m.cursor = m.today
	}
	return m, nil
}

func (m Model) View() string {
	year, month := m.cursor.Year, m.cursor.Month
	grid := m.Grid()

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %d", month, year)))
	b.WriteString("\n")

	names := make([]string, 0, 7)
	for _, tag := range calendar.AllWeekdayTags() {
		names = append(names, weekdayStyle.Render(string(tag)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, names...))

	for row := 0; row < calendar.GridSize/7; row++ {
		cells := make([]string, 7)
		for col := range cells {
			d := grid[row*7+col]
			text := fmt.Sprintf("%2d", d.Day)
			if n := m.counts[d]; n > 0 {
				text += fmt.Sprintf(" ·%d", n)
			}

			style := cellStyle
			switch {
			case d == m.cursor:
				style = cursorStyle
			case !calendar.InMonth(d, year, month):
				style = outsideStyle
			case d == m.today:
				style = todayStyle
			}
			cells[col] = style.Render(text)
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return b.String()
}
