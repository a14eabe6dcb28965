package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/routinely/internal/forms"
	"github.com/julianstephens/routinely/internal/models"
	"github.com/julianstephens/routinely/internal/storage"
	"github.com/julianstephens/routinely/internal/tracker"
	"github.com/julianstephens/routinely/internal/tui/components/daylist"
	"github.com/julianstephens/routinely/internal/tui/components/month"
)

type SessionState int

const (
	StateCalendar SessionState = iota
	StateDay
	StateEditing
)

type Model struct {
	store         storage.Provider
	tracker       *tracker.Tracker
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	month         month.Model
	day           daylist.Model
	form          *huh.Form
	scheduleForm  *forms.ScheduleFormModel
	editing       *models.Routine
	err           error
	notice        string
	quitting      bool
	width         int
	height        int
}

// NewModel opens on today's month with today's routines listed.
func NewModel(store storage.Provider, t *tracker.Tracker) Model {
	m := Model{
		store:   store,
		tracker: t,
		state:   StateCalendar,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		month:   month.New(t.Today()),
		day:     daylist.New(),
	}
	m.refresh()
	return m
}

// refresh reloads the due counts for the visible month and the cursor day's routines.
func (m *Model) refresh() {
	grid := m.month.Grid()
	counts, err := m.tracker.DueCounts(grid[:])
	if err != nil {
		m.err = err
		return
	}
	m.month.SetCounts(counts)

	cursor := m.month.Cursor()
	items, err := m.tracker.DueOn(cursor)
	if err != nil {
		m.err = err
		return
	}
	m.day.SetItems(cursor, items)
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateCalendar:
		keys = append(keys, m.month.Keys.PrevMonth, m.month.Keys.NextMonth)
	case StateDay:
		keys = append(keys, m.day.Keys.Toggle, m.day.Keys.Skip, m.day.Keys.Edit)
	case StateEditing:
		keys = []key.Binding{m.keys.Back}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	calendar := []key.Binding{
		m.month.Keys.Left, m.month.Keys.Right, m.month.Keys.Up, m.month.Keys.Down,
		m.month.Keys.PrevMonth, m.month.Keys.NextMonth, m.month.Keys.Today,
	}
	day := []key.Binding{m.day.Keys.Up, m.day.Keys.Down, m.day.Keys.Toggle, m.day.Keys.Skip, m.day.Keys.Edit}
	return [][]key.Binding{global, calendar, day}
}

func (m Model) Init() tea.Cmd {
	return nil
}
