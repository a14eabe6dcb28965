package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/routinely/internal/forms"
	"github.com/julianstephens/routinely/internal/models"
	"github.com/julianstephens/routinely/internal/tui/components/daylist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateEditing {
		return m.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case daylist.ToggleMsg:
		m.clearStatus()
		rec, err := m.tracker.Toggle(msg.RoutineID, msg.Day)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.notice = fmt.Sprintf("Marked %s on %s", rec.Status, msg.Day)
		m.refresh()

	case daylist.SkipMsg:
		m.clearStatus()
		if _, err := m.tracker.Skip(msg.RoutineID, msg.Day); err != nil {
			m.err = err
			return m, nil
		}
		m.notice = fmt.Sprintf("Skipped on %s", msg.Day)
		m.refresh()

	case daylist.EditScheduleMsg:
		return m.openScheduleForm(msg.Routine)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			if m.state == StateCalendar {
				m.state = StateDay
			} else {
				m.state = StateCalendar
			}
			return m, nil
		}

		var cmd tea.Cmd
		if m.state == StateDay || m.isDayAction(msg) {
			m.day, cmd = m.day.Update(msg)
			return m, cmd
		}

		before := m.month.Cursor()
		m.month, cmd = m.month.Update(msg)
		if m.month.Cursor() != before {
			m.clearStatus()
			m.refresh()
		}
		return m, cmd
	}

	return m, nil
}

// isDayAction reports whether msg acts on the selected routine, which works
// from either pane.
func (m Model) isDayAction(msg tea.KeyMsg) bool {
	return key.Matches(msg, m.day.Keys.Toggle, m.day.Keys.Skip, m.day.Keys.Edit)
}

func (m *Model) clearStatus() {
	m.err = nil
	m.notice = ""
}

func (m Model) openScheduleForm(r models.Routine) (tea.Model, tea.Cmd) {
	m.clearStatus()
	m.editing = &r
	m.scheduleForm = forms.FromSchedule(r.Schedule)
	m.form = forms.NewScheduleForm(r.Name, m.scheduleForm)
	m.previousState = m.state
	m.state = StateEditing
	return m, m.form.Init()
}

func (m Model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.saveSchedule(); err != nil {
			// Stay in the form so the user can fix the input or cancel.
			m.err = err
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.notice = fmt.Sprintf("Updated schedule for %s", m.editing.Name)
		m.closeForm()
		m.refresh()
	case huh.StateAborted:
		m.closeForm()
	}
	return m, cmd
}

func (m *Model) saveSchedule() error {
	s, err := m.scheduleForm.Schedule()
	if err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}
	r := *m.editing
	r.Schedule = &s
	r.UpdatedAt = time.Now()
	if err := m.store.UpdateRoutine(r); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}

func (m *Model) closeForm() {
	m.state = m.previousState
	m.form = nil
	m.scheduleForm = nil
}
