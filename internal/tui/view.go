package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.state == StateEditing && m.form != nil {
		parts := []string{m.form.View()}
		if m.err != nil {
			parts = append(parts, errorStyle.Render(m.err.Error()))
		}
		parts = append(parts, m.help.View(m))
		return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	}

	calStyle, dayStyle := focusedPaneStyle, blurredPaneStyle
	if m.state == StateDay {
		calStyle, dayStyle = blurredPaneStyle, focusedPaneStyle
	}
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		calStyle.Render(m.month.View()),
		dayStyle.Render(m.day.View()),
	)

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		panes,
		m.viewStatus(),
		m.help.View(m),
	))
}

func (m Model) viewStatus() string {
	switch {
	case m.err != nil:
		return errorStyle.Render(m.err.Error())
	case m.notice != "":
		return infoStyle.Render(m.notice)
	}
	return ""
}
