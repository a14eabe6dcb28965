package tracking

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/routinely/internal/calendar"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	weekdayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cellStyle    = lipgloss.NewStyle().Width(7)
	outsideStyle = cellStyle.Foreground(lipgloss.Color("238"))
	todayStyle   = cellStyle.Bold(true).Foreground(lipgloss.Color("214"))
)

func errInvalidMonth(m int) error {
	return fmt.Errorf("invalid month %d (expected 1-12)", m)
}

// RenderMonth draws the 6x7 grid with the due count under each day.
func RenderMonth(year int, month time.Month, grid [calendar.GridSize]calendar.Date, counts map[calendar.Date]int, today calendar.Date) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %d", month, year)))
	b.WriteString("\n")

	var names []string
	for _, tag := range calendar.AllWeekdayTags() {
		names = append(names, cellStyle.Render(weekdayStyle.Render(string(tag))))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, names...))
	b.WriteString("\n")

	for row := 0; row < calendar.GridSize/7; row++ {
		cells := make([]string, 7)
		for col := 0; col < 7; col++ {
			d := grid[row*7+col]
			text := fmt.Sprintf("%2d", d.Day)
			if n := counts[d]; n > 0 {
				text += fmt.Sprintf(" ·%d", n)
			}

			style := cellStyle
			switch {
			case !calendar.InMonth(d, year, month):
				style = outsideStyle
			case d == today:
				style = todayStyle
			}
			cells[col] = style.Render(text)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		if row < calendar.GridSize/7-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
