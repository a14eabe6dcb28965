package tracking

import (
	"time"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/cli"
	"github.com/julianstephens/routinely/internal/models"
)

type DueCmd struct {
	Date calendar.Date `help:"Date to show (YYYY-MM-DD). Defaults to today."`
}

func (c *DueCmd) Run(ctx *cli.Context) error {
	day := ctx.Day(c.Date)
	items, err := ctx.Tracker.DueOn(day)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		ctx.Printf("Nothing due on %s.\n", day)
		return nil
	}

	done := 0
	ctx.Printf("Due on %s (%s):\n", day, day.Weekday())
	for _, item := range items {
		line := "  " + cli.StatusMark(item.Status) + " " + item.Routine.Name
		if item.Routine.Schedule != nil && item.Routine.Schedule.ReminderTime != "" {
			line += " @ " + item.Routine.Schedule.ReminderTime
		}
		ctx.Println(line)
		if item.Status == models.StatusCompleted {
			done++
		}
	}
	ctx.Printf("\n%d/%d done\n", done, len(items))
	return nil
}

// WeekCmd lists due counts for the Sunday-first week containing the date.
type WeekCmd struct {
	Date calendar.Date `help:"Any date in the week (YYYY-MM-DD). Defaults to today."`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	day := ctx.Day(c.Date)
	week := calendar.DatesOfWeek(calendar.StartOfWeek(day))
	counts, err := ctx.Tracker.DueCounts(week[:])
	if err != nil {
		return err
	}

	today := ctx.Tracker.Today()
	for _, d := range week {
		marker := " "
		if d == today {
			marker = "*"
		}
		ctx.Printf("%s %s %s  %d due\n", marker, d.Weekday().String()[:3], d, counts[d])
	}
	return nil
}

type MonthCmd struct {
	Year  int `help:"Year. Defaults to the current year."`
	Month int `help:"Month (1-12). Defaults to the current month."`
}

func (c *MonthCmd) Run(ctx *cli.Context) error {
	today := ctx.Tracker.Today()
	year, month := today.Year, today.Month
	if c.Year != 0 {
		year = c.Year
	}
	if c.Month != 0 {
		if c.Month < 1 || c.Month > 12 {
			return errInvalidMonth(c.Month)
		}
		month = time.Month(c.Month)
	}

	grid := calendar.MonthGrid(year, month)
	counts, err := ctx.Tracker.DueCounts(grid[:])
	if err != nil {
		return err
	}
	ctx.Println(RenderMonth(year, month, grid, counts, today))
	return nil
}
