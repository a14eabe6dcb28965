package tracking

import (
	"fmt"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/cli"
	"github.com/julianstephens/routinely/internal/models"
	"github.com/julianstephens/routinely/internal/schedule"
)

// StreakCmd shows streaks for one routine, or every active routine.
type StreakCmd struct {
	Name string `arg:"" optional:"" help:"Routine name. Omit for all routines."`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	var routines []models.Routine
	if c.Name != "" {
		r, err := ctx.Routine(c.Name)
		if err != nil {
			return err
		}
		routines = []models.Routine{r}
	} else {
		all, err := ctx.Store.GetAllRoutines(false)
		if err != nil {
			return fmt.Errorf("failed to list routines: %w", err)
		}
		routines = all
	}

	if len(routines) == 0 {
		ctx.Println("No routines yet.")
		return nil
	}

	for _, r := range routines {
		info, err := ctx.Tracker.Streak(r.ID)
		if err != nil {
			return err
		}
		last := "never"
		if info.LastCompletedDate != nil {
			last = info.LastCompletedDate.String()
		}
		ctx.Printf("%-24s current %3d  longest %3d  total %4d  last %s\n",
			r.Name, info.CurrentStreak, info.LongestStreak, info.TotalCompletions, last)
	}
	return nil
}

type NextCmd struct {
	Name    string        `arg:"" help:"Routine name."`
	From    calendar.Date `help:"Search from this date (YYYY-MM-DD). Defaults to today."`
	Horizon int           `help:"Days to search." default:"${horizon}"`
}

func (c *NextCmd) Run(ctx *cli.Context) error {
	routine, err := ctx.Routine(c.Name)
	if err != nil {
		return err
	}
	from := ctx.Day(c.From)

	next, ok, err := ctx.Tracker.Next(routine.ID, from, c.Horizon)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Printf("%s is not due within %d days of %s (%s)\n", routine.Name, c.Horizon, from, schedule.Describe(routine.Schedule))
		return nil
	}
	ctx.Printf("%s is next due on %s (%s, in %d days)\n", routine.Name, next, next.Weekday(), calendar.DaysBetween(next, from))
	return nil
}

// ProgressCmd reports completion rate over due days. The default range is the
// 30 days ending today.
type ProgressCmd struct {
	Name string        `arg:"" help:"Routine name."`
	From calendar.Date `help:"First day (YYYY-MM-DD)."`
	To   calendar.Date `help:"Last day (YYYY-MM-DD). Defaults to today."`
}

func (c *ProgressCmd) Run(ctx *cli.Context) error {
	routine, err := ctx.Routine(c.Name)
	if err != nil {
		return err
	}
	to := ctx.Day(c.To)
	from := c.From
	if from.IsZero() {
		from = to.AddDays(-29)
	}

	p, err := ctx.Tracker.Progress(routine.ID, from, to)
	if err != nil {
		return err
	}
	ctx.Printf("%s: %s to %s\n", routine.Name, p.From, p.To)
	ctx.Printf("  due %d  completed %d  skipped %d  rate %.0f%%\n", p.Due, p.Completed, p.Skipped, p.Rate*100)
	return nil
}
