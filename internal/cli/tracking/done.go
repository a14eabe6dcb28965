package tracking

import (
	"fmt"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/cli"
	"github.com/julianstephens/routinely/internal/logger"
	"github.com/julianstephens/routinely/internal/models"
)

// DoneCmd toggles a routine between completed and pending.
type DoneCmd struct {
	Name string        `arg:"" help:"Routine name."`
	Date calendar.Date `help:"Date to record (YYYY-MM-DD). Defaults to today."`
	Note string        `help:"Attach a note to the day's record."`
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	routine, err := ctx.Routine(c.Name)
	if err != nil {
		return err
	}
	day := ctx.Day(c.Date)

	rec, err := ctx.Tracker.Toggle(routine.ID, day)
	if err != nil {
		return err
	}
	if c.Note != "" {
		if rec, err = ctx.Tracker.SetNote(routine.ID, day, c.Note); err != nil {
			return err
		}
	}

	if rec.Status == models.StatusCompleted {
		ctx.Printf("✓ %s completed on %s\n", routine.Name, day)
		info, err := ctx.Tracker.Streak(routine.ID)
		if err != nil {
			logger.Debug("Failed to compute streak", "routine", routine.ID, "error", err)
			return nil
		}
		ctx.Printf("  🔥 %d day streak\n", info.CurrentStreak)
		return nil
	}
	ctx.Printf("○ %s marked pending on %s\n", routine.Name, day)
	return nil
}

type SkipCmd struct {
	Name string        `arg:"" help:"Routine name."`
	Date calendar.Date `help:"Date to record (YYYY-MM-DD). Defaults to today."`
	Note string        `help:"Why it was skipped."`
}

func (c *SkipCmd) Run(ctx *cli.Context) error {
	routine, err := ctx.Routine(c.Name)
	if err != nil {
		return err
	}
	day := ctx.Day(c.Date)

	if _, err := ctx.Tracker.Skip(routine.ID, day); err != nil {
		return err
	}
	if c.Note != "" {
		if _, err := ctx.Tracker.SetNote(routine.ID, day, c.Note); err != nil {
			return err
		}
	}
	ctx.Printf("– %s skipped on %s\n", routine.Name, day)
	return nil
}

// StatusCmd shows every active routine's status for a day, due or not.
type StatusCmd struct {
	Date calendar.Date `help:"Date to show (YYYY-MM-DD). Defaults to today."`
}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	day := ctx.Day(c.Date)
	routines, err := ctx.Store.GetAllRoutines(false)
	if err != nil {
		return fmt.Errorf("failed to list routines: %w", err)
	}
	if len(routines) == 0 {
		ctx.Println("No routines yet.")
		return nil
	}

	ctx.Printf("%s (%s)\n", day, day.Weekday())
	for _, r := range routines {
		status, err := ctx.Tracker.Status(r.ID, day)
		if err != nil {
			return err
		}
		ctx.Printf("  %s %s\n", cli.StatusMark(status), r.Name)
	}
	return nil
}
