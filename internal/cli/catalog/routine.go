package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/routinely/internal/cli"
	"github.com/julianstephens/routinely/internal/forms"
	"github.com/julianstephens/routinely/internal/models"
	"github.com/julianstephens/routinely/internal/schedule"
)

type RoutineCmd struct {
	Add      RoutineAddCmd      `cmd:"" help:"Add a routine to a goal."`
	List     RoutineListCmd     `cmd:"" help:"List routines." default:"1"`
	Schedule RoutineScheduleCmd `cmd:"" help:"Change a routine's schedule."`
	Delete   RoutineDeleteCmd   `cmd:"" help:"Delete a routine (soft delete)."`
	Restore  RoutineRestoreCmd  `cmd:"" help:"Restore a deleted routine."`
}

type RoutineAddCmd struct {
	Name        string `arg:"" help:"Routine name."`
	Goal        string `help:"Goal the routine belongs to." required:""`
	Description string `help:"Longer description."`
	Unscheduled bool   `help:"Add without a schedule; the routine is never due until one is set."`
	cli.ScheduleFlags `embed:""`
}

func (c *RoutineAddCmd) Run(ctx *cli.Context) error {
	goal, err := ctx.Store.GetGoalByName(c.Goal)
	if err != nil {
		return fmt.Errorf("goal %q not found: %w", c.Goal, err)
	}

	now := time.Now()
	routine := models.Routine{
		ID:          uuid.New().String(),
		GoalID:      goal.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !c.Unscheduled {
		s, err := c.ScheduleFlags.Schedule()
		if err != nil {
			return err
		}
		routine.Schedule = &s
	}

	if err := ctx.Store.AddRoutine(routine); err != nil {
		return fmt.Errorf("failed to add routine: %w", err)
	}
	ctx.Printf("✓ Added routine %s (%s)\n", c.Name, schedule.Describe(routine.Schedule))
	return nil
}

type RoutineListCmd struct {
	Deleted bool   `help:"Include deleted routines."`
	Goal    string `help:"Only list routines for this goal."`
}

func (c *RoutineListCmd) Run(ctx *cli.Context) error {
	var routines []models.Routine
	var err error
	if c.Goal != "" {
		goal, lookupErr := ctx.Store.GetGoalByName(c.Goal)
		if lookupErr != nil {
			return fmt.Errorf("goal %q not found: %w", c.Goal, lookupErr)
		}
		routines, err = ctx.Store.GetRoutinesForGoal(goal.ID)
	} else {
		routines, err = ctx.Store.GetAllRoutines(c.Deleted)
	}
	if err != nil {
		return fmt.Errorf("failed to list routines: %w", err)
	}

	if len(routines) == 0 {
		ctx.Println("No routines found.")
		return nil
	}

	goalNames := map[string]string{}
	for _, r := range routines {
		name := r.Name
		if r.DeletedAt != nil {
			name = "[DELETED] " + name
		}
		if _, ok := goalNames[r.GoalID]; !ok {
			goalNames[r.GoalID] = r.GoalID
			if g, err := ctx.Store.GetGoal(r.GoalID); err == nil {
				goalNames[r.GoalID] = g.Name
			}
		}
		ctx.Printf("%-24s %-16s %s\n", name, goalNames[r.GoalID], schedule.Describe(r.Schedule))
	}
	return nil
}

type RoutineScheduleCmd struct {
	Name        string `arg:"" help:"Routine name."`
	Interactive bool   `help:"Edit the schedule in a form." short:"i"`
	Clear       bool   `help:"Remove the schedule entirely."`
	cli.ScheduleFlags `embed:""`
}

func (c *RoutineScheduleCmd) Run(ctx *cli.Context) error {
	routine, err := ctx.Routine(c.Name)
	if err != nil {
		return err
	}

	switch {
	case c.Clear:
		routine.Schedule = nil
	case c.Interactive:
		fm := forms.FromSchedule(routine.Schedule)
		if err := forms.NewScheduleForm(routine.Name, fm).Run(); err != nil {
			return fmt.Errorf("schedule form: %w", err)
		}
		s, err := fm.Schedule()
		if err != nil {
			return err
		}
		routine.Schedule = &s
	default:
		s, err := c.ScheduleFlags.Schedule()
		if err != nil {
			return err
		}
		routine.Schedule = &s
	}

	routine.UpdatedAt = time.Now()
	if err := ctx.Store.UpdateRoutine(routine); err != nil {
		return fmt.Errorf("failed to update routine: %w", err)
	}
	ctx.Printf("✓ %s is now %s\n", routine.Name, schedule.Describe(routine.Schedule))
	return nil
}

type RoutineDeleteCmd struct {
	Name string `arg:"" help:"Routine name."`
}

func (c *RoutineDeleteCmd) Run(ctx *cli.Context) error {
	routine, err := ctx.Routine(c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteRoutine(routine.ID); err != nil {
		return fmt.Errorf("failed to delete routine: %w", err)
	}
	ctx.Printf("✓ Deleted routine %s (restore with 'routinely routine restore %s')\n", routine.Name, routine.Name)
	return nil
}

type RoutineRestoreCmd struct {
	Name string `arg:"" help:"Name of the deleted routine."`
}

var errNoDeletedRoutine = errors.New("no deleted routine with that name")

func (c *RoutineRestoreCmd) Run(ctx *cli.Context) error {
	routines, err := ctx.Store.GetAllRoutines(true)
	if err != nil {
		return fmt.Errorf("failed to list routines: %w", err)
	}

	// Most recently deleted first when several share the name.
	var target *models.Routine
	for i := range routines {
		r := &routines[i]
		if r.Name != c.Name || r.DeletedAt == nil {
			continue
		}
		if target == nil || r.DeletedAt.After(*target.DeletedAt) {
			target = r
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", errNoDeletedRoutine, c.Name)
	}

	if err := ctx.Store.RestoreRoutine(target.ID); err != nil {
		return fmt.Errorf("failed to restore routine: %w", err)
	}
	ctx.Printf("✓ Restored routine %s\n", target.Name)
	return nil
}
