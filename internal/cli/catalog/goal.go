package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/routinely/internal/cli"
	"github.com/julianstephens/routinely/internal/models"
)

type GoalCmd struct {
	Add    GoalAddCmd    `cmd:"" help:"Add a goal to a category."`
	List   GoalListCmd   `cmd:"" help:"List goals." default:"1"`
	Delete GoalDeleteCmd `cmd:"" help:"Delete a goal without active routines."`
}

type GoalAddCmd struct {
	Name        string `arg:"" help:"Goal name."`
	Category    string `help:"Category the goal belongs to." required:""`
	Description string `help:"Longer description."`
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	category, err := ctx.Store.GetCategoryByName(c.Category)
	if err != nil {
		return fmt.Errorf("category %q not found: %w", c.Category, err)
	}
	goal := models.Goal{
		ID:          uuid.New().String(),
		CategoryID:  category.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   time.Now(),
	}
	if err := ctx.Store.AddGoal(goal); err != nil {
		return fmt.Errorf("failed to add goal: %w", err)
	}
	ctx.Printf("✓ Added goal %s to %s\n", c.Name, category.Name)
	return nil
}

type GoalListCmd struct {
	Category string `help:"Only list goals in this category."`
}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	var goals []models.Goal
	var err error
	if c.Category != "" {
		category, lookupErr := ctx.Store.GetCategoryByName(c.Category)
		if lookupErr != nil {
			return fmt.Errorf("category %q not found: %w", c.Category, lookupErr)
		}
		goals, err = ctx.Store.GetGoalsForCategory(category.ID)
	} else {
		goals, err = ctx.Store.GetAllGoals()
	}
	if err != nil {
		return fmt.Errorf("failed to list goals: %w", err)
	}

	if len(goals) == 0 {
		ctx.Println("No goals found.")
		return nil
	}
	for _, g := range goals {
		routines, err := ctx.Store.GetRoutinesForGoal(g.ID)
		if err != nil {
			return fmt.Errorf("failed to list routines: %w", err)
		}
		ctx.Printf("%s (%d routines)\n", g.Name, len(routines))
		if g.Description != "" {
			ctx.Printf("  %s\n", g.Description)
		}
	}
	return nil
}

type GoalDeleteCmd struct {
	Name string `arg:"" help:"Goal name."`
}

func (c *GoalDeleteCmd) Run(ctx *cli.Context) error {
	goal, err := ctx.Store.GetGoalByName(c.Name)
	if err != nil {
		return fmt.Errorf("goal %q not found: %w", c.Name, err)
	}
	if err := ctx.Store.DeleteGoal(goal.ID); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	ctx.Printf("✓ Deleted goal %s\n", c.Name)
	return nil
}
