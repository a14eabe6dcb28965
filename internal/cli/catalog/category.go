package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/routinely/internal/cli"
	"github.com/julianstephens/routinely/internal/models"
)

type CategoryCmd struct {
	Add    CategoryAddCmd    `cmd:"" help:"Add a category."`
	List   CategoryListCmd   `cmd:"" help:"List categories." default:"1"`
	Delete CategoryDeleteCmd `cmd:"" help:"Delete an empty category."`
}

type CategoryAddCmd struct {
	Name  string `arg:"" help:"Category name."`
	Color string `help:"Display color (e.g. #22aa66)."`
}

func (c *CategoryAddCmd) Run(ctx *cli.Context) error {
	category := models.Category{
		ID:        uuid.New().String(),
		Name:      c.Name,
		Color:     c.Color,
		CreatedAt: time.Now(),
	}
	if err := ctx.Store.AddCategory(category); err != nil {
		return fmt.Errorf("failed to add category: %w", err)
	}
	ctx.Printf("✓ Added category %s\n", c.Name)
	return nil
}

type CategoryListCmd struct{}

func (c *CategoryListCmd) Run(ctx *cli.Context) error {
	categories, err := ctx.Store.GetAllCategories()
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	if len(categories) == 0 {
		ctx.Println("No categories yet. Add one with 'routinely category add NAME'.")
		return nil
	}
	for _, cat := range categories {
		goals, err := ctx.Store.GetGoalsForCategory(cat.ID)
		if err != nil {
			return fmt.Errorf("failed to list goals: %w", err)
		}
		ctx.Printf("%s (%d goals)\n", cat.Name, len(goals))
	}
	return nil
}

type CategoryDeleteCmd struct {
	Name string `arg:"" help:"Category name."`
}

func (c *CategoryDeleteCmd) Run(ctx *cli.Context) error {
	category, err := ctx.Store.GetCategoryByName(c.Name)
	if err != nil {
		return fmt.Errorf("category %q not found: %w", c.Name, err)
	}
	if err := ctx.Store.DeleteCategory(category.ID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	ctx.Printf("✓ Deleted category %s\n", c.Name)
	return nil
}
