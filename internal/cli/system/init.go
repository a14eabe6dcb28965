package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/routinely/internal/cli"
	"github.com/julianstephens/routinely/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete the existing database file before initializing."`
	Source string `help:"Database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized routinely storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		source, err := cli.NewStore(c.Source)
		if err != nil {
			return err
		}
		if err := source.Load(); err != nil {
			return fmt.Errorf("failed to load source database: %w", err)
		}
		defer source.Close()

		if err := copyData(ctx, source, ctx.Store); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if abs, err := filepath.Abs(dbPath); err == nil {
		dbPath = abs
	}
	if c.Source != "" {
		if abs, err := filepath.Abs(c.Source); err == nil && abs == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// copyData copies the whole catalog, including soft-deleted routines, and
// every completion record from src to dst.
func copyData(ctx *cli.Context, src, dst storage.Provider) error {
	categories, err := src.GetAllCategories()
	if err != nil {
		return fmt.Errorf("failed to get categories from source: %w", err)
	}
	for _, cat := range categories {
		if err := dst.AddCategory(cat); err != nil {
			return fmt.Errorf("failed to add category %s: %w", cat.ID, err)
		}
	}
	ctx.Printf("  Migrated %d categories\n", len(categories))

	goals, err := src.GetAllGoals()
	if err != nil {
		return fmt.Errorf("failed to get goals from source: %w", err)
	}
	for _, goal := range goals {
		if err := dst.AddGoal(goal); err != nil {
			return fmt.Errorf("failed to add goal %s: %w", goal.ID, err)
		}
	}
	ctx.Printf("  Migrated %d goals\n", len(goals))

	routines, err := src.GetAllRoutines(true)
	if err != nil {
		return fmt.Errorf("failed to get routines from source: %w", err)
	}
	for _, r := range routines {
		if err := dst.AddRoutine(r); err != nil {
			return fmt.Errorf("failed to add routine %s: %w", r.ID, err)
		}
	}
	ctx.Printf("  Migrated %d routines\n", len(routines))

	count := 0
	for _, r := range routines {
		records, err := src.GetCompletionsForRoutine(r.ID)
		if err != nil {
			return fmt.Errorf("failed to get completions for routine %s: %w", r.ID, err)
		}
		for _, rec := range records {
			if err := dst.SaveCompletion(rec); err != nil {
				return fmt.Errorf("failed to save completion %s: %w", rec.ID, err)
			}
		}
		count += len(records)
	}
	ctx.Printf("  Migrated %d completions\n", count)
	return nil
}
