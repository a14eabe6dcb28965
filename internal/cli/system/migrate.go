package system

import (
	"github.com/julianstephens/routinely/internal/cli"
	"github.com/julianstephens/routinely/internal/storage"
)

// MigrateCmd applies pending schema migrations to a SQL store.
type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*storage.JSONStore); ok {
		ctx.Println("JSON storage has no schema. Nothing to migrate.")
		return nil
	}

	// Init is idempotent for SQL stores and only applies missing migrations.
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	defer ctx.Store.Close()

	ctx.Printf("Database schema at %s is up to date.\n", ctx.Store.GetConfigPath())
	return nil
}
