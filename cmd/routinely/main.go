package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/routinely/internal/cli"
	"github.com/julianstephens/routinely/internal/cli/backups"
	"github.com/julianstephens/routinely/internal/cli/catalog"
	"github.com/julianstephens/routinely/internal/cli/system"
	"github.com/julianstephens/routinely/internal/cli/tracking"
	"github.com/julianstephens/routinely/internal/constants"
	apperrors "github.com/julianstephens/routinely/internal/errors"
	"github.com/julianstephens/routinely/internal/keyring"
	"github.com/julianstephens/routinely/internal/logger"
	"github.com/julianstephens/routinely/internal/schedule"
	"github.com/julianstephens/routinely/internal/storage/postgres"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database path (.db or .json), PostgreSQL connection string, or 'keyring'. Overridden by ROUTINELY_DB_CONNECTION." default:"${config}"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize routinely storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Apply pending database migrations."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive calendar." default:"1"`

	Category catalog.CategoryCmd `cmd:"" help:"Manage categories."`
	Goal     catalog.GoalCmd     `cmd:"" help:"Manage goals."`
	Routine  catalog.RoutineCmd  `cmd:"" help:"Manage routines and their schedules."`

	Done     tracking.DoneCmd     `cmd:"" help:"Toggle a routine's completion for a day."`
	Skip     tracking.SkipCmd     `cmd:"" help:"Mark a routine as skipped for a day."`
	Status   tracking.StatusCmd   `cmd:"" help:"Show every routine's status for a day."`
	Due      tracking.DueCmd      `cmd:"" help:"List routines due on a day."`
	Week     tracking.WeekCmd     `cmd:"" help:"Show due counts for a week."`
	Month    tracking.MonthCmd    `cmd:"" help:"Show a month calendar with due counts."`
	Streak   tracking.StreakCmd   `cmd:"" help:"Show completion streaks."`
	Next     tracking.NextCmd     `cmd:"" help:"Show when a routine is next due."`
	Progress tracking.ProgressCmd `cmd:"" help:"Show completion rate over a date range."`

	Backup struct {
		Create  backups.CreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.ListCmd    `cmd:"" help:"List available backups."`
		Restore backups.RestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage SQLite database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is available."`
	} `cmd:"" help:"Manage the connection string kept in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Recurring routines, completions and streaks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"config":  constants.DefaultConfigPath,
			"horizon": strconv.Itoa(schedule.DefaultHorizonDays),
		},
	)

	command := strings.Fields(ctx.Command())[0]

	config, fromKeyring, err := resolveConfig(CLI.Config, command)
	if err != nil {
		apperrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir(config)}); err != nil {
		apperrors.Fatal(err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "version", constants.Version)

	// Keyring commands manage credentials and never touch the database.
	if command == "keyring" {
		apperrors.Fatal(ctx.Run(&cli.Context{Out: os.Stdout, In: os.Stdin}))
		return
	}

	newStore := cli.NewStore
	if fromKeyring {
		newStore = cli.NewStoreFromKeyring
	}
	store, err := newStore(config)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	// init and migrate open the store themselves.
	if command != "init" && command != "migrate" {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	apperrors.Fatal(ctx.Run(cli.NewContext(store)))
}

// resolveConfig applies the environment override, reads the keyring when
// asked to, and expands a leading ~ in file paths. fromKeyring reports
// whether the value came from the keyring.
func resolveConfig(flag, command string) (config string, fromKeyring bool, err error) {
	config = flag
	if env := os.Getenv(constants.EnvDBConnection); env != "" {
		config = env
	}

	if config == constants.KeyringConfigValue && command != "keyring" {
		connStr, err := keyring.Default.Get()
		if err != nil {
			return "", false, err
		}
		return connStr, true, nil
	}

	if postgres.IsConnString(config) {
		return config, false, nil
	}
	config, err = expandHome(config)
	return config, false, err
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// configDir is where logs live: next to a database file, or in the default
// config directory for PostgreSQL.
func configDir(config string) string {
	if !postgres.IsConnString(config) && config != constants.KeyringConfigValue {
		return filepath.Dir(config)
	}
	if def, err := expandHome(constants.DefaultConfigPath); err == nil {
		return filepath.Dir(def)
	}
	return "."
}
