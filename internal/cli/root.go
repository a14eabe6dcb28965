package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/routinely/internal/backup"
	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/logger"
	"github.com/julianstephens/routinely/internal/models"
	"github.com/julianstephens/routinely/internal/schedule"
	"github.com/julianstephens/routinely/internal/storage"
	"github.com/julianstephens/routinely/internal/storage/postgres"
	"github.com/julianstephens/routinely/internal/storage/sqlite"
	"github.com/julianstephens/routinely/internal/tracker"
)

// Context is passed to every command's Run method.
type Context struct {
	Store   storage.Provider
	Tracker *tracker.Tracker
	Out     io.Writer
	In      io.Reader
}

func NewContext(store storage.Provider) *Context {
	return &Context{
		Store:   store,
		Tracker: tracker.New(store, calendar.Today),
		Out:     os.Stdout,
		In:      os.Stdin,
	}
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// PerformAutomaticBackup backs up file-based SQLite stores and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	path := c.Store.GetConfigPath()
	if !strings.HasSuffix(path, ".db") {
		return
	}
	if _, err := backup.NewManager(path).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Day returns d, or the tracker's today when d is zero.
func (c *Context) Day(d calendar.Date) calendar.Date {
	if d.IsZero() {
		return c.Tracker.Today()
	}
	return d
}

// Routine looks up an active routine by name.
func (c *Context) Routine(name string) (models.Routine, error) {
	r, err := c.Store.GetRoutineByName(name)
	if err != nil {
		return models.Routine{}, fmt.Errorf("routine %q not found: %w", name, err)
	}
	return r, nil
}

// ParseWeekdays parses a comma-separated list of weekday names or numbers.
func ParseWeekdays(s string) ([]calendar.WeekdayTag, error) {
	var tags []calendar.WeekdayTag
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		tag, err := calendar.ParseWeekdayTag(part)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// ScheduleFlags are shared by "routine add" and "routine schedule".
type ScheduleFlags struct {
	Frequency  string `help:"How often the routine is due." enum:"daily,weekly,monthly" default:"daily"`
	Days       string `help:"Comma-separated weekdays for weekly routines (e.g. mon,wed,fri)."`
	DayOfMonth int    `help:"Day of month (1-31) for monthly routines." name:"day-of-month"`
	Reminder   string `help:"Reminder time (HH:MM)."`
	Disabled   bool   `help:"Store the schedule but never mark the routine due."`
}

// Schedule builds and validates the schedule described by the flags.
func (f ScheduleFlags) Schedule() (models.Schedule, error) {
	s := models.Schedule{
		Frequency:    models.Frequency(f.Frequency),
		Enabled:      !f.Disabled,
		ReminderTime: f.Reminder,
	}
	switch s.Frequency {
	case models.FrequencyWeekly:
		days, err := ParseWeekdays(f.Days)
		if err != nil {
			return models.Schedule{}, err
		}
		s.DaysOfWeek = days
	case models.FrequencyMonthly:
		if f.DayOfMonth != 0 {
			day := f.DayOfMonth
			s.DayOfMonth = &day
		}
	}
	if err := schedule.Validate(s); err != nil {
		return models.Schedule{}, fmt.Errorf("invalid schedule: %w", err)
	}
	return s, nil
}

// StatusMark renders a completion status as a single glyph.
func StatusMark(s models.CompletionStatus) string {
	switch s {
	case models.StatusCompleted:
		return "✓"
	case models.StatusSkipped:
		return "–"
	default:
		return "○"
	}
}

// NewStore picks the backend for config: a PostgreSQL connection string, a
// .json file, or otherwise a SQLite database path. Connection strings with
// embedded passwords are refused.
func NewStore(config string) (storage.Provider, error) {
	return newStore(config, false)
}

// NewStoreFromKeyring is NewStore for a connection string read from the OS
// keyring, where embedded passwords are allowed.
func NewStoreFromKeyring(config string) (storage.Provider, error) {
	return newStore(config, true)
}

func newStore(config string, allowCredentials bool) (storage.Provider, error) {
	switch {
	case postgres.IsConnString(config):
		if err := postgres.ValidateConnString(config); err != nil {
			if !allowCredentials || !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, err
			}
		}
		return postgres.New(config), nil
	case strings.HasSuffix(strings.ToLower(config), ".json"):
		return storage.NewJSONStore(config), nil
	default:
		return sqlite.NewStore(config), nil
	}
}
