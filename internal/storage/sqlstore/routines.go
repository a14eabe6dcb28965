package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/models"
)

const routineColumns = `id, goal_id, name, description, frequency, enabled, days_of_week,
	day_of_month, reminder_time, created_at, updated_at, deleted_at`

// scheduleColumns flattens a schedule into its column values. A nil schedule
// is stored as a NULL frequency.
func scheduleColumns(s *models.Schedule) (sql.NullString, bool, string, sql.NullInt64, string) {
	if s == nil {
		return sql.NullString{}, false, "", sql.NullInt64{}, ""
	}
	days := make([]string, len(s.DaysOfWeek))
	for i, d := range s.DaysOfWeek {
		days[i] = string(d)
	}
	var dom sql.NullInt64
	if s.DayOfMonth != nil {
		dom = sql.NullInt64{Int64: int64(*s.DayOfMonth), Valid: true}
	}
	return sql.NullString{String: string(s.Frequency), Valid: true}, s.Enabled, strings.Join(days, ","), dom, s.ReminderTime
}

func scanRoutine(row rowScanner) (models.Routine, error) {
	var r models.Routine
	var frequency sql.NullString
	var enabled bool
	var days, reminder, createdAt, updatedAt string
	var dom sql.NullInt64
	var deletedAt sql.NullString

	err := row.Scan(&r.ID, &r.GoalID, &r.Name, &r.Description, &frequency, &enabled, &days,
		&dom, &reminder, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return models.Routine{}, err
	}

	if frequency.Valid {
		s := &models.Schedule{
			Frequency:    models.Frequency(frequency.String),
			Enabled:      enabled,
			ReminderTime: reminder,
		}
		if days != "" {
			for _, d := range strings.Split(days, ",") {
				s.DaysOfWeek = append(s.DaysOfWeek, calendar.WeekdayTag(d))
			}
		}
		if dom.Valid {
			day := int(dom.Int64)
			s.DayOfMonth = &day
		}
		r.Schedule = s
	}

	if r.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Routine{}, err
	}
	if r.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Routine{}, err
	}
	if r.DeletedAt, err = parseNullTime("deleted_at", deletedAt); err != nil {
		return models.Routine{}, err
	}
	return r, nil
}

func (d *DB) checkRoutineName(routine models.Routine) error {
	if routine.DeletedAt != nil {
		return nil
	}
	taken, err := d.exists("SELECT 1 FROM routines WHERE name = ? AND id <> ? AND deleted_at IS NULL", routine.Name, routine.ID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("routine %q already exists", routine.Name)
	}
	return nil
}

func (d *DB) AddRoutine(routine models.Routine) error {
	if err := d.ready(); err != nil {
		return err
	}
	if _, err := d.GetGoal(routine.GoalID); err != nil {
		return err
	}
	if err := d.checkRoutineName(routine); err != nil {
		return err
	}

	frequency, enabled, days, dom, reminder := scheduleColumns(routine.Schedule)
	_, err := d.exec(`
		INSERT INTO routines (`+routineColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			goal_id = excluded.goal_id,
			name = excluded.name,
			description = excluded.description,
			frequency = excluded.frequency,
			enabled = excluded.enabled,
			days_of_week = excluded.days_of_week,
			day_of_month = excluded.day_of_month,
			reminder_time = excluded.reminder_time,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at`,
		routine.ID, routine.GoalID, routine.Name, routine.Description, frequency, enabled, days,
		dom, reminder, formatTime(routine.CreatedAt), formatTime(routine.UpdatedAt), nullTime(routine.DeletedAt))
	return err
}

func (d *DB) GetRoutine(id string) (models.Routine, error) {
	if err := d.ready(); err != nil {
		return models.Routine{}, err
	}
	r, err := scanRoutine(d.queryRow("SELECT "+routineColumns+" FROM routines WHERE id = ? AND deleted_at IS NULL", id))
	if err != nil {
		return models.Routine{}, notFound(err, "routine "+id)
	}
	return r, nil
}

func (d *DB) GetRoutineByName(name string) (models.Routine, error) {
	if err := d.ready(); err != nil {
		return models.Routine{}, err
	}
	r, err := scanRoutine(d.queryRow("SELECT "+routineColumns+" FROM routines WHERE name = ? AND deleted_at IS NULL", name))
	if err != nil {
		return models.Routine{}, notFound(err, fmt.Sprintf("routine %q", name))
	}
	return r, nil
}

func (d *DB) listRoutines(where string, args ...any) ([]models.Routine, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	rows, err := d.query("SELECT "+routineColumns+" FROM routines "+where+" ORDER BY created_at, name, id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routines []models.Routine
	for rows.Next() {
		r, err := scanRoutine(rows)
		if err != nil {
			return nil, err
		}
		routines = append(routines, r)
	}
	return routines, rows.Err()
}

func (d *DB) GetAllRoutines(includeDeleted bool) ([]models.Routine, error) {
	if includeDeleted {
		return d.listRoutines("")
	}
	return d.listRoutines("WHERE deleted_at IS NULL")
}

func (d *DB) GetRoutinesForGoal(goalID string) ([]models.Routine, error) {
	return d.listRoutines("WHERE goal_id = ? AND deleted_at IS NULL", goalID)
}

func (d *DB) UpdateRoutine(routine models.Routine) error {
	if err := d.ready(); err != nil {
		return err
	}
	if routine.DeletedAt == nil {
		if err := d.checkRoutineName(routine); err != nil {
			return err
		}
	}

	frequency, enabled, days, dom, reminder := scheduleColumns(routine.Schedule)
	result, err := d.exec(`
		UPDATE routines SET
			goal_id = ?, name = ?, description = ?, frequency = ?, enabled = ?,
			days_of_week = ?, day_of_month = ?, reminder_time = ?, updated_at = ?, deleted_at = ?
		WHERE id = ?`,
		routine.GoalID, routine.Name, routine.Description, frequency, enabled,
		days, dom, reminder, formatTime(routine.UpdatedAt), nullTime(routine.DeletedAt), routine.ID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFoundID("routine", routine.ID)
	}
	return nil
}

func (d *DB) DeleteRoutine(id string) error {
	if err := d.ready(); err != nil {
		return err
	}
	result, err := d.exec("UPDATE routines SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("routine not found or already deleted")
	}
	return nil
}

func (d *DB) RestoreRoutine(id string) error {
	if err := d.ready(); err != nil {
		return err
	}
	var name string
	err := d.queryRow("SELECT name FROM routines WHERE id = ? AND deleted_at IS NOT NULL", id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("routine not found or not deleted")
	}
	if err != nil {
		return err
	}
	if err := d.checkRoutineName(models.Routine{ID: id, Name: name}); err != nil {
		return err
	}

	_, err = d.exec("UPDATE routines SET deleted_at = NULL WHERE id = ?", id)
	return err
}
