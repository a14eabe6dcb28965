package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/models"
)

const completionColumns = "id, routine_id, scheduled_date, status, completed_at, note, created_at, updated_at"

func scanCompletion(row rowScanner) (models.CompletionRecord, error) {
	var c models.CompletionRecord
	var day, status, createdAt, updatedAt string
	var completedAt sql.NullString

	if err := row.Scan(&c.ID, &c.RoutineID, &day, &status, &completedAt, &c.Note, &createdAt, &updatedAt); err != nil {
		return models.CompletionRecord{}, err
	}

	var err error
	if c.ScheduledDate, err = calendar.Parse(day); err != nil {
		return models.CompletionRecord{}, err
	}
	c.Status = models.CompletionStatus(status)
	if c.CompletedAt, err = parseNullTime("completed_at", completedAt); err != nil {
		return models.CompletionRecord{}, err
	}
	if c.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.CompletionRecord{}, err
	}
	if c.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.CompletionRecord{}, err
	}
	return c, nil
}

func (d *DB) GetCompletion(routineID string, day calendar.Date) (models.CompletionRecord, error) {
	if err := d.ready(); err != nil {
		return models.CompletionRecord{}, err
	}
	c, err := scanCompletion(d.queryRow(
		"SELECT "+completionColumns+" FROM completions WHERE routine_id = ? AND scheduled_date = ?",
		routineID, day.Key()))
	if err != nil {
		return models.CompletionRecord{}, notFound(err, fmt.Sprintf("completion for %s on %s", routineID, day))
	}
	return c, nil
}

func (d *DB) listCompletions(where string, args ...any) ([]models.CompletionRecord, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	rows, err := d.query("SELECT "+completionColumns+" FROM completions "+where+" ORDER BY scheduled_date DESC, routine_id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CompletionRecord
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, c)
	}
	return records, rows.Err()
}

func (d *DB) GetCompletionsForRoutine(routineID string) ([]models.CompletionRecord, error) {
	return d.listCompletions("WHERE routine_id = ?", routineID)
}

func (d *DB) GetCompletionsForDay(day calendar.Date) ([]models.CompletionRecord, error) {
	return d.listCompletions("WHERE scheduled_date = ?", day.Key())
}

func (d *DB) GetCompletionsInRange(start, end calendar.Date) ([]models.CompletionRecord, error) {
	return d.listCompletions("WHERE scheduled_date >= ? AND scheduled_date <= ?", start.Key(), end.Key())
}

func (d *DB) SaveCompletion(record models.CompletionRecord) error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := models.ValidateCompletion(record); err != nil {
		return err
	}

	_, err := d.exec(`
		INSERT INTO completions (`+completionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(routine_id, scheduled_date) DO UPDATE SET
			status = excluded.status,
			completed_at = excluded.completed_at,
			note = excluded.note,
			updated_at = excluded.updated_at`,
		record.ID, record.RoutineID, record.ScheduledDate.Key(), string(record.Status),
		nullTime(record.CompletedAt), record.Note, formatTime(record.CreatedAt), formatTime(record.UpdatedAt))
	return err
}

func (d *DB) DeleteCompletion(id string) error {
	if err := d.ready(); err != nil {
		return err
	}
	result, err := d.exec("DELETE FROM completions WHERE id = ?", id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFoundID("completion", id)
	}
	return nil
}
