package sqlstore

import (
	"fmt"

	"github.com/julianstephens/routinely/internal/models"
)

const goalColumns = "id, category_id, name, description, created_at"

func (d *DB) AddGoal(goal models.Goal) error {
	if err := d.ready(); err != nil {
		return err
	}
	if _, err := d.GetCategory(goal.CategoryID); err != nil {
		return err
	}
	taken, err := d.exists("SELECT 1 FROM goals WHERE name = ? AND id <> ?", goal.Name, goal.ID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("goal %q already exists", goal.Name)
	}

	_, err = d.exec(`
		INSERT INTO goals (id, category_id, name, description, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category_id = excluded.category_id,
			name = excluded.name,
			description = excluded.description`,
		goal.ID, goal.CategoryID, goal.Name, goal.Description, formatTime(goal.CreatedAt))
	return err
}

func scanGoal(row rowScanner) (models.Goal, error) {
	var g models.Goal
	var createdAt string
	if err := row.Scan(&g.ID, &g.CategoryID, &g.Name, &g.Description, &createdAt); err != nil {
		return models.Goal{}, err
	}
	var err error
	if g.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Goal{}, err
	}
	return g, nil
}

func (d *DB) GetGoal(id string) (models.Goal, error) {
	if err := d.ready(); err != nil {
		return models.Goal{}, err
	}
	g, err := scanGoal(d.queryRow("SELECT "+goalColumns+" FROM goals WHERE id = ?", id))
	if err != nil {
		return models.Goal{}, notFound(err, "goal "+id)
	}
	return g, nil
}

func (d *DB) GetGoalByName(name string) (models.Goal, error) {
	if err := d.ready(); err != nil {
		return models.Goal{}, err
	}
	g, err := scanGoal(d.queryRow("SELECT "+goalColumns+" FROM goals WHERE name = ?", name))
	if err != nil {
		return models.Goal{}, notFound(err, fmt.Sprintf("goal %q", name))
	}
	return g, nil
}

func (d *DB) listGoals(where string, args ...any) ([]models.Goal, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	rows, err := d.query("SELECT "+goalColumns+" FROM goals "+where+" ORDER BY created_at, name, id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (d *DB) GetGoalsForCategory(categoryID string) ([]models.Goal, error) {
	return d.listGoals("WHERE category_id = ?", categoryID)
}

func (d *DB) GetAllGoals() ([]models.Goal, error) {
	return d.listGoals("")
}

func (d *DB) DeleteGoal(id string) error {
	if err := d.ready(); err != nil {
		return err
	}
	hasRoutines, err := d.exists("SELECT 1 FROM routines WHERE goal_id = ? AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	if hasRoutines {
		return fmt.Errorf("goal still has routines")
	}

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Soft-deleted routines go with their goal.
	if _, err := tx.Exec(d.rebind(`
		DELETE FROM completions WHERE routine_id IN (
			SELECT id FROM routines WHERE goal_id = ? AND deleted_at IS NOT NULL
		)`), id); err != nil {
		return err
	}
	if _, err := tx.Exec(d.rebind("DELETE FROM routines WHERE goal_id = ? AND deleted_at IS NOT NULL"), id); err != nil {
		return err
	}

	result, err := tx.Exec(d.rebind("DELETE FROM goals WHERE id = ?"), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFoundID("goal", id)
	}
	return tx.Commit()
}
