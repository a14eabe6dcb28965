package sqlstore

import (
	"fmt"

	"github.com/julianstephens/routinely/internal/models"
)

func (d *DB) AddCategory(category models.Category) error {
	if err := d.ready(); err != nil {
		return err
	}
	taken, err := d.exists("SELECT 1 FROM categories WHERE name = ? AND id <> ?", category.Name, category.ID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("category %q already exists", category.Name)
	}

	_, err = d.exec(`
		INSERT INTO categories (id, name, color, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color`,
		category.ID, category.Name, category.Color, formatTime(category.CreatedAt))
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (models.Category, error) {
	var c models.Category
	var createdAt string
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &createdAt); err != nil {
		return models.Category{}, err
	}
	var err error
	if c.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

func (d *DB) GetCategory(id string) (models.Category, error) {
	if err := d.ready(); err != nil {
		return models.Category{}, err
	}
	c, err := scanCategory(d.queryRow("SELECT id, name, color, created_at FROM categories WHERE id = ?", id))
	if err != nil {
		return models.Category{}, notFound(err, "category "+id)
	}
	return c, nil
}

func (d *DB) GetCategoryByName(name string) (models.Category, error) {
	if err := d.ready(); err != nil {
		return models.Category{}, err
	}
	c, err := scanCategory(d.queryRow("SELECT id, name, color, created_at FROM categories WHERE name = ?", name))
	if err != nil {
		return models.Category{}, notFound(err, fmt.Sprintf("category %q", name))
	}
	return c, nil
}

func (d *DB) GetAllCategories() ([]models.Category, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	rows, err := d.query("SELECT id, name, color, created_at FROM categories ORDER BY created_at, name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (d *DB) DeleteCategory(id string) error {
	if err := d.ready(); err != nil {
		return err
	}
	hasGoals, err := d.exists("SELECT 1 FROM goals WHERE category_id = ?", id)
	if err != nil {
		return err
	}
	if hasGoals {
		return fmt.Errorf("category still has goals")
	}

	result, err := d.exec("DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFoundID("category", id)
	}
	return nil
}
