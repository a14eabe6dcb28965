package storage

import (
	"errors"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/models"
)

// ErrNotFound is returned (possibly wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrNotInitialized is returned by Load when the database has not been created yet.
var ErrNotInitialized = errors.New("storage not initialized")

// Provider is the completion store and routine catalog. Implementations keep
// at most one completion record per (routine, date).
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Categories
	AddCategory(models.Category) error
	GetCategory(id string) (models.Category, error)
	GetCategoryByName(name string) (models.Category, error)
	GetAllCategories() ([]models.Category, error)
	DeleteCategory(id string) error

	// Goals
	AddGoal(models.Goal) error
	GetGoal(id string) (models.Goal, error)
	GetGoalByName(name string) (models.Goal, error)
	GetGoalsForCategory(categoryID string) ([]models.Goal, error)
	GetAllGoals() ([]models.Goal, error)
	DeleteGoal(id string) error

	// Routines
	AddRoutine(models.Routine) error
	GetRoutine(id string) (models.Routine, error)
	GetRoutineByName(name string) (models.Routine, error)
	GetAllRoutines(includeDeleted bool) ([]models.Routine, error)
	GetRoutinesForGoal(goalID string) ([]models.Routine, error)
	UpdateRoutine(models.Routine) error
	DeleteRoutine(id string) error
	RestoreRoutine(id string) error

	// Completions
	GetCompletion(routineID string, day calendar.Date) (models.CompletionRecord, error)
	GetCompletionsForRoutine(routineID string) ([]models.CompletionRecord, error)
	GetCompletionsForDay(day calendar.Date) ([]models.CompletionRecord, error)
	GetCompletionsInRange(start, end calendar.Date) ([]models.CompletionRecord, error)
	// SaveCompletion inserts the record or, if one already exists for the
	// same routine and date, updates it in place keeping the existing ID.
	SaveCompletion(models.CompletionRecord) error
	DeleteCompletion(id string) error

	// Utils
	GetConfigPath() string
}
