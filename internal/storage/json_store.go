package storage

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/logger"
	"github.com/julianstephens/routinely/internal/models"
)

// Store is the on-disk document of a JSONStore.
type Store struct {
	Version     int                                `json:"version"`
	Categories  map[string]models.Category         `json:"categories"`
	Goals       map[string]models.Goal             `json:"goals"`
	Routines    map[string]models.Routine          `json:"routines"`
	Completions map[string]models.CompletionRecord `json:"completions"` // keyed by completionKey
}

// JSONStore keeps everything in a single JSON file on the local device.
type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func completionKey(routineID string, day calendar.Date) string {
	return routineID + "|" + day.String()
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &Store{Version: 1}
	s.ensureMaps()
	return s.save()
}

func (s *JSONStore) Load() error {
	if s.store != nil {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		s.store = nil
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	s.ensureMaps()

	logger.Debug("Loaded JSON store", "path", s.path, "routines", len(s.store.Routines), "completions", len(s.store.Completions))
	return nil
}

func (s *JSONStore) ensureMaps() {
	if s.store.Categories == nil {
		s.store.Categories = make(map[string]models.Category)
	}
	if s.store.Goals == nil {
		s.store.Goals = make(map[string]models.Goal)
	}
	if s.store.Routines == nil {
		s.store.Routines = make(map[string]models.Routine)
	}
	if s.store.Completions == nil {
		s.store.Completions = make(map[string]models.CompletionRecord)
	}
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	// Replace the file atomically via rename.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) loaded() error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

// Categories

func (s *JSONStore) AddCategory(category models.Category) error {
	if err := s.loaded(); err != nil {
		return err
	}
	for _, c := range s.store.Categories {
		if c.Name == category.Name && c.ID != category.ID {
			return fmt.Errorf("category %q already exists", category.Name)
		}
	}
	s.store.Categories[category.ID] = category
	return s.save()
}

func (s *JSONStore) GetCategory(id string) (models.Category, error) {
	if err := s.loaded(); err != nil {
		return models.Category{}, err
	}
	c, ok := s.store.Categories[id]
	if !ok {
		return models.Category{}, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return c, nil
}

func (s *JSONStore) GetCategoryByName(name string) (models.Category, error) {
	if err := s.loaded(); err != nil {
		return models.Category{}, err
	}
	for _, c := range s.store.Categories {
		if c.Name == name {
			return c, nil
		}
	}
	return models.Category{}, fmt.Errorf("category %q: %w", name, ErrNotFound)
}

func (s *JSONStore) GetAllCategories() ([]models.Category, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	categories := make([]models.Category, 0, len(s.store.Categories))
	for _, c := range s.store.Categories {
		categories = append(categories, c)
	}
	slices.SortFunc(categories, func(a, b models.Category) int {
		return byCreation(a.CreatedAt, b.CreatedAt, a.Name, b.Name, a.ID, b.ID)
	})
	return categories, nil
}

func (s *JSONStore) DeleteCategory(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Categories[id]; !ok {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	for _, g := range s.store.Goals {
		if g.CategoryID == id {
			return fmt.Errorf("category still has goals")
		}
	}
	delete(s.store.Categories, id)
	return s.save()
}

// Goals

func (s *JSONStore) AddGoal(goal models.Goal) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Categories[goal.CategoryID]; !ok {
		return fmt.Errorf("category %s: %w", goal.CategoryID, ErrNotFound)
	}
	for _, g := range s.store.Goals {
		if g.Name == goal.Name && g.ID != goal.ID {
			return fmt.Errorf("goal %q already exists", goal.Name)
		}
	}
	s.store.Goals[goal.ID] = goal
	return s.save()
}

func (s *JSONStore) GetGoal(id string) (models.Goal, error) {
	if err := s.loaded(); err != nil {
		return models.Goal{}, err
	}
	g, ok := s.store.Goals[id]
	if !ok {
		return models.Goal{}, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	return g, nil
}

func (s *JSONStore) GetGoalByName(name string) (models.Goal, error) {
	if err := s.loaded(); err != nil {
		return models.Goal{}, err
	}
	for _, g := range s.store.Goals {
		if g.Name == name {
			return g, nil
		}
	}
	return models.Goal{}, fmt.Errorf("goal %q: %w", name, ErrNotFound)
}

func (s *JSONStore) GetGoalsForCategory(categoryID string) ([]models.Goal, error) {
	goals, err := s.GetAllGoals()
	if err != nil {
		return nil, err
	}
	var filtered []models.Goal
	for _, g := range goals {
		if g.CategoryID == categoryID {
			filtered = append(filtered, g)
		}
	}
	return filtered, nil
}

func (s *JSONStore) GetAllGoals() ([]models.Goal, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	goals := make([]models.Goal, 0, len(s.store.Goals))
	for _, g := range s.store.Goals {
		goals = append(goals, g)
	}
	slices.SortFunc(goals, func(a, b models.Goal) int {
		return byCreation(a.CreatedAt, b.CreatedAt, a.Name, b.Name, a.ID, b.ID)
	})
	return goals, nil
}

func (s *JSONStore) DeleteGoal(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Goals[id]; !ok {
		return fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	for _, r := range s.store.Routines {
		if r.GoalID == id && r.DeletedAt == nil {
			return fmt.Errorf("goal still has routines")
		}
	}
	// Soft-deleted routines go with their goal.
	for routineID, r := range s.store.Routines {
		if r.GoalID != id {
			continue
		}
		for key, c := range s.store.Completions {
			if c.RoutineID == routineID {
				delete(s.store.Completions, key)
			}
		}
		delete(s.store.Routines, routineID)
	}
	delete(s.store.Goals, id)
	return s.save()
}

// Routines

func (s *JSONStore) AddRoutine(routine models.Routine) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Goals[routine.GoalID]; !ok {
		return fmt.Errorf("goal %s: %w", routine.GoalID, ErrNotFound)
	}
	if routine.DeletedAt == nil {
		for _, r := range s.store.Routines {
			if r.Name == routine.Name && r.ID != routine.ID && r.DeletedAt == nil {
				return fmt.Errorf("routine %q already exists", routine.Name)
			}
		}
	}
	s.store.Routines[routine.ID] = routine
	return s.save()
}

func (s *JSONStore) GetRoutine(id string) (models.Routine, error) {
	if err := s.loaded(); err != nil {
		return models.Routine{}, err
	}
	r, ok := s.store.Routines[id]
	if !ok || r.DeletedAt != nil {
		return models.Routine{}, fmt.Errorf("routine %s: %w", id, ErrNotFound)
	}
	return r, nil
}

func (s *JSONStore) GetRoutineByName(name string) (models.Routine, error) {
	if err := s.loaded(); err != nil {
		return models.Routine{}, err
	}
	for _, r := range s.store.Routines {
		if r.Name == name && r.DeletedAt == nil {
			return r, nil
		}
	}
	return models.Routine{}, fmt.Errorf("routine %q: %w", name, ErrNotFound)
}

func (s *JSONStore) GetAllRoutines(includeDeleted bool) ([]models.Routine, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	routines := make([]models.Routine, 0, len(s.store.Routines))
	for _, r := range s.store.Routines {
		if r.DeletedAt != nil && !includeDeleted {
			continue
		}
		routines = append(routines, r)
	}
	slices.SortFunc(routines, func(a, b models.Routine) int {
		return byCreation(a.CreatedAt, b.CreatedAt, a.Name, b.Name, a.ID, b.ID)
	})
	return routines, nil
}

func (s *JSONStore) GetRoutinesForGoal(goalID string) ([]models.Routine, error) {
	routines, err := s.GetAllRoutines(false)
	if err != nil {
		return nil, err
	}
	var filtered []models.Routine
	for _, r := range routines {
		if r.GoalID == goalID {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *JSONStore) UpdateRoutine(routine models.Routine) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Routines[routine.ID]; !ok {
		return fmt.Errorf("routine %s: %w", routine.ID, ErrNotFound)
	}
	s.store.Routines[routine.ID] = routine
	return s.save()
}

func (s *JSONStore) DeleteRoutine(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	r, ok := s.store.Routines[id]
	if !ok || r.DeletedAt != nil {
		return fmt.Errorf("routine not found or already deleted")
	}
	now := time.Now()
	r.DeletedAt = &now
	s.store.Routines[id] = r
	return s.save()
}

func (s *JSONStore) RestoreRoutine(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	r, ok := s.store.Routines[id]
	if !ok || r.DeletedAt == nil {
		return fmt.Errorf("routine not found or not deleted")
	}
	for _, other := range s.store.Routines {
		if other.Name == r.Name && other.ID != id && other.DeletedAt == nil {
			return fmt.Errorf("routine %q already exists", r.Name)
		}
	}
	r.DeletedAt = nil
	s.store.Routines[id] = r
	return s.save()
}

// Completions

func (s *JSONStore) GetCompletion(routineID string, day calendar.Date) (models.CompletionRecord, error) {
	if err := s.loaded(); err != nil {
		return models.CompletionRecord{}, err
	}
	rec, ok := s.store.Completions[completionKey(routineID, day)]
	if !ok {
		return models.CompletionRecord{}, fmt.Errorf("completion for %s on %s: %w", routineID, day, ErrNotFound)
	}
	return rec, nil
}

func (s *JSONStore) GetCompletionsForRoutine(routineID string) ([]models.CompletionRecord, error) {
	return s.filterCompletions(func(r models.CompletionRecord) bool {
		return r.RoutineID == routineID
	})
}

func (s *JSONStore) GetCompletionsForDay(day calendar.Date) ([]models.CompletionRecord, error) {
	return s.filterCompletions(func(r models.CompletionRecord) bool {
		return r.ScheduledDate == day
	})
}

func (s *JSONStore) GetCompletionsInRange(start, end calendar.Date) ([]models.CompletionRecord, error) {
	return s.filterCompletions(func(r models.CompletionRecord) bool {
		return !r.ScheduledDate.Before(start) && !r.ScheduledDate.After(end)
	})
}

// filterCompletions returns matching records ordered by date, most recent first.
func (s *JSONStore) filterCompletions(keep func(models.CompletionRecord) bool) ([]models.CompletionRecord, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var records []models.CompletionRecord
	for _, r := range s.store.Completions {
		if keep(r) {
			records = append(records, r)
		}
	}
	slices.SortFunc(records, func(a, b models.CompletionRecord) int {
		return cmp.Or(
			calendar.Compare(b.ScheduledDate, a.ScheduledDate),
			cmp.Compare(a.RoutineID, b.RoutineID),
		)
	})
	return records, nil
}

// byCreation orders like the SQL stores: created_at, then name, then id.
func byCreation(aTime, bTime time.Time, aName, bName, aID, bID string) int {
	return cmp.Or(
		aTime.Compare(bTime),
		cmp.Compare(aName, bName),
		cmp.Compare(aID, bID),
	)
}

func (s *JSONStore) SaveCompletion(record models.CompletionRecord) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if err := models.ValidateCompletion(record); err != nil {
		return err
	}
	key := completionKey(record.RoutineID, record.ScheduledDate)
	if existing, ok := s.store.Completions[key]; ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	}
	s.store.Completions[key] = record
	return s.save()
}

func (s *JSONStore) DeleteCompletion(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	for key, r := range s.store.Completions {
		if r.ID == id {
			delete(s.store.Completions, key)
			return s.save()
		}
	}
	return fmt.Errorf("completion %s: %w", id, ErrNotFound)
}
