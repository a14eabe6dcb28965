// Package tracker records routine completions and derives per-routine
// statistics from a storage.Provider.
package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/logger"
	"github.com/julianstephens/routinely/internal/models"
	"github.com/julianstephens/routinely/internal/schedule"
	"github.com/julianstephens/routinely/internal/storage"
	"github.com/julianstephens/routinely/internal/streak"
)

// Tracker applies completion commands against a store.
type Tracker struct {
	store storage.Provider
	clock func() calendar.Date
	now   func() time.Time
}

// DueItem is a routine due on a date together with its status on that date.
type DueItem struct {
	Routine models.Routine
	Status  models.CompletionStatus
}

// New returns a Tracker. A nil clock uses calendar.Today.
func New(store storage.Provider, clock func() calendar.Date) *Tracker {
	if clock == nil {
		clock = calendar.Today
	}
	return &Tracker{
		store: store,
		clock: clock,
		now:   time.Now,
	}
}

// Today returns the tracker's notion of the current date.
func (t *Tracker) Today() calendar.Date {
	return t.clock()
}

func (t *Tracker) routine(id string) (models.Routine, error) {
	r, err := t.store.GetRoutine(id)
	if err != nil {
		return models.Routine{}, fmt.Errorf("failed to load routine: %w", err)
	}
	return r, nil
}

// existing returns the stored record for (routineID, day) and whether it exists.
func (t *Tracker) existing(routineID string, day calendar.Date) (models.CompletionRecord, bool, error) {
	rec, err := t.store.GetCompletion(routineID, day)
	if errors.Is(err, storage.ErrNotFound) {
		return models.CompletionRecord{}, false, nil
	}
	if err != nil {
		return models.CompletionRecord{}, false, fmt.Errorf("failed to load completion: %w", err)
	}
	return rec, true, nil
}

func (t *Tracker) save(routineID string, day calendar.Date, status models.CompletionStatus) (models.CompletionRecord, error) {
	if _, err := t.routine(routineID); err != nil {
		return models.CompletionRecord{}, err
	}

	rec, found, err := t.existing(routineID, day)
	if err != nil {
		return models.CompletionRecord{}, err
	}

	now := t.now()
	if !found {
		rec = models.CompletionRecord{
			ID:            uuid.New().String(),
			RoutineID:     routineID,
			ScheduledDate: day,
			CreatedAt:     now,
		}
	}
	rec.Status = status
	rec.UpdatedAt = now
	rec.CompletedAt = nil
	if status == models.StatusCompleted {
		rec.CompletedAt = &now
	}

	if err := t.store.SaveCompletion(rec); err != nil {
		return models.CompletionRecord{}, fmt.Errorf("failed to save completion: %w", err)
	}
	logger.Debug("Saved completion", "routine", routineID, "date", day, "status", status)
	return rec, nil
}

// Toggle flips a routine between completed and pending on day. A routine with
// no record, or a pending or skipped one, becomes completed.
func (t *Tracker) Toggle(routineID string, day calendar.Date) (models.CompletionRecord, error) {
	rec, found, err := t.existing(routineID, day)
	if err != nil {
		return models.CompletionRecord{}, err
	}
	next := models.StatusCompleted
	if found && rec.Status == models.StatusCompleted {
		next = models.StatusPending
	}
	return t.save(routineID, day, next)
}

// Complete marks the routine completed on day regardless of its current status.
func (t *Tracker) Complete(routineID string, day calendar.Date) (models.CompletionRecord, error) {
	return t.save(routineID, day, models.StatusCompleted)
}

// Skip marks the routine skipped on day.
func (t *Tracker) Skip(routineID string, day calendar.Date) (models.CompletionRecord, error) {
	return t.save(routineID, day, models.StatusSkipped)
}

// SetNote attaches a note to the day's record, creating a pending one if needed.
func (t *Tracker) SetNote(routineID string, day calendar.Date, note string) (models.CompletionRecord, error) {
	rec, found, err := t.existing(routineID, day)
	if err != nil {
		return models.CompletionRecord{}, err
	}
	status := models.StatusPending
	if found {
		status = rec.Status
	}
	if _, err := t.routine(routineID); err != nil {
		return models.CompletionRecord{}, err
	}

	now := t.now()
	if !found {
		rec = models.CompletionRecord{
			ID:            uuid.New().String(),
			RoutineID:     routineID,
			ScheduledDate: day,
			Status:        status,
			CreatedAt:     now,
		}
	}
	rec.Note = note
	rec.UpdatedAt = now
	if err := t.store.SaveCompletion(rec); err != nil {
		return models.CompletionRecord{}, fmt.Errorf("failed to save completion: %w", err)
	}
	return rec, nil
}

// Status returns the routine's status on day, pending when nothing is recorded.
func (t *Tracker) Status(routineID string, day calendar.Date) (models.CompletionStatus, error) {
	rec, found, err := t.existing(routineID, day)
	if err != nil {
		return "", err
	}
	if !found {
		return models.StatusPending, nil
	}
	return rec.Status, nil
}

// Streak computes the routine's streak as of the tracker's today.
func (t *Tracker) Streak(routineID string) (models.StreakInfo, error) {
	if _, err := t.routine(routineID); err != nil {
		return models.StreakInfo{}, err
	}
	records, err := t.store.GetCompletionsForRoutine(routineID)
	if err != nil {
		return models.StreakInfo{}, fmt.Errorf("failed to load completions: %w", err)
	}
	return streak.Compute(records, t.clock()), nil
}

// DueOn returns the active routines due on day in store order, each with its status.
func (t *Tracker) DueOn(day calendar.Date) ([]DueItem, error) {
	routines, err := t.store.GetAllRoutines(false)
	if err != nil {
		return nil, fmt.Errorf("failed to load routines: %w", err)
	}
	records, err := t.store.GetCompletionsForDay(day)
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}

	statuses := make(map[string]models.CompletionStatus, len(records))
	for _, r := range records {
		statuses[r.RoutineID] = r.Status
	}

	due := schedule.DueOn(routines, day)
	items := make([]DueItem, 0, len(due))
	for _, r := range due {
		status, ok := statuses[r.ID]
		if !ok {
			status = models.StatusPending
		}
		items = append(items, DueItem{Routine: r, Status: status})
	}
	return items, nil
}

// DueCounts returns how many active routines are due on each date.
func (t *Tracker) DueCounts(dates []calendar.Date) (map[calendar.Date]int, error) {
	routines, err := t.store.GetAllRoutines(false)
	if err != nil {
		return nil, fmt.Errorf("failed to load routines: %w", err)
	}
	return schedule.DueCounts(routines, dates), nil
}

// Next returns the routine's next due date on or after from.
func (t *Tracker) Next(routineID string, from calendar.Date, horizonDays int) (calendar.Date, bool, error) {
	r, err := t.routine(routineID)
	if err != nil {
		return calendar.Date{}, false, err
	}
	d, ok := schedule.NextOccurrence(r.Schedule, from, horizonDays)
	return d, ok, nil
}

// Progress counts the routine's due days in [from, to] and how many of them
// were completed or skipped.
func (t *Tracker) Progress(routineID string, from, to calendar.Date) (models.Progress, error) {
	if to.Before(from) {
		return models.Progress{}, fmt.Errorf("invalid range: %s is before %s", to, from)
	}
	r, err := t.routine(routineID)
	if err != nil {
		return models.Progress{}, err
	}
	records, err := t.store.GetCompletionsInRange(from, to)
	if err != nil {
		return models.Progress{}, fmt.Errorf("failed to load completions: %w", err)
	}

	statuses := make(map[calendar.Date]models.CompletionStatus)
	for _, rec := range records {
		if rec.RoutineID == routineID {
			statuses[rec.ScheduledDate] = rec.Status
		}
	}

	p := models.Progress{From: from, To: to}
	for _, d := range calendar.Range(from, to) {
		if !schedule.IsDue(r.Schedule, d) {
			continue
		}
		p.Due++
		switch statuses[d] {
		case models.StatusCompleted:
			p.Completed++
		case models.StatusSkipped:
			p.Skipped++
		}
	}
	if p.Due > 0 {
		p.Rate = float64(p.Completed) / float64(p.Due)
	}
	return p, nil
}
