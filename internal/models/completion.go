package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/routinely/internal/calendar"
)

type CompletionStatus string

const (
	StatusPending   CompletionStatus = "pending"
	StatusCompleted CompletionStatus = "completed"
	StatusSkipped   CompletionStatus = "skipped"
)

// Valid reports whether s is a known status.
func (s CompletionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusSkipped:
		return true
	}
	return false
}

// CompletionRecord is the status of one routine on one date. At most one
// record exists per (RoutineID, ScheduledDate); stores enforce this.
type CompletionRecord struct {
	ID            string           `json:"id"`
	RoutineID     string           `json:"routine_id"`
	ScheduledDate calendar.Date    `json:"scheduled_date"`
	Status        CompletionStatus `json:"status"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"` // set only when Status is completed
	Note          string           `json:"note,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ValidateCompletion checks the fields every store requires before saving.
func ValidateCompletion(c CompletionRecord) error {
	if c.ID == "" || c.RoutineID == "" {
		return fmt.Errorf("completion requires an id and a routine id")
	}
	if c.ScheduledDate.IsZero() {
		return fmt.Errorf("completion requires a scheduled date")
	}
	if !c.Status.Valid() {
		return fmt.Errorf("invalid completion status %q", c.Status)
	}
	return nil
}

// StreakInfo is derived from a routine's completion history and never stored.
type StreakInfo struct {
	CurrentStreak     int            `json:"current_streak"`
	LongestStreak     int            `json:"longest_streak"`
	LastCompletedDate *calendar.Date `json:"last_completed_date,omitempty"`
	TotalCompletions  int            `json:"total_completions"`
}

// Progress summarizes how a routine fared on its due days within a date range.
type Progress struct {
	From      calendar.Date `json:"from"`
	To        calendar.Date `json:"to"`
	Due       int           `json:"due"`
	Completed int           `json:"completed"`
	Skipped   int           `json:"skipped"`
	Rate      float64       `json:"rate"` // Completed / Due, 0 when nothing was due
}
