package models

import (
	"time"

	"github.com/julianstephens/routinely/internal/calendar"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Schedule is the stored recurrence definition of a routine. Fields that do
// not apply to Frequency are ignored.
type Schedule struct {
	Frequency    Frequency             `json:"frequency"`
	Enabled      bool                  `json:"enabled"`
	DaysOfWeek   []calendar.WeekdayTag `json:"days_of_week,omitempty"`  // weekly only
	DayOfMonth   *int                  `json:"day_of_month,omitempty"`  // monthly only, 1-31
	ReminderTime string                `json:"reminder_time,omitempty"` // HH:MM, display only
}

// Category groups goals, e.g. "Health".
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Goal belongs to a category and owns routines.
type Goal struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Routine is a recurring habit owned by a goal.
type Routine struct {
	ID          string     `json:"id"`
	GoalID      string     `json:"goal_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Schedule    *Schedule  `json:"schedule,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}
