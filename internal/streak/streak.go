// Package streak derives consecutive-day statistics from a routine's
// completion history.
package streak

import (
	"slices"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/models"
)

// Compute returns the streak statistics for one routine's records, in any
// order, relative to today. Records that are not completed are ignored.
//
// The current streak is 0 unless the most recent completion is today or
// yesterday. Duplicate completed records for the same date are not merged;
// stores keep one record per routine and date.
func Compute(records []models.CompletionRecord, today calendar.Date) models.StreakInfo {
	days := completedDays(records)
	if len(days) == 0 {
		return models.StreakInfo{}
	}

	slices.SortFunc(days, func(a, b calendar.Date) int {
		return calendar.Compare(b, a)
	})

	current := currentStreak(days, today)
	longest := longestStreak(days)
	if current > longest {
		longest = current
	}

	last := days[0]
	return models.StreakInfo{
		CurrentStreak:     current,
		LongestStreak:     longest,
		LastCompletedDate: &last,
		TotalCompletions:  len(days),
	}
}

func completedDays(records []models.CompletionRecord) []calendar.Date {
	var days []calendar.Date
	for _, r := range records {
		if r.Status != models.StatusCompleted || r.ScheduledDate.IsZero() {
			continue
		}
		days = append(days, r.ScheduledDate)
	}
	return days
}

// currentStreak walks days (sorted descending) from the most recent entry.
func currentStreak(days []calendar.Date, today calendar.Date) int {
	if calendar.DaysBetween(today, days[0]) > 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		diff := calendar.DaysBetween(days[i-1], days[i])
		if diff == 1 {
			streak++
		} else if diff > 1 {
			break
		}
	}
	return streak
}

// longestStreak scans days (sorted descending) for the longest run of
// adjacent dates one day apart.
func longestStreak(days []calendar.Date) int {
	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if calendar.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
