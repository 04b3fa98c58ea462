package progress

import (
	"slices"
	"time"
)

// DayNumber numbers the calendar date of t in loc, one per day.
func DayNumber(t time.Time, loc *time.Location) int64 {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// DaysBetween returns the number of calendar days from then to now,
// both taken in now's location.
func DaysBetween(then, now time.Time) int {
	loc := now.Location()
	return int(DayNumber(now, loc) - DayNumber(then, loc))
}

// Streak counts consecutive active calendar days ending today or
// yesterday. A day is active when any timestamp falls on it.
func Streak(completedAt []time.Time, today time.Time) int {
	loc := today.Location()
	days := make([]int64, 0, len(completedAt))
	for _, t := range completedAt {
		days = append(days, DayNumber(t, loc))
	}
	return StreakDays(days, DayNumber(today, loc))
}

// StreakDays is Streak over day numbers. days may be unordered and
// repeat.
func StreakDays(days []int64, today int64) int {
	if len(days) == 0 {
		return 0
	}
	days = slices.Clone(days)
	slices.Sort(days)
	days = slices.Compact(days)
	slices.Reverse(days)

	if today-days[0] > 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1]-days[i] != 1 {
			break
		}
		streak++
	}
	return streak
}
