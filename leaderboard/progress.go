package leaderboard

import (
	"time"

	"github.com/snbtku/backend/progress"
	"github.com/snbtku/backend/resultevent"
)

// activeDayWindow bounds how far behind the latest active day a late
// event may land. It covers the result queue's maximum retention.
const activeDayWindow = 16

// DayRun is an inclusive range of consecutive active day numbers.
type DayRun struct {
	First int64 `dynamo:"first"`
	Last  int64 `dynamo:"last"`
}

// Progress is the running aggregate of one user's completed results.
type Progress struct {
	UserID         string
	Xp             int
	PracticeCount  int
	TryoutCount    int
	CorrectAnswers int
	TotalAnswers   int
	// ActiveRuns holds the active days, ascending and disjoint. Runs that
	// end more than activeDayWindow days before the latest one are pruned.
	ActiveRuns []DayRun
	// LastActiveDay is the progress.DayNumber of the latest active day.
	LastActiveDay int64
	// Streak is the length of the run ending on LastActiveDay.
	Streak    int
	UpdatedAt time.Time
	Version   int
}

func (p Progress) Level() int {
	return progress.Level(p.Xp)
}

func (p Progress) Accuracy() int {
	return progress.Percent(float64(p.CorrectAnswers), float64(p.TotalAnswers))
}

// CurrentStreak is the streak as of today, 0 once a full day has passed
// without activity.
func (p Progress) CurrentStreak(today time.Time) int {
	return progress.StreakDays(p.activeDays(), progress.DayNumber(today, today.Location()))
}

func (p Progress) activeDays() []int64 {
	if len(p.ActiveRuns) == 0 {
		return nil
	}
	// only the latest run can reach today
	last := p.ActiveRuns[len(p.ActiveRuns)-1]
	days := make([]int64, 0, last.Last-last.First+1)
	for d := last.First; d <= last.Last; d++ {
		days = append(days, d)
	}
	return days
}

// Applied returns p with ev folded in. Events may arrive in any order.
func (p Progress) Applied(ev resultevent.ResultCompleted, loc *time.Location) Progress {
	switch ev.Kind {
	case resultevent.KindPractice:
		p.Xp += progress.PracticeXp(ev.Correct)
		p.PracticeCount++
	case resultevent.KindTryout:
		p.Xp += progress.TryoutXp(ev.Score)
		p.TryoutCount++
	}
	p.CorrectAnswers += max(ev.Correct, 0)
	p.TotalAnswers += max(ev.Total, 0)

	p.ActiveRuns = addActiveDay(p.ActiveRuns, progress.DayNumber(ev.CompletedAt, loc))
	last := p.ActiveRuns[len(p.ActiveRuns)-1]
	p.LastActiveDay = last.Last
	p.Streak = progress.StreakDays(p.activeDays(), last.Last)

	if ev.CompletedAt.After(p.UpdatedAt) {
		p.UpdatedAt = ev.CompletedAt
	}
	return p
}

// addActiveDay returns a copy of runs with day merged in and stale runs
// pruned.
func addActiveDay(runs []DayRun, day int64) []DayRun {
	out := make([]DayRun, 0, len(runs)+1)
	cur := DayRun{First: day, Last: day}
	placed := false
	for _, r := range runs {
		switch {
		case r.Last+1 < cur.First:
			out = append(out, r)
		case cur.Last+1 < r.First:
			if !placed {
				out = append(out, cur)
				placed = true
			}
			out = append(out, r)
		default:
			cur.First = min(cur.First, r.First)
			cur.Last = max(cur.Last, r.Last)
		}
	}
	if !placed {
		out = append(out, cur)
	}

	latest := out[len(out)-1].Last
	i := 0
	for i < len(out)-1 && out[i].Last+activeDayWindow < latest {
		i++
	}
	return out[i:]
}

// Entry is one leaderboard row as shown to users.
type Entry struct {
	Rank           int    `json:"rank"`
	UserID         string `json:"userId"`
	Name           string `json:"name"`
	Xp             int    `json:"xp"`
	Level          int    `json:"level"`
	Streak         int    `json:"streak"`
	PracticeCount  int    `json:"practiceCount"`
	TryoutCount    int    `json:"tryoutCount"`
	Accuracy       int    `json:"accuracy"`
	CorrectAnswers int    `json:"correctAnswers"`
}

func newEntry(p Progress, rank int, name string, today time.Time) Entry {
	return Entry{
		Rank:           rank,
		UserID:         p.UserID,
		Name:           name,
		Xp:             p.Xp,
		Level:          p.Level(),
		Streak:         p.CurrentStreak(today),
		PracticeCount:  p.PracticeCount,
		TryoutCount:    p.TryoutCount,
		Accuracy:       p.Accuracy(),
		CorrectAnswers: p.CorrectAnswers,
	}
}
