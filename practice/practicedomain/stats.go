package practicedomain

import (
	"time"

	"github.com/snbtku/backend/progress"
)

type PracticeStats struct {
	TotalQuestions    int    `json:"totalQuestions"`
	AnsweredQuestions int    `json:"answeredQuestions"`
	Accuracy          int    `json:"accuracy"`
	AverageTime       string `json:"averageTime"`
	Streak            int    `json:"streak"`
}

// AggregateStats summarises a user's full practice history. averageTime is
// the mean time per answered question.
func AggregateStats(results []PracticeResult, today time.Time) PracticeStats {
	totalQuestions := 0
	totalCorrect := 0
	totalTime := 0.0
	completedAt := make([]time.Time, 0, len(results))
	for _, r := range results {
		totalQuestions += r.TotalQuestions
		totalCorrect += r.TotalCorrect
		totalTime += r.CompletionTime
		completedAt = append(completedAt, r.CompletedAt)
	}

	avg := 0.0
	if totalQuestions > 0 {
		avg = totalTime / float64(totalQuestions)
	}

	return PracticeStats{
		TotalQuestions:    totalQuestions,
		AnsweredQuestions: totalQuestions,
		Accuracy:          progress.Percent(float64(totalCorrect), float64(totalQuestions)),
		AverageTime:       progress.FormatMinSec(avg),
		Streak:            progress.Streak(completedAt, today),
	}
}
