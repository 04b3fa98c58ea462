package practicedomain

import (
	"time"

	"github.com/snbtku/backend/progress"
)

type Performance string

const (
	PerformanceExcellent Performance = "excellent"
	PerformanceGood      Performance = "good"
	PerformanceAverage   Performance = "average"
	PerformancePoor      Performance = "poor"
)

func PerformanceTier(score, totalQuestions int) Performance {
	pct := 0.0
	if totalQuestions > 0 {
		pct = float64(score) / float64(totalQuestions) * 100
	}
	switch {
	case pct >= 90:
		return PerformanceExcellent
	case pct >= 75:
		return PerformanceGood
	case pct >= 50:
		return PerformanceAverage
	default:
		return PerformancePoor
	}
}

type RecentActivity struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	QuestionSetID string      `json:"questionSetId"`
	Date          string      `json:"date"`
	Questions     int         `json:"questions"`
	Score         int         `json:"score"`
	Time          string      `json:"time"`
	Performance   Performance `json:"performance"`
}

// ActivitySource pairs a result with its question set. Set is nil when the
// set has been deleted.
type ActivitySource struct {
	Result PracticeResult
	Set    *QuestionSet
}

func FormatRecentActivity(items []ActivitySource, now time.Time) []RecentActivity {
	out := make([]RecentActivity, 0, len(items))
	for _, it := range items {
		if it.Set == nil {
			continue
		}
		r := it.Result
		out = append(out, RecentActivity{
			ID:            r.ID,
			Title:         it.Set.Title,
			QuestionSetID: it.Set.ID,
			Date:          progress.RelativeDate(r.CompletedAt, now),
			Questions:     r.TotalQuestions,
			Score:         r.Score,
			Time:          progress.FormatMinSec(r.CompletionTime),
			Performance:   PerformanceTier(r.Score, r.TotalQuestions),
		})
	}
	return out
}
