package tryoutdomain

import (
	"math"
	"time"

	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/snbt"
)

const MaxScore = 100

type SubtestResult struct {
	Name       snbt.Subtest                `json:"name"`
	Score      int                         `json:"score"`
	MaxScore   int                         `json:"maxScore"`
	Percentage int                         `json:"percentage"`
	Answers    []practicedomain.UserAnswer `json:"answers"`
	TimeSpent  float64                     `json:"timeSpent"` // seconds
}

// CalcSubtestResults scores every subtest of a tryout in its declared
// order. When a subtest lists its question ids, answers to other questions
// are ignored. Only the first answer per question counts.
func CalcSubtestResults(subtests []Subtest, answers map[snbt.Subtest][]practicedomain.UserAnswer) []SubtestResult {
	results := make([]SubtestResult, 0, len(subtests))
	for _, st := range subtests {
		kept := keepCountable(st, answers[st.Name])

		correct := 0
		spent := 0.0
		for _, a := range kept {
			if a.IsCorrect {
				correct++
			}
			spent += a.TimeSpent
		}

		score := 0
		if st.Questions > 0 {
			score = clampScore(int(math.Round(float64(correct) / float64(st.Questions) * 100)))
		}
		results = append(results, SubtestResult{
			Name:       st.Name,
			Score:      score,
			MaxScore:   MaxScore,
			Percentage: score,
			Answers:    kept,
			TimeSpent:  spent,
		})
	}
	return results
}

func keepCountable(st Subtest, answers []practicedomain.UserAnswer) []practicedomain.UserAnswer {
	allowed := make(map[string]bool, len(st.QuestionIDs))
	for _, id := range st.QuestionIDs {
		allowed[id] = true
	}
	seen := make(map[string]bool, len(answers))
	kept := make([]practicedomain.UserAnswer, 0, len(answers))
	for _, a := range answers {
		if len(allowed) > 0 && !allowed[a.QuestionID] {
			continue
		}
		if seen[a.QuestionID] {
			continue
		}
		seen[a.QuestionID] = true
		a.TimeSpent = max(a.TimeSpent, 0)
		kept = append(kept, a)
	}
	return kept
}

func clampScore(s int) int {
	return min(max(s, 0), MaxScore)
}

// AggregateScore is the rounded mean of the subtest scores.
func AggregateScore(results []SubtestResult) int {
	if len(results) == 0 {
		return 0
	}
	sum := 0
	for _, r := range results {
		sum += r.Score
	}
	return clampScore(int(math.Round(float64(sum) / float64(len(results)))))
}

type Standing struct {
	Rank              int
	TotalParticipants int
	Percentile        int
}

// CalcStanding places score among the scores of earlier results on the
// same tryout.
func CalcStanding(score int, earlier []int) Standing {
	higher := 0
	atOrBelow := 1
	for _, s := range earlier {
		if s > score {
			higher++
		} else {
			atOrBelow++
		}
	}
	total := len(earlier) + 1
	return Standing{
		Rank:              higher + 1,
		TotalParticipants: total,
		Percentile:        int(math.Round(float64(atOrBelow) / float64(total) * 100)),
	}
}

type TryoutResult struct {
	ID                string          `json:"id"`
	TryoutID          string          `json:"tryoutId"`
	UserID            string          `json:"userId"`
	Score             int             `json:"score"`
	MaxScore          int             `json:"maxScore"`
	Rank              int             `json:"rank"`
	TotalParticipants int             `json:"totalParticipants"`
	Percentile        int             `json:"percentile"`
	CompletedDate     time.Time       `json:"completedDate"`
	SubtestScores     []SubtestResult `json:"subtestScores"`
}

// NewTryoutResult combines subtest results with the standing among earlier
// results.
func NewTryoutResult(tryoutID, userID string, subtests []SubtestResult, earlier []int, completedAt time.Time) TryoutResult {
	score := AggregateScore(subtests)
	standing := CalcStanding(score, earlier)
	return TryoutResult{
		TryoutID:          tryoutID,
		UserID:            userID,
		Score:             score,
		MaxScore:          MaxScore,
		Rank:              standing.Rank,
		TotalParticipants: standing.TotalParticipants,
		Percentile:        standing.Percentile,
		CompletedDate:     completedAt,
		SubtestScores:     subtests,
	}
}

type TryoutStats struct {
	TotalTryOuts int `json:"totalTryOuts"`
	Completed    int `json:"completed"`
	AverageScore int `json:"averageScore"`
	BestScore    int `json:"bestScore"`
	Rank         int `json:"rank"`
}

// AggregateTryoutStats expects results newest first; the rank is taken
// from the newest one.
func AggregateTryoutStats(results []TryoutResult) TryoutStats {
	if len(results) == 0 {
		return TryoutStats{}
	}
	sum, best := 0, 0
	for _, r := range results {
		sum += r.Score
		best = max(best, r.Score)
	}
	return TryoutStats{
		TotalTryOuts: len(results),
		Completed:    len(results),
		AverageScore: int(math.Round(float64(sum) / float64(len(results)))),
		BestScore:    best,
		Rank:         results[0].Rank,
	}
}
