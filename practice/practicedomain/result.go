package practicedomain

import (
	"fmt"
	"time"
)

type PracticeResult struct {
	ID             string       `json:"id"`
	UserID         string       `json:"userId"`
	QuestionSetID  string       `json:"questionSetId"`
	Answers        []UserAnswer `json:"answers"`
	Score          int          `json:"score"`
	TotalCorrect   int          `json:"totalCorrect"`
	TotalQuestions int          `json:"totalQuestions"`
	CompletionTime float64      `json:"completionTime"` // seconds
	CompletedAt    time.Time    `json:"completedAt"`
}

// NewPracticeResult derives the counters from graded answers. A
// non-positive completionTime is replaced by the summed answer times.
func NewPracticeResult(userID, setID string, answers []UserAnswer, completionTime float64, completedAt time.Time) PracticeResult {
	correct := 0
	spent := 0.0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
		spent += a.TimeSpent
	}
	if completionTime <= 0 {
		completionTime = spent
	}
	return PracticeResult{
		UserID:         userID,
		QuestionSetID:  setID,
		Answers:        answers,
		Score:          correct,
		TotalCorrect:   correct,
		TotalQuestions: len(answers),
		CompletionTime: completionTime,
		CompletedAt:    completedAt,
	}
}

// Validate checks the counters against the answers.
func (r *PracticeResult) Validate() error {
	correct := 0
	for _, a := range r.Answers {
		if a.IsCorrect {
			correct++
		}
	}
	if r.TotalCorrect != correct {
		return fmt.Errorf("totalCorrect %d does not match %d correct answers", r.TotalCorrect, correct)
	}
	if r.TotalQuestions != len(r.Answers) {
		return fmt.Errorf("totalQuestions %d does not match %d answers", r.TotalQuestions, len(r.Answers))
	}
	if r.Score != r.TotalCorrect {
		return fmt.Errorf("score %d does not match totalCorrect %d", r.Score, r.TotalCorrect)
	}
	if r.CompletionTime < 0 {
		return fmt.Errorf("completion time must not be negative")
	}
	return nil
}
