package practicedomain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/snbtku/backend/snbt"
)

type QuestionSet struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Subtest       snbt.Subtest    `json:"subtest"`
	Topic         string          `json:"topic"`
	Difficulty    snbt.Difficulty `json:"difficulty"`
	QuestionCount int             `json:"questionCount"`
	EstimatedTime string          `json:"estimatedTime"`
	Questions     []string        `json:"questions"`
	IsPublic      bool            `json:"isPublic"`
	CreatedBy     string          `json:"createdBy"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (s *QuestionSet) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return errors.New("question set title must not be empty")
	}
	if !s.Subtest.Valid() {
		return fmt.Errorf("unknown subtest %q", s.Subtest)
	}
	if !s.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", s.Difficulty)
	}
	if s.QuestionCount < 0 {
		return errors.New("question count must not be negative")
	}
	return nil
}

// References reports whether questionID is part of the set.
func (s *QuestionSet) References(questionID string) bool {
	for _, id := range s.Questions {
		if id == questionID {
			return true
		}
	}
	return false
}

// Filter selects question sets. Empty fields and "all" match everything.
type Filter struct {
	SearchQuery string
	Subtest     string
	Difficulty  string
	Topic       string
}

func (f Filter) Normalized() Filter {
	return Filter{
		SearchQuery: strings.TrimSpace(f.SearchQuery),
		Subtest:     snbt.NormalizeFilter(f.Subtest),
		Difficulty:  snbt.NormalizeFilter(f.Difficulty),
		Topic:       snbt.NormalizeFilter(f.Topic),
	}
}

// Matches applies every filter field, including the search query.
func (f Filter) Matches(s QuestionSet) bool {
	f = f.Normalized()
	if f.Subtest != "" && string(s.Subtest) != f.Subtest {
		return false
	}
	if f.Difficulty != "" && string(s.Difficulty) != f.Difficulty {
		return false
	}
	if f.Topic != "" && s.Topic != f.Topic {
		return false
	}
	return MatchesSearch(s, f.SearchQuery)
}

// MatchesSearch is a case-insensitive substring match on title,
// description and topic.
func MatchesSearch(s QuestionSet, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Title), q) ||
		strings.Contains(strings.ToLower(s.Description), q) ||
		strings.Contains(strings.ToLower(s.Topic), q)
}
