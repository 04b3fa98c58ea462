package practicesrvc

import (
	"context"

	"github.com/snbtku/backend/practice/practicedomain"
)

// Lookups return nil, nil when the item does not exist. Paged lists take
// an opaque cursor and return the cursor of the next page, empty on the
// last one.

type QuestionRepo interface {
	GetQuestion(ctx context.Context, id string) (*practicedomain.Question, error)
	// GetQuestions skips ids that do not exist.
	GetQuestions(ctx context.Context, ids []string) (map[string]practicedomain.Question, error)
	PutQuestion(ctx context.Context, q practicedomain.Question) error
	DeleteQuestion(ctx context.Context, id string) error
}

type QuestionSetRepo interface {
	GetSet(ctx context.Context, id string) (*practicedomain.QuestionSet, error)
	// ListSets applies the subtest, difficulty and topic filters and orders
	// by updatedAt, newest first. The search query is not applied.
	ListSets(ctx context.Context, f practicedomain.Filter, cursor string, limit int) ([]practicedomain.QuestionSet, string, error)
	PutSet(ctx context.Context, s practicedomain.QuestionSet) error
	DeleteSet(ctx context.Context, id string) error
	SetsReferencing(ctx context.Context, questionID string) ([]practicedomain.QuestionSet, error)
	// PutSetWithQuestions writes the set and its new questions together.
	PutSetWithQuestions(ctx context.Context, s practicedomain.QuestionSet, qs []practicedomain.Question) error
}

type ResultRepo interface {
	PutResult(ctx context.Context, r practicedomain.PracticeResult) error
	GetResult(ctx context.Context, id string) (*practicedomain.PracticeResult, error)
	// ListUserResults orders by completedAt, newest first.
	ListUserResults(ctx context.Context, userID, cursor string, limit int) ([]practicedomain.PracticeResult, string, error)
	HasSetResults(ctx context.Context, setID string) (bool, error)
}

type Repo interface {
	QuestionRepo
	QuestionSetRepo
	ResultRepo
}
