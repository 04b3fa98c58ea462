package tryoutsrvc

import (
	"context"
	"errors"

	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/tryout/tryoutdomain"
)

// Repository sentinels.
var (
	ErrTryoutMissing     = errors.New("tryout does not exist")
	ErrScheduledMissing  = errors.New("scheduled tryout does not exist")
	ErrAlreadyRegistered = errors.New("user already registered")
)

// Lookups return nil, nil when the item does not exist.

type TryoutRepo interface {
	GetTryout(ctx context.Context, id string) (*tryoutdomain.Tryout, error)
	// ListTryouts applies the status and difficulty filters and orders by
	// updatedAt, newest first.
	ListTryouts(ctx context.Context, f tryoutdomain.Filter, cursor string, limit int) ([]tryoutdomain.Tryout, string, error)
	CreateTryout(ctx context.Context, t tryoutdomain.Tryout) error
	// UpdateTryout replaces everything but the participant counter. It
	// returns ErrTryoutMissing when the tryout is gone.
	UpdateTryout(ctx context.Context, t tryoutdomain.Tryout) error
	DeleteTryout(ctx context.Context, id string) error
}

type ResultRepo interface {
	// SaveResult stores r and adds one to the tryout's participants in
	// one step. It returns ErrTryoutMissing when the tryout is gone.
	SaveResult(ctx context.Context, r tryoutdomain.TryoutResult) error
	GetResult(ctx context.Context, id string) (*tryoutdomain.TryoutResult, error)
	// ListUserResults orders by completion, newest first.
	ListUserResults(ctx context.Context, userID, cursor string, limit int) ([]tryoutdomain.TryoutResult, string, error)
	// TryoutScores returns the score of every stored result of the tryout.
	TryoutScores(ctx context.Context, tryoutID string) ([]int, error)
	HasTryoutResults(ctx context.Context, tryoutID string) (bool, error)
}

type ScheduleRepo interface {
	GetScheduled(ctx context.Context, id string) (*tryoutdomain.ScheduledTryout, error)
	// ListOpenScheduled orders by date, earliest first.
	ListOpenScheduled(ctx context.Context) ([]tryoutdomain.ScheduledTryout, error)
	PutScheduled(ctx context.Context, s tryoutdomain.ScheduledTryout) error
	// Register stores reg and adds one to the scheduled tryout's
	// participants in one step. It returns ErrAlreadyRegistered or
	// ErrScheduledMissing when the write is refused.
	Register(ctx context.Context, reg tryoutdomain.Registration) error
	IsRegistered(ctx context.Context, scheduledID, userID string) (bool, error)
	ListUserRegistrations(ctx context.Context, userID string) ([]tryoutdomain.Registration, error)
}

type Repo interface {
	TryoutRepo
	ResultRepo
	ScheduleRepo
}

// QuestionSource is the shared question bank.
type QuestionSource interface {
	GetQuestions(ctx context.Context, ids []string) (map[string]practicedomain.Question, error)
}
