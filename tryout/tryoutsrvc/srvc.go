package tryoutsrvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/resultevent"
	"github.com/snbtku/backend/snbt"
	"github.com/snbtku/backend/srvcerr"
	"github.com/snbtku/backend/tryout/tryoutdomain"
)

// maxFilterPages bounds how many store pages one listing scans when the
// subtest filter drops items.
const maxFilterPages = 10

type TryoutSrvc struct {
	repo      Repo
	questions QuestionSource
	publisher resultevent.Publisher
	now       func() time.Time
	newID     func() (string, error)
}

func NewTryoutSrvc(repo Repo, questions QuestionSource, publisher resultevent.Publisher) *TryoutSrvc {
	return &TryoutSrvc{
		repo:      repo,
		questions: questions,
		publisher: publisher,
		now:       time.Now,
		newID:     newUUIDv7,
	}
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

func mapRepoErr(err error) error {
	if errors.Is(err, ddbutil.ErrInvalidCursor) {
		return newErrInvalidCursor().SetDebug(err)
	}
	return srvcerr.ErrInternalSE().SetDebug(err)
}

// ListTryouts pages through tryouts, newest update first. The subtest
// filter is applied in process.
func (s *TryoutSrvc) ListTryouts(ctx context.Context, f tryoutdomain.Filter, cursor string, pageSize int) (*Page[tryoutdomain.Tryout], error) {
	f = f.Normalized()
	limit := ddbutil.PageSize(pageSize)

	items := make([]tryoutdomain.Tryout, 0, limit)
	next := cursor
	for i := 0; i < maxFilterPages; i++ {
		page, nextCursor, err := s.repo.ListTryouts(ctx, f, next, limit)
		if err != nil {
			return nil, mapRepoErr(err)
		}
		for _, t := range page {
			if f.Subtest == "" || t.HasSubtest(f.Subtest) {
				items = append(items, t)
			}
		}
		next = nextCursor
		if next == "" || len(items) >= limit || f.Subtest == "" {
			break
		}
	}
	return &Page[tryoutdomain.Tryout]{Items: items, NextCursor: next}, nil
}

func (s *TryoutSrvc) GetTryout(ctx context.Context, id string) (*tryoutdomain.Tryout, error) {
	t, err := s.repo.GetTryout(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if t == nil {
		return nil, newErrTryoutNotFound()
	}
	return t, nil
}

// CreateTryout stores a new tryout with no participants.
func (s *TryoutSrvc) CreateTryout(ctx context.Context, t tryoutdomain.Tryout) (*tryoutdomain.Tryout, error) {
	if err := t.Validate(); err != nil {
		return nil, newErrInvalidTryout().SetDebug(err)
	}
	id, err := s.newID()
	if err != nil {
		return nil, mapRepoErr(err)
	}
	now := s.now().UTC()
	t.ID = id
	t.Participants = 0
	t.CreatedAt = now
	t.UpdatedAt = now
	if err := s.repo.CreateTryout(ctx, t); err != nil {
		return nil, mapRepoErr(fmt.Errorf("create tryout: %w", err))
	}
	logger.FromContext(ctx).Info("tryout created", "tryout_id", t.ID, "subtests", len(t.Subtests))
	return &t, nil
}

// CreateTryoutWithQuestions assigns question ids per subtest before
// storing. Every listed question must exist.
func (s *TryoutSrvc) CreateTryoutWithQuestions(ctx context.Context, t tryoutdomain.Tryout, questions map[snbt.Subtest][]string) (*tryoutdomain.Tryout, error) {
	var all []string
	for name, ids := range questions {
		if _, ok := t.Subtest(name); !ok {
			return nil, newErrUnknownSubtest(string(name))
		}
		all = append(all, ids...)
	}
	if err := s.checkQuestionsExist(ctx, all); err != nil {
		return nil, err
	}
	return s.CreateTryout(ctx, t.WithQuestions(questions))
}

// TryoutUpdate changes the non-nil fields. The participant counter is
// never written here.
type TryoutUpdate struct {
	Title       *string
	Description *string
	Duration    *int
	Difficulty  *snbt.Difficulty
	Status      *tryoutdomain.Status
	StartTime   *tryoutdomain.StartTime
	Subtests    *[]tryoutdomain.Subtest
	IsPublic    *bool
	IsPremium   *bool
}

func (s *TryoutSrvc) UpdateTryout(ctx context.Context, id string, u TryoutUpdate) (*tryoutdomain.Tryout, error) {
	t, err := s.GetTryout(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Duration != nil {
		t.Duration = *u.Duration
	}
	if u.Difficulty != nil {
		t.Difficulty = *u.Difficulty
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.StartTime != nil {
		t.StartTime = *u.StartTime
	}
	if u.Subtests != nil {
		t.Subtests = *u.Subtests
	}
	if u.IsPublic != nil {
		t.IsPublic = *u.IsPublic
	}
	if u.IsPremium != nil {
		t.IsPremium = *u.IsPremium
	}
	if err := t.Validate(); err != nil {
		return nil, newErrInvalidTryout().SetDebug(err)
	}

	t.UpdatedAt = s.now().UTC()
	err = s.repo.UpdateTryout(ctx, *t)
	if errors.Is(err, ErrTryoutMissing) {
		return nil, newErrTryoutNotFound()
	}
	if err != nil {
		return nil, mapRepoErr(fmt.Errorf("update tryout: %w", err))
	}
	return s.GetTryout(ctx, id)
}

// DeleteTryout is refused while results reference the tryout.
func (s *TryoutSrvc) DeleteTryout(ctx context.Context, id string) error {
	if _, err := s.GetTryout(ctx, id); err != nil {
		return err
	}
	used, err := s.repo.HasTryoutResults(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}
	if used {
		return newErrTryoutHasResults()
	}
	if err := s.repo.DeleteTryout(ctx, id); err != nil {
		return mapRepoErr(fmt.Errorf("delete tryout: %w", err))
	}
	logger.FromContext(ctx).Info("tryout deleted", "tryout_id", id)
	return nil
}

// GetSubtestQuestions returns the subtest's questions in listed order,
// skipping ids whose question no longer exists.
func (s *TryoutSrvc) GetSubtestQuestions(ctx context.Context, tryoutID string, name snbt.Subtest) ([]practicedomain.Question, error) {
	t, err := s.GetTryout(ctx, tryoutID)
	if err != nil {
		return nil, err
	}
	st, ok := t.Subtest(name)
	if !ok || len(st.QuestionIDs) == 0 {
		return nil, newErrSubtestNotFound()
	}
	found, err := s.questions.GetQuestions(ctx, st.QuestionIDs)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	out := make([]practicedomain.Question, 0, len(st.QuestionIDs))
	for _, id := range st.QuestionIDs {
		if q, ok := found[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *TryoutSrvc) checkQuestionsExist(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.questions.GetQuestions(ctx, ids)
	if err != nil {
		return mapRepoErr(err)
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return newErrInvalidTryout().SetDebug(fmt.Errorf("question %s does not exist", id))
		}
	}
	return nil
}
