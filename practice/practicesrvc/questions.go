package practicesrvc

import (
	"context"
	"fmt"

	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/snbt"
)

func (s *PracticeSrvc) GetQuestion(ctx context.Context, id string) (*practicedomain.Question, error) {
	q, err := s.repo.GetQuestion(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if q == nil {
		return nil, newErrQuestionNotFound()
	}
	return q, nil
}

// ListQuestionsInSet returns the set's questions in set order, skipping
// ids whose question no longer exists.
func (s *PracticeSrvc) ListQuestionsInSet(ctx context.Context, setID string) ([]practicedomain.Question, error) {
	set, err := s.GetQuestionSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	found, err := s.repo.GetQuestions(ctx, set.Questions)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	out := make([]practicedomain.Question, 0, len(set.Questions))
	for _, id := range set.Questions {
		if q, ok := found[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *PracticeSrvc) CreateQuestion(ctx context.Context, q practicedomain.Question) (*practicedomain.Question, error) {
	if err := q.Validate(); err != nil {
		return nil, newErrInvalidQuestion().SetDebug(err)
	}
	id, err := s.newID()
	if err != nil {
		return nil, mapRepoErr(err)
	}
	q.ID = id
	q.CreatedAt = s.now().UTC()
	if err := s.repo.PutQuestion(ctx, q); err != nil {
		return nil, mapRepoErr(fmt.Errorf("put question: %w", err))
	}
	logger.FromContext(ctx).Info("question created", "question_id", q.ID, "kind", q.Body.Kind())
	return &q, nil
}

// QuestionUpdate changes the non-nil fields. A non-nil Body replaces the
// whole answer shape.
type QuestionUpdate struct {
	Text        *string
	Explanation *string
	Difficulty  *snbt.Difficulty
	Subtest     *snbt.Subtest
	Topic       *string
	Body        practicedomain.QuestionBody
}

func (s *PracticeSrvc) UpdateQuestion(ctx context.Context, id string, u QuestionUpdate) (*practicedomain.Question, error) {
	q, err := s.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Text != nil {
		q.Text = *u.Text
	}
	if u.Explanation != nil {
		q.Explanation = *u.Explanation
	}
	if u.Difficulty != nil {
		q.Difficulty = *u.Difficulty
	}
	if u.Subtest != nil {
		q.Subtest = *u.Subtest
	}
	if u.Topic != nil {
		q.Topic = *u.Topic
	}
	if u.Body != nil {
		q.Body = u.Body
	}
	if err := q.Validate(); err != nil {
		return nil, newErrInvalidQuestion().SetDebug(err)
	}
	if err := s.repo.PutQuestion(ctx, *q); err != nil {
		return nil, mapRepoErr(fmt.Errorf("put question: %w", err))
	}
	return q, nil
}

// DeleteQuestion is refused while any set lists the question.
func (s *PracticeSrvc) DeleteQuestion(ctx context.Context, id string) error {
	if _, err := s.GetQuestion(ctx, id); err != nil {
		return err
	}
	sets, err := s.repo.SetsReferencing(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}
	if len(sets) > 0 {
		return newErrQuestionInUse().SetDebug(fmt.Errorf("referenced by question set %s", sets[0].ID))
	}
	if err := s.repo.DeleteQuestion(ctx, id); err != nil {
		return mapRepoErr(fmt.Errorf("delete question: %w", err))
	}
	logger.FromContext(ctx).Info("question deleted", "question_id", id)
	return nil
}
