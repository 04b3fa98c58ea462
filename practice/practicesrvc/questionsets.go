package practicesrvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/snbt"
)

// maxSearchPages bounds how many store pages a search scans to fill one
// result page.
const maxSearchPages = 10

// ListQuestionSets pages through sets, newest update first. The search
// query is matched in process, so a searched page may hold fewer items
// than pageSize while NextCursor is still set.
func (s *PracticeSrvc) ListQuestionSets(ctx context.Context, f practicedomain.Filter, cursor string, pageSize int) (*Page[practicedomain.QuestionSet], error) {
	f = f.Normalized()
	limit := ddbutil.PageSize(pageSize)

	if f.SearchQuery == "" {
		sets, next, err := s.repo.ListSets(ctx, f, cursor, limit)
		if err != nil {
			return nil, mapRepoErr(err)
		}
		return &Page[practicedomain.QuestionSet]{Items: sets, NextCursor: next}, nil
	}

	items := make([]practicedomain.QuestionSet, 0, limit)
	next := cursor
	for i := 0; i < maxSearchPages; i++ {
		sets, nextCursor, err := s.repo.ListSets(ctx, f, next, limit)
		if err != nil {
			return nil, mapRepoErr(err)
		}
		for _, set := range sets {
			if practicedomain.MatchesSearch(set, f.SearchQuery) {
				items = append(items, set)
			}
		}
		next = nextCursor
		if next == "" || len(items) >= limit {
			break
		}
	}
	return &Page[practicedomain.QuestionSet]{Items: items, NextCursor: next}, nil
}

func (s *PracticeSrvc) GetQuestionSet(ctx context.Context, id string) (*practicedomain.QuestionSet, error) {
	set, err := s.repo.GetSet(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if set == nil {
		return nil, newErrQuestionSetNotFound()
	}
	return set, nil
}

// CreateQuestionSet stores a new set. Listed question ids must exist and
// the declared count follows the list when one is given.
func (s *PracticeSrvc) CreateQuestionSet(ctx context.Context, set practicedomain.QuestionSet) (*practicedomain.QuestionSet, error) {
	if len(set.Questions) > 0 {
		if err := s.checkQuestionsExist(ctx, set.Questions); err != nil {
			return nil, err
		}
		set.QuestionCount = len(set.Questions)
	}
	if err := set.Validate(); err != nil {
		return nil, newErrInvalidQuestionSet().SetDebug(err)
	}

	id, err := s.newID()
	if err != nil {
		return nil, mapRepoErr(err)
	}
	now := s.now().UTC()
	set.ID = id
	set.CreatedAt = now
	set.UpdatedAt = now
	if err := s.repo.PutSet(ctx, set); err != nil {
		return nil, mapRepoErr(fmt.Errorf("put question set: %w", err))
	}

	logger.FromContext(ctx).Info("question set created", "question_set_id", set.ID, "questions", len(set.Questions))
	return &set, nil
}

// QuestionSetUpdate changes the non-nil fields.
type QuestionSetUpdate struct {
	Title         *string
	Description   *string
	Subtest       *snbt.Subtest
	Topic         *string
	Difficulty    *snbt.Difficulty
	QuestionCount *int
	EstimatedTime *string
	Questions     *[]string
	IsPublic      *bool
}

func (s *PracticeSrvc) UpdateQuestionSet(ctx context.Context, id string, u QuestionSetUpdate) (*practicedomain.QuestionSet, error) {
	set, err := s.GetQuestionSet(ctx, id)
	if err != nil {
		return nil, err
	}

	if u.Title != nil {
		set.Title = *u.Title
	}
	if u.Description != nil {
		set.Description = *u.Description
	}
	if u.Subtest != nil {
		set.Subtest = *u.Subtest
	}
	if u.Topic != nil {
		set.Topic = *u.Topic
	}
	if u.Difficulty != nil {
		set.Difficulty = *u.Difficulty
	}
	if u.QuestionCount != nil {
		set.QuestionCount = *u.QuestionCount
	}
	if u.EstimatedTime != nil {
		set.EstimatedTime = *u.EstimatedTime
	}
	if u.IsPublic != nil {
		set.IsPublic = *u.IsPublic
	}
	if u.Questions != nil {
		if err := s.checkQuestionsExist(ctx, *u.Questions); err != nil {
			return nil, err
		}
		set.Questions = *u.Questions
		set.QuestionCount = len(set.Questions)
	}
	if err := set.Validate(); err != nil {
		return nil, newErrInvalidQuestionSet().SetDebug(err)
	}

	set.UpdatedAt = s.now().UTC()
	if err := s.repo.PutSet(ctx, *set); err != nil {
		return nil, mapRepoErr(fmt.Errorf("put question set: %w", err))
	}
	return set, nil
}

// DeleteQuestionSet is refused while practice results reference the set.
func (s *PracticeSrvc) DeleteQuestionSet(ctx context.Context, id string) error {
	if _, err := s.GetQuestionSet(ctx, id); err != nil {
		return err
	}
	used, err := s.repo.HasSetResults(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}
	if used {
		return newErrQuestionSetHasResults()
	}
	if err := s.repo.DeleteSet(ctx, id); err != nil {
		return mapRepoErr(fmt.Errorf("delete question set: %w", err))
	}
	logger.FromContext(ctx).Info("question set deleted", "question_set_id", id)
	return nil
}

// CreateQuestionSetWithQuestions stores new questions and a set listing
// them in order, written as one batch.
func (s *PracticeSrvc) CreateQuestionSetWithQuestions(ctx context.Context, set practicedomain.QuestionSet, questions []practicedomain.Question) (*practicedomain.QuestionSet, error) {
	now := s.now().UTC()
	stored := make([]practicedomain.Question, 0, len(questions))
	ids := make([]string, 0, len(questions))
	for i, q := range questions {
		q.CreatedBy = set.CreatedBy
		if err := q.Validate(); err != nil {
			return nil, newErrInvalidQuestion().SetDebug(fmt.Errorf("question %d: %w", i+1, err))
		}
		id, err := s.newID()
		if err != nil {
			return nil, mapRepoErr(err)
		}
		q.ID = id
		q.CreatedAt = now
		stored = append(stored, q)
		ids = append(ids, id)
	}

	set.Questions = ids
	set.QuestionCount = len(ids)
	if err := set.Validate(); err != nil {
		return nil, newErrInvalidQuestionSet().SetDebug(err)
	}
	id, err := s.newID()
	if err != nil {
		return nil, mapRepoErr(err)
	}
	set.ID = id
	set.CreatedAt = now
	set.UpdatedAt = now

	if err := s.repo.PutSetWithQuestions(ctx, set, stored); err != nil {
		return nil, mapRepoErr(fmt.Errorf("put question set with questions: %w", err))
	}
	logger.FromContext(ctx).Info("question set imported",
		"question_set_id", set.ID, "questions", len(stored), "title", strings.TrimSpace(set.Title))
	return &set, nil
}

func (s *PracticeSrvc) checkQuestionsExist(ctx context.Context, ids []string) error {
	found, err := s.repo.GetQuestions(ctx, ids)
	if err != nil {
		return mapRepoErr(err)
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return newErrQuestionNotFound().SetDebug(fmt.Errorf("question %s is missing", id))
		}
	}
	return nil
}
