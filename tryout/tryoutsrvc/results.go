package tryoutsrvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/resultevent"
	"github.com/snbtku/backend/snbt"
	"github.com/snbtku/backend/tryout/tryoutdomain"
)

// CalculateScore scores already graded answers against the tryout's
// subtests without storing anything.
func (s *TryoutSrvc) CalculateScore(ctx context.Context, tryoutID string, answers map[snbt.Subtest][]practicedomain.UserAnswer) ([]tryoutdomain.SubtestResult, error) {
	t, err := s.GetTryout(ctx, tryoutID)
	if err != nil {
		return nil, err
	}
	for name := range answers {
		if _, ok := t.Subtest(name); !ok {
			return nil, newErrUnknownSubtest(string(name))
		}
	}
	return tryoutdomain.CalcSubtestResults(t.Subtests, answers), nil
}

type SubmitTryoutParams struct {
	UserID   string
	TryoutID string
	Answers  map[snbt.Subtest][]practicedomain.SubmittedAnswer
}

// SubmitTryout grades and scores the answers, places the score among the
// earlier results of the tryout and stores the result together with the
// participant increment.
func (s *TryoutSrvc) SubmitTryout(ctx context.Context, p SubmitTryoutParams) (*tryoutdomain.TryoutResult, error) {
	t, err := s.GetTryout(ctx, p.TryoutID)
	if err != nil {
		return nil, err
	}

	var ids []string
	for name := range p.Answers {
		st, ok := t.Subtest(name)
		if !ok {
			return nil, newErrUnknownSubtest(string(name))
		}
		ids = append(ids, st.QuestionIDs...)
	}
	questions := map[string]practicedomain.Question{}
	if len(ids) > 0 {
		questions, err = s.questions.GetQuestions(ctx, ids)
		if err != nil {
			return nil, mapRepoErr(err)
		}
	}

	graded := make(map[snbt.Subtest][]practicedomain.UserAnswer, len(p.Answers))
	for name, submitted := range p.Answers {
		st, _ := t.Subtest(name)
		graded[name] = practicedomain.GradeAnswers(st.QuestionIDs, questions, submitted)
	}
	subtests := tryoutdomain.CalcSubtestResults(t.Subtests, graded)

	earlier, err := s.repo.TryoutScores(ctx, t.ID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	result := tryoutdomain.NewTryoutResult(t.ID, p.UserID, subtests, earlier, s.now().UTC())
	result.ID, err = s.newID()
	if err != nil {
		return nil, mapRepoErr(err)
	}

	err = s.repo.SaveResult(ctx, result)
	if errors.Is(err, ErrTryoutMissing) {
		return nil, newErrTryoutNotFound()
	}
	if err != nil {
		return nil, mapRepoErr(fmt.Errorf("save tryout result: %w", err))
	}

	correct, total := 0, 0
	for _, st := range result.SubtestScores {
		for _, a := range st.Answers {
			total++
			if a.IsCorrect {
				correct++
			}
		}
	}
	logger.FromContext(ctx).Info("tryout result saved",
		"tryout_result_id", result.ID, "tryout_id", t.ID, "score", result.Score, "rank", result.Rank)
	s.publish(ctx, resultevent.ResultCompleted{
		ResultID:    result.ID,
		UserID:      result.UserID,
		Kind:        resultevent.KindTryout,
		Correct:     correct,
		Total:       total,
		Score:       result.Score,
		CompletedAt: result.CompletedDate,
	})
	return &result, nil
}

func (s *TryoutSrvc) publish(ctx context.Context, ev resultevent.ResultCompleted) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logger.FromContext(ctx).Error("failed to publish result event", "result_id", ev.ResultID, "error", err)
	}
}

func (s *TryoutSrvc) GetTryoutResult(ctx context.Context, id string) (*tryoutdomain.TryoutResult, error) {
	r, err := s.repo.GetResult(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if r == nil {
		return nil, newErrTryoutResultNotFound()
	}
	return r, nil
}

func (s *TryoutSrvc) ListUserTryoutResults(ctx context.Context, userID string, limit int) ([]tryoutdomain.TryoutResult, error) {
	results, _, err := s.repo.ListUserResults(ctx, userID, "", ddbutil.PageSize(limit))
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return results, nil
}

// GetUserTryoutStats aggregates the user's whole history, read page by
// page.
func (s *TryoutSrvc) GetUserTryoutStats(ctx context.Context, userID string) (*tryoutdomain.TryoutStats, error) {
	var all []tryoutdomain.TryoutResult
	err := s.WalkUserTryoutResults(ctx, userID, func(r tryoutdomain.TryoutResult) error {
		all = append(all, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	stats := tryoutdomain.AggregateTryoutStats(all)
	return &stats, nil
}

// WalkUserTryoutResults calls fn for every result of the user, newest
// first. An error from fn stops the walk.
func (s *TryoutSrvc) WalkUserTryoutResults(ctx context.Context, userID string, fn func(tryoutdomain.TryoutResult) error) error {
	cursor := ""
	for {
		page, next, err := s.repo.ListUserResults(ctx, userID, cursor, ddbutil.MaxPageSize)
		if err != nil {
			return mapRepoErr(err)
		}
		for _, r := range page {
			if err := fn(r); err != nil {
				return err
			}
		}
		if next == "" {
			return nil
		}
		cursor = next
	}
}
