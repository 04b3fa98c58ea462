package practicesrvc

import (
	"context"
	"fmt"
	"time"

	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/resultevent"
)

const DefaultRecentActivityCount = 5

type SubmitPracticeParams struct {
	UserID        string
	QuestionSetID string
	Answers       []practicedomain.SubmittedAnswer
	// CompletionTime in seconds; non-positive means the sum of answer times.
	CompletionTime float64
}

// SubmitPractice grades the answers against the set's questions and saves
// the result. Answers to questions outside the set, and repeated answers
// to one question, are ignored.
func (s *PracticeSrvc) SubmitPractice(ctx context.Context, p SubmitPracticeParams) (*practicedomain.PracticeResult, error) {
	set, err := s.GetQuestionSet(ctx, p.QuestionSetID)
	if err != nil {
		return nil, err
	}
	questions, err := s.repo.GetQuestions(ctx, set.Questions)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	graded := practicedomain.GradeAnswers(set.Questions, questions, p.Answers)
	if len(graded) == 0 {
		return nil, newErrNoAnswers()
	}

	result := practicedomain.NewPracticeResult(p.UserID, set.ID, graded, p.CompletionTime, s.now().UTC())
	return s.SavePracticeResult(ctx, result)
}

// SavePracticeResult stores an already graded result and announces it.
// A zero CompletedAt is set to now.
func (s *PracticeSrvc) SavePracticeResult(ctx context.Context, r practicedomain.PracticeResult) (*practicedomain.PracticeResult, error) {
	if err := r.Validate(); err != nil {
		return nil, newErrInvalidPracticeResult().SetDebug(err)
	}
	if r.ID == "" {
		id, err := s.newID()
		if err != nil {
			return nil, mapRepoErr(err)
		}
		r.ID = id
	}
	if r.CompletedAt.IsZero() {
		r.CompletedAt = s.now().UTC()
	}
	if err := s.repo.PutResult(ctx, r); err != nil {
		return nil, mapRepoErr(fmt.Errorf("put practice result: %w", err))
	}

	log := logger.FromContext(ctx).With("practice_result_id", r.ID)
	log.Info("practice result saved", "score", r.Score, "total", r.TotalQuestions)
	s.publish(ctx, resultevent.ResultCompleted{
		ResultID:    r.ID,
		UserID:      r.UserID,
		Kind:        resultevent.KindPractice,
		Correct:     r.TotalCorrect,
		Total:       r.TotalQuestions,
		Score:       r.Score,
		CompletedAt: r.CompletedAt,
	})
	return &r, nil
}

// publish failures are logged only; the result is already stored.
func (s *PracticeSrvc) publish(ctx context.Context, ev resultevent.ResultCompleted) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logger.FromContext(ctx).Error("failed to publish result event", "result_id", ev.ResultID, "error", err)
	}
}

func (s *PracticeSrvc) GetPracticeResult(ctx context.Context, id string) (*practicedomain.PracticeResult, error) {
	r, err := s.repo.GetResult(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if r == nil {
		return nil, newErrPracticeResultNotFound()
	}
	return r, nil
}

// ListUserPracticeResults returns up to limit results, newest first.
func (s *PracticeSrvc) ListUserPracticeResults(ctx context.Context, userID string, limit int) ([]practicedomain.PracticeResult, error) {
	results, _, err := s.repo.ListUserResults(ctx, userID, "", ddbutil.PageSize(limit))
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return results, nil
}

// GetUserPracticeStats aggregates the user's whole history, read page by
// page.
func (s *PracticeSrvc) GetUserPracticeStats(ctx context.Context, userID string, now time.Time) (*practicedomain.PracticeStats, error) {
	all, err := s.allUserResults(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := practicedomain.AggregateStats(all, now.In(s.loc))
	return &stats, nil
}

func (s *PracticeSrvc) allUserResults(ctx context.Context, userID string) ([]practicedomain.PracticeResult, error) {
	var all []practicedomain.PracticeResult
	err := s.WalkUserPracticeResults(ctx, userID, func(r practicedomain.PracticeResult) error {
		all = append(all, r)
		return nil
	})
	return all, err
}

// WalkUserPracticeResults calls fn for every result of the user, newest
// first, reading the store page by page. An error from fn stops the walk.
func (s *PracticeSrvc) WalkUserPracticeResults(ctx context.Context, userID string, fn func(practicedomain.PracticeResult) error) error {
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

// GetRecentActivity formats the latest count results. Results whose set
// was deleted are left out.
func (s *PracticeSrvc) GetRecentActivity(ctx context.Context, userID string, count int, now time.Time) ([]practicedomain.RecentActivity, error) {
	if count <= 0 {
		count = DefaultRecentActivityCount
	}
	results, _, err := s.repo.ListUserResults(ctx, userID, "", ddbutil.PageSize(count))
	if err != nil {
		return nil, mapRepoErr(err)
	}

	sets := make(map[string]*practicedomain.QuestionSet)
	items := make([]practicedomain.ActivitySource, 0, len(results))
	for _, r := range results {
		set, seen := sets[r.QuestionSetID]
		if !seen {
			set, err = s.repo.GetSet(ctx, r.QuestionSetID)
			if err != nil {
				return nil, mapRepoErr(err)
			}
			sets[r.QuestionSetID] = set
		}
		items = append(items, practicedomain.ActivitySource{Result: r, Set: set})
	}
	return practicedomain.FormatRecentActivity(items, now.In(s.loc)), nil
}
