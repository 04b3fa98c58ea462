package tryoutddb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/guregu/dynamo/v2"
	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/tryout/tryoutdomain"
	"github.com/snbtku/backend/tryout/tryoutsrvc"
)

type resultRow struct {
	ID                string `dynamo:"id,hash"`
	UserID            string `dynamo:"user_id" index:"by-user,hash"`
	CompletedAt       int64  `dynamo:"completed_at" index:"by-user,range"`
	TryoutID          string `dynamo:"tryout_id" index:"by-tryout,hash"`
	Score             int    `dynamo:"score" index:"by-tryout,range"`
	MaxScore          int    `dynamo:"max_score"`
	Rank              int    `dynamo:"rank"`
	TotalParticipants int    `dynamo:"total_participants"`
	Percentile        int    `dynamo:"percentile"`
	// SubtestScores is the JSON encoded per subtest breakdown.
	SubtestScores string `dynamo:"subtest_scores"`
}

func fromResult(res tryoutdomain.TryoutResult) (resultRow, error) {
	subtests, err := json.Marshal(res.SubtestScores)
	if err != nil {
		return resultRow{}, fmt.Errorf("marshal subtest scores of %s: %w", res.ID, err)
	}
	return resultRow{
		ID:                res.ID,
		UserID:            res.UserID,
		CompletedAt:       ddbutil.Millis(res.CompletedDate),
		TryoutID:          res.TryoutID,
		Score:             res.Score,
		MaxScore:          res.MaxScore,
		Rank:              res.Rank,
		TotalParticipants: res.TotalParticipants,
		Percentile:        res.Percentile,
		SubtestScores:     string(subtests),
	}, nil
}

func (row resultRow) toResult() (tryoutdomain.TryoutResult, error) {
	var subtests []tryoutdomain.SubtestResult
	if row.SubtestScores != "" {
		if err := json.Unmarshal([]byte(row.SubtestScores), &subtests); err != nil {
			return tryoutdomain.TryoutResult{}, fmt.Errorf("unmarshal subtest scores of %s: %w", row.ID, err)
		}
	}
	return tryoutdomain.TryoutResult{
		ID:                row.ID,
		TryoutID:          row.TryoutID,
		UserID:            row.UserID,
		Score:             row.Score,
		MaxScore:          row.MaxScore,
		Rank:              row.Rank,
		TotalParticipants: row.TotalParticipants,
		Percentile:        row.Percentile,
		CompletedDate:     ddbutil.FromMillis(row.CompletedAt),
		SubtestScores:     subtests,
	}, nil
}

// SaveResult puts the result and bumps the tryout's participants in one
// transaction.
func (r *DynamoDbTryoutRepo) SaveResult(ctx context.Context, res tryoutdomain.TryoutResult) error {
	row, err := fromResult(res)
	if err != nil {
		return err
	}
	err = r.db.WriteTx().
		Put(r.results.Put(row).If("attribute_not_exists($)", "id")).
		Update(r.tryouts.Update("id", res.TryoutID).
			Add("participants", 1).
			If("attribute_exists($)", "id")).
		Run(ctx)
	if dynamo.IsCondCheckFailed(err) {
		return tryoutsrvc.ErrTryoutMissing
	}
	if err != nil {
		return fmt.Errorf("save tryout result %s: %w", res.ID, err)
	}
	return nil
}

func (r *DynamoDbTryoutRepo) GetResult(ctx context.Context, id string) (*tryoutdomain.TryoutResult, error) {
	var row resultRow
	err := r.results.Get("id", id).One(ctx, &row)
	if errors.Is(err, dynamo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tryout result %s: %w", id, err)
	}
	res, err := row.toResult()
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *DynamoDbTryoutRepo) ListUserResults(ctx context.Context, userID, cursor string, limit int) ([]tryoutdomain.TryoutResult, string, error) {
	start, err := ddbutil.DecodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	q := r.results.Get("user_id", userID).
		Index(indexByUser).
		Order(dynamo.Descending).
		Limit(limit)
	if start != nil {
		q = q.StartFrom(start)
	}

	var rows []resultRow
	lek, err := q.AllWithLastEvaluatedKey(ctx, &rows)
	if err != nil {
		return nil, "", fmt.Errorf("query tryout results of %s: %w", userID, err)
	}
	next, err := ddbutil.EncodeCursor(lek)
	if err != nil {
		return nil, "", err
	}
	out := make([]tryoutdomain.TryoutResult, 0, len(rows))
	for _, row := range rows {
		res, err := row.toResult()
		if err != nil {
			return nil, "", err
		}
		out = append(out, res)
	}
	return out, next, nil
}

func (r *DynamoDbTryoutRepo) TryoutScores(ctx context.Context, tryoutID string) ([]int, error) {
	var rows []struct {
		Score int `dynamo:"score"`
	}
	err := r.results.Get("tryout_id", tryoutID).
		Index(indexByTryout).
		Project("score").
		All(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("query scores of tryout %s: %w", tryoutID, err)
	}
	scores := make([]int, 0, len(rows))
	for _, row := range rows {
		scores = append(scores, row.Score)
	}
	return scores, nil
}

func (r *DynamoDbTryoutRepo) HasTryoutResults(ctx context.Context, tryoutID string) (bool, error) {
	n, err := r.results.Get("tryout_id", tryoutID).
		Index(indexByTryout).
		Limit(1).
		Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count results of tryout %s: %w", tryoutID, err)
	}
	return n > 0, nil
}
