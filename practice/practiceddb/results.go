package practiceddb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/guregu/dynamo/v2"
	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/practice/practicedomain"
)

type resultRow struct {
	ID             string  `dynamo:"id,hash"`
	UserID         string  `dynamo:"user_id" index:"by-user,hash"`
	CompletedAt    int64   `dynamo:"completed_at" index:"by-user,range"`
	QuestionSetID  string  `dynamo:"question_set_id" index:"by-set,hash"`
	Score          int     `dynamo:"score"`
	TotalCorrect   int     `dynamo:"total_correct"`
	TotalQuestions int     `dynamo:"total_questions"`
	CompletionTime float64 `dynamo:"completion_time"`
	// Answers is the JSON encoded answer list.
	Answers string `dynamo:"answers"`
}

func fromResult(r practicedomain.PracticeResult) (resultRow, error) {
	answers, err := json.Marshal(r.Answers)
	if err != nil {
		return resultRow{}, fmt.Errorf("marshal answers of %s: %w", r.ID, err)
	}
	return resultRow{
		ID:             r.ID,
		UserID:         r.UserID,
		CompletedAt:    ddbutil.Millis(r.CompletedAt),
		QuestionSetID:  r.QuestionSetID,
		Score:          r.Score,
		TotalCorrect:   r.TotalCorrect,
		TotalQuestions: r.TotalQuestions,
		CompletionTime: r.CompletionTime,
		Answers:        string(answers),
	}, nil
}

func (row resultRow) toResult() (practicedomain.PracticeResult, error) {
	var answers []practicedomain.UserAnswer
	if row.Answers != "" {
		if err := json.Unmarshal([]byte(row.Answers), &answers); err != nil {
			return practicedomain.PracticeResult{}, fmt.Errorf("unmarshal answers of %s: %w", row.ID, err)
		}
	}
	return practicedomain.PracticeResult{
		ID:             row.ID,
		UserID:         row.UserID,
		QuestionSetID:  row.QuestionSetID,
		Answers:        answers,
		Score:          row.Score,
		TotalCorrect:   row.TotalCorrect,
		TotalQuestions: row.TotalQuestions,
		CompletionTime: row.CompletionTime,
		CompletedAt:    ddbutil.FromMillis(row.CompletedAt),
	}, nil
}

func (r *DynamoDbPracticeRepo) PutResult(ctx context.Context, res practicedomain.PracticeResult) error {
	row, err := fromResult(res)
	if err != nil {
		return err
	}
	return r.results.Put(row).If("attribute_not_exists($)", "id").Run(ctx)
}

func (r *DynamoDbPracticeRepo) GetResult(ctx context.Context, id string) (*practicedomain.PracticeResult, error) {
	var row resultRow
	err := r.results.Get("id", id).One(ctx, &row)
	if errors.Is(err, dynamo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get practice result %s: %w", id, err)
	}
	res, err := row.toResult()
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *DynamoDbPracticeRepo) ListUserResults(ctx context.Context, userID, cursor string, limit int) ([]practicedomain.PracticeResult, string, error) {
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
		return nil, "", fmt.Errorf("query practice results of %s: %w", userID, err)
	}
	next, err := ddbutil.EncodeCursor(lek)
	if err != nil {
		return nil, "", err
	}
	out := make([]practicedomain.PracticeResult, 0, len(rows))
	for _, row := range rows {
		res, err := row.toResult()
		if err != nil {
			return nil, "", err
		}
		out = append(out, res)
	}
	return out, next, nil
}

func (r *DynamoDbPracticeRepo) HasSetResults(ctx context.Context, setID string) (bool, error) {
	var rows []resultRow
	err := r.results.Get("question_set_id", setID).
		Index(indexBySet).
		Limit(1).
		All(ctx, &rows)
	if err != nil {
		return false, fmt.Errorf("query practice results of set %s: %w", setID, err)
	}
	return len(rows) > 0, nil
}
