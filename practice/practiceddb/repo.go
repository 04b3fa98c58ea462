// Package practiceddb stores questions, question sets and practice results
// in DynamoDB.
//
// Tables:
//
//	questions:        hash id
//	question sets:    hash id; gsi1 (gsi1_pk, updated_at)
//	practice results: hash id; by-user (user_id, completed_at);
//	                  by-set (question_set_id, completed_at)
package practiceddb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/guregu/dynamo/v2"
	"github.com/snbtku/backend/conf"
	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/snbt"
)

const (
	indexByUser = "by-user"
	indexBySet  = "by-set"
	indexGsi1   = "gsi1"
)

type DynamoDbPracticeRepo struct {
	questions dynamo.Table
	sets      dynamo.Table
	results   dynamo.Table
}

func NewDynamoDbPracticeRepo(db *dynamo.DB, tables conf.Tables) *DynamoDbPracticeRepo {
	return &DynamoDbPracticeRepo{
		questions: db.Table(tables.Questions),
		sets:      db.Table(tables.QuestionSets),
		results:   db.Table(tables.PracticeResults),
	}
}

type questionRow struct {
	ID         string `dynamo:"id,hash"`
	Kind       string `dynamo:"kind"`
	Subtest    string `dynamo:"subtest"`
	Difficulty string `dynamo:"difficulty"`
	Topic      string `dynamo:"topic"`
	CreatedAt  int64  `dynamo:"created_at"`
	// Doc is the question's JSON form, answer shape included.
	Doc string `dynamo:"doc"`
}

func fromQuestion(q practicedomain.Question) (questionRow, error) {
	doc, err := json.Marshal(q)
	if err != nil {
		return questionRow{}, fmt.Errorf("marshal question %s: %w", q.ID, err)
	}
	return questionRow{
		ID:         q.ID,
		Kind:       string(q.Body.Kind()),
		Subtest:    string(q.Subtest),
		Difficulty: string(q.Difficulty),
		Topic:      q.Topic,
		CreatedAt:  ddbutil.Millis(q.CreatedAt),
		Doc:        string(doc),
	}, nil
}

func (row questionRow) toQuestion() (practicedomain.Question, error) {
	var q practicedomain.Question
	if err := json.Unmarshal([]byte(row.Doc), &q); err != nil {
		return q, fmt.Errorf("unmarshal question %s: %w", row.ID, err)
	}
	q.ID = row.ID
	q.CreatedAt = ddbutil.FromMillis(row.CreatedAt)
	return q, nil
}

func (r *DynamoDbPracticeRepo) GetQuestion(ctx context.Context, id string) (*practicedomain.Question, error) {
	var row questionRow
	err := r.questions.Get("id", id).One(ctx, &row)
	if errors.Is(err, dynamo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get question %s: %w", id, err)
	}
	q, err := row.toQuestion()
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *DynamoDbPracticeRepo) GetQuestions(ctx context.Context, ids []string) (map[string]practicedomain.Question, error) {
	out := make(map[string]practicedomain.Question, len(ids))
	keys := make([]dynamo.Keyed, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			keys = append(keys, dynamo.Keys{id})
		}
	}
	if len(keys) == 0 {
		return out, nil
	}

	var rows []questionRow
	err := r.questions.Batch("id").Get(keys...).All(ctx, &rows)
	if err != nil && !errors.Is(err, dynamo.ErrNotFound) {
		return nil, fmt.Errorf("batch get questions: %w", err)
	}
	for _, row := range rows {
		q, err := row.toQuestion()
		if err != nil {
			return nil, err
		}
		out[q.ID] = q
	}
	return out, nil
}

func (r *DynamoDbPracticeRepo) PutQuestion(ctx context.Context, q practicedomain.Question) error {
	row, err := fromQuestion(q)
	if err != nil {
		return err
	}
	return r.questions.Put(row).Run(ctx)
}

func (r *DynamoDbPracticeRepo) DeleteQuestion(ctx context.Context, id string) error {
	return r.questions.Delete("id", id).Run(ctx)
}

type questionSetRow struct {
	ID            string   `dynamo:"id,hash"`
	Gsi1Pk        string   `dynamo:"gsi1_pk" index:"gsi1,hash"`
	UpdatedAt     int64    `dynamo:"updated_at" index:"gsi1,range"`
	Title         string   `dynamo:"title"`
	Description   string   `dynamo:"description"`
	Subtest       string   `dynamo:"subtest"`
	Topic         string   `dynamo:"topic"`
	Difficulty    string   `dynamo:"difficulty"`
	QuestionCount int      `dynamo:"question_count"`
	EstimatedTime string   `dynamo:"estimated_time"`
	Questions     []string `dynamo:"questions"`
	IsPublic      bool     `dynamo:"is_public"`
	CreatedBy     string   `dynamo:"created_by"`
	CreatedAt     int64    `dynamo:"created_at"`
}

func fromQuestionSet(s practicedomain.QuestionSet) questionSetRow {
	return questionSetRow{
		ID:            s.ID,
		Gsi1Pk:        ddbutil.GlobalPartition,
		UpdatedAt:     ddbutil.Millis(s.UpdatedAt),
		Title:         s.Title,
		Description:   s.Description,
		Subtest:       string(s.Subtest),
		Topic:         s.Topic,
		Difficulty:    string(s.Difficulty),
		QuestionCount: s.QuestionCount,
		EstimatedTime: s.EstimatedTime,
		Questions:     s.Questions,
		IsPublic:      s.IsPublic,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     ddbutil.Millis(s.CreatedAt),
	}
}

func (row questionSetRow) toQuestionSet() practicedomain.QuestionSet {
	questions := row.Questions
	if questions == nil {
		questions = []string{}
	}
	return practicedomain.QuestionSet{
		ID:            row.ID,
		Title:         row.Title,
		Description:   row.Description,
		Subtest:       snbt.Subtest(row.Subtest),
		Topic:         row.Topic,
		Difficulty:    snbt.Difficulty(row.Difficulty),
		QuestionCount: row.QuestionCount,
		EstimatedTime: row.EstimatedTime,
		Questions:     questions,
		IsPublic:      row.IsPublic,
		CreatedBy:     row.CreatedBy,
		CreatedAt:     ddbutil.FromMillis(row.CreatedAt),
		UpdatedAt:     ddbutil.FromMillis(row.UpdatedAt),
	}
}

func (r *DynamoDbPracticeRepo) GetSet(ctx context.Context, id string) (*practicedomain.QuestionSet, error) {
	var row questionSetRow
	err := r.sets.Get("id", id).One(ctx, &row)
	if errors.Is(err, dynamo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get question set %s: %w", id, err)
	}
	s := row.toQuestionSet()
	return &s, nil
}

func (r *DynamoDbPracticeRepo) ListSets(ctx context.Context, f practicedomain.Filter, cursor string, limit int) ([]practicedomain.QuestionSet, string, error) {
	start, err := ddbutil.DecodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	f = f.Normalized()

	q := r.sets.Get("gsi1_pk", ddbutil.GlobalPartition).
		Index(indexGsi1).
		Order(dynamo.Descending).
		Limit(limit)
	if f.Subtest != "" {
		q = q.Filter("$ = ?", "subtest", f.Subtest)
	}
	if f.Difficulty != "" {
		q = q.Filter("$ = ?", "difficulty", f.Difficulty)
	}
	if f.Topic != "" {
		q = q.Filter("$ = ?", "topic", f.Topic)
	}
	if start != nil {
		q = q.StartFrom(start)
	}

	var rows []questionSetRow
	lek, err := q.AllWithLastEvaluatedKey(ctx, &rows)
	if err != nil {
		return nil, "", fmt.Errorf("query question sets: %w", err)
	}
	next, err := ddbutil.EncodeCursor(lek)
	if err != nil {
		return nil, "", err
	}
	out := make([]practicedomain.QuestionSet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toQuestionSet())
	}
	return out, next, nil
}

func (r *DynamoDbPracticeRepo) PutSet(ctx context.Context, s practicedomain.QuestionSet) error {
	return r.sets.Put(fromQuestionSet(s)).Run(ctx)
}

func (r *DynamoDbPracticeRepo) DeleteSet(ctx context.Context, id string) error {
	return r.sets.Delete("id", id).Run(ctx)
}

func (r *DynamoDbPracticeRepo) SetsReferencing(ctx context.Context, questionID string) ([]practicedomain.QuestionSet, error) {
	var rows []questionSetRow
	err := r.sets.Scan().Filter("contains($, ?)", "questions", questionID).All(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("scan question sets for %s: %w", questionID, err)
	}
	out := make([]practicedomain.QuestionSet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toQuestionSet())
	}
	return out, nil
}

// PutSetWithQuestions batch writes the questions first so the set never
// lists a question that is not stored yet.
func (r *DynamoDbPracticeRepo) PutSetWithQuestions(ctx context.Context, s practicedomain.QuestionSet, qs []practicedomain.Question) error {
	if len(qs) > 0 {
		items := make([]any, 0, len(qs))
		for _, q := range qs {
			row, err := fromQuestion(q)
			if err != nil {
				return err
			}
			items = append(items, row)
		}
		wrote, err := r.questions.Batch("id").Write().Put(items...).Run(ctx)
		if err != nil {
			return fmt.Errorf("batch put questions (%d of %d written): %w", wrote, len(items), err)
		}
	}
	return r.PutSet(ctx, s)
}
