// Package tryoutddb stores tryouts, tryout results, scheduled tryouts and
// registrations in DynamoDB.
//
// Tables:
//
//	tryouts:           hash id; gsi1 (gsi1_pk, updated_at)
//	tryout results:    hash id; by-user (user_id, completed_at);
//	                   by-tryout (tryout_id, score)
//	scheduled tryouts: hash id; by-status (status, date)
//	registrations:     hash scheduled_tryout_id, range user_id;
//	                   by-user (user_id, registered_at)
package tryoutddb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/guregu/dynamo/v2"
	"github.com/snbtku/backend/conf"
	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/snbt"
	"github.com/snbtku/backend/tryout/tryoutdomain"
	"github.com/snbtku/backend/tryout/tryoutsrvc"
)

const (
	indexGsi1     = "gsi1"
	indexByUser   = "by-user"
	indexByTryout = "by-tryout"
	indexByStatus = "by-status"
)

type DynamoDbTryoutRepo struct {
	db            *dynamo.DB
	tryouts       dynamo.Table
	results       dynamo.Table
	scheduled     dynamo.Table
	registrations dynamo.Table
}

func NewDynamoDbTryoutRepo(db *dynamo.DB, tables conf.Tables) *DynamoDbTryoutRepo {
	return &DynamoDbTryoutRepo{
		db:            db,
		tryouts:       db.Table(tables.Tryouts),
		results:       db.Table(tables.TryoutResults),
		scheduled:     db.Table(tables.ScheduledTryouts),
		registrations: db.Table(tables.Registrations),
	}
}

var _ tryoutsrvc.Repo = (*DynamoDbTryoutRepo)(nil)

type tryoutRow struct {
	ID           string `dynamo:"id,hash"`
	Gsi1Pk       string `dynamo:"gsi1_pk" index:"gsi1,hash"`
	UpdatedAt    int64  `dynamo:"updated_at" index:"gsi1,range"`
	Title        string `dynamo:"title"`
	Description  string `dynamo:"description"`
	Duration     int    `dynamo:"duration"`
	Participants int    `dynamo:"participants"`
	Difficulty   string `dynamo:"difficulty"`
	Status       string `dynamo:"status"`
	StartTime    string `dynamo:"start_time"`
	// Subtests is the JSON encoded subtest list.
	Subtests  string `dynamo:"subtests"`
	IsPublic  bool   `dynamo:"is_public"`
	IsPremium bool   `dynamo:"is_premium"`
	CreatedBy string `dynamo:"created_by"`
	CreatedAt int64  `dynamo:"created_at"`
}

func fromTryout(t tryoutdomain.Tryout) (tryoutRow, error) {
	subtests, err := json.Marshal(t.Subtests)
	if err != nil {
		return tryoutRow{}, fmt.Errorf("marshal subtests of %s: %w", t.ID, err)
	}
	return tryoutRow{
		ID:           t.ID,
		Gsi1Pk:       ddbutil.GlobalPartition,
		UpdatedAt:    ddbutil.Millis(t.UpdatedAt),
		Title:        t.Title,
		Description:  t.Description,
		Duration:     t.Duration,
		Participants: t.Participants,
		Difficulty:   string(t.Difficulty),
		Status:       string(t.Status),
		StartTime:    t.StartTime.String(),
		Subtests:     string(subtests),
		IsPublic:     t.IsPublic,
		IsPremium:    t.IsPremium,
		CreatedBy:    t.CreatedBy,
		CreatedAt:    ddbutil.Millis(t.CreatedAt),
	}, nil
}

func (row tryoutRow) toTryout() (tryoutdomain.Tryout, error) {
	var subtests []tryoutdomain.Subtest
	if row.Subtests != "" {
		if err := json.Unmarshal([]byte(row.Subtests), &subtests); err != nil {
			return tryoutdomain.Tryout{}, fmt.Errorf("unmarshal subtests of %s: %w", row.ID, err)
		}
	}
	start, err := tryoutdomain.ParseStartTime(row.StartTime)
	if err != nil {
		return tryoutdomain.Tryout{}, fmt.Errorf("tryout %s: %w", row.ID, err)
	}
	return tryoutdomain.Tryout{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		Duration:     row.Duration,
		Participants: row.Participants,
		Difficulty:   snbt.Difficulty(row.Difficulty),
		Status:       tryoutdomain.Status(row.Status),
		StartTime:    start,
		Subtests:     subtests,
		IsPublic:     row.IsPublic,
		IsPremium:    row.IsPremium,
		CreatedBy:    row.CreatedBy,
		CreatedAt:    ddbutil.FromMillis(row.CreatedAt),
		UpdatedAt:    ddbutil.FromMillis(row.UpdatedAt),
	}, nil
}

func (r *DynamoDbTryoutRepo) GetTryout(ctx context.Context, id string) (*tryoutdomain.Tryout, error) {
	var row tryoutRow
	err := r.tryouts.Get("id", id).One(ctx, &row)
	if errors.Is(err, dynamo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tryout %s: %w", id, err)
	}
	t, err := row.toTryout()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *DynamoDbTryoutRepo) ListTryouts(ctx context.Context, f tryoutdomain.Filter, cursor string, limit int) ([]tryoutdomain.Tryout, string, error) {
	start, err := ddbutil.DecodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	f = f.Normalized()

	q := r.tryouts.Get("gsi1_pk", ddbutil.GlobalPartition).
		Index(indexGsi1).
		Order(dynamo.Descending).
		Limit(limit)
	if f.Status != "" {
		q = q.Filter("$ = ?", "status", f.Status)
	}
	if f.Difficulty != "" {
		q = q.Filter("$ = ?", "difficulty", f.Difficulty)
	}
	if start != nil {
		q = q.StartFrom(start)
	}

	var rows []tryoutRow
	lek, err := q.AllWithLastEvaluatedKey(ctx, &rows)
	if err != nil {
		return nil, "", fmt.Errorf("query tryouts: %w", err)
	}
	next, err := ddbutil.EncodeCursor(lek)
	if err != nil {
		return nil, "", err
	}
	out := make([]tryoutdomain.Tryout, 0, len(rows))
	for _, row := range rows {
		t, err := row.toTryout()
		if err != nil {
			return nil, "", err
		}
		out = append(out, t)
	}
	return out, next, nil
}

func (r *DynamoDbTryoutRepo) CreateTryout(ctx context.Context, t tryoutdomain.Tryout) error {
	row, err := fromTryout(t)
	if err != nil {
		return err
	}
	return r.tryouts.Put(row).If("attribute_not_exists($)", "id").Run(ctx)
}

// UpdateTryout sets every attribute except participants, which only
// result writes touch.
func (r *DynamoDbTryoutRepo) UpdateTryout(ctx context.Context, t tryoutdomain.Tryout) error {
	row, err := fromTryout(t)
	if err != nil {
		return err
	}
	err = r.tryouts.Update("id", t.ID).
		Set("updated_at", row.UpdatedAt).
		Set("title", row.Title).
		Set("description", row.Description).
		Set("duration", row.Duration).
		Set("difficulty", row.Difficulty).
		Set("status", row.Status).
		Set("start_time", row.StartTime).
		Set("subtests", row.Subtests).
		Set("is_public", row.IsPublic).
		Set("is_premium", row.IsPremium).
		If("attribute_exists($)", "id").
		Run(ctx)
	if dynamo.IsCondCheckFailed(err) {
		return tryoutsrvc.ErrTryoutMissing
	}
	if err != nil {
		return fmt.Errorf("update tryout %s: %w", t.ID, err)
	}
	return nil
}

func (r *DynamoDbTryoutRepo) DeleteTryout(ctx context.Context, id string) error {
	return r.tryouts.Delete("id", id).Run(ctx)
}
