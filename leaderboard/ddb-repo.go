package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guregu/dynamo/v2"
	"github.com/snbtku/backend/ddbutil"
)

const processedPrefix = "processed#"

type progressRow struct {
	UserID         string   `dynamo:"user_id,hash"`
	Gsi1Pk         string   `dynamo:"gsi1_pk" index:"gsi1,hash"`
	Xp             int      `dynamo:"xp" index:"gsi1,range"`
	PracticeCount  int      `dynamo:"practice_count"`
	TryoutCount    int      `dynamo:"tryout_count"`
	CorrectAnswers int      `dynamo:"correct_answers"`
	TotalAnswers   int      `dynamo:"total_answers"`
	ActiveRuns     []DayRun `dynamo:"active_runs"`
	LastActiveDay  int64    `dynamo:"last_active_day"`
	Streak         int      `dynamo:"streak"`
	UpdatedAt      int64    `dynamo:"updated_at"`
	Version        int      `dynamo:"version"`
}

// markerRow records a processed result id. It carries no gsi1_pk so it
// stays out of the ranking index.
type markerRow struct {
	UserID      string `dynamo:"user_id,hash"`
	Owner       string `dynamo:"owner"`
	ProcessedAt int64  `dynamo:"processed_at"`
}

type DynamoDbProgressRepo struct {
	db    *dynamo.DB
	table dynamo.Table
	now   func() time.Time
}

func NewDynamoDbProgressRepo(db *dynamo.DB, tableName string) *DynamoDbProgressRepo {
	return &DynamoDbProgressRepo{db: db, table: db.Table(tableName), now: time.Now}
}

func (r *DynamoDbProgressRepo) Get(ctx context.Context, userID string) (*Progress, error) {
	var row progressRow
	err := r.table.Get("user_id", userID).One(ctx, &row)
	if errors.Is(err, dynamo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress %s: %w", userID, err)
	}
	p := row.toProgress()
	return &p, nil
}

func (r *DynamoDbProgressRepo) IsProcessed(ctx context.Context, resultID string) (bool, error) {
	var marker markerRow
	err := r.table.Get("user_id", processedPrefix+resultID).One(ctx, &marker)
	if errors.Is(err, dynamo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get processed marker %s: %w", resultID, err)
	}
	return true, nil
}

func (r *DynamoDbProgressRepo) Save(ctx context.Context, p Progress, resultID string) error {
	marker := markerRow{
		UserID:      processedPrefix + resultID,
		Owner:       p.UserID,
		ProcessedAt: ddbutil.Millis(r.now()),
	}
	put := r.table.Put(fromProgress(p))
	if p.Version <= 1 {
		put = put.If("attribute_not_exists($)", "user_id")
	} else {
		put = put.If("$ = ?", "version", p.Version-1)
	}

	err := r.db.WriteTx().
		Put(r.table.Put(marker).If("attribute_not_exists($)", "user_id")).
		Put(put).
		Run(ctx)
	if dynamo.IsCondCheckFailed(err) {
		return errConflict
	}
	if err != nil {
		return fmt.Errorf("save progress %s: %w", p.UserID, err)
	}
	return nil
}

func (r *DynamoDbProgressRepo) Top(ctx context.Context, n int) ([]Progress, error) {
	var rows []progressRow
	err := r.table.Get("gsi1_pk", ddbutil.GlobalPartition).
		Index("gsi1").
		Order(dynamo.Descending).
		Limit(n).
		All(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("query top progress: %w", err)
	}
	out := make([]Progress, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toProgress())
	}
	return out, nil
}

func (r *DynamoDbProgressRepo) CountAbove(ctx context.Context, xp int) (int, error) {
	n, err := r.table.Get("gsi1_pk", ddbutil.GlobalPartition).
		Index("gsi1").
		Range("xp", dynamo.Greater, xp).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count progress above %d: %w", xp, err)
	}
	return n, nil
}

func fromProgress(p Progress) progressRow {
	return progressRow{
		UserID:         p.UserID,
		Gsi1Pk:         ddbutil.GlobalPartition,
		Xp:             p.Xp,
		PracticeCount:  p.PracticeCount,
		TryoutCount:    p.TryoutCount,
		CorrectAnswers: p.CorrectAnswers,
		TotalAnswers:   p.TotalAnswers,
		ActiveRuns:     p.ActiveRuns,
		LastActiveDay:  p.LastActiveDay,
		Streak:         p.Streak,
		UpdatedAt:      ddbutil.Millis(p.UpdatedAt),
		Version:        p.Version,
	}
}

func (row progressRow) toProgress() Progress {
	return Progress{
		UserID:         row.UserID,
		Xp:             row.Xp,
		PracticeCount:  row.PracticeCount,
		TryoutCount:    row.TryoutCount,
		CorrectAnswers: row.CorrectAnswers,
		TotalAnswers:   row.TotalAnswers,
		ActiveRuns:     row.ActiveRuns,
		LastActiveDay:  row.LastActiveDay,
		Streak:         row.Streak,
		UpdatedAt:      ddbutil.FromMillis(row.UpdatedAt),
		Version:        row.Version,
	}
}
