package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/snbtku/backend/leaderboard"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/tryout/tryoutdomain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePracticeWalker struct {
	results []practicedomain.PracticeResult
	err     error
}

func (f fakePracticeWalker) WalkUserPracticeResults(ctx context.Context, userID string, fn func(practicedomain.PracticeResult) error) error {
	for _, r := range f.results {
		if err := fn(r); err != nil {
			return err
		}
	}
	return f.err
}

type fakeTryoutWalker struct {
	results []tryoutdomain.TryoutResult
}

func (f fakeTryoutWalker) WalkUserTryoutResults(ctx context.Context, userID string, fn func(tryoutdomain.TryoutResult) error) error {
	for _, r := range f.results {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func TestExportResultsWritesCompressedLines(t *testing.T) {
	practice := fakePracticeWalker{results: []practicedomain.PracticeResult{
		{ID: "p2", UserID: "u1", Score: 3, TotalQuestions: 4},
		{ID: "p1", UserID: "u1", Score: 1, TotalQuestions: 4},
	}}
	tryouts := fakeTryoutWalker{results: []tryoutdomain.TryoutResult{{ID: "t1", UserID: "u1", Score: 80}}}

	var buf bytes.Buffer
	counts, err := exportResults(context.Background(), &buf, practice, tryouts, "u1")
	require.NoError(t, err)
	assert.Equal(t, exportCounts{Practice: 2, Tryouts: 1}, counts)

	dec, err := zstd.NewReader(&buf)
	require.NoError(t, err)
	defer dec.Close()

	var kinds, ids []string
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var rec struct {
			Kind   string `json:"kind"`
			Result struct {
				ID string `json:"id"`
			} `json:"result"`
		}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		kinds = append(kinds, rec.Kind)
		ids = append(ids, rec.Result.ID)
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, []string{"practice", "practice", "tryout"}, kinds)
	assert.Equal(t, []string{"p2", "p1", "t1"}, ids)
}

func TestExportResultsStopsOnStoreError(t *testing.T) {
	practice := fakePracticeWalker{err: errors.New("throttled")}
	_, err := exportResults(context.Background(), &bytes.Buffer{}, practice, fakeTryoutWalker{}, "u1")
	assert.ErrorContains(t, err, "throttled")
}

func TestRenderUserStats(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	out := renderUserStats(userStats{
		Name:         "Siti Aminah",
		Practice:     practicedomain.PracticeStats{AnsweredQuestions: 1250, Accuracy: 82, AverageTime: "1:05", Streak: 4},
		Tryouts:      tryoutdomain.TryoutStats{Completed: 3, AverageScore: 71, BestScore: 88, Rank: 2},
		Progress:     leaderboard.Entry{Xp: 12400, Level: 16, Rank: 1},
		LastActivity: now.Add(-2 * time.Hour),
	}, now)

	for _, want := range []string{"Siti Aminah", "1,250", "82%", "4 hari", "88", "2nd", "12,400", "1st"} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, "-", rankLabel(0))
}
