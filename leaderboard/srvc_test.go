package leaderboard

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/snbtku/backend/progress"
	"github.com/snbtku/backend/resultevent"
	"github.com/snbtku/backend/srvcerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*3600)

func newTestSrvc(now time.Time) (*LeaderboardSrvc, *InMemProgressRepo) {
	repo := NewInMemProgressRepo()
	srvc := NewLeaderboardSrvc(repo, wib)
	srvc.now = func() time.Time { return now }
	return srvc, repo
}

func practiceEvent(resultID, userID string, correct, total int, at time.Time) resultevent.ResultCompleted {
	return resultevent.ResultCompleted{
		ResultID:    resultID,
		UserID:      userID,
		Kind:        resultevent.KindPractice,
		Correct:     correct,
		Total:       total,
		Score:       correct,
		CompletedAt: at,
	}
}

func TestApplyCountsEachResultOnce(t *testing.T) {
	at := time.Date(2024, 3, 10, 9, 0, 0, 0, wib)
	srvc, repo := newTestSrvc(at)
	ctx := context.Background()

	ev := practiceEvent("r1", "u1", 4, 5, at)
	require.NoError(t, srvc.Apply(ctx, ev))
	require.NoError(t, srvc.Apply(ctx, ev))

	p, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 40, p.Xp)
	assert.Equal(t, 1, p.PracticeCount)
	assert.Equal(t, 4, p.CorrectAnswers)
	assert.Equal(t, 5, p.TotalAnswers)
	assert.Equal(t, 1, p.Version)
}

func TestApplyConcurrentDeliveries(t *testing.T) {
	at := time.Date(2024, 3, 10, 9, 0, 0, 0, wib)
	srvc, repo := newTestSrvc(at)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, srvc.Apply(ctx, practiceEvent("dup", "u1", 3, 3, at)))
		}()
	}
	wg.Wait()

	p, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 30, p.Xp)
}

func TestApplyTryoutUsesAggregateScore(t *testing.T) {
	at := time.Date(2024, 3, 10, 9, 0, 0, 0, wib)
	srvc, repo := newTestSrvc(at)
	ctx := context.Background()

	require.NoError(t, srvc.Apply(ctx, resultevent.ResultCompleted{
		ResultID: "t1", UserID: "u1", Kind: resultevent.KindTryout,
		Correct: 50, Total: 60, Score: 73, CompletedAt: at,
	}))
	p, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 73, p.Xp)
	assert.Equal(t, 1, p.TryoutCount)
	assert.Equal(t, 2, p.Level())
}

func TestApplyRejectsInvalidEvent(t *testing.T) {
	srvc, _ := newTestSrvc(time.Now())
	err := srvc.Apply(context.Background(), resultevent.ResultCompleted{ResultID: "x"})
	assert.Error(t, err)
}

func TestStreakAcrossDays(t *testing.T) {
	day1 := time.Date(2024, 3, 10, 23, 30, 0, 0, wib)
	day2 := time.Date(2024, 3, 11, 8, 0, 0, 0, wib)
	day4 := time.Date(2024, 3, 13, 8, 0, 0, 0, wib)

	var p Progress
	p = p.Applied(practiceEvent("a", "u", 1, 1, day1), wib)
	assert.Equal(t, 1, p.Streak)
	p = p.Applied(practiceEvent("b", "u", 1, 1, day1.Add(10*time.Minute)), wib)
	assert.Equal(t, 1, p.Streak)
	p = p.Applied(practiceEvent("c", "u", 1, 1, day2), wib)
	assert.Equal(t, 2, p.Streak)
	// late delivery of an older day does not break the run
	p = p.Applied(practiceEvent("d", "u", 1, 1, day1), wib)
	assert.Equal(t, 2, p.Streak)

	assert.Equal(t, 2, p.CurrentStreak(day2.Add(20*time.Hour)))
	assert.Equal(t, 0, p.CurrentStreak(day4))

	p = p.Applied(practiceEvent("e", "u", 1, 1, day4), wib)
	assert.Equal(t, 1, p.Streak)

	// the missing day arriving last joins both runs
	p = p.Applied(practiceEvent("f", "u", 1, 1, day2.AddDate(0, 0, 1)), wib)
	assert.Equal(t, 4, p.Streak)
	assert.Equal(t, []DayRun{{First: p.LastActiveDay - 3, Last: p.LastActiveDay}}, p.ActiveRuns)
}

func TestStreakMatchesFullHistoryInAnyOrder(t *testing.T) {
	today := time.Date(2024, 1, 15, 20, 0, 0, 0, wib)
	day := func(offset int) time.Time { return today.AddDate(0, 0, offset).Add(-8 * time.Hour) }

	orders := [][]int{
		{0, -1, -2},
		{-2, -1, 0},
		{-1, 0, -2},
		{0, -2, -4, -1, -3},
		{-6, 0, -1, -3, -2},
	}
	for _, offsets := range orders {
		var p Progress
		var history []time.Time
		for i, off := range offsets {
			p = p.Applied(practiceEvent(strconv.Itoa(i), "u", 1, 1, day(off)), wib)
			history = append(history, day(off))
		}
		want := progress.Streak(history, today)
		assert.Equal(t, want, p.CurrentStreak(today), "offsets %v", offsets)
		assert.Equal(t, want, p.Streak, "offsets %v", offsets)
	}
}

func TestActiveRunsPruneStaleDays(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, wib)
	var p Progress
	p = p.Applied(practiceEvent("old", "u", 1, 1, start), wib)
	p = p.Applied(practiceEvent("new", "u", 1, 1, start.AddDate(0, 2, 0)), wib)
	require.Len(t, p.ActiveRuns, 1)
	assert.Equal(t, 1, p.Streak)

	before := p
	p = p.Applied(practiceEvent("late", "u", 1, 1, start.AddDate(0, 2, -1)), wib)
	assert.Equal(t, 2, p.Streak)
	assert.Len(t, before.ActiveRuns, 1, "Applied leaves the receiver untouched")
	assert.Equal(t, 1, before.Streak)
}

type conflictingRepo struct {
	*InMemProgressRepo
}

func (conflictingRepo) Save(ctx context.Context, p Progress, resultID string) error {
	return errConflict
}

func TestApplyGivesUpAfterRepeatedConflicts(t *testing.T) {
	srvc := NewLeaderboardSrvc(conflictingRepo{NewInMemProgressRepo()}, wib)
	err := srvc.Apply(context.Background(), practiceEvent("r", "u", 1, 1, time.Now()))
	require.Error(t, err)
	assert.True(t, srvcerr.HasCode(err, ErrCodeProgressBusy))
}

type fakeNames map[string]string

func (f fakeNames) DisplayName(ctx context.Context, userID string) (string, error) {
	if name, ok := f[userID]; ok {
		return name, nil
	}
	return "", errors.New("unknown user")
}

func TestTopAndUserRank(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, wib)
	srvc, _ := newTestSrvc(now)
	srvc.WithNames(fakeNames{"a": "Ani", "b": "Budi", "c": "Citra"})
	ctx := context.Background()

	require.NoError(t, srvc.Apply(ctx, practiceEvent("1", "a", 5, 5, now)))
	require.NoError(t, srvc.Apply(ctx, practiceEvent("2", "b", 8, 10, now)))
	require.NoError(t, srvc.Apply(ctx, practiceEvent("3", "c", 5, 10, now)))
	require.NoError(t, srvc.Apply(ctx, practiceEvent("4", "d", 1, 10, now)))

	top, err := srvc.Top(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "b", top[0].UserID)
	assert.Equal(t, "Budi", top[0].Name)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, 2, top[1].Rank)
	assert.Equal(t, 2, top[2].Rank, "equal xp shares a rank")
	assert.Equal(t, 1, top[0].Streak)
	assert.Equal(t, 80, top[0].Accuracy)

	me, err := srvc.GetUserProgress(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, 4, me.Rank)
	assert.Equal(t, "", me.Name)

	nobody, err := srvc.GetUserProgress(ctx, "z")
	require.NoError(t, err)
	assert.Equal(t, 5, nobody.Rank)
	assert.Equal(t, 1, nobody.Level)
	assert.Equal(t, 0, nobody.Xp)
}
