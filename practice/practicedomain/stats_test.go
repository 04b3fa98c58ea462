package practicedomain

import (
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

func resultOn(day time.Time, total, correct int, seconds float64) PracticeResult {
	return PracticeResult{
		TotalQuestions: total,
		TotalCorrect:   correct,
		Score:          correct,
		CompletionTime: seconds,
		CompletedAt:    day,
	}
}

func TestAggregateStatsEmpty(t *testing.T) {
	got := AggregateStats(nil, time.Now())
	assert.Equal(t, PracticeStats{AverageTime: "0:00"}, got)
}

func TestAggregateStatsHistoryTotals(t *testing.T) {
	today := time.Date(2024, 1, 15, 12, 0, 0, 0, wib)
	results := []PracticeResult{
		resultOn(today.AddDate(0, 0, -40), 100, 70, 1000),
		resultOn(today.AddDate(0, 0, -41), 100, 80, 2000),
	}
	got := AggregateStats(results, today)
	assert.Equal(t, 200, got.TotalQuestions)
	assert.Equal(t, 200, got.AnsweredQuestions)
	assert.Equal(t, 75, got.Accuracy)
	assert.Equal(t, "0:15", got.AverageTime)
	assert.Equal(t, 0, got.Streak)
}

func TestAggregateStatsAverageTimeTruncates(t *testing.T) {
	today := time.Date(2024, 1, 15, 12, 0, 0, 0, wib)
	got := AggregateStats([]PracticeResult{resultOn(today, 2, 1, 125)}, today)
	assert.Equal(t, "1:02", got.AverageTime)
	assert.Equal(t, 1, got.Streak)
}

func TestAggregateStatsStreakScenario(t *testing.T) {
	today := time.Date(2024, 1, 15, 20, 0, 0, 0, wib)
	results := []PracticeResult{
		resultOn(time.Date(2024, 1, 13, 8, 0, 0, 0, wib), 10, 5, 60),
		resultOn(time.Date(2024, 1, 14, 8, 0, 0, 0, wib), 10, 5, 60),
		resultOn(time.Date(2024, 1, 15, 8, 0, 0, 0, wib), 10, 5, 60),
		resultOn(time.Date(2024, 1, 15, 9, 0, 0, 0, wib), 10, 5, 60),
	}
	assert.Equal(t, 3, AggregateStats(results, today).Streak)

	stale := []PracticeResult{resultOn(time.Date(2024, 1, 10, 8, 0, 0, 0, wib), 10, 5, 60)}
	assert.Equal(t, 0, AggregateStats(stale, today).Streak)
}

func TestAggregateStatsRandomHistories(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	timeRe := regexp.MustCompile(`^\d+:\d{2}$`)
	today := time.Date(2024, 5, 1, 12, 0, 0, 0, wib)
	for i := 0; i < 200; i++ {
		n := rng.Intn(8)
		results := make([]PracticeResult, 0, n)
		sumQ, sumC := 0, 0
		for j := 0; j < n; j++ {
			total := rng.Intn(30)
			correct := 0
			if total > 0 {
				correct = rng.Intn(total + 1)
			}
			sumQ += total
			sumC += correct
			results = append(results, resultOn(today.AddDate(0, 0, -rng.Intn(10)), total, correct, float64(rng.Intn(5000))))
		}
		got := AggregateStats(results, today)
		require.Regexp(t, timeRe, got.AverageTime)
		if sumQ == 0 {
			assert.Equal(t, 0, got.Accuracy)
			continue
		}
		want := int(float64(sumC)/float64(sumQ)*100 + 0.5)
		assert.Equal(t, want, got.Accuracy)
		assert.GreaterOrEqual(t, got.Accuracy, 0)
		assert.LessOrEqual(t, got.Accuracy, 100)
	}
}

func TestStreakAppendNextDay(t *testing.T) {
	latest := time.Date(2024, 2, 10, 9, 0, 0, 0, wib)
	history := []PracticeResult{
		resultOn(latest.AddDate(0, 0, -1), 1, 1, 1),
		resultOn(latest, 1, 1, 1),
	}
	before := AggregateStats(history, latest).Streak

	nextDay := latest.AddDate(0, 0, 1)
	after := AggregateStats(append(history, resultOn(nextDay, 1, 1, 1)), nextDay).Streak
	assert.Equal(t, before+1, after)

	gapDay := latest.AddDate(0, 0, 3)
	reset := AggregateStats(append(history, resultOn(gapDay, 1, 1, 1)), gapDay).Streak
	assert.Equal(t, 1, reset)
}

func TestPerformanceTier(t *testing.T) {
	tests := []struct {
		score int
		want  Performance
	}{
		{100, PerformanceExcellent},
		{90, PerformanceExcellent},
		{89, PerformanceGood},
		{75, PerformanceGood},
		{74, PerformanceAverage},
		{50, PerformanceAverage},
		{49, PerformancePoor},
		{0, PerformancePoor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PerformanceTier(tt.score, 100), "score %d", tt.score)
	}
	assert.Equal(t, PerformancePoor, PerformanceTier(0, 0))
}

func TestFormatRecentActivity(t *testing.T) {
	now := time.Date(2024, 3, 20, 10, 0, 0, 0, wib)
	set := &QuestionSet{ID: "s1", Title: "Aljabar Dasar"}
	items := []ActivitySource{
		{Result: PracticeResult{ID: "r1", QuestionSetID: "s1", Score: 9, TotalQuestions: 10, CompletionTime: 125, CompletedAt: now.Add(-time.Hour)}, Set: set},
		{Result: PracticeResult{ID: "r2", QuestionSetID: "gone", Score: 1, TotalQuestions: 10, CompletedAt: now}},
		{Result: PracticeResult{ID: "r3", QuestionSetID: "s1", Score: 3, TotalQuestions: 10, CompletionTime: 59.9, CompletedAt: time.Date(2024, 1, 2, 8, 0, 0, 0, wib)}, Set: set},
	}
	got := FormatRecentActivity(items, now)
	require.Len(t, got, 2)

	assert.Equal(t, RecentActivity{
		ID: "r1", Title: "Aljabar Dasar", QuestionSetID: "s1",
		Date: "Hari ini", Questions: 10, Score: 9, Time: "2:05",
		Performance: PerformanceExcellent,
	}, got[0])
	assert.Equal(t, "2 Januari 2024", got[1].Date)
	assert.Equal(t, "0:59", got[1].Time)
	assert.Equal(t, PerformancePoor, got[1].Performance)
}

func TestNewPracticeResult(t *testing.T) {
	answers := []UserAnswer{
		{QuestionID: "a", IsCorrect: true, TimeSpent: 10},
		{QuestionID: "b", IsCorrect: false, TimeSpent: 20},
		{QuestionID: "c", IsCorrect: true, TimeSpent: 30},
	}
	r := NewPracticeResult("u", "s", answers, 0, time.Now())
	require.NoError(t, r.Validate())
	assert.Equal(t, 2, r.Score)
	assert.Equal(t, 2, r.TotalCorrect)
	assert.Equal(t, 3, r.TotalQuestions)
	assert.Equal(t, 60.0, r.CompletionTime)

	r.TotalCorrect = 3
	assert.Error(t, r.Validate())
}

func TestFilterMatches(t *testing.T) {
	s := QuestionSet{Title: "Logika Proposisi", Description: "Latihan penalaran", Subtest: "TPS", Difficulty: "Menengah", Topic: "Penalaran"}
	assert.True(t, Filter{Subtest: "all", Difficulty: "all"}.Matches(s))
	assert.True(t, Filter{SearchQuery: "LOGIKA"}.Matches(s))
	assert.True(t, Filter{SearchQuery: "penalaran", Subtest: "TPS"}.Matches(s))
	assert.False(t, Filter{Subtest: "Literasi"}.Matches(s))
	assert.False(t, Filter{SearchQuery: "geometri"}.Matches(s))
}
