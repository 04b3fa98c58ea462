package practicesrvc

import (
	"context"
	"testing"
	"time"

	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/resultevent"
	"github.com/snbtku/backend/snbt"
	"github.com/snbtku/backend/srvcerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQuestionSetsFiltersAndPages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, s := range []practicedomain.QuestionSet{
		newSet("Persamaan Linear", snbt.SubtestMatematika, "Aljabar"),
		newSet("Bacaan Sains", snbt.SubtestLiterasi, "Sains"),
		newSet("Fungsi Kuadrat", snbt.SubtestMatematika, "Aljabar"),
		newSet("Peluang", snbt.SubtestMatematika, "Statistika"),
	} {
		_, err := env.srvc.CreateQuestionSet(ctx, s)
		require.NoError(t, err)
		env.tick()
	}

	page, err := env.srvc.ListQuestionSets(ctx, practicedomain.Filter{Subtest: "Matematika", Difficulty: "all"}, "", 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Peluang", page.Items[0].Title, "newest update first")
	assert.Equal(t, "Fungsi Kuadrat", page.Items[1].Title)
	require.NotEmpty(t, page.NextCursor)

	page, err = env.srvc.ListQuestionSets(ctx, practicedomain.Filter{Subtest: "Matematika"}, page.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Persamaan Linear", page.Items[0].Title)
	assert.Empty(t, page.NextCursor)

	page, err = env.srvc.ListQuestionSets(ctx, practicedomain.Filter{SearchQuery: "  KUADRAT "}, "", 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Fungsi Kuadrat", page.Items[0].Title)

	page, err = env.srvc.ListQuestionSets(ctx, practicedomain.Filter{SearchQuery: "sains"}, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1, "search matches topic and description too")

	_, err = env.srvc.ListQuestionSets(ctx, practicedomain.Filter{}, "%%%", 10)
	assert.True(t, srvcerr.HasCode(err, ErrCodeInvalidCursor))
}

func TestCreateQuestionSetChecksQuestions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	set := newSet("Latihan", snbt.SubtestTPS, "Logika")
	set.Questions = []string{"missing"}
	_, err := env.srvc.CreateQuestionSet(ctx, set)
	assert.True(t, srvcerr.HasCode(err, ErrCodeQuestionNotFound))

	q, err := env.srvc.CreateQuestion(ctx, newMC("1 + 1 = ?"))
	require.NoError(t, err)
	set.Questions = []string{q.ID}
	set.QuestionCount = 20
	created, err := env.srvc.CreateQuestionSet(ctx, set)
	require.NoError(t, err)
	assert.Equal(t, 1, created.QuestionCount)

	bad := newSet("", snbt.SubtestTPS, "Logika")
	_, err = env.srvc.CreateQuestionSet(ctx, bad)
	assert.True(t, srvcerr.HasCode(err, ErrCodeInvalidQuestionSet))
}

func TestUpdateQuestionSetBumpsUpdatedAt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	set, err := env.srvc.CreateQuestionSet(ctx, newSet("Lama", snbt.SubtestTPS, "Logika"))
	require.NoError(t, err)
	env.tick()

	title := "Baru"
	updated, err := env.srvc.UpdateQuestionSet(ctx, set.ID, QuestionSetUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Baru", updated.Title)
	assert.Equal(t, set.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(set.UpdatedAt))

	_, err = env.srvc.UpdateQuestionSet(ctx, "nope", QuestionSetUpdate{Title: &title})
	assert.True(t, srvcerr.HasCode(err, ErrCodeQuestionSetNotFound))
}

func TestDeleteGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	set := env.createSetWithQuestions(t, "Aljabar", 2)

	err := env.srvc.DeleteQuestion(ctx, set.Questions[0])
	assert.True(t, srvcerr.HasCode(err, ErrCodeQuestionInUse))

	_, err = env.srvc.SubmitPractice(ctx, SubmitPracticeParams{
		UserID:        "u1",
		QuestionSetID: set.ID,
		Answers:       []practicedomain.SubmittedAnswer{answer(set.Questions[0], "b", 10)},
	})
	require.NoError(t, err)

	err = env.srvc.DeleteQuestionSet(ctx, set.ID)
	assert.True(t, srvcerr.HasCode(err, ErrCodeQuestionSetHasResults))

	empty, err := env.srvc.CreateQuestionSet(ctx, newSet("Kosong", snbt.SubtestTPS, "Logika"))
	require.NoError(t, err)
	require.NoError(t, env.srvc.DeleteQuestionSet(ctx, empty.ID))
	_, err = env.srvc.GetQuestionSet(ctx, empty.ID)
	assert.True(t, srvcerr.HasCode(err, ErrCodeQuestionSetNotFound))

	loose, err := env.srvc.CreateQuestion(ctx, newMC("lepas"))
	require.NoError(t, err)
	require.NoError(t, env.srvc.DeleteQuestion(ctx, loose.ID))
}

func TestListQuestionsInSetSkipsMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	set := env.createSetWithQuestions(t, "Aljabar", 3)

	require.NoError(t, env.repo.DeleteQuestion(ctx, set.Questions[1]))
	qs, err := env.srvc.ListQuestionsInSet(ctx, set.ID)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, set.Questions[0], qs[0].ID)
	assert.Equal(t, set.Questions[2], qs[1].ID)

	_, err = env.srvc.ListQuestionsInSet(ctx, "missing")
	assert.True(t, srvcerr.HasCode(err, ErrCodeQuestionSetNotFound))
}

func TestSubmitPracticeGradesAndPublishes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	set := env.createSetWithQuestions(t, "Aljabar", 3)

	res, err := env.srvc.SubmitPractice(ctx, SubmitPracticeParams{
		UserID:        "u1",
		QuestionSetID: set.ID,
		Answers: []practicedomain.SubmittedAnswer{
			answer(set.Questions[0], "b", 30),
			answer(set.Questions[1], "a", 20),
			answer(set.Questions[0], "a", 5),
			answer("elsewhere", "b", 5),
			answer(set.Questions[2], "b", -4),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalQuestions)
	assert.Equal(t, 2, res.TotalCorrect)
	assert.Equal(t, 2, res.Score)
	assert.Equal(t, 50.0, res.CompletionTime)
	require.NoError(t, res.Validate())

	stored, err := env.srvc.GetPracticeResult(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, stored.ID)

	events := env.recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, resultevent.ResultCompleted{
		ResultID:    res.ID,
		UserID:      "u1",
		Kind:        resultevent.KindPractice,
		Correct:     2,
		Total:       3,
		Score:       2,
		CompletedAt: res.CompletedAt,
	}, events[0])

	_, err = env.srvc.SubmitPractice(ctx, SubmitPracticeParams{
		UserID:        "u1",
		QuestionSetID: set.ID,
		Answers:       []practicedomain.SubmittedAnswer{answer("elsewhere", "b", 5)},
	})
	assert.True(t, srvcerr.HasCode(err, ErrCodeNoAnswers))
}

func TestSavePracticeResultRejectsInconsistentCounters(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.srvc.SavePracticeResult(context.Background(), practicedomain.PracticeResult{
		UserID:         "u1",
		QuestionSetID:  "s1",
		Answers:        []practicedomain.UserAnswer{{QuestionID: "q1", IsCorrect: true}},
		Score:          1,
		TotalCorrect:   1,
		TotalQuestions: 2,
	})
	assert.True(t, srvcerr.HasCode(err, ErrCodeInvalidPracticeResult))
	assert.Empty(t, env.recorder.Events())
}

func TestStatsReadWholeHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	start := time.Date(2024, 3, 10, 9, 0, 0, 0, wib)
	for i := 0; i < 230; i++ {
		at := start.Add(-time.Duration(i) * time.Hour)
		_, err := env.srvc.SavePracticeResult(ctx, practicedomain.NewPracticeResult("u1", "s1",
			[]practicedomain.UserAnswer{
				{QuestionID: "q1", IsCorrect: true, TimeSpent: 30},
				{QuestionID: "q2", IsCorrect: i%2 == 0, TimeSpent: 30},
			}, 0, at))
		require.NoError(t, err)
	}

	stats, err := env.srvc.GetUserPracticeStats(ctx, "u1", start.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 460, stats.TotalQuestions)
	assert.Equal(t, 460, stats.AnsweredQuestions)
	assert.Equal(t, 75, stats.Accuracy)
	assert.Equal(t, "0:30", stats.AverageTime)
	// 230 hourly results back from 10 March 09:00 reach 29 February
	assert.Equal(t, 11, stats.Streak)

	none, err := env.srvc.GetUserPracticeStats(ctx, "nobody", start)
	require.NoError(t, err)
	assert.Equal(t, practicedomain.PracticeStats{AverageTime: "0:00"}, *none)
}

func TestRecentActivitySkipsDeletedSets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	kept := env.createSetWithQuestions(t, "Tetap", 2)
	gone := env.createSetWithQuestions(t, "Hilang", 2)

	now := *env.clock
	for i, set := range []*practicedomain.QuestionSet{kept, gone, kept} {
		*env.clock = now.Add(-time.Duration(3-i) * 24 * time.Hour)
		_, err := env.srvc.SubmitPractice(ctx, SubmitPracticeParams{
			UserID:        "u1",
			QuestionSetID: set.ID,
			Answers: []practicedomain.SubmittedAnswer{
				answer(set.Questions[0], "b", 40),
				answer(set.Questions[1], "b", 35),
			},
		})
		require.NoError(t, err)
	}
	require.NoError(t, env.repo.DeleteSet(ctx, gone.ID))

	activity, err := env.srvc.GetRecentActivity(ctx, "u1", 0, now)
	require.NoError(t, err)
	require.Len(t, activity, 2)
	assert.Equal(t, "Tetap", activity[0].Title)
	assert.Equal(t, "Kemarin", activity[0].Date)
	assert.Equal(t, "1:15", activity[0].Time)
	assert.Equal(t, practicedomain.PerformanceExcellent, activity[0].Performance)
	assert.Equal(t, "3 hari lalu", activity[1].Date)
}
