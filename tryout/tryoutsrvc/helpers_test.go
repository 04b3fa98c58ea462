package tryoutsrvc

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/practice/practicesrvc"
	"github.com/snbtku/backend/resultevent"
	"github.com/snbtku/backend/snbt"
	"github.com/snbtku/backend/tryout/tryoutdomain"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	srvc      *TryoutSrvc
	repo      *InMemTryoutRepo
	questions *practicesrvc.InMemPracticeRepo
	recorder  *resultevent.Recorder
	clock     *time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := NewInMemTryoutRepo()
	questions := practicesrvc.NewInMemPracticeRepo()
	rec := &resultevent.Recorder{}
	srvc := NewTryoutSrvc(repo, questions, rec)

	clock := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	env := &testEnv{srvc: srvc, repo: repo, questions: questions, recorder: rec, clock: &clock}
	srvc.now = func() time.Time { return *env.clock }
	seq := 0
	srvc.newID = func() (string, error) {
		seq++
		return fmt.Sprintf("to-%03d", seq), nil
	}
	return env
}

func (e *testEnv) tick() {
	*e.clock = e.clock.Add(time.Minute)
}

// addQuestions stores n multiple choice questions whose correct option
// is "b".
func (e *testEnv) addQuestions(t *testing.T, prefix string, subtest snbt.Subtest, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		q := practicedomain.Question{
			ID:         fmt.Sprintf("%s-%d", prefix, i+1),
			Text:       fmt.Sprintf("%s soal %d", prefix, i+1),
			Difficulty: snbt.DifficultyMedium,
			Subtest:    subtest,
			Body: practicedomain.MultipleChoice{Options: []practicedomain.AnswerOption{
				{ID: "a", Text: "salah"},
				{ID: "b", Text: "benar", IsCorrect: true},
			}},
		}
		require.NoError(t, e.questions.PutQuestion(context.Background(), q))
		ids = append(ids, q.ID)
	}
	return ids
}

func newTryout(title string) tryoutdomain.Tryout {
	return tryoutdomain.Tryout{
		Title:       title,
		Description: "Simulasi " + title,
		Duration:    90,
		Difficulty:  snbt.DifficultyMedium,
		Status:      tryoutdomain.StatusAvailable,
		StartTime:   tryoutdomain.AnyTime(),
		Subtests: []tryoutdomain.Subtest{
			{Name: snbt.SubtestTPS, Duration: 30, Questions: 4},
			{Name: snbt.SubtestMatematika, Duration: 30, Questions: 2},
		},
		IsPublic: true,
	}
}

// createFull stores a tryout whose subtests carry real questions.
func (e *testEnv) createFull(t *testing.T, title string) *tryoutdomain.Tryout {
	t.Helper()
	tps := e.addQuestions(t, title+"-tps", snbt.SubtestTPS, 4)
	mat := e.addQuestions(t, title+"-mat", snbt.SubtestMatematika, 2)
	to, err := e.srvc.CreateTryoutWithQuestions(context.Background(), newTryout(title), map[snbt.Subtest][]string{
		snbt.SubtestTPS:        tps,
		snbt.SubtestMatematika: mat,
	})
	require.NoError(t, err)
	return to
}

// answersFor answers the first `correct` ids right and the rest wrong.
func answersFor(ids []string, correct int) []practicedomain.SubmittedAnswer {
	out := make([]practicedomain.SubmittedAnswer, 0, len(ids))
	for i, id := range ids {
		option := "a"
		if i < correct {
			option = "b"
		}
		out = append(out, practicedomain.SubmittedAnswer{
			QuestionID: id,
			Answer:     practicedomain.TextResponse(option),
			TimeSpent:  20,
		})
	}
	return out
}

func subtestIDs(to *tryoutdomain.Tryout, name snbt.Subtest) []string {
	st, _ := to.Subtest(name)
	return st.QuestionIDs
}
