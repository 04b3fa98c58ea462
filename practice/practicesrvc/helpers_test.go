package practicesrvc

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/resultevent"
	"github.com/snbtku/backend/snbt"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*3600)

type testEnv struct {
	srvc     *PracticeSrvc
	repo     *InMemPracticeRepo
	recorder *resultevent.Recorder
	clock    *time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := NewInMemPracticeRepo()
	rec := &resultevent.Recorder{}
	srvc := NewPracticeSrvc(repo, rec, wib)

	clock := time.Date(2024, 3, 10, 10, 0, 0, 0, wib)
	env := &testEnv{srvc: srvc, repo: repo, recorder: rec, clock: &clock}
	srvc.now = func() time.Time { return *env.clock }
	seq := 0
	srvc.newID = func() (string, error) {
		seq++
		return fmt.Sprintf("id-%03d", seq), nil
	}
	return env
}

// tick advances the clock so updatedAt ordering is deterministic.
func (e *testEnv) tick() {
	*e.clock = e.clock.Add(time.Minute)
}

func newMC(text string) practicedomain.Question {
	return practicedomain.Question{
		Text:       text,
		Difficulty: snbt.DifficultyEasy,
		Subtest:    snbt.SubtestMatematika,
		Topic:      "Aljabar",
		Body: practicedomain.MultipleChoice{Options: []practicedomain.AnswerOption{
			{ID: "a", Text: "salah"},
			{ID: "b", Text: "benar", IsCorrect: true},
		}},
	}
}

func newSet(title string, subtest snbt.Subtest, topic string) practicedomain.QuestionSet {
	return practicedomain.QuestionSet{
		Title:         title,
		Description:   "Latihan " + title,
		Subtest:       subtest,
		Topic:         topic,
		Difficulty:    snbt.DifficultyMedium,
		EstimatedTime: "10 menit",
		IsPublic:      true,
	}
}

func (e *testEnv) createSetWithQuestions(t *testing.T, title string, n int) *practicedomain.QuestionSet {
	t.Helper()
	qs := make([]practicedomain.Question, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, newMC(fmt.Sprintf("%s soal %d", title, i+1)))
	}
	set, err := e.srvc.CreateQuestionSetWithQuestions(context.Background(), newSet(title, snbt.SubtestMatematika, "Aljabar"), qs)
	require.NoError(t, err)
	return set
}

func answer(qid, option string, seconds float64) practicedomain.SubmittedAnswer {
	return practicedomain.SubmittedAnswer{
		QuestionID: qid,
		Answer:     practicedomain.TextResponse(option),
		TimeSpent:  seconds,
	}
}
