package tryoutdomain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/snbtku/backend/snbt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartTimeJSON(t *testing.T) {
	b, err := json.Marshal(AnyTime())
	require.NoError(t, err)
	assert.Equal(t, `"Kapan saja"`, string(b))

	at := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	b, err = json.Marshal(StartsAt(at))
	require.NoError(t, err)
	assert.Equal(t, `"2024-07-01T09:00:00Z"`, string(b))

	var st StartTime
	require.NoError(t, json.Unmarshal([]byte(`"Kapan saja"`), &st))
	assert.True(t, st.Anytime)
	require.NoError(t, json.Unmarshal([]byte(`"2024-07-01T09:00:00Z"`), &st))
	assert.False(t, st.Anytime)
	assert.True(t, at.Equal(st.At))

	assert.Error(t, json.Unmarshal([]byte(`"besok"`), &st))
}

func TestTryoutValidate(t *testing.T) {
	tr := Tryout{
		Title:      "Try Out Nasional 1",
		Difficulty: snbt.DifficultyMedium,
		Status:     StatusAvailable,
		Subtests:   []Subtest{{Name: snbt.SubtestTPS, Duration: 30, Questions: 20}},
	}
	require.NoError(t, tr.Validate())

	dup := tr
	dup.Subtests = append([]Subtest{}, tr.Subtests[0], tr.Subtests[0])
	assert.Error(t, dup.Validate())

	bad := tr
	bad.Status = "draft"
	assert.Error(t, bad.Validate())
}

func TestWithQuestionsAndFilter(t *testing.T) {
	tr := Tryout{
		Status:     StatusAvailable,
		Difficulty: snbt.DifficultyHard,
		Subtests: []Subtest{
			{Name: snbt.SubtestTPS, Questions: 2},
			{Name: snbt.SubtestMatematika, Questions: 1},
		},
	}
	with := tr.WithQuestions(map[snbt.Subtest][]string{snbt.SubtestTPS: {"a", "b"}})
	assert.Equal(t, []string{"a", "b"}, with.Subtests[0].QuestionIDs)
	assert.Empty(t, with.Subtests[1].QuestionIDs)
	assert.Nil(t, tr.Subtests[0].QuestionIDs, "original left untouched")

	assert.True(t, Filter{Status: "all", Subtest: "Matematika"}.Matches(tr))
	assert.False(t, Filter{Subtest: "Literasi"}.Matches(tr))
	assert.False(t, Filter{Difficulty: "Mudah"}.Matches(tr))
}
