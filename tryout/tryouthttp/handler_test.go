package tryouthttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/practice/practicesrvc"
	"github.com/snbtku/backend/resultevent"
	"github.com/snbtku/backend/snbt"
	"github.com/snbtku/backend/tryout/tryoutdomain"
	"github.com/snbtku/backend/tryout/tryouthttp"
	"github.com/snbtku/backend/tryout/tryoutsrvc"
	"github.com/snbtku/backend/user/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJwtKey = []byte("test")

type testServer struct {
	handler  http.Handler
	recorder *resultevent.Recorder
	admin    string
	student  string
	userID   uuid.UUID
}

func setup(t *testing.T) *testServer {
	t.Helper()
	questions := practicesrvc.NewInMemPracticeRepo()
	for i := 1; i <= 2; i++ {
		require.NoError(t, questions.PutQuestion(context.Background(), practicedomain.Question{
			ID:         fmt.Sprintf("q%d", i),
			Text:       fmt.Sprintf("soal %d", i),
			Difficulty: snbt.DifficultyEasy,
			Subtest:    snbt.SubtestTPS,
			Body:       practicedomain.TrueFalse{CorrectAnswer: true},
		}))
	}
	rec := &resultevent.Recorder{}
	srvc := tryoutsrvc.NewTryoutSrvc(tryoutsrvc.NewInMemTryoutRepo(), questions, rec)
	r := chi.NewRouter()
	r.Use(auth.GetJwtAuthMiddleware(testJwtKey))
	tryouthttp.NewTryoutHttpHandler(srvc).RegisterRoutes(r)

	adminToken, err := auth.GenerateJWT("admin", "admin@example.com", uuid.New(), nil, nil,
		[]string{auth.ScopeAdmin}, testJwtKey)
	require.NoError(t, err)
	userID := uuid.New()
	studentToken, err := auth.GenerateJWT("siswa", "siswa@example.com", userID, nil, nil, nil, testJwtKey)
	require.NoError(t, err)

	return &testServer{handler: r, recorder: rec, admin: adminToken, student: studentToken, userID: userID}
}

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func createTryout(t *testing.T, s *testServer) tryoutdomain.Tryout {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/tryouts/", s.admin, map[string]any{
		"title":      "Tryout Nasional",
		"duration":   60,
		"difficulty": "Menengah",
		"status":     "available",
		"startTime":  "Kapan saja",
		"subtests": []map[string]any{
			{"name": "TPS", "duration": 30, "questions": 2, "questionIds": []string{"q1", "q2"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var to tryoutdomain.Tryout
	require.NoError(t, json.Unmarshal(env.Data, &to))
	return to
}

func TestCreateNeedsAdmin(t *testing.T) {
	s := setup(t)
	w, env := s.do(t, http.MethodPost, "/tryouts/", s.student, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", env.Code)
}

func TestSubmitAndListTryouts(t *testing.T) {
	s := setup(t)
	to := createTryout(t, s)
	assert.True(t, to.StartTime.Anytime)

	w, env := s.do(t, http.MethodGet, "/tryouts/?subtest=TPS", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page tryoutsrvc.Page[tryoutdomain.Tryout]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)

	w, _ = s.do(t, http.MethodPost, "/tryouts/"+to.ID+"/submit", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = s.do(t, http.MethodPost, "/tryouts/"+to.ID+"/submit", s.student, map[string]any{
		"answers": map[string]any{
			"TPS": []map[string]any{
				{"questionId": "q1", "answer": true, "timeSpent": 10},
				{"questionId": "q2", "answer": false, "timeSpent": 10},
			},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result tryoutdomain.TryoutResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 50, result.Score)
	assert.Equal(t, 1, result.Rank)
	require.Len(t, s.recorder.Events(), 1)

	w, env = s.do(t, http.MethodGet, "/tryouts/"+to.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fresh tryoutdomain.Tryout
	require.NoError(t, json.Unmarshal(env.Data, &fresh))
	assert.Equal(t, 1, fresh.Participants, "cache dropped after submission")

	w, env = s.do(t, http.MethodGet, "/tryouts/stats", s.student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats tryoutdomain.TryoutStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 1, stats.TotalTryOuts)

	w, _ = s.do(t, http.MethodDelete, "/tryouts/"+to.ID, s.admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestScheduledRegistration(t *testing.T) {
	s := setup(t)
	w, env := s.do(t, http.MethodPost, "/tryouts/scheduled", s.admin, map[string]any{
		"title": "Tryout Akbar",
		"date":  "2024-06-01T00:00:00Z",
		"time":  "09:00 WIB",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var st tryoutdomain.ScheduledTryout
	require.NoError(t, json.Unmarshal(env.Data, &st))

	w, _ = s.do(t, http.MethodPost, "/tryouts/scheduled/"+st.ID+"/register", s.student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(t, http.MethodPost, "/tryouts/scheduled/"+st.ID+"/register", s.student, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, tryoutsrvc.ErrCodeAlreadyRegistered, env.Code)

	w, env = s.do(t, http.MethodGet, "/tryouts/scheduled/mine", s.student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []tryoutdomain.ScheduledTryout
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, tryoutdomain.ScheduleRegistered, mine[0].Status)
}
