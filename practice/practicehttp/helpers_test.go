package practicehttp_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/snbtku/backend/practice/practicehttp"
	"github.com/snbtku/backend/practice/practicesrvc"
	"github.com/snbtku/backend/resultevent"
	"github.com/snbtku/backend/user/auth"
	"github.com/stretchr/testify/require"
)

var testJwtKey = []byte("test")

type testServer struct {
	handler  http.Handler
	srvc     *practicesrvc.PracticeSrvc
	recorder *resultevent.Recorder
	admin    string
	student  string
	userID   uuid.UUID
}

func setup(t *testing.T) *testServer {
	t.Helper()
	rec := &resultevent.Recorder{}
	srvc := practicesrvc.NewPracticeSrvc(practicesrvc.NewInMemPracticeRepo(), rec, time.UTC)
	r := chi.NewRouter()
	r.Use(auth.GetJwtAuthMiddleware(testJwtKey))
	practicehttp.NewPracticeHttpHandler(srvc).RegisterRoutes(r)

	adminToken, err := auth.GenerateJWT("admin", "admin@example.com", uuid.New(), nil, nil,
		[]string{auth.ScopeAdmin}, testJwtKey)
	require.NoError(t, err)
	userID := uuid.New()
	studentToken, err := auth.GenerateJWT("siswa", "siswa@example.com", userID, nil, nil, nil, testJwtKey)
	require.NoError(t, err)

	return &testServer{
		handler:  r,
		srvc:     srvc,
		recorder: rec,
		admin:    adminToken,
		student:  studentToken,
		userID:   userID,
	}
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

func mcQuestionJSON(text string) map[string]any {
	return map[string]any{
		"type":       "multiple-choice",
		"text":       text,
		"difficulty": "Mudah",
		"subtest":    "Matematika",
		"topic":      "Aljabar",
		"options": []map[string]any{
			{"id": "a", "text": "3", "isCorrect": false},
			{"id": "b", "text": "4", "isCorrect": true},
		},
	}
}
