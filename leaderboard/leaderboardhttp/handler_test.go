package leaderboardhttp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/snbtku/backend/leaderboard"
	"github.com/snbtku/backend/leaderboard/leaderboardhttp"
	"github.com/snbtku/backend/resultevent"
	"github.com/snbtku/backend/user/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJwtKey = []byte("test")

func setup(t *testing.T) (http.Handler, *leaderboard.LeaderboardSrvc) {
	t.Helper()
	srvc := leaderboard.NewLeaderboardSrvc(leaderboard.NewInMemProgressRepo(), time.UTC)
	r := chi.NewRouter()
	r.Use(auth.GetJwtAuthMiddleware(testJwtKey))
	leaderboardhttp.NewLeaderboardHttpHandler(srvc).RegisterRoutes(r)
	return r, srvc
}

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestListTop(t *testing.T) {
	h, srvc := setup(t)
	for i, correct := range []int{3, 7} {
		require.NoError(t, srvc.Apply(context.Background(), resultevent.ResultCompleted{
			ResultID:    uuid.NewString(),
			UserID:      []string{"u1", "u2"}[i],
			Kind:        resultevent.KindPractice,
			Correct:     correct,
			Total:       10,
			CompletedAt: time.Now(),
		}))
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=5", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var entries []leaderboard.Entry
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "u2", entries[0].UserID)
	assert.Equal(t, 70, entries[0].Xp)
}

func TestListTopBadLimit(t *testing.T) {
	h, _ := setup(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode(t, w).Code)
}

func TestGetMineNeedsAuth(t *testing.T) {
	h, _ := setup(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaderboard/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	id := uuid.New()
	token, err := auth.GenerateJWT("ani", "ani@example.com", id, nil, nil, nil, testJwtKey)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/leaderboard/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var entry leaderboard.Entry
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &entry))
	assert.Equal(t, id.String(), entry.UserID)
	assert.Equal(t, 1, entry.Rank)
}
