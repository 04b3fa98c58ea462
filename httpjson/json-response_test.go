package httpjson_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/srvcerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) httpjson.JsonResponse {
	t.Helper()
	var resp httpjson.JsonResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleErrorServiceError(t *testing.T) {
	w := httptest.NewRecorder()
	err := srvcerr.New("question_set_not_found", "set soal tidak ditemukan").
		SetHttpStatusCode(http.StatusNotFound)

	httpjson.HandleError(slog.Default(), w, err)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "question_set_not_found", resp.ErrCode)
	assert.Equal(t, "set soal tidak ditemukan", resp.ErrMsg)
}

func TestHandleErrorPlainErrorIsInternal(t *testing.T) {
	w := httptest.NewRecorder()

	httpjson.HandleError(slog.Default(), w, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, srvcerr.ErrCodeInternalServerError, resp.ErrCode)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestDecodeJsonValidates(t *testing.T) {
	type payload struct {
		Title string `json:"title" validate:"required"`
		Count int    `json:"count" validate:"gte=0"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"count":-1}`))
	var p payload
	err := httpjson.DecodeJson(r, &p)
	require.Error(t, err)
	assert.True(t, srvcerr.HasCode(err, srvcerr.ErrCodeInvalidRequest))
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "count")

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"ok","count":2}`))
	require.NoError(t, httpjson.DecodeJson(r, &p))
	assert.Equal(t, "ok", p.Title)
}

func TestDecodeJsonMalformed(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	var p struct{}
	err := httpjson.DecodeJson(r, &p)
	assert.True(t, srvcerr.HasCode(err, srvcerr.ErrCodeInvalidRequest))
}
