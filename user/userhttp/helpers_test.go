package userhttp_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/snbtku/backend/user"
	"github.com/snbtku/backend/user/auth"
	"github.com/snbtku/backend/user/userhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJwtKey = []byte("test")

func setupUserHttpHandler(t *testing.T) (http.Handler, *user.UserSrvc) {
	t.Helper()
	userSrvc := user.NewUserSrvc(user.NewInMemUserRepo())
	userHandler := userhttp.NewUserHttpHandler(userSrvc, testJwtKey)
	r := chi.NewRouter()
	r.Use(auth.GetJwtAuthMiddleware(testJwtKey))
	userHandler.RegisterRoutes(r)
	return r, userSrvc
}

func newJsonReq(t *testing.T, method, path string, body map[string]interface{}) *http.Request {
	t.Helper()
	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, handler http.Handler, userData map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return serve(handler, newJsonReq(t, http.MethodPost, "/auth/register", userData))
}

func login(t *testing.T, handler http.Handler, loginData map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return serve(handler, newJsonReq(t, http.MethodPost, "/auth/login", loginData))
}

func assertErrorInHttpResponse(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) {
	t.Helper()
	assert.NotEqual(t, http.StatusOK, w.Code, "Expected error status code")

	var errorResponse struct {
		Status  string `json:"status"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &errorResponse)
	require.NoError(t, err, "Failed to unmarshal error response body")

	assert.Equal(t, "error", errorResponse.Status)
	assert.Equal(t, expectedCode, errorResponse.Code)
	assert.NotEmpty(t, errorResponse.Message)
}

func defaultUser() map[string]interface{} {
	return map[string]interface{}{
		"username":  "testuser",
		"email":     "test@example.com",
		"firstname": "Test",
		"lastname":  "User",
		"password":  "password123",
	}
}
