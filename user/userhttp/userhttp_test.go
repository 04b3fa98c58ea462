package userhttp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/snbtku/backend/srvcerr"
	"github.com/snbtku/backend/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginData struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

func loginToken(t *testing.T, handler http.Handler, username, password string) loginData {
	t.Helper()
	w := login(t, handler, map[string]interface{}{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())
	var resp struct {
		Status string    `json:"status"`
		Data   loginData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "success", resp.Status)
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data
}

func TestRegisterAndLoginHttp(t *testing.T) {
	handler, _ := setupUserHttpHandler(t)

	w := register(t, handler, defaultUser())
	require.Equal(t, http.StatusOK, w.Code, "Registration failed: %s", w.Body.String())

	data := loginToken(t, handler, "testuser", "password123")
	assert.Equal(t, "testuser", data.User.Username)

	req := newJsonReq(t, http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+data.Token)
	w = serve(handler, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var me struct {
		Data user.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "test@example.com", me.Data.Email)
}

func TestRegisterHttpErrors(t *testing.T) {
	handler, _ := setupUserHttpHandler(t)
	require.Equal(t, http.StatusOK, register(t, handler, defaultUser()).Code)

	w := register(t, handler, defaultUser())
	assert.Equal(t, http.StatusConflict, w.Code)
	assertErrorInHttpResponse(t, w, user.ErrCodeUsernameAlreadyExists)

	w = register(t, handler, map[string]interface{}{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorInHttpResponse(t, w, srvcerr.ErrCodeInvalidRequest)
}

func TestLoginHttpInvalidCredentials(t *testing.T) {
	handler, _ := setupUserHttpHandler(t)
	require.Equal(t, http.StatusOK, register(t, handler, defaultUser()).Code)

	testCases := []struct {
		name      string
		loginData map[string]interface{}
		errorCode string
	}{
		{"Wrong Password", map[string]interface{}{"username": "testuser", "password": "wrongpassword"}, user.ErrCodeUsernameOrPasswordIncorrect},
		{"Unknown User", map[string]interface{}{"username": "ghost", "password": "password123"}, user.ErrCodeUsernameOrPasswordIncorrect},
		{"Missing Password", map[string]interface{}{"username": "testuser"}, srvcerr.ErrCodeInvalidRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := login(t, handler, tc.loginData)
			assertErrorInHttpResponse(t, w, tc.errorCode)
		})
	}
}

func TestRoleAndAdminRoutes(t *testing.T) {
	handler, srvc := setupUserHttpHandler(t)
	require.Equal(t, http.StatusOK, register(t, handler, defaultUser()).Code)
	_, err := srvc.CreateUser(context.Background(), user.CreateUserParams{
		Username: "admin", Email: "admin@snbtku.id", Password: "password123", Role: user.RoleAdmin,
	})
	require.NoError(t, err)

	w := serve(handler, newJsonReq(t, http.MethodGet, "/auth/role", nil))
	assert.Contains(t, w.Body.String(), `"role":"guest"`)

	userTok := loginToken(t, handler, "testuser", "password123").Token
	adminTok := loginToken(t, handler, "admin", "password123").Token

	req := newJsonReq(t, http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+userTok)
	w = serve(handler, req)
	assertErrorInHttpResponse(t, w, srvcerr.ErrCodeForbidden)

	req = newJsonReq(t, http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+adminTok)
	w = serve(handler, req)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []user.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Data, 2)

	req = newJsonReq(t, http.MethodGet, "/auth/role", nil)
	req.Header.Set("Authorization", "Bearer "+adminTok)
	w = serve(handler, req)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}
