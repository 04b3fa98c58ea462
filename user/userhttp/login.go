package userhttp

import (
	"fmt"
	"net/http"

	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/user"
	"github.com/snbtku/backend/user/auth"
)

func (h *UserHttpHandler) Login(w http.ResponseWriter, r *http.Request) {
	type loginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	type loginResponse struct {
		Token string     `json:"token"`
		User  *user.User `json:"user"`
	}

	var request loginRequest
	if err := httpjson.DecodeJson(r, &request); err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}

	u, err := h.userSrvc.Login(r.Context(), request.Username, request.Password)
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}

	var scopes []string
	if u.IsAdmin() {
		scopes = []string{auth.ScopeAdmin}
	}
	token, err := auth.GenerateJWT(u.Username, u.Email, u.UUID, u.Firstname, u.Lastname, scopes, h.JwtKey)
	if err != nil {
		err = fmt.Errorf("failed to generate JWT: %w", err)
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, loginResponse{Token: token, User: u})
}
