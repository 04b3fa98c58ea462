package userhttp

import (
	"net/http"

	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/user"
)

func (h *UserHttpHandler) Register(w http.ResponseWriter, r *http.Request) {
	type registerRequest struct {
		Username  string  `json:"username" validate:"required"`
		Email     string  `json:"email" validate:"required"`
		Firstname *string `json:"firstname"`
		Lastname  *string `json:"lastname"`
		Password  string  `json:"password" validate:"required"`
	}

	var request registerRequest
	if err := httpjson.DecodeJson(r, &request); err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}

	u, err := h.userSrvc.CreateUser(r.Context(), user.CreateUserParams{
		Username:  request.Username,
		Email:     request.Email,
		Firstname: request.Firstname,
		Lastname:  request.Lastname,
		Password:  request.Password,
	})
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, u)
}
