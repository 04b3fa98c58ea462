package userhttp

import (
	"net/http"

	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/user"
	"github.com/snbtku/backend/user/auth"
)

// GetRole returns the role of the caller: guest, user or admin.
func (h *UserHttpHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	type roleResponse struct {
		Role string `json:"role"`
	}

	claims := auth.ClaimsFromContext(r.Context())
	switch {
	case claims == nil:
		httpjson.WriteSuccessJson(w, roleResponse{Role: "guest"})
	case claims.IsAdmin():
		httpjson.WriteSuccessJson(w, roleResponse{Role: user.RoleAdmin})
	default:
		httpjson.WriteSuccessJson(w, roleResponse{Role: user.RoleUser})
	}
}
