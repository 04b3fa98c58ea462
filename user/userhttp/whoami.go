package userhttp

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/srvcerr"
	"github.com/snbtku/backend/user/auth"
)

func (h *UserHttpHandler) WhoAmI(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, srvcerr.ErrUnauthorized())
		return
	}

	id, err := uuid.Parse(claims.UUID)
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, srvcerr.ErrUnauthorized().SetDebug(err))
		return
	}

	u, err := h.userSrvc.GetUserByUUID(r.Context(), id)
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, u)
}

func (h *UserHttpHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userSrvc.ListUsers(r.Context())
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}
	httpjson.WriteSuccessJson(w, users)
}
