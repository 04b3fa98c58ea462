package leaderboardhttp

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/leaderboard"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/srvcerr"
	"github.com/snbtku/backend/user/auth"
)

const defaultTop = 10

type LeaderboardHttpHandler struct {
	srvc *leaderboard.LeaderboardSrvc
}

func NewLeaderboardHttpHandler(srvc *leaderboard.LeaderboardSrvc) *LeaderboardHttpHandler {
	return &LeaderboardHttpHandler{srvc: srvc}
}

func (h *LeaderboardHttpHandler) RegisterRoutes(r chi.Router) {
	r.Get("/leaderboard", h.ListTop)
	r.With(auth.RequireAuth).Get("/leaderboard/me", h.GetMine)
}

func (h *LeaderboardHttpHandler) ListTop(w http.ResponseWriter, r *http.Request) {
	n := defaultTop
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpjson.HandleError(logger.FromContext(r.Context()), w,
				srvcerr.ErrInvalidRequest("limit harus berupa angka").SetDebug(err))
			return
		}
		n = parsed
	}

	entries, err := h.srvc.Top(r.Context(), n)
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}
	httpjson.WriteSuccessJson(w, entries)
}

func (h *LeaderboardHttpHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	entry, err := h.srvc.GetUserProgress(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}
	httpjson.WriteSuccessJson(w, entry)
}
