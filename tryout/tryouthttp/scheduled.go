package tryouthttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/tryout/tryoutdomain"
	"github.com/snbtku/backend/user/auth"
)

func (h *TryoutHttpHandler) ListScheduledTryouts(w http.ResponseWriter, r *http.Request) {
	list, err := h.srvc.ListScheduledTryouts(r.Context())
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, list)
}

type scheduledTryoutRequest struct {
	Title  string                      `json:"title" validate:"required"`
	Date   time.Time                   `json:"date" validate:"required"`
	Time   string                      `json:"time"`
	Prize  string                      `json:"prize"`
	Status tryoutdomain.ScheduleStatus `json:"status" validate:"omitempty,oneof=open closed"`
}

func (h *TryoutHttpHandler) CreateScheduledTryout(w http.ResponseWriter, r *http.Request) {
	var req scheduledTryoutRequest
	if err := httpjson.DecodeJson(r, &req); err != nil {
		handleErr(w, r, err)
		return
	}
	created, err := h.srvc.CreateScheduledTryout(r.Context(), tryoutdomain.ScheduledTryout{
		Title:  req.Title,
		Date:   req.Date,
		Time:   req.Time,
		Prize:  req.Prize,
		Status: req.Status,
	})
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, created)
}

func (h *TryoutHttpHandler) Register(w http.ResponseWriter, r *http.Request) {
	err := h.srvc.Register(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "scheduledId"))
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, map[string]bool{"registered": true})
}

func (h *TryoutHttpHandler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	ok, err := h.srvc.IsRegistered(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "scheduledId"))
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, map[string]bool{"registered": ok})
}

func (h *TryoutHttpHandler) ListMyScheduledTryouts(w http.ResponseWriter, r *http.Request) {
	list, err := h.srvc.ListUserScheduledTryouts(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, list)
}
