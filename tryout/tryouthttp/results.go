package tryouthttp

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/snbt"
	"github.com/snbtku/backend/srvcerr"
	"github.com/snbtku/backend/tryout/tryoutsrvc"
	"github.com/snbtku/backend/user/auth"
)

type submittedAnswerRequest struct {
	QuestionID string          `json:"questionId" validate:"required"`
	Answer     json.RawMessage `json:"answer" validate:"required"`
	TimeSpent  float64         `json:"timeSpent" validate:"gte=0"`
}

type submitTryoutRequest struct {
	Answers map[snbt.Subtest][]submittedAnswerRequest `json:"answers" validate:"required,dive,dive"`
}

func (h *TryoutHttpHandler) SubmitTryout(w http.ResponseWriter, r *http.Request) {
	var req submitTryoutRequest
	if err := httpjson.DecodeJson(r, &req); err != nil {
		handleErr(w, r, err)
		return
	}

	answers := make(map[snbt.Subtest][]practicedomain.SubmittedAnswer, len(req.Answers))
	for name, list := range req.Answers {
		converted := make([]practicedomain.SubmittedAnswer, 0, len(list))
		for _, a := range list {
			resp, err := practicedomain.ParseResponse(a.Answer)
			if err != nil {
				handleErr(w, r, srvcerr.ErrInvalidRequest("jawaban tidak valid").
					SetDebug(fmt.Errorf("question %s: %w", a.QuestionID, err)))
				return
			}
			converted = append(converted, practicedomain.SubmittedAnswer{
				QuestionID: a.QuestionID,
				Answer:     resp,
				TimeSpent:  a.TimeSpent,
			})
		}
		answers[name] = converted
	}

	result, err := h.srvc.SubmitTryout(r.Context(), tryoutsrvc.SubmitTryoutParams{
		UserID:   auth.UserIDFromContext(r.Context()),
		TryoutID: chi.URLParam(r, "tryoutId"),
		Answers:  answers,
	})
	if err != nil {
		handleErr(w, r, err)
		return
	}
	// participant counts changed
	h.invalidate()
	httpjson.WriteSuccessJson(w, result)
}

type calculateScoreRequest struct {
	Answers map[snbt.Subtest][]practicedomain.UserAnswer `json:"answers" validate:"required"`
}

func (h *TryoutHttpHandler) CalculateScore(w http.ResponseWriter, r *http.Request) {
	var req calculateScoreRequest
	if err := httpjson.DecodeJson(r, &req); err != nil {
		handleErr(w, r, err)
		return
	}
	results, err := h.srvc.CalculateScore(r.Context(), chi.URLParam(r, "tryoutId"), req.Answers)
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, results)
}

// GetTryoutResult is limited to the owner and admins.
func (h *TryoutHttpHandler) GetTryoutResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.srvc.GetTryoutResult(r.Context(), chi.URLParam(r, "resultId"))
	if err != nil {
		handleErr(w, r, err)
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	if result.UserID != claims.UUID && !claims.IsAdmin() {
		handleErr(w, r, srvcerr.ErrForbidden())
		return
	}
	httpjson.WriteSuccessJson(w, result)
}

func (h *TryoutHttpHandler) ListMyResults(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleErr(w, r, err)
		return
	}
	results, err := h.srvc.ListUserTryoutResults(r.Context(), auth.UserIDFromContext(r.Context()), limit)
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, results)
}

func (h *TryoutHttpHandler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.srvc.GetUserTryoutStats(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, stats)
}
