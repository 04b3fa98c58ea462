package practicehttp

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/practice/practicesrvc"
	"github.com/snbtku/backend/srvcerr"
	"github.com/snbtku/backend/user/auth"
)

type submittedAnswerRequest struct {
	QuestionID string          `json:"questionId" validate:"required"`
	Answer     json.RawMessage `json:"answer" validate:"required"`
	TimeSpent  float64         `json:"timeSpent" validate:"gte=0"`
}

type submitPracticeRequest struct {
	Answers        []submittedAnswerRequest `json:"answers" validate:"required,min=1,dive"`
	CompletionTime float64                  `json:"completionTime" validate:"gte=0"`
}

func (h *PracticeHttpHandler) SubmitPractice(w http.ResponseWriter, r *http.Request) {
	var req submitPracticeRequest
	if err := httpjson.DecodeJson(r, &req); err != nil {
		handleErr(w, r, err)
		return
	}

	answers := make([]practicedomain.SubmittedAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		resp, err := practicedomain.ParseResponse(a.Answer)
		if err != nil {
			handleErr(w, r, srvcerr.ErrInvalidRequest("jawaban tidak valid").
				SetDebug(fmt.Errorf("question %s: %w", a.QuestionID, err)))
			return
		}
		answers = append(answers, practicedomain.SubmittedAnswer{
			QuestionID: a.QuestionID,
			Answer:     resp,
			TimeSpent:  a.TimeSpent,
		})
	}

	result, err := h.srvc.SubmitPractice(r.Context(), practicesrvc.SubmitPracticeParams{
		UserID:         auth.UserIDFromContext(r.Context()),
		QuestionSetID:  chi.URLParam(r, "setId"),
		Answers:        answers,
		CompletionTime: req.CompletionTime,
	})
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, result)
}

// GetPracticeResult is limited to the owner and admins.
func (h *PracticeHttpHandler) GetPracticeResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.srvc.GetPracticeResult(r.Context(), chi.URLParam(r, "resultId"))
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

func (h *PracticeHttpHandler) ListMyResults(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleErr(w, r, err)
		return
	}
	results, err := h.srvc.ListUserPracticeResults(r.Context(), auth.UserIDFromContext(r.Context()), limit)
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, results)
}

func (h *PracticeHttpHandler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.srvc.GetUserPracticeStats(r.Context(), auth.UserIDFromContext(r.Context()), h.now())
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, stats)
}

func (h *PracticeHttpHandler) GetRecentActivity(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count", practicesrvc.DefaultRecentActivityCount)
	if err != nil {
		handleErr(w, r, err)
		return
	}
	activity, err := h.srvc.GetRecentActivity(r.Context(), auth.UserIDFromContext(r.Context()), count, h.now())
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, activity)
}
