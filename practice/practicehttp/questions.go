package practicehttp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/practice/practicesrvc"
	"github.com/snbtku/backend/snbt"
	"github.com/snbtku/backend/srvcerr"
	"github.com/snbtku/backend/user/auth"
)

func (h *PracticeHttpHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := chi.URLParam(r, "questionId")
	cacheKey := "question:" + questionID

	if cached, found := h.cache.Get(cacheKey); found {
		if q, ok := cached.(*practicedomain.Question); ok {
			httpjson.WriteSuccessJson(w, q)
			return
		}
	}

	result, err, _ := h.sfGroup.Do(cacheKey, func() (interface{}, error) {
		q, err := h.srvc.GetQuestion(r.Context(), questionID)
		if err != nil {
			return nil, err
		}
		h.cache.SetDefault(cacheKey, q)
		return q, nil
	})
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, result.(*practicedomain.Question))
}

func (h *PracticeHttpHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var q practicedomain.Question
	if err := httpjson.DecodeJson(r, &q); err != nil {
		handleErr(w, r, err)
		return
	}
	q.CreatedBy = auth.UserIDFromContext(r.Context())
	created, err := h.srvc.CreateQuestion(r.Context(), q)
	if err != nil {
		handleErr(w, r, err)
		return
	}
	h.invalidate()
	httpjson.WriteSuccessJson(w, created)
}

type updateQuestionRequest struct {
	Text        *string          `json:"text" validate:"omitnil,min=1"`
	Explanation *string          `json:"explanation"`
	Difficulty  *snbt.Difficulty `json:"difficulty"`
	Subtest     *snbt.Subtest    `json:"subtest"`
	Topic       *string          `json:"topic" validate:"omitnil,max=100"`
	// Answer carries a full question document whose answer shape replaces
	// the stored one.
	Answer json.RawMessage `json:"answer"`
}

func (h *PracticeHttpHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var req updateQuestionRequest
	if err := httpjson.DecodeJson(r, &req); err != nil {
		handleErr(w, r, err)
		return
	}
	u := practicesrvc.QuestionUpdate{
		Text:        req.Text,
		Explanation: req.Explanation,
		Difficulty:  req.Difficulty,
		Subtest:     req.Subtest,
		Topic:       req.Topic,
	}
	if len(req.Answer) > 0 && string(req.Answer) != "null" {
		var shape practicedomain.Question
		if err := json.Unmarshal(req.Answer, &shape); err != nil {
			handleErr(w, r, srvcerr.ErrInvalidRequest("bentuk jawaban tidak valid").SetDebug(err))
			return
		}
		u.Body = shape.Body
	}

	q, err := h.srvc.UpdateQuestion(r.Context(), chi.URLParam(r, "questionId"), u)
	if err != nil {
		handleErr(w, r, err)
		return
	}
	h.invalidate()
	httpjson.WriteSuccessJson(w, q)
}

func (h *PracticeHttpHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.srvc.DeleteQuestion(r.Context(), chi.URLParam(r, "questionId")); err != nil {
		handleErr(w, r, err)
		return
	}
	h.invalidate()
	httpjson.WriteSuccessJson(w, nil)
}
