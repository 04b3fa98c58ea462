package practicehttp

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/practice/practicesrvc"
	"github.com/snbtku/backend/snbt"
	"github.com/snbtku/backend/user/auth"
)

type questionSetPage = practicesrvc.Page[practicedomain.QuestionSet]

func (h *PracticeHttpHandler) ListQuestionSets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := practicedomain.Filter{
		SearchQuery: q.Get("search"),
		Subtest:     q.Get("subtest"),
		Difficulty:  q.Get("difficulty"),
		Topic:       q.Get("topic"),
	}.Normalized()
	pageSize, err := queryInt(r, "pageSize", 0)
	if err != nil {
		handleErr(w, r, err)
		return
	}
	cursor := q.Get("cursor")
	cacheKey := fmt.Sprintf("sets:%s|%s|%s|%s|%s|%d",
		filter.SearchQuery, filter.Subtest, filter.Difficulty, filter.Topic, cursor, pageSize)

	if cached, found := h.cache.Get(cacheKey); found {
		if page, ok := cached.(*questionSetPage); ok {
			httpjson.WriteSuccessJson(w, page)
			return
		}
	}

	result, err, _ := h.sfGroup.Do(cacheKey, func() (interface{}, error) {
		page, err := h.srvc.ListQuestionSets(r.Context(), filter, cursor, pageSize)
		if err != nil {
			return nil, err
		}
		h.cache.SetDefault(cacheKey, page)
		return page, nil
	})
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, result.(*questionSetPage))
}

func (h *PracticeHttpHandler) GetQuestionSet(w http.ResponseWriter, r *http.Request) {
	setID := chi.URLParam(r, "setId")
	cacheKey := "set:" + setID

	if cached, found := h.cache.Get(cacheKey); found {
		if set, ok := cached.(*practicedomain.QuestionSet); ok {
			httpjson.WriteSuccessJson(w, set)
			return
		}
	}

	result, err, _ := h.sfGroup.Do(cacheKey, func() (interface{}, error) {
		set, err := h.srvc.GetQuestionSet(r.Context(), setID)
		if err != nil {
			return nil, err
		}
		h.cache.SetDefault(cacheKey, set)
		return set, nil
	})
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, result.(*practicedomain.QuestionSet))
}

func (h *PracticeHttpHandler) ListQuestionsInSet(w http.ResponseWriter, r *http.Request) {
	questions, err := h.srvc.ListQuestionsInSet(r.Context(), chi.URLParam(r, "setId"))
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, questions)
}

type questionSetRequest struct {
	Title         string          `json:"title" validate:"required,max=200"`
	Description   string          `json:"description" validate:"max=2000"`
	Subtest       snbt.Subtest    `json:"subtest" validate:"required"`
	Topic         string          `json:"topic" validate:"max=100"`
	Difficulty    snbt.Difficulty `json:"difficulty" validate:"required"`
	QuestionCount int             `json:"questionCount" validate:"gte=0"`
	EstimatedTime string          `json:"estimatedTime"`
	Questions     []string        `json:"questions"`
	IsPublic      bool            `json:"isPublic"`
}

func (req questionSetRequest) toQuestionSet(createdBy string) practicedomain.QuestionSet {
	return practicedomain.QuestionSet{
		Title:         req.Title,
		Description:   req.Description,
		Subtest:       req.Subtest,
		Topic:         req.Topic,
		Difficulty:    req.Difficulty,
		QuestionCount: req.QuestionCount,
		EstimatedTime: req.EstimatedTime,
		Questions:     req.Questions,
		IsPublic:      req.IsPublic,
		CreatedBy:     createdBy,
	}
}

func (h *PracticeHttpHandler) CreateQuestionSet(w http.ResponseWriter, r *http.Request) {
	var req questionSetRequest
	if err := httpjson.DecodeJson(r, &req); err != nil {
		handleErr(w, r, err)
		return
	}
	set, err := h.srvc.CreateQuestionSet(r.Context(), req.toQuestionSet(auth.UserIDFromContext(r.Context())))
	if err != nil {
		handleErr(w, r, err)
		return
	}
	h.invalidate()
	httpjson.WriteSuccessJson(w, set)
}

type importRequest struct {
	Set       questionSetRequest        `json:"set"`
	Questions []practicedomain.Question `json:"questions" validate:"required,min=1"`
}

func (h *PracticeHttpHandler) ImportQuestionSet(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := httpjson.DecodeJson(r, &req); err != nil {
		handleErr(w, r, err)
		return
	}
	set, err := h.srvc.CreateQuestionSetWithQuestions(r.Context(),
		req.Set.toQuestionSet(auth.UserIDFromContext(r.Context())), req.Questions)
	if err != nil {
		handleErr(w, r, err)
		return
	}
	h.invalidate()
	httpjson.WriteSuccessJson(w, set)
}

type updateQuestionSetRequest struct {
	Title         *string          `json:"title" validate:"omitnil,min=1,max=200"`
	Description   *string          `json:"description" validate:"omitnil,max=2000"`
	Subtest       *snbt.Subtest    `json:"subtest"`
	Topic         *string          `json:"topic" validate:"omitnil,max=100"`
	Difficulty    *snbt.Difficulty `json:"difficulty"`
	QuestionCount *int             `json:"questionCount" validate:"omitnil,gte=0"`
	EstimatedTime *string          `json:"estimatedTime"`
	Questions     *[]string        `json:"questions"`
	IsPublic      *bool            `json:"isPublic"`
}

func (h *PracticeHttpHandler) UpdateQuestionSet(w http.ResponseWriter, r *http.Request) {
	var req updateQuestionSetRequest
	if err := httpjson.DecodeJson(r, &req); err != nil {
		handleErr(w, r, err)
		return
	}
	set, err := h.srvc.UpdateQuestionSet(r.Context(), chi.URLParam(r, "setId"), practicesrvc.QuestionSetUpdate{
		Title:         req.Title,
		Description:   req.Description,
		Subtest:       req.Subtest,
		Topic:         req.Topic,
		Difficulty:    req.Difficulty,
		QuestionCount: req.QuestionCount,
		EstimatedTime: req.EstimatedTime,
		Questions:     req.Questions,
		IsPublic:      req.IsPublic,
	})
	if err != nil {
		handleErr(w, r, err)
		return
	}
	h.invalidate()
	httpjson.WriteSuccessJson(w, set)
}

func (h *PracticeHttpHandler) DeleteQuestionSet(w http.ResponseWriter, r *http.Request) {
	if err := h.srvc.DeleteQuestionSet(r.Context(), chi.URLParam(r, "setId")); err != nil {
		handleErr(w, r, err)
		return
	}
	h.invalidate()
	httpjson.WriteSuccessJson(w, nil)
}
