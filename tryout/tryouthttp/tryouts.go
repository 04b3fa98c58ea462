package tryouthttp

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/snbt"
	"github.com/snbtku/backend/tryout/tryoutdomain"
	"github.com/snbtku/backend/tryout/tryoutsrvc"
	"github.com/snbtku/backend/user/auth"
)

type tryoutPage = tryoutsrvc.Page[tryoutdomain.Tryout]

func (h *TryoutHttpHandler) ListTryouts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := tryoutdomain.Filter{
		Status:     q.Get("status"),
		Difficulty: q.Get("difficulty"),
		Subtest:    q.Get("subtest"),
	}.Normalized()
	pageSize, err := queryInt(r, "pageSize", 0)
	if err != nil {
		handleErr(w, r, err)
		return
	}
	cursor := q.Get("cursor")
	cacheKey := fmt.Sprintf("tryouts:%s|%s|%s|%s|%d",
		filter.Status, filter.Difficulty, filter.Subtest, cursor, pageSize)

	if cached, found := h.cache.Get(cacheKey); found {
		if page, ok := cached.(*tryoutPage); ok {
			httpjson.WriteSuccessJson(w, page)
			return
		}
	}

	result, err, _ := h.sfGroup.Do(cacheKey, func() (interface{}, error) {
		page, err := h.srvc.ListTryouts(r.Context(), filter, cursor, pageSize)
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
	httpjson.WriteSuccessJson(w, result.(*tryoutPage))
}

func (h *TryoutHttpHandler) GetTryout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tryoutId")
	cacheKey := "tryout:" + id

	if cached, found := h.cache.Get(cacheKey); found {
		if t, ok := cached.(*tryoutdomain.Tryout); ok {
			httpjson.WriteSuccessJson(w, t)
			return
		}
	}

	result, err, _ := h.sfGroup.Do(cacheKey, func() (interface{}, error) {
		t, err := h.srvc.GetTryout(r.Context(), id)
		if err != nil {
			return nil, err
		}
		h.cache.SetDefault(cacheKey, t)
		return t, nil
	})
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, result.(*tryoutdomain.Tryout))
}

type subtestRequest struct {
	Name        snbt.Subtest `json:"name" validate:"required"`
	Duration    int          `json:"duration" validate:"gte=0"`
	Questions   int          `json:"questions" validate:"gte=0"`
	QuestionIDs []string     `json:"questionIds"`
}

type tryoutRequest struct {
	Title       string                 `json:"title" validate:"required"`
	Description string                 `json:"description"`
	Duration    int                    `json:"duration" validate:"gte=0"`
	Difficulty  snbt.Difficulty        `json:"difficulty" validate:"required"`
	Status      tryoutdomain.Status    `json:"status" validate:"required"`
	StartTime   tryoutdomain.StartTime `json:"startTime"`
	Subtests    []subtestRequest       `json:"subtests" validate:"dive"`
	IsPublic    bool                   `json:"isPublic"`
	IsPremium   bool                   `json:"isPremium"`
}

func (req tryoutRequest) toTryout(createdBy string) (tryoutdomain.Tryout, map[snbt.Subtest][]string) {
	subtests := make([]tryoutdomain.Subtest, 0, len(req.Subtests))
	questions := map[snbt.Subtest][]string{}
	for _, st := range req.Subtests {
		subtests = append(subtests, tryoutdomain.Subtest{
			Name:      st.Name,
			Duration:  st.Duration,
			Questions: st.Questions,
		})
		if len(st.QuestionIDs) > 0 {
			questions[st.Name] = st.QuestionIDs
		}
	}
	return tryoutdomain.Tryout{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Difficulty:  req.Difficulty,
		Status:      req.Status,
		StartTime:   req.StartTime,
		Subtests:    subtests,
		IsPublic:    req.IsPublic,
		IsPremium:   req.IsPremium,
		CreatedBy:   createdBy,
	}, questions
}

func (h *TryoutHttpHandler) CreateTryout(w http.ResponseWriter, r *http.Request) {
	var req tryoutRequest
	if err := httpjson.DecodeJson(r, &req); err != nil {
		handleErr(w, r, err)
		return
	}
	t, questions := req.toTryout(auth.UserIDFromContext(r.Context()))

	var (
		created *tryoutdomain.Tryout
		err     error
	)
	if len(questions) > 0 {
		created, err = h.srvc.CreateTryoutWithQuestions(r.Context(), t, questions)
	} else {
		created, err = h.srvc.CreateTryout(r.Context(), t)
	}
	if err != nil {
		handleErr(w, r, err)
		return
	}
	h.invalidate()
	httpjson.WriteSuccessJson(w, created)
}

type updateTryoutRequest struct {
	Title       *string                 `json:"title" validate:"omitnil,min=1"`
	Description *string                 `json:"description"`
	Duration    *int                    `json:"duration" validate:"omitnil,gte=0"`
	Difficulty  *snbt.Difficulty        `json:"difficulty"`
	Status      *tryoutdomain.Status    `json:"status"`
	StartTime   *tryoutdomain.StartTime `json:"startTime"`
	Subtests    *[]tryoutdomain.Subtest `json:"subtests"`
	IsPublic    *bool                   `json:"isPublic"`
	IsPremium   *bool                   `json:"isPremium"`
}

func (h *TryoutHttpHandler) UpdateTryout(w http.ResponseWriter, r *http.Request) {
	var req updateTryoutRequest
	if err := httpjson.DecodeJson(r, &req); err != nil {
		handleErr(w, r, err)
		return
	}
	updated, err := h.srvc.UpdateTryout(r.Context(), chi.URLParam(r, "tryoutId"), tryoutsrvc.TryoutUpdate{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Difficulty:  req.Difficulty,
		Status:      req.Status,
		StartTime:   req.StartTime,
		Subtests:    req.Subtests,
		IsPublic:    req.IsPublic,
		IsPremium:   req.IsPremium,
	})
	if err != nil {
		handleErr(w, r, err)
		return
	}
	h.invalidate()
	httpjson.WriteSuccessJson(w, updated)
}

func (h *TryoutHttpHandler) DeleteTryout(w http.ResponseWriter, r *http.Request) {
	if err := h.srvc.DeleteTryout(r.Context(), chi.URLParam(r, "tryoutId")); err != nil {
		handleErr(w, r, err)
		return
	}
	h.invalidate()
	httpjson.WriteSuccessJson(w, nil)
}

func (h *TryoutHttpHandler) GetSubtestQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := h.srvc.GetSubtestQuestions(r.Context(),
		chi.URLParam(r, "tryoutId"), snbt.Subtest(chi.URLParam(r, "subtest")))
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, qs)
}
