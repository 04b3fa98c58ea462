package practicehttp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"
	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/practice/practicesrvc"
	"github.com/snbtku/backend/srvcerr"
	"github.com/snbtku/backend/user/auth"
	"golang.org/x/sync/singleflight"
)

type PracticeHttpHandler struct {
	srvc    *practicesrvc.PracticeSrvc
	cache   *cache.Cache
	sfGroup singleflight.Group
	now     func() time.Time
}

func NewPracticeHttpHandler(srvc *practicesrvc.PracticeSrvc) *PracticeHttpHandler {
	return &PracticeHttpHandler{
		srvc:  srvc,
		cache: cache.New(1*time.Minute, 5*time.Minute),
		now:   time.Now,
	}
}

func (h *PracticeHttpHandler) RegisterRoutes(r chi.Router) {
	r.Route("/practice", func(r chi.Router) {
		r.Get("/question-sets", h.ListQuestionSets)
		r.Get("/question-sets/{setId}", h.GetQuestionSet)

		// question bodies carry the answer key
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Get("/questions/{questionId}", h.GetQuestion)
			r.Get("/question-sets/{setId}/questions", h.ListQuestionsInSet)
			r.Post("/question-sets/{setId}/submit", h.SubmitPractice)
			r.Get("/results", h.ListMyResults)
			r.Get("/results/{resultId}", h.GetPracticeResult)
			r.Get("/stats", h.GetMyStats)
			r.Get("/recent-activity", h.GetRecentActivity)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/questions", h.CreateQuestion)
			r.Put("/questions/{questionId}", h.UpdateQuestion)
			r.Delete("/questions/{questionId}", h.DeleteQuestion)
			r.Post("/question-sets", h.CreateQuestionSet)
			r.Post("/question-sets/import", h.ImportQuestionSet)
			r.Put("/question-sets/{setId}", h.UpdateQuestionSet)
			r.Delete("/question-sets/{setId}", h.DeleteQuestionSet)
		})
	})
}

// invalidate drops cached catalog reads after an admin write.
func (h *PracticeHttpHandler) invalidate() {
	h.cache.Flush()
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, srvcerr.ErrInvalidRequest(name + " harus berupa angka").SetDebug(err)
	}
	return n, nil
}

func handleErr(w http.ResponseWriter, r *http.Request, err error) {
	httpjson.HandleError(logger.FromContext(r.Context()), w, err)
}
