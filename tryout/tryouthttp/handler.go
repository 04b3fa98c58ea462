package tryouthttp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"
	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/srvcerr"
	"github.com/snbtku/backend/tryout/tryoutsrvc"
	"github.com/snbtku/backend/user/auth"
	"golang.org/x/sync/singleflight"
)

type TryoutHttpHandler struct {
	srvc    *tryoutsrvc.TryoutSrvc
	cache   *cache.Cache
	sfGroup singleflight.Group
}

func NewTryoutHttpHandler(srvc *tryoutsrvc.TryoutSrvc) *TryoutHttpHandler {
	return &TryoutHttpHandler{
		srvc:  srvc,
		cache: cache.New(1*time.Minute, 5*time.Minute),
	}
}

func (h *TryoutHttpHandler) RegisterRoutes(r chi.Router) {
	r.Route("/tryouts", func(r chi.Router) {
		r.Get("/", h.ListTryouts)
		r.Get("/scheduled", h.ListScheduledTryouts)
		r.Get("/{tryoutId}", h.GetTryout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Get("/{tryoutId}/subtests/{subtest}/questions", h.GetSubtestQuestions)
			r.Post("/{tryoutId}/score", h.CalculateScore)
			r.Post("/{tryoutId}/submit", h.SubmitTryout)
			r.Get("/results", h.ListMyResults)
			r.Get("/results/{resultId}", h.GetTryoutResult)
			r.Get("/stats", h.GetMyStats)
			r.Get("/scheduled/mine", h.ListMyScheduledTryouts)
			r.Post("/scheduled/{scheduledId}/register", h.Register)
			r.Get("/scheduled/{scheduledId}/registration", h.GetRegistration)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/", h.CreateTryout)
			r.Put("/{tryoutId}", h.UpdateTryout)
			r.Delete("/{tryoutId}", h.DeleteTryout)
			r.Post("/scheduled", h.CreateScheduledTryout)
		})
	})
}

func (h *TryoutHttpHandler) invalidate() {
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
