package materialhttp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"
	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/material/materialsrvc"
	"github.com/snbtku/backend/srvcerr"
	"github.com/snbtku/backend/user/auth"
	"golang.org/x/sync/singleflight"
)

type MaterialHttpHandler struct {
	srvc    *materialsrvc.MaterialSrvc
	cache   *cache.Cache
	sfGroup singleflight.Group
}

func NewMaterialHttpHandler(srvc *materialsrvc.MaterialSrvc) *MaterialHttpHandler {
	return &MaterialHttpHandler{
		srvc:  srvc,
		cache: cache.New(1*time.Minute, 5*time.Minute),
	}
}

func (h *MaterialHttpHandler) RegisterRoutes(r chi.Router) {
	r.Route("/materials", func(r chi.Router) {
		r.Get("/", h.ListMaterials)
		r.Get("/stats", h.GetStats)
		r.Get("/latest", h.ListLatest)
		r.Get("/popular", h.ListPopular)
		r.Get("/subtest/{subtest}", h.ListBySubtest)
		r.Get("/{materialId}", h.GetMaterial)
		r.Post("/{materialId}/view", h.IncrementViews)
		r.Post("/{materialId}/download", h.IncrementDownloads)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Get("/bookmarks", h.ListBookmarked)
			r.Post("/{materialId}/bookmark", h.ToggleBookmark)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/", h.CreateMaterial)
			r.Post("/upload", h.UploadMaterial)
			r.Put("/{materialId}", h.UpdateMaterial)
			r.Delete("/{materialId}", h.DeleteMaterial)
		})
	})
}

func (h *MaterialHttpHandler) invalidate() {
	h.cache.Flush()
}

// cached serves key from the read cache, loading it once per key when
// missing.
func (h *MaterialHttpHandler) cached(w http.ResponseWriter, r *http.Request, key string, load func() (any, error)) {
	if v, found := h.cache.Get(key); found {
		httpjson.WriteSuccessJson(w, v)
		return
	}
	v, err, _ := h.sfGroup.Do(key, func() (interface{}, error) {
		v, err := load()
		if err != nil {
			return nil, err
		}
		h.cache.SetDefault(key, v)
		return v, nil
	})
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, v)
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
