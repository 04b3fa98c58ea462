package materialhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/material/materialdomain"
	"github.com/snbtku/backend/material/materialsrvc"
	"github.com/snbtku/backend/snbt"
	"github.com/snbtku/backend/srvcerr"
	"github.com/snbtku/backend/user/auth"
)

func (h *MaterialHttpHandler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := materialdomain.Filter{
		SearchQuery: q.Get("search"),
		Subtest:     q.Get("subtest"),
		Type:        q.Get("type"),
		Difficulty:  q.Get("difficulty"),
		Topic:       q.Get("topic"),
	}.Normalized()
	pageSize, err := queryInt(r, "pageSize", 0)
	if err != nil {
		handleErr(w, r, err)
		return
	}
	cursor := q.Get("cursor")
	key := fmt.Sprintf("materials:%s|%s|%s|%s|%s|%s|%d",
		filter.SearchQuery, filter.Subtest, filter.Type, filter.Difficulty, filter.Topic, cursor, pageSize)
	h.cached(w, r, key, func() (any, error) {
		return h.srvc.ListMaterials(r.Context(), filter, cursor, pageSize)
	})
}

func (h *MaterialHttpHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "stats", func() (any, error) {
		return h.srvc.GetStats(r.Context())
	})
}

func (h *MaterialHttpHandler) ListLatest(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "count", materialsrvc.DefaultHighlightCount)
	if err != nil {
		handleErr(w, r, err)
		return
	}
	h.cached(w, r, fmt.Sprintf("latest:%d", n), func() (any, error) {
		return h.srvc.ListLatest(r.Context(), n)
	})
}

func (h *MaterialHttpHandler) ListPopular(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "count", materialsrvc.DefaultHighlightCount)
	if err != nil {
		handleErr(w, r, err)
		return
	}
	h.cached(w, r, fmt.Sprintf("popular:%d", n), func() (any, error) {
		return h.srvc.ListPopular(r.Context(), n)
	})
}

func (h *MaterialHttpHandler) ListBySubtest(w http.ResponseWriter, r *http.Request) {
	subtest, err := snbt.ParseSubtest(chi.URLParam(r, "subtest"))
	if err != nil {
		handleErr(w, r, srvcerr.ErrInvalidRequest("subtes tidak dikenal").SetDebug(err))
		return
	}
	h.cached(w, r, "subtest:"+string(subtest), func() (any, error) {
		return h.srvc.ListBySubtest(r.Context(), subtest)
	})
}

// GetMaterial is not cached since it carries the caller's bookmark flag.
func (h *MaterialHttpHandler) GetMaterial(w http.ResponseWriter, r *http.Request) {
	m, err := h.srvc.GetMaterialFor(r.Context(), chi.URLParam(r, "materialId"), auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, m)
}

func (h *MaterialHttpHandler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	if err := h.srvc.IncrementViews(r.Context(), chi.URLParam(r, "materialId")); err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, nil)
}

func (h *MaterialHttpHandler) IncrementDownloads(w http.ResponseWriter, r *http.Request) {
	if err := h.srvc.IncrementDownloads(r.Context(), chi.URLParam(r, "materialId")); err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, nil)
}

// CreateMaterial takes summary and video materials as JSON. Notes need a
// file and go through UploadMaterial.
func (h *MaterialHttpHandler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	var m materialdomain.Material
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		handleErr(w, r, srvcerr.ErrInvalidRequest("format permintaan tidak valid").SetDebug(err))
		return
	}
	m.CreatedBy = auth.UserIDFromContext(r.Context())

	var (
		created *materialdomain.Material
		err     error
	)
	switch m.Kind() {
	case materialdomain.KindSummary:
		created, err = h.srvc.AddSummary(r.Context(), m)
	case materialdomain.KindVideo:
		created, err = h.srvc.AddVideo(r.Context(), m, nil)
	default:
		err = srvcerr.ErrInvalidRequest("materi catatan harus diunggah bersama berkasnya")
	}
	if err != nil {
		handleErr(w, r, err)
		return
	}
	h.invalidate()
	httpjson.WriteSuccessJson(w, created)
}

// UploadMaterial reads a multipart form with the material JSON in the
// "material" field and the notes file or video thumbnail in "file".
func (h *MaterialHttpHandler) UploadMaterial(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, materialsrvc.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(materialsrvc.MaxUploadBytes); err != nil {
		handleErr(w, r, srvcerr.ErrInvalidRequest("formulir unggahan tidak valid").SetDebug(err))
		return
	}
	var m materialdomain.Material
	if err := json.Unmarshal([]byte(r.FormValue("material")), &m); err != nil {
		handleErr(w, r, srvcerr.ErrInvalidRequest("data materi tidak valid").SetDebug(err))
		return
	}
	m.CreatedBy = auth.UserIDFromContext(r.Context())

	var (
		fileName string
		content  []byte
	)
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		fileName = header.Filename
		content, err = io.ReadAll(file)
		if err != nil {
			handleErr(w, r, srvcerr.ErrInvalidRequest("berkas tidak dapat dibaca").SetDebug(err))
			return
		}
	case !errors.Is(err, http.ErrMissingFile):
		handleErr(w, r, srvcerr.ErrInvalidRequest("berkas tidak valid").SetDebug(err))
		return
	}

	var created *materialdomain.Material
	switch m.Kind() {
	case materialdomain.KindVideo:
		created, err = h.srvc.AddVideo(r.Context(), m, content)
	case materialdomain.KindNotes:
		created, err = h.srvc.AddNotes(r.Context(), m, fileName, content)
	default:
		created, err = h.srvc.AddSummary(r.Context(), m)
	}
	if err != nil {
		handleErr(w, r, err)
		return
	}
	h.invalidate()
	httpjson.WriteSuccessJson(w, created)
}

type updateMaterialRequest struct {
	Title       *string          `json:"title" validate:"omitnil,min=1"`
	Subtest     *snbt.Subtest    `json:"subtest"`
	Topic       *string          `json:"topic"`
	Description *string          `json:"description"`
	Rating      *float64         `json:"rating" validate:"omitnil,gte=0,lte=5"`
	Difficulty  *snbt.Difficulty `json:"difficulty"`
	// Content, when set, is the full material in its JSON form whose
	// type specific fields replace the stored ones.
	Content *materialdomain.Material `json:"content"`
}

func (h *MaterialHttpHandler) UpdateMaterial(w http.ResponseWriter, r *http.Request) {
	var req updateMaterialRequest
	if err := httpjson.DecodeJson(r, &req); err != nil {
		handleErr(w, r, err)
		return
	}
	u := materialsrvc.MaterialUpdate{
		Title:       req.Title,
		Subtest:     req.Subtest,
		Topic:       req.Topic,
		Description: req.Description,
		Rating:      req.Rating,
		Difficulty:  req.Difficulty,
	}
	if req.Content != nil {
		u.Body = req.Content.Body
	}
	updated, err := h.srvc.UpdateMaterial(r.Context(), chi.URLParam(r, "materialId"), u)
	if err != nil {
		handleErr(w, r, err)
		return
	}
	h.invalidate()
	httpjson.WriteSuccessJson(w, updated)
}

func (h *MaterialHttpHandler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	if err := h.srvc.DeleteMaterial(r.Context(), chi.URLParam(r, "materialId")); err != nil {
		handleErr(w, r, err)
		return
	}
	h.invalidate()
	httpjson.WriteSuccessJson(w, nil)
}

func (h *MaterialHttpHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	on, err := h.srvc.ToggleBookmark(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "materialId"))
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, map[string]bool{"isBookmarked": on})
}

func (h *MaterialHttpHandler) ListBookmarked(w http.ResponseWriter, r *http.Request) {
	list, err := h.srvc.ListBookmarked(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleErr(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, list)
}
