package materialsrvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/material/materialdomain"
	"github.com/snbtku/backend/snbt"
	"github.com/snbtku/backend/srvcerr"
)

const (
	DefaultHighlightCount = 5
	maxFilterPages        = 10
)

type MaterialSrvc struct {
	repo  Repo
	files FileStore
	now   func() time.Time
	newID func() (string, error)
}

func NewMaterialSrvc(repo Repo, files FileStore) *MaterialSrvc {
	return &MaterialSrvc{
		repo:  repo,
		files: files,
		now:   time.Now,
		newID: newUUIDv7,
	}
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

func mapRepoErr(err error) error {
	if errors.Is(err, ddbutil.ErrInvalidCursor) {
		return newErrInvalidCursor().SetDebug(err)
	}
	return srvcerr.ErrInternalSE().SetDebug(err)
}

// ListMaterials pages materials, newest update first. The search query is
// matched in process against title, description and topic.
func (s *MaterialSrvc) ListMaterials(ctx context.Context, f materialdomain.Filter, cursor string, pageSize int) (*Page[materialdomain.Material], error) {
	f = f.Normalized()
	limit := ddbutil.PageSize(pageSize)

	items := make([]materialdomain.Material, 0, limit)
	next := cursor
	for i := 0; i < maxFilterPages; i++ {
		page, nextCursor, err := s.repo.ListMaterials(ctx, f, next, limit)
		if err != nil {
			return nil, mapRepoErr(err)
		}
		for _, m := range page {
			if materialdomain.MatchesSearch(m, f.SearchQuery) {
				items = append(items, m)
			}
		}
		next = nextCursor
		if next == "" || len(items) >= limit || f.SearchQuery == "" {
			break
		}
	}
	return &Page[materialdomain.Material]{Items: items, NextCursor: next}, nil
}

func (s *MaterialSrvc) GetMaterial(ctx context.Context, id string) (*materialdomain.Material, error) {
	m, err := s.repo.GetMaterial(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if m == nil {
		return nil, newErrMaterialNotFound()
	}
	return m, nil
}

// GetMaterialFor also reports whether userID bookmarked the material.
func (s *MaterialSrvc) GetMaterialFor(ctx context.Context, id, userID string) (*materialdomain.Material, error) {
	m, err := s.GetMaterial(ctx, id)
	if err != nil || userID == "" {
		return m, err
	}
	m.IsBookmarked, err = s.repo.IsBookmarked(ctx, userID, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return m, nil
}

func (s *MaterialSrvc) create(ctx context.Context, m materialdomain.Material) (*materialdomain.Material, error) {
	if err := m.Validate(); err != nil {
		return nil, newErrInvalidMaterial().SetDebug(err)
	}
	now := s.now().UTC()
	m.CreatedAt = now
	m.LastUpdated = now
	m.IsBookmarked = false
	if err := s.repo.CreateMaterial(ctx, m); err != nil {
		return nil, mapRepoErr(fmt.Errorf("create material: %w", err))
	}
	logger.FromContext(ctx).Info("material created", "material_id", m.ID, "type", m.Kind())
	return &m, nil
}

func (s *MaterialSrvc) assignID(m *materialdomain.Material) error {
	id, err := s.newID()
	if err != nil {
		return mapRepoErr(err)
	}
	m.ID = id
	return nil
}

func (s *MaterialSrvc) AddSummary(ctx context.Context, m materialdomain.Material) (*materialdomain.Material, error) {
	if _, ok := m.Body.(materialdomain.Summary); !ok {
		return nil, newErrWrongMaterialType(string(materialdomain.KindSummary))
	}
	if err := s.assignID(&m); err != nil {
		return nil, err
	}
	return s.create(ctx, m.WithCounts(0, 0))
}

// AddVideo stores a video material. A given thumbnail image replaces the
// thumbnail URL; it is resized and stored under thumbnails/.
func (s *MaterialSrvc) AddVideo(ctx context.Context, m materialdomain.Material, thumbnail []byte) (*materialdomain.Material, error) {
	video, ok := m.Body.(materialdomain.Video)
	if !ok {
		return nil, newErrWrongMaterialType(string(materialdomain.KindVideo))
	}
	if err := s.assignID(&m); err != nil {
		return nil, err
	}
	if len(thumbnail) > 0 {
		if len(thumbnail) > MaxUploadBytes {
			return nil, newErrInvalidFile().SetDebug(fmt.Errorf("thumbnail of %d bytes is too large", len(thumbnail)))
		}
		small, err := makeThumbnail(thumbnail)
		if err != nil {
			return nil, newErrInvalidFile().SetDebug(err)
		}
		url, err := s.files.Upload(ctx, thumbnailKey(m.ID), "image/jpeg", small)
		if err != nil {
			return nil, mapRepoErr(fmt.Errorf("upload thumbnail: %w", err))
		}
		video.Thumbnail = url
	}
	m.Body = video
	return s.create(ctx, m.WithCounts(0, 0))
}

// AddNotes uploads the notes file under notes/ and stores the material
// with the sniffed file type and a human readable size.
func (s *MaterialSrvc) AddNotes(ctx context.Context, m materialdomain.Material, fileName string, content []byte) (*materialdomain.Material, error) {
	notes, ok := m.Body.(materialdomain.Notes)
	if !ok {
		return nil, newErrWrongMaterialType(string(materialdomain.KindNotes))
	}
	if len(content) == 0 || len(content) > MaxUploadBytes {
		return nil, newErrInvalidFile().SetDebug(fmt.Errorf("notes file has %d bytes", len(content)))
	}
	if err := s.assignID(&m); err != nil {
		return nil, err
	}
	info := inspectNotes(fileName, content)
	url, err := s.files.Upload(ctx, notesKey(m.ID, fileName), info.mediaType, content)
	if err != nil {
		return nil, mapRepoErr(fmt.Errorf("upload notes: %w", err))
	}
	notes.FileURL = url
	notes.FileType = info.fileType
	notes.FileSize = info.fileSize
	m.Body = notes
	return s.create(ctx, m.WithCounts(0, 0))
}

// MaterialUpdate changes the non-nil fields. A body of another kind than
// the stored one is refused.
type MaterialUpdate struct {
	Title       *string
	Subtest     *snbt.Subtest
	Topic       *string
	Description *string
	Rating      *float64
	Difficulty  *snbt.Difficulty
	Body        materialdomain.Body
}

func (s *MaterialSrvc) UpdateMaterial(ctx context.Context, id string, u MaterialUpdate) (*materialdomain.Material, error) {
	m, err := s.GetMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Subtest != nil {
		m.Subtest = *u.Subtest
	}
	if u.Topic != nil {
		m.Topic = *u.Topic
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Rating != nil {
		m.Rating = *u.Rating
	}
	if u.Difficulty != nil {
		m.Difficulty = *u.Difficulty
	}
	if u.Body != nil {
		if u.Body.Kind() != m.Kind() {
			return nil, newErrWrongMaterialType(string(m.Kind()))
		}
		m.Body = u.Body
	}
	if err := m.Validate(); err != nil {
		return nil, newErrInvalidMaterial().SetDebug(err)
	}

	m.LastUpdated = s.now().UTC()
	err = s.repo.UpdateMaterial(ctx, *m)
	if errors.Is(err, ErrMaterialMissing) {
		return nil, newErrMaterialNotFound()
	}
	if err != nil {
		return nil, mapRepoErr(fmt.Errorf("update material: %w", err))
	}
	return s.GetMaterial(ctx, id)
}

// DeleteMaterial removes the material's stored file if it has one, then
// the material. A failed file removal is logged and does not stop the
// delete.
func (s *MaterialSrvc) DeleteMaterial(ctx context.Context, id string) error {
	m, err := s.repo.GetMaterial(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}
	if m != nil && s.files != nil {
		if key, ok := s.files.KeyFromURL(m.StoredFileURL()); ok {
			if err := s.files.Delete(ctx, key); err != nil {
				logger.FromContext(ctx).Warn("failed to delete material file", "material_id", id, "key", key, "error", err)
			}
		}
	}
	if err := s.repo.DeleteMaterial(ctx, id); err != nil {
		return mapRepoErr(fmt.Errorf("delete material: %w", err))
	}
	logger.FromContext(ctx).Info("material deleted", "material_id", id)
	return nil
}

func (s *MaterialSrvc) IncrementViews(ctx context.Context, id string) error {
	return s.increment(ctx, id, CounterViews)
}

func (s *MaterialSrvc) IncrementDownloads(ctx context.Context, id string) error {
	return s.increment(ctx, id, CounterDownloads)
}

// increment ignores materials that no longer exist.
func (s *MaterialSrvc) increment(ctx context.Context, id string, c Counter) error {
	err := s.repo.Increment(ctx, id, c, 1)
	if errors.Is(err, ErrMaterialMissing) {
		logger.FromContext(ctx).Debug("counter of missing material not incremented", "material_id", id, "counter", c)
		return nil
	}
	if err != nil {
		return mapRepoErr(fmt.Errorf("increment %s: %w", c, err))
	}
	return nil
}
