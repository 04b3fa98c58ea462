package materialsrvc

import (
	"context"
	"errors"

	"github.com/snbtku/backend/material/materialdomain"
)

// ErrMaterialMissing is returned by writes that require an existing
// material.
var ErrMaterialMissing = errors.New("material does not exist")

type Counter string

const (
	CounterViews     Counter = "views"
	CounterDownloads Counter = "downloads"
)

// Lookups return nil, nil when the item does not exist.
type Repo interface {
	GetMaterial(ctx context.Context, id string) (*materialdomain.Material, error)
	GetMaterials(ctx context.Context, ids []string) (map[string]materialdomain.Material, error)
	// ListMaterials applies every filter but the search query and orders
	// by lastUpdated, newest first.
	ListMaterials(ctx context.Context, f materialdomain.Filter, cursor string, limit int) ([]materialdomain.Material, string, error)
	ListAll(ctx context.Context) ([]materialdomain.Material, error)
	CreateMaterial(ctx context.Context, m materialdomain.Material) error
	// UpdateMaterial replaces everything but the counters.
	UpdateMaterial(ctx context.Context, m materialdomain.Material) error
	DeleteMaterial(ctx context.Context, id string) error
	// Increment adds delta to a counter of an existing material.
	Increment(ctx context.Context, id string, c Counter, delta int) error

	IsBookmarked(ctx context.Context, userID, materialID string) (bool, error)
	PutBookmark(ctx context.Context, userID, materialID string) error
	DeleteBookmark(ctx context.Context, userID, materialID string) error
	ListBookmarks(ctx context.Context, userID string) ([]string, error)
}

// FileStore keeps uploaded material files. s3bucket.S3Bucket implements it.
type FileStore interface {
	Upload(ctx context.Context, key string, mediaType string, content []byte) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(objectURL string) (string, bool)
	ListFiles(ctx context.Context, prefix string) ([]string, error)
}
