package materialsrvc

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/material/materialdomain"
)

type bookmarkKey struct {
	userID     string
	materialID string
}

type InMemMaterialRepo struct {
	lock      sync.Mutex
	materials map[string]materialdomain.Material
	bookmarks map[bookmarkKey]bool
}

func NewInMemMaterialRepo() *InMemMaterialRepo {
	return &InMemMaterialRepo{
		materials: make(map[string]materialdomain.Material),
		bookmarks: make(map[bookmarkKey]bool),
	}
}

func (m *InMemMaterialRepo) GetMaterial(ctx context.Context, id string) (*materialdomain.Material, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	mat, ok := m.materials[id]
	if !ok {
		return nil, nil
	}
	return &mat, nil
}

func (m *InMemMaterialRepo) GetMaterials(ctx context.Context, ids []string) (map[string]materialdomain.Material, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	out := make(map[string]materialdomain.Material, len(ids))
	for _, id := range ids {
		if mat, ok := m.materials[id]; ok {
			out[id] = mat
		}
	}
	return out, nil
}

func (m *InMemMaterialRepo) ListMaterials(ctx context.Context, f materialdomain.Filter, cursor string, limit int) ([]materialdomain.Material, string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	f = f.Normalized()
	f.SearchQuery = ""
	var matching []materialdomain.Material
	for _, mat := range m.materials {
		if f.Matches(mat) {
			matching = append(matching, mat)
		}
	}
	slices.SortFunc(matching, func(a, b materialdomain.Material) int {
		return cmp.Or(b.LastUpdated.Compare(a.LastUpdated), cmp.Compare(b.ID, a.ID))
	})
	return ddbutil.PageSlice(matching, cursor, limit)
}

func (m *InMemMaterialRepo) ListAll(ctx context.Context) ([]materialdomain.Material, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	out := make([]materialdomain.Material, 0, len(m.materials))
	for _, mat := range m.materials {
		out = append(out, mat)
	}
	slices.SortFunc(out, func(a, b materialdomain.Material) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *InMemMaterialRepo) CreateMaterial(ctx context.Context, mat materialdomain.Material) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.materials[mat.ID] = mat
	return nil
}

func (m *InMemMaterialRepo) UpdateMaterial(ctx context.Context, mat materialdomain.Material) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	stored, ok := m.materials[mat.ID]
	if !ok {
		return ErrMaterialMissing
	}
	m.materials[mat.ID] = mat.WithCounts(stored.Views(), stored.Downloads())
	return nil
}

func (m *InMemMaterialRepo) DeleteMaterial(ctx context.Context, id string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.materials, id)
	return nil
}

func (m *InMemMaterialRepo) Increment(ctx context.Context, id string, c Counter, delta int) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	mat, ok := m.materials[id]
	if !ok {
		return ErrMaterialMissing
	}
	views, downloads := mat.Views(), mat.Downloads()
	switch c {
	case CounterViews:
		views += delta
	case CounterDownloads:
		downloads += delta
	}
	m.materials[id] = mat.WithCounts(views, downloads)
	return nil
}

func (m *InMemMaterialRepo) IsBookmarked(ctx context.Context, userID, materialID string) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.bookmarks[bookmarkKey{userID, materialID}], nil
}

func (m *InMemMaterialRepo) PutBookmark(ctx context.Context, userID, materialID string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.bookmarks[bookmarkKey{userID, materialID}] = true
	return nil
}

func (m *InMemMaterialRepo) DeleteBookmark(ctx context.Context, userID, materialID string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.bookmarks, bookmarkKey{userID, materialID})
	return nil
}

func (m *InMemMaterialRepo) ListBookmarks(ctx context.Context, userID string) ([]string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	var ids []string
	for k := range m.bookmarks {
		if k.userID == userID {
			ids = append(ids, k.materialID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}
