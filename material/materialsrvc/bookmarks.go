package materialsrvc

import (
	"context"
	"fmt"

	"github.com/snbtku/backend/material/materialdomain"
)

// ToggleBookmark flips the bookmark and reports whether the material is
// bookmarked afterwards.
func (s *MaterialSrvc) ToggleBookmark(ctx context.Context, userID, materialID string) (bool, error) {
	if _, err := s.GetMaterial(ctx, materialID); err != nil {
		return false, err
	}
	marked, err := s.repo.IsBookmarked(ctx, userID, materialID)
	if err != nil {
		return false, mapRepoErr(err)
	}
	if marked {
		if err := s.repo.DeleteBookmark(ctx, userID, materialID); err != nil {
			return false, mapRepoErr(fmt.Errorf("delete bookmark: %w", err))
		}
		return false, nil
	}
	if err := s.repo.PutBookmark(ctx, userID, materialID); err != nil {
		return false, mapRepoErr(fmt.Errorf("put bookmark: %w", err))
	}
	return true, nil
}

// ListBookmarked skips bookmarks whose material is gone.
func (s *MaterialSrvc) ListBookmarked(ctx context.Context, userID string) ([]materialdomain.Material, error) {
	ids, err := s.repo.ListBookmarks(ctx, userID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	out := make([]materialdomain.Material, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	found, err := s.repo.GetMaterials(ctx, ids)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	for _, id := range ids {
		if m, ok := found[id]; ok {
			m.IsBookmarked = true
			out = append(out, m)
		}
	}
	return out, nil
}
