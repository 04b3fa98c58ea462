package materialsrvc

import (
	"context"

	"github.com/snbtku/backend/material/materialdomain"
	"github.com/snbtku/backend/snbt"
)

func (s *MaterialSrvc) GetStats(ctx context.Context) (*materialdomain.Stats, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	stats := materialdomain.AggregateStats(all)
	return &stats, nil
}

// ListBySubtest returns every material of the subtest, newest update
// first.
func (s *MaterialSrvc) ListBySubtest(ctx context.Context, subtest snbt.Subtest) ([]materialdomain.Material, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	out := make([]materialdomain.Material, 0, len(all))
	for _, m := range all {
		if m.Subtest == subtest {
			out = append(out, m)
		}
	}
	materialdomain.SortLatest(out)
	return out, nil
}

func highlightCount(n int) int {
	if n <= 0 {
		return DefaultHighlightCount
	}
	return min(n, 50)
}

func (s *MaterialSrvc) ListLatest(ctx context.Context, n int) ([]materialdomain.Material, error) {
	page, _, err := s.repo.ListMaterials(ctx, materialdomain.Filter{}, "", highlightCount(n))
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if page == nil {
		page = []materialdomain.Material{}
	}
	return page, nil
}

// ListPopular orders viewable materials by views. Notes carry no views
// and are left out.
func (s *MaterialSrvc) ListPopular(ctx context.Context, n int) ([]materialdomain.Material, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	viewable := make([]materialdomain.Material, 0, len(all))
	for _, m := range all {
		if m.Kind() != materialdomain.KindNotes {
			viewable = append(viewable, m)
		}
	}
	materialdomain.SortPopular(viewable)
	return viewable[:min(len(viewable), highlightCount(n))], nil
}
