package materialdomain

import (
	"cmp"
	"slices"
	"strings"

	"github.com/snbtku/backend/snbt"
)

type Filter struct {
	SearchQuery string
	Subtest     string
	Type        string
	Difficulty  string
	Topic       string
}

func (f Filter) Normalized() Filter {
	return Filter{
		SearchQuery: strings.TrimSpace(f.SearchQuery),
		Subtest:     snbt.NormalizeFilter(f.Subtest),
		Type:        snbt.NormalizeFilter(f.Type),
		Difficulty:  snbt.NormalizeFilter(f.Difficulty),
		Topic:       snbt.NormalizeFilter(f.Topic),
	}
}

func (f Filter) Matches(m Material) bool {
	f = f.Normalized()
	if f.Subtest != "" && string(m.Subtest) != f.Subtest {
		return false
	}
	if f.Type != "" && string(m.Kind()) != f.Type {
		return false
	}
	if f.Difficulty != "" && string(m.Difficulty) != f.Difficulty {
		return false
	}
	if f.Topic != "" && m.Topic != f.Topic {
		return false
	}
	return MatchesSearch(m, f.SearchQuery)
}

func MatchesSearch(m Material, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Title), q) ||
		strings.Contains(strings.ToLower(m.Description), q) ||
		strings.Contains(strings.ToLower(m.Topic), q)
}

type Stats struct {
	TotalMaterials int `json:"totalMaterials"`
	Videos         int `json:"videos"`
	Summaries      int `json:"summaries"`
	Downloads      int `json:"downloads"`
}

func AggregateStats(materials []Material) Stats {
	var s Stats
	for _, m := range materials {
		s.TotalMaterials++
		switch b := m.Body.(type) {
		case Video:
			s.Videos++
		case Summary:
			s.Summaries++
		case Notes:
			s.Downloads += b.Downloads
		}
	}
	return s
}

// SortLatest orders by LastUpdated, newest first.
func SortLatest(ms []Material) {
	slices.SortStableFunc(ms, func(a, b Material) int {
		return b.LastUpdated.Compare(a.LastUpdated)
	})
}

// SortPopular orders by views, most viewed first.
func SortPopular(ms []Material) {
	slices.SortStableFunc(ms, func(a, b Material) int {
		return cmp.Compare(b.Views(), a.Views())
	})
}
