package leaderboard

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

type InMemProgressRepo struct {
	lock      sync.Mutex
	rows      map[string]Progress
	processed map[string]bool
}

func NewInMemProgressRepo() *InMemProgressRepo {
	return &InMemProgressRepo{
		rows:      make(map[string]Progress),
		processed: make(map[string]bool),
	}
}

func (m *InMemProgressRepo) Get(ctx context.Context, userID string) (*Progress, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	p, ok := m.rows[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *InMemProgressRepo) IsProcessed(ctx context.Context, resultID string) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.processed[resultID], nil
}

func (m *InMemProgressRepo) Save(ctx context.Context, p Progress, resultID string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.processed[resultID] {
		return errConflict
	}
	if m.rows[p.UserID].Version != p.Version-1 {
		return errConflict
	}
	m.rows[p.UserID] = p
	m.processed[resultID] = true
	return nil
}

func (m *InMemProgressRepo) Top(ctx context.Context, n int) ([]Progress, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	out := make([]Progress, 0, len(m.rows))
	for _, p := range m.rows {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Progress) int {
		return cmp.Or(cmp.Compare(b.Xp, a.Xp), cmp.Compare(a.UserID, b.UserID))
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *InMemProgressRepo) CountAbove(ctx context.Context, xp int) (int, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	n := 0
	for _, p := range m.rows {
		if p.Xp > xp {
			n++
		}
	}
	return n, nil
}
