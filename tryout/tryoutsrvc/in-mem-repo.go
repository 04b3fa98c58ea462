package tryoutsrvc

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/tryout/tryoutdomain"
)

type registrationKey struct {
	scheduledID string
	userID      string
}

type InMemTryoutRepo struct {
	lock          sync.Mutex
	tryouts       map[string]tryoutdomain.Tryout
	results       map[string]tryoutdomain.TryoutResult
	scheduled     map[string]tryoutdomain.ScheduledTryout
	registrations map[registrationKey]tryoutdomain.Registration
}

func NewInMemTryoutRepo() *InMemTryoutRepo {
	return &InMemTryoutRepo{
		tryouts:       make(map[string]tryoutdomain.Tryout),
		results:       make(map[string]tryoutdomain.TryoutResult),
		scheduled:     make(map[string]tryoutdomain.ScheduledTryout),
		registrations: make(map[registrationKey]tryoutdomain.Registration),
	}
}

func (m *InMemTryoutRepo) GetTryout(ctx context.Context, id string) (*tryoutdomain.Tryout, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	t, ok := m.tryouts[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *InMemTryoutRepo) ListTryouts(ctx context.Context, f tryoutdomain.Filter, cursor string, limit int) ([]tryoutdomain.Tryout, string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	f = f.Normalized()
	f.Subtest = ""
	var matching []tryoutdomain.Tryout
	for _, t := range m.tryouts {
		if f.Matches(t) {
			matching = append(matching, t)
		}
	}
	slices.SortFunc(matching, func(a, b tryoutdomain.Tryout) int {
		return cmp.Or(b.UpdatedAt.Compare(a.UpdatedAt), cmp.Compare(b.ID, a.ID))
	})
	return ddbutil.PageSlice(matching, cursor, limit)
}

func (m *InMemTryoutRepo) CreateTryout(ctx context.Context, t tryoutdomain.Tryout) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.tryouts[t.ID] = t
	return nil
}

func (m *InMemTryoutRepo) UpdateTryout(ctx context.Context, t tryoutdomain.Tryout) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	stored, ok := m.tryouts[t.ID]
	if !ok {
		return ErrTryoutMissing
	}
	t.Participants = stored.Participants
	m.tryouts[t.ID] = t
	return nil
}

func (m *InMemTryoutRepo) DeleteTryout(ctx context.Context, id string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.tryouts, id)
	return nil
}

func (m *InMemTryoutRepo) SaveResult(ctx context.Context, r tryoutdomain.TryoutResult) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	t, ok := m.tryouts[r.TryoutID]
	if !ok {
		return ErrTryoutMissing
	}
	t.Participants++
	m.tryouts[r.TryoutID] = t
	m.results[r.ID] = r
	return nil
}

func (m *InMemTryoutRepo) GetResult(ctx context.Context, id string) (*tryoutdomain.TryoutResult, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	r, ok := m.results[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *InMemTryoutRepo) ListUserResults(ctx context.Context, userID, cursor string, limit int) ([]tryoutdomain.TryoutResult, string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	var mine []tryoutdomain.TryoutResult
	for _, r := range m.results {
		if r.UserID == userID {
			mine = append(mine, r)
		}
	}
	slices.SortFunc(mine, func(a, b tryoutdomain.TryoutResult) int {
		return cmp.Or(b.CompletedDate.Compare(a.CompletedDate), cmp.Compare(b.ID, a.ID))
	})
	return ddbutil.PageSlice(mine, cursor, limit)
}

func (m *InMemTryoutRepo) TryoutScores(ctx context.Context, tryoutID string) ([]int, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	var scores []int
	for _, r := range m.results {
		if r.TryoutID == tryoutID {
			scores = append(scores, r.Score)
		}
	}
	return scores, nil
}

func (m *InMemTryoutRepo) HasTryoutResults(ctx context.Context, tryoutID string) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, r := range m.results {
		if r.TryoutID == tryoutID {
			return true, nil
		}
	}
	return false, nil
}

func (m *InMemTryoutRepo) GetScheduled(ctx context.Context, id string) (*tryoutdomain.ScheduledTryout, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	s, ok := m.scheduled[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *InMemTryoutRepo) ListOpenScheduled(ctx context.Context) ([]tryoutdomain.ScheduledTryout, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	var open []tryoutdomain.ScheduledTryout
	for _, s := range m.scheduled {
		if s.Status == tryoutdomain.ScheduleOpen {
			open = append(open, s)
		}
	}
	slices.SortFunc(open, func(a, b tryoutdomain.ScheduledTryout) int {
		return cmp.Or(a.Date.Compare(b.Date), cmp.Compare(a.ID, b.ID))
	})
	return open, nil
}

func (m *InMemTryoutRepo) PutScheduled(ctx context.Context, s tryoutdomain.ScheduledTryout) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.scheduled[s.ID] = s
	return nil
}

func (m *InMemTryoutRepo) Register(ctx context.Context, reg tryoutdomain.Registration) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	key := registrationKey{reg.ScheduledTryoutID, reg.UserID}
	if _, ok := m.registrations[key]; ok {
		return ErrAlreadyRegistered
	}
	s, ok := m.scheduled[reg.ScheduledTryoutID]
	if !ok {
		return ErrScheduledMissing
	}
	s.Participants++
	m.scheduled[s.ID] = s
	m.registrations[key] = reg
	return nil
}

func (m *InMemTryoutRepo) IsRegistered(ctx context.Context, scheduledID, userID string) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	_, ok := m.registrations[registrationKey{scheduledID, userID}]
	return ok, nil
}

func (m *InMemTryoutRepo) ListUserRegistrations(ctx context.Context, userID string) ([]tryoutdomain.Registration, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	var out []tryoutdomain.Registration
	for _, reg := range m.registrations {
		if reg.UserID == userID {
			out = append(out, reg)
		}
	}
	slices.SortFunc(out, func(a, b tryoutdomain.Registration) int {
		return b.RegisteredAt.Compare(a.RegisteredAt)
	})
	return out, nil
}
