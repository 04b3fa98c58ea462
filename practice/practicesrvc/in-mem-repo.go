package practicesrvc

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/practice/practicedomain"
)

type InMemPracticeRepo struct {
	lock      sync.Mutex
	questions map[string]practicedomain.Question
	sets      map[string]practicedomain.QuestionSet
	results   map[string]practicedomain.PracticeResult
}

func NewInMemPracticeRepo() *InMemPracticeRepo {
	return &InMemPracticeRepo{
		questions: make(map[string]practicedomain.Question),
		sets:      make(map[string]practicedomain.QuestionSet),
		results:   make(map[string]practicedomain.PracticeResult),
	}
}

func (m *InMemPracticeRepo) GetQuestion(ctx context.Context, id string) (*practicedomain.Question, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	q, ok := m.questions[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (m *InMemPracticeRepo) GetQuestions(ctx context.Context, ids []string) (map[string]practicedomain.Question, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	out := make(map[string]practicedomain.Question, len(ids))
	for _, id := range ids {
		if q, ok := m.questions[id]; ok {
			out[id] = q
		}
	}
	return out, nil
}

func (m *InMemPracticeRepo) PutQuestion(ctx context.Context, q practicedomain.Question) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.questions[q.ID] = q
	return nil
}

func (m *InMemPracticeRepo) DeleteQuestion(ctx context.Context, id string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.questions, id)
	return nil
}

func (m *InMemPracticeRepo) GetSet(ctx context.Context, id string) (*practicedomain.QuestionSet, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	s, ok := m.sets[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *InMemPracticeRepo) ListSets(ctx context.Context, f practicedomain.Filter, cursor string, limit int) ([]practicedomain.QuestionSet, string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	f = f.Normalized()
	f.SearchQuery = ""
	var matching []practicedomain.QuestionSet
	for _, s := range m.sets {
		if f.Matches(s) {
			matching = append(matching, s)
		}
	}
	slices.SortFunc(matching, func(a, b practicedomain.QuestionSet) int {
		return cmp.Or(b.UpdatedAt.Compare(a.UpdatedAt), cmp.Compare(b.ID, a.ID))
	})
	return ddbutil.PageSlice(matching, cursor, limit)
}

func (m *InMemPracticeRepo) PutSet(ctx context.Context, s practicedomain.QuestionSet) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.sets[s.ID] = s
	return nil
}

func (m *InMemPracticeRepo) DeleteSet(ctx context.Context, id string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.sets, id)
	return nil
}

func (m *InMemPracticeRepo) SetsReferencing(ctx context.Context, questionID string) ([]practicedomain.QuestionSet, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	var out []practicedomain.QuestionSet
	for _, s := range m.sets {
		if s.References(questionID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *InMemPracticeRepo) PutSetWithQuestions(ctx context.Context, s practicedomain.QuestionSet, qs []practicedomain.Question) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, q := range qs {
		m.questions[q.ID] = q
	}
	m.sets[s.ID] = s
	return nil
}

func (m *InMemPracticeRepo) PutResult(ctx context.Context, r practicedomain.PracticeResult) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.results[r.ID] = r
	return nil
}

func (m *InMemPracticeRepo) GetResult(ctx context.Context, id string) (*practicedomain.PracticeResult, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	r, ok := m.results[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *InMemPracticeRepo) ListUserResults(ctx context.Context, userID, cursor string, limit int) ([]practicedomain.PracticeResult, string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	var mine []practicedomain.PracticeResult
	for _, r := range m.results {
		if r.UserID == userID {
			mine = append(mine, r)
		}
	}
	slices.SortFunc(mine, func(a, b practicedomain.PracticeResult) int {
		return cmp.Or(b.CompletedAt.Compare(a.CompletedAt), cmp.Compare(b.ID, a.ID))
	})
	return ddbutil.PageSlice(mine, cursor, limit)
}

func (m *InMemPracticeRepo) HasSetResults(ctx context.Context, setID string) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, r := range m.results {
		if r.QuestionSetID == setID {
			return true, nil
		}
	}
	return false, nil
}
