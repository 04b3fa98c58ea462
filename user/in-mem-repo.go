package user

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type InMemUserRepo struct {
	lock  sync.Mutex
	users map[uuid.UUID]Record
}

func NewInMemUserRepo() *InMemUserRepo {
	return &InMemUserRepo{users: make(map[uuid.UUID]Record)}
}

func (m *InMemUserRepo) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	r, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *InMemUserRepo) FindByUsername(ctx context.Context, username string) (*Record, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, r := range m.users {
		if r.Username == username {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *InMemUserRepo) FindByEmail(ctx context.Context, email string) (*Record, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, r := range m.users {
		if r.Email == email {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *InMemUserRepo) List(ctx context.Context) ([]Record, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	out := make([]Record, 0, len(m.users))
	for _, r := range m.users {
		out = append(out, r)
	}
	return out, nil
}

func (m *InMemUserRepo) Insert(ctx context.Context, rec Record) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, r := range m.users {
		if r.Username == rec.Username {
			return errUsernameTaken
		}
		if r.Email == rec.Email {
			return errEmailTaken
		}
	}
	m.users[rec.UUID] = rec
	return nil
}
