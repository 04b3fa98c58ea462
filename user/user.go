package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	UUID      uuid.UUID `json:"uuid"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Firstname *string   `json:"firstname"`
	Lastname  *string   `json:"lastname"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Record is a stored user including the password hash.
type Record struct {
	User
	BcryptPwd []byte
}

var (
	errUsernameTaken = errors.New("username taken")
	errEmailTaken    = errors.New("email taken")
)

// Repo returns (nil, nil) from the lookups when nothing matches.
type Repo interface {
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	FindByUsername(ctx context.Context, username string) (*Record, error)
	FindByEmail(ctx context.Context, email string) (*Record, error)
	List(ctx context.Context) ([]Record, error)
	// Insert must fail with errUsernameTaken or errEmailTaken when the
	// username or email is already used.
	Insert(ctx context.Context, r Record) error
}

func (u User) DisplayName() string {
	var parts []string
	if u.Firstname != nil && strings.TrimSpace(*u.Firstname) != "" {
		parts = append(parts, strings.TrimSpace(*u.Firstname))
	}
	if u.Lastname != nil && strings.TrimSpace(*u.Lastname) != "" {
		parts = append(parts, strings.TrimSpace(*u.Lastname))
	}
	if len(parts) == 0 {
		return u.Username
	}
	return strings.Join(parts, " ")
}
