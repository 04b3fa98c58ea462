package user

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/srvcerr"
	"golang.org/x/crypto/bcrypt"
)

type UserSrvc struct {
	repo Repo
	now  func() time.Time
}

func NewUserSrvc(repo Repo) *UserSrvc {
	return &UserSrvc{repo: repo, now: time.Now}
}

type CreateUserParams struct {
	Username  string
	Email     string
	Firstname *string
	Lastname  *string
	Password  string
	Role      string
}

func (s *UserSrvc) CreateUser(ctx context.Context, p CreateUserParams) (*User, error) {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))

	if err := validateUsername(p.Username); err != nil {
		return nil, err
	}
	if err := validateEmail(p.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(p.Password); err != nil {
		return nil, err
	}
	if p.Firstname != nil {
		if err := validateFirstname(*p.Firstname); err != nil {
			return nil, err
		}
	}
	if p.Lastname != nil {
		if err := validateLastname(*p.Lastname); err != nil {
			return nil, err
		}
	}
	role := cmp.Or(p.Role, RoleUser)
	if role != RoleUser && role != RoleAdmin {
		return nil, srvcerr.ErrInvalidRequest("peran pengguna tidak dikenal")
	}

	existing, err := s.repo.FindByUsername(ctx, p.Username)
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}
	if existing != nil {
		return nil, newErrUsernameExists()
	}
	existing, err = s.repo.FindByEmail(ctx, p.Email)
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}
	if existing != nil {
		return nil, newErrEmailExists()
	}

	bcryptPwd, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}

	rec := Record{
		User: User{
			UUID:      id,
			Username:  p.Username,
			Email:     p.Email,
			Firstname: p.Firstname,
			Lastname:  p.Lastname,
			Role:      role,
			CreatedAt: s.now().UTC(),
		},
		BcryptPwd: bcryptPwd,
	}

	err = s.repo.Insert(ctx, rec)
	switch {
	case errors.Is(err, errUsernameTaken):
		return nil, newErrUsernameExists()
	case errors.Is(err, errEmailTaken):
		return nil, newErrEmailExists()
	case err != nil:
		return nil, srvcerr.ErrInternalSE().SetDebug(fmt.Errorf("insert user: %w", err))
	}

	logger.FromContext(ctx).Info("user created", "user_uuid", id, "role", role)
	return &rec.User, nil
}

// Login accepts either the username or the email address.
func (s *UserSrvc) Login(ctx context.Context, login string, password string) (*User, error) {
	login = strings.TrimSpace(login)
	var (
		rec *Record
		err error
	)
	if strings.Contains(login, "@") {
		rec, err = s.repo.FindByEmail(ctx, strings.ToLower(login))
	} else {
		rec, err = s.repo.FindByUsername(ctx, login)
	}
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}
	if rec == nil {
		return nil, newErrUsernameOrPasswordIncorrect()
	}
	if err := bcrypt.CompareHashAndPassword(rec.BcryptPwd, []byte(password)); err != nil {
		return nil, newErrUsernameOrPasswordIncorrect()
	}
	return &rec.User, nil
}

func (s *UserSrvc) GetUserByUUID(ctx context.Context, id uuid.UUID) (*User, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}
	if rec == nil {
		return nil, newErrUserNotFound()
	}
	return &rec.User, nil
}

// DisplayName is "Firstname Lastname" when set, otherwise the username.
func (s *UserSrvc) DisplayName(ctx context.Context, userID string) (string, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return "", fmt.Errorf("parse user id %q: %w", userID, err)
	}
	u, err := s.GetUserByUUID(ctx, id)
	if err != nil {
		return "", err
	}
	return u.DisplayName(), nil
}

// ListUsers returns all users, newest first.
func (s *UserSrvc) ListUsers(ctx context.Context) ([]User, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}
	users := make([]User, 0, len(recs))
	for _, r := range recs {
		users = append(users, r.User)
	}
	slices.SortFunc(users, func(a, b User) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return users, nil
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

func validateUsername(username string) error {
	const minUsernameLength = 2
	const maxUsernameLength = 32
	if len(username) < minUsernameLength {
		return newErrUsernameTooShort(minUsernameLength)
	}
	if len(username) > maxUsernameLength {
		return newErrUsernameTooLong()
	}
	if !usernameRe.MatchString(username) {
		return newErrUsernameInvalid()
	}
	return nil
}

func validateEmail(email string) error {
	const maxEmailLength = 320
	if len(email) > maxEmailLength {
		return newErrEmailTooLong()
	}
	if len(email) == 0 {
		return newErrEmailEmpty()
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return newErrEmailInvalid()
	}
	return nil
}

func validatePassword(password string) error {
	const minPasswordLength = 8
	if len(password) < minPasswordLength {
		return newErrPasswordTooShort(minPasswordLength)
	}
	// bcrypt only looks at the first 72 bytes
	if len(password) > 72 {
		return newErrPasswordTooLong()
	}
	return nil
}

func validateFirstname(firstname string) error {
	const maxFirstnameLength = 35
	if len(firstname) > maxFirstnameLength {
		return newErrFirstnameTooLong(maxFirstnameLength)
	}
	return nil
}

func validateLastname(lastname string) error {
	const maxLastnameLength = 35
	if len(lastname) > maxLastnameLength {
		return newErrLastnameTooLong(maxLastnameLength)
	}
	return nil
}
