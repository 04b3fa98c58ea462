package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/dynamo/v2"
)

const (
	kindUser  = "user"
	kindGuard = "guard"
)

type userRow struct {
	Uuid      string    `dynamo:"uuid,hash"`
	Kind      string    `dynamo:"kind"`
	Username  string    `dynamo:"username"`
	Email     string    `dynamo:"email"`
	BcryptPwd []byte    `dynamo:"bcrypt_pwd"`
	Firstname *string   `dynamo:"firstname"`
	Lastname  *string   `dynamo:"lastname"`
	Role      string    `dynamo:"role"`
	CreatedAt time.Time `dynamo:"created_at"`
}

// guardRow reserves a username or email; Uuid is "username#<name>" or
// "email#<address>".
type guardRow struct {
	Uuid  string `dynamo:"uuid,hash"`
	Kind  string `dynamo:"kind"`
	Owner string `dynamo:"owner"`
}

func usernameGuard(username string) string { return "username#" + username }
func emailGuard(email string) string       { return "email#" + email }

type DynamoDbUserRepo struct {
	db    *dynamo.DB
	table dynamo.Table
}

func NewDynamoDbUserRepo(db *dynamo.DB, tableName string) *DynamoDbUserRepo {
	return &DynamoDbUserRepo{db: db, table: db.Table(tableName)}
}

func (r *DynamoDbUserRepo) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return r.getRow(ctx, id.String())
}

func (r *DynamoDbUserRepo) getRow(ctx context.Context, key string) (*Record, error) {
	var row userRow
	err := r.table.Get("uuid", key).One(ctx, &row)
	if errors.Is(err, dynamo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", key, err)
	}
	if row.Kind != kindUser {
		return nil, nil
	}
	return row.toRecord()
}

func (r *DynamoDbUserRepo) findByGuard(ctx context.Context, guard string) (*Record, error) {
	var g guardRow
	err := r.table.Get("uuid", guard).One(ctx, &g)
	if errors.Is(err, dynamo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get guard %s: %w", guard, err)
	}
	return r.getRow(ctx, g.Owner)
}

func (r *DynamoDbUserRepo) FindByUsername(ctx context.Context, username string) (*Record, error) {
	return r.findByGuard(ctx, usernameGuard(username))
}

func (r *DynamoDbUserRepo) FindByEmail(ctx context.Context, email string) (*Record, error) {
	return r.findByGuard(ctx, emailGuard(email))
}

func (r *DynamoDbUserRepo) List(ctx context.Context) ([]Record, error) {
	var rows []userRow
	err := r.table.Scan().Filter("$ = ?", "kind", kindUser).All(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

// Insert writes the user and both guard items in one transaction.
func (r *DynamoDbUserRepo) Insert(ctx context.Context, rec Record) error {
	row := userRow{
		Uuid:      rec.UUID.String(),
		Kind:      kindUser,
		Username:  rec.Username,
		Email:     rec.Email,
		BcryptPwd: rec.BcryptPwd,
		Firstname: rec.Firstname,
		Lastname:  rec.Lastname,
		Role:      rec.Role,
		CreatedAt: rec.CreatedAt,
	}
	nameGuard := guardRow{Uuid: usernameGuard(rec.Username), Kind: kindGuard, Owner: row.Uuid}
	mailGuard := guardRow{Uuid: emailGuard(rec.Email), Kind: kindGuard, Owner: row.Uuid}

	err := r.db.WriteTx().
		Put(r.table.Put(row).If("attribute_not_exists($)", "uuid")).
		Put(r.table.Put(nameGuard).If("attribute_not_exists($)", "uuid")).
		Put(r.table.Put(mailGuard).If("attribute_not_exists($)", "uuid")).
		Run(ctx)
	if err == nil {
		return nil
	}
	if !dynamo.IsCondCheckFailed(err) {
		return fmt.Errorf("insert user: %w", err)
	}
	taken, lookupErr := r.FindByUsername(ctx, rec.Username)
	if lookupErr != nil {
		return fmt.Errorf("insert user: %w", errors.Join(err, lookupErr))
	}
	if taken != nil {
		return errUsernameTaken
	}
	return errEmailTaken
}

func (row userRow) toRecord() (*Record, error) {
	id, err := uuid.Parse(row.Uuid)
	if err != nil {
		return nil, fmt.Errorf("parse user uuid %q: %w", row.Uuid, err)
	}
	return &Record{
		User: User{
			UUID:      id,
			Username:  row.Username,
			Email:     row.Email,
			Firstname: row.Firstname,
			Lastname:  row.Lastname,
			Role:      row.Role,
			CreatedAt: row.CreatedAt,
		},
		BcryptPwd: row.BcryptPwd,
	}, nil
}
