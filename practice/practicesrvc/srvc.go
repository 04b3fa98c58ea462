package practicesrvc

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/resultevent"
	"github.com/snbtku/backend/srvcerr"
)

type PracticeSrvc struct {
	repo      Repo
	publisher resultevent.Publisher
	loc       *time.Location
	now       func() time.Time
	newID     func() (string, error)
}

func NewPracticeSrvc(repo Repo, publisher resultevent.Publisher, loc *time.Location) *PracticeSrvc {
	if loc == nil {
		loc = time.UTC
	}
	return &PracticeSrvc{
		repo:      repo,
		publisher: publisher,
		loc:       loc,
		now:       time.Now,
		newID:     newUUIDv7,
	}
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Page is one page of a cursor-paged listing.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

func mapRepoErr(err error) error {
	if errors.Is(err, ddbutil.ErrInvalidCursor) {
		return newErrInvalidCursor().SetDebug(err)
	}
	return srvcerr.ErrInternalSE().SetDebug(err)
}
