package tryoutddb

import (
	"context"
	"errors"
	"fmt"

	"github.com/guregu/dynamo/v2"
	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/tryout/tryoutdomain"
	"github.com/snbtku/backend/tryout/tryoutsrvc"
)

type scheduledRow struct {
	ID           string `dynamo:"id,hash"`
	Status       string `dynamo:"status" index:"by-status,hash"`
	Date         int64  `dynamo:"date" index:"by-status,range"`
	Title        string `dynamo:"title"`
	Time         string `dynamo:"time"`
	Participants int    `dynamo:"participants"`
	Prize        string `dynamo:"prize"`
	CreatedAt    int64  `dynamo:"created_at"`
}

func (row scheduledRow) toScheduled() tryoutdomain.ScheduledTryout {
	return tryoutdomain.ScheduledTryout{
		ID:           row.ID,
		Title:        row.Title,
		Date:         ddbutil.FromMillis(row.Date),
		Time:         row.Time,
		Participants: row.Participants,
		Prize:        row.Prize,
		Status:       tryoutdomain.ScheduleStatus(row.Status),
		CreatedAt:    ddbutil.FromMillis(row.CreatedAt),
	}
}

type registrationRow struct {
	ScheduledTryoutID string `dynamo:"scheduled_tryout_id,hash"`
	UserID            string `dynamo:"user_id,range" index:"by-user,hash"`
	RegisteredAt      int64  `dynamo:"registered_at" index:"by-user,range"`
}

func (r *DynamoDbTryoutRepo) GetScheduled(ctx context.Context, id string) (*tryoutdomain.ScheduledTryout, error) {
	var row scheduledRow
	err := r.scheduled.Get("id", id).One(ctx, &row)
	if errors.Is(err, dynamo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get scheduled tryout %s: %w", id, err)
	}
	st := row.toScheduled()
	return &st, nil
}

func (r *DynamoDbTryoutRepo) ListOpenScheduled(ctx context.Context) ([]tryoutdomain.ScheduledTryout, error) {
	var rows []scheduledRow
	err := r.scheduled.Get("status", string(tryoutdomain.ScheduleOpen)).
		Index(indexByStatus).
		Order(dynamo.Ascending).
		All(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("query open scheduled tryouts: %w", err)
	}
	out := make([]tryoutdomain.ScheduledTryout, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toScheduled())
	}
	return out, nil
}

func (r *DynamoDbTryoutRepo) PutScheduled(ctx context.Context, st tryoutdomain.ScheduledTryout) error {
	return r.scheduled.Put(scheduledRow{
		ID:           st.ID,
		Status:       string(st.Status),
		Date:         ddbutil.Millis(st.Date),
		Title:        st.Title,
		Time:         st.Time,
		Participants: st.Participants,
		Prize:        st.Prize,
		CreatedAt:    ddbutil.Millis(st.CreatedAt),
	}).Run(ctx)
}

// Register writes the registration and the participant increment in one
// transaction. A refused transaction is told apart by looking the
// registration up.
func (r *DynamoDbTryoutRepo) Register(ctx context.Context, reg tryoutdomain.Registration) error {
	row := registrationRow{
		ScheduledTryoutID: reg.ScheduledTryoutID,
		UserID:            reg.UserID,
		RegisteredAt:      ddbutil.Millis(reg.RegisteredAt),
	}
	err := r.db.WriteTx().
		Put(r.registrations.Put(row).If("attribute_not_exists($)", "user_id")).
		Update(r.scheduled.Update("id", reg.ScheduledTryoutID).
			Add("participants", 1).
			If("attribute_exists($)", "id")).
		Run(ctx)
	if dynamo.IsCondCheckFailed(err) {
		registered, lookupErr := r.IsRegistered(ctx, reg.ScheduledTryoutID, reg.UserID)
		if lookupErr != nil {
			return lookupErr
		}
		if registered {
			return tryoutsrvc.ErrAlreadyRegistered
		}
		return tryoutsrvc.ErrScheduledMissing
	}
	if err != nil {
		return fmt.Errorf("register %s for %s: %w", reg.UserID, reg.ScheduledTryoutID, err)
	}
	return nil
}

func (r *DynamoDbTryoutRepo) IsRegistered(ctx context.Context, scheduledID, userID string) (bool, error) {
	var row registrationRow
	err := r.registrations.Get("scheduled_tryout_id", scheduledID).
		Range("user_id", dynamo.Equal, userID).
		One(ctx, &row)
	if errors.Is(err, dynamo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get registration %s/%s: %w", scheduledID, userID, err)
	}
	return true, nil
}

func (r *DynamoDbTryoutRepo) ListUserRegistrations(ctx context.Context, userID string) ([]tryoutdomain.Registration, error) {
	var rows []registrationRow
	err := r.registrations.Get("user_id", userID).
		Index(indexByUser).
		All(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("query registrations of %s: %w", userID, err)
	}
	out := make([]tryoutdomain.Registration, 0, len(rows))
	for _, row := range rows {
		out = append(out, tryoutdomain.Registration{
			ScheduledTryoutID: row.ScheduledTryoutID,
			UserID:            row.UserID,
			RegisteredAt:      ddbutil.FromMillis(row.RegisteredAt),
		})
	}
	return out, nil
}
