package tryoutsrvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/tryout/tryoutdomain"
)

func (s *TryoutSrvc) CreateScheduledTryout(ctx context.Context, st tryoutdomain.ScheduledTryout) (*tryoutdomain.ScheduledTryout, error) {
	if st.Status == "" {
		st.Status = tryoutdomain.ScheduleOpen
	}
	if err := st.Validate(); err != nil {
		return nil, newErrInvalidScheduledTryout().SetDebug(err)
	}
	id, err := s.newID()
	if err != nil {
		return nil, mapRepoErr(err)
	}
	st.ID = id
	st.Participants = 0
	st.CreatedAt = s.now().UTC()
	if err := s.repo.PutScheduled(ctx, st); err != nil {
		return nil, mapRepoErr(fmt.Errorf("put scheduled tryout: %w", err))
	}
	logger.FromContext(ctx).Info("scheduled tryout created", "scheduled_tryout_id", st.ID, "date", st.Date)
	return &st, nil
}

// ListScheduledTryouts returns open entries, earliest date first.
func (s *TryoutSrvc) ListScheduledTryouts(ctx context.Context) ([]tryoutdomain.ScheduledTryout, error) {
	open, err := s.repo.ListOpenScheduled(ctx)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if open == nil {
		open = []tryoutdomain.ScheduledTryout{}
	}
	return open, nil
}

// Register signs the user up once. The registration and the participant
// increment are one conditional write, so concurrent attempts by the same
// user count once.
func (s *TryoutSrvc) Register(ctx context.Context, userID, scheduledID string) error {
	st, err := s.repo.GetScheduled(ctx, scheduledID)
	if err != nil {
		return mapRepoErr(err)
	}
	if st == nil {
		return newErrScheduledTryoutNotFound()
	}
	if st.Status == tryoutdomain.ScheduleClosed {
		return newErrRegistrationClosed()
	}

	err = s.repo.Register(ctx, tryoutdomain.Registration{
		ScheduledTryoutID: scheduledID,
		UserID:            userID,
		RegisteredAt:      s.now().UTC(),
	})
	switch {
	case errors.Is(err, ErrAlreadyRegistered):
		return newErrAlreadyRegistered()
	case errors.Is(err, ErrScheduledMissing):
		return newErrScheduledTryoutNotFound()
	case err != nil:
		return mapRepoErr(fmt.Errorf("register: %w", err))
	}
	logger.FromContext(ctx).Info("registered for scheduled tryout", "scheduled_tryout_id", scheduledID)
	return nil
}

func (s *TryoutSrvc) IsRegistered(ctx context.Context, userID, scheduledID string) (bool, error) {
	ok, err := s.repo.IsRegistered(ctx, scheduledID, userID)
	if err != nil {
		return false, mapRepoErr(err)
	}
	return ok, nil
}

// ListUserScheduledTryouts returns the open entries the user registered
// for, reported with status registered.
func (s *TryoutSrvc) ListUserScheduledTryouts(ctx context.Context, userID string) ([]tryoutdomain.ScheduledTryout, error) {
	regs, err := s.repo.ListUserRegistrations(ctx, userID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	mine := make(map[string]bool, len(regs))
	for _, reg := range regs {
		mine[reg.ScheduledTryoutID] = true
	}

	open, err := s.repo.ListOpenScheduled(ctx)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	out := make([]tryoutdomain.ScheduledTryout, 0, len(regs))
	for _, st := range open {
		if mine[st.ID] {
			st.Status = tryoutdomain.ScheduleRegistered
			out = append(out, st)
		}
	}
	return out, nil
}
