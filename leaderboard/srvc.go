package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/resultevent"
	"github.com/snbtku/backend/srvcerr"
)

const maxApplyAttempts = 5

// NameLookup resolves a display name for a user id.
type NameLookup interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

type LeaderboardSrvc struct {
	repo  Repo
	names NameLookup
	loc   *time.Location
	now   func() time.Time
}

func NewLeaderboardSrvc(repo Repo, loc *time.Location) *LeaderboardSrvc {
	if loc == nil {
		loc = time.UTC
	}
	return &LeaderboardSrvc{repo: repo, loc: loc, now: time.Now}
}

func (s *LeaderboardSrvc) WithNames(names NameLookup) *LeaderboardSrvc {
	s.names = names
	return s
}

// Apply folds ev into the user's progress. Each result id is counted at
// most once, so redelivered events are acknowledged without effect.
func (s *LeaderboardSrvc) Apply(ctx context.Context, ev resultevent.ResultCompleted) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	log := logger.FromContext(ctx).With("result_id", ev.ResultID, "user_id", ev.UserID)

	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		done, err := s.repo.IsProcessed(ctx, ev.ResultID)
		if err != nil {
			return err
		}
		if done {
			log.Debug("result already applied")
			return nil
		}

		cur, err := s.repo.Get(ctx, ev.UserID)
		if err != nil {
			return err
		}
		p := Progress{UserID: ev.UserID}
		if cur != nil {
			p = *cur
		}
		next := p.Applied(ev, s.loc)
		next.Version = p.Version + 1

		err = s.repo.Save(ctx, next, ev.ResultID)
		if errors.Is(err, errConflict) {
			log.Debug("progress write conflict", "attempt", attempt)
			continue
		}
		if err != nil {
			return err
		}
		log.Info("applied result to progress", "kind", ev.Kind, "xp", next.Xp, "level", next.Level())
		return nil
	}
	return fmt.Errorf("apply result %s: %w", ev.ResultID, newErrProgressBusy())
}

// Top ranks the n users with the most xp. Equal xp shares a rank.
func (s *LeaderboardSrvc) Top(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.repo.Top(ctx, ddbutil.PageSize(n))
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}
	today := s.now().In(s.loc)
	out := make([]Entry, 0, len(rows))
	for i, p := range rows {
		rank := i + 1
		if i > 0 && rows[i-1].Xp == p.Xp {
			rank = out[i-1].Rank
		}
		out = append(out, newEntry(p, rank, s.displayName(ctx, p.UserID), today))
	}
	return out, nil
}

// GetUserProgress returns the user's entry. Users without results get a
// zero entry ranked after everyone with xp.
func (s *LeaderboardSrvc) GetUserProgress(ctx context.Context, userID string) (*Entry, error) {
	cur, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}
	p := Progress{UserID: userID}
	if cur != nil {
		p = *cur
	}
	above, err := s.repo.CountAbove(ctx, p.Xp)
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}
	e := newEntry(p, above+1, s.displayName(ctx, userID), s.now().In(s.loc))
	return &e, nil
}

func (s *LeaderboardSrvc) displayName(ctx context.Context, userID string) string {
	if s.names == nil {
		return ""
	}
	name, err := s.names.DisplayName(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to resolve display name", "user_id", userID, "error", err)
		return ""
	}
	return name
}
