// Package dashboard assembles a student's overview from the practice,
// tryout and leaderboard services.
package dashboard

import (
	"context"
	"time"

	"github.com/snbtku/backend/leaderboard"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/practice/practicesrvc"
	"github.com/snbtku/backend/tryout/tryoutdomain"
	"golang.org/x/sync/errgroup"
)

type PracticeSource interface {
	GetUserPracticeStats(ctx context.Context, userID string, now time.Time) (*practicedomain.PracticeStats, error)
	GetRecentActivity(ctx context.Context, userID string, count int, now time.Time) ([]practicedomain.RecentActivity, error)
}

type TryoutSource interface {
	GetUserTryoutStats(ctx context.Context, userID string) (*tryoutdomain.TryoutStats, error)
}

type ProgressSource interface {
	GetUserProgress(ctx context.Context, userID string) (*leaderboard.Entry, error)
}

type Dashboard struct {
	PracticeStats  practicedomain.PracticeStats    `json:"practiceStats"`
	TryoutStats    tryoutdomain.TryoutStats        `json:"tryoutStats"`
	RecentActivity []practicedomain.RecentActivity `json:"recentActivity"`
	Progress       leaderboard.Entry               `json:"progress"`
}

type DashboardSrvc struct {
	practice PracticeSource
	tryouts  TryoutSource
	progress ProgressSource
}

func NewDashboardSrvc(practice PracticeSource, tryouts TryoutSource, progress ProgressSource) *DashboardSrvc {
	return &DashboardSrvc{practice: practice, tryouts: tryouts, progress: progress}
}

// GetDashboard loads every part concurrently. A part that fails is logged
// and left at its zero value, so the call itself never fails.
func (s *DashboardSrvc) GetDashboard(ctx context.Context, userID string, now time.Time) *Dashboard {
	log := logger.FromContext(ctx)
	d := &Dashboard{
		RecentActivity: []practicedomain.RecentActivity{},
		Progress:       leaderboard.Entry{UserID: userID},
	}

	// every goroutine writes its own field and returns nil
	var g errgroup.Group
	g.Go(func() error {
		stats, err := s.practice.GetUserPracticeStats(ctx, userID, now)
		if err != nil {
			log.Warn("dashboard practice stats unavailable", "error", err)
			return nil
		}
		d.PracticeStats = *stats
		return nil
	})
	g.Go(func() error {
		stats, err := s.tryouts.GetUserTryoutStats(ctx, userID)
		if err != nil {
			log.Warn("dashboard tryout stats unavailable", "error", err)
			return nil
		}
		d.TryoutStats = *stats
		return nil
	})
	g.Go(func() error {
		activity, err := s.practice.GetRecentActivity(ctx, userID, practicesrvc.DefaultRecentActivityCount, now)
		if err != nil {
			log.Warn("dashboard recent activity unavailable", "error", err)
			return nil
		}
		if activity != nil {
			d.RecentActivity = activity
		}
		return nil
	})
	g.Go(func() error {
		entry, err := s.progress.GetUserProgress(ctx, userID)
		if err != nil {
			log.Warn("dashboard progress unavailable", "error", err)
			return nil
		}
		d.Progress = *entry
		return nil
	})
	_ = g.Wait()
	return d
}
