package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/snbtku/backend/leaderboard"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/tryout/tryoutdomain"
	"github.com/stretchr/testify/assert"
)

type fakePractice struct {
	statsErr    error
	activityErr error
}

func (f fakePractice) GetUserPracticeStats(ctx context.Context, userID string, now time.Time) (*practicedomain.PracticeStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return &practicedomain.PracticeStats{TotalQuestions: 4, Accuracy: 75}, nil
}

func (f fakePractice) GetRecentActivity(ctx context.Context, userID string, count int, now time.Time) ([]practicedomain.RecentActivity, error) {
	if f.activityErr != nil {
		return nil, f.activityErr
	}
	return []practicedomain.RecentActivity{{ID: "r1"}}, nil
}

type fakeTryouts struct{ err error }

func (f fakeTryouts) GetUserTryoutStats(ctx context.Context, userID string) (*tryoutdomain.TryoutStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &tryoutdomain.TryoutStats{TotalTryOuts: 2, BestScore: 80}, nil
}

type fakeProgress struct{ err error }

func (f fakeProgress) GetUserProgress(ctx context.Context, userID string) (*leaderboard.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &leaderboard.Entry{UserID: userID, Rank: 3, Xp: 120, Level: 2}, nil
}

func TestGetDashboardAllParts(t *testing.T) {
	s := NewDashboardSrvc(fakePractice{}, fakeTryouts{}, fakeProgress{})
	d := s.GetDashboard(context.Background(), "u1", time.Now())
	assert.Equal(t, 4, d.PracticeStats.TotalQuestions)
	assert.Equal(t, 80, d.TryoutStats.BestScore)
	assert.Len(t, d.RecentActivity, 1)
	assert.Equal(t, 3, d.Progress.Rank)
}

func TestGetDashboardDegradesFailingParts(t *testing.T) {
	boom := errors.New("store down")
	s := NewDashboardSrvc(fakePractice{statsErr: boom, activityErr: boom}, fakeTryouts{}, fakeProgress{err: boom})
	d := s.GetDashboard(context.Background(), "u1", time.Now())
	assert.Zero(t, d.PracticeStats)
	assert.Empty(t, d.RecentActivity)
	assert.NotNil(t, d.RecentActivity)
	assert.Equal(t, 2, d.TryoutStats.TotalTryOuts)
	assert.Equal(t, "u1", d.Progress.UserID)
	assert.Zero(t, d.Progress.Xp)
}
