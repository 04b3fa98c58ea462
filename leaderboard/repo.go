package leaderboard

import (
	"context"
	"errors"
)

// errConflict means the progress row changed or the result was already
// processed since it was read.
var errConflict = errors.New("progress write conflict")

type Repo interface {
	// Get returns nil when the user has no progress yet.
	Get(ctx context.Context, userID string) (*Progress, error)
	IsProcessed(ctx context.Context, resultID string) (bool, error)
	// Save stores p and marks resultID processed in one step. The stored
	// version must be p.Version-1, or absent when p.Version is 1.
	Save(ctx context.Context, p Progress, resultID string) error
	// Top returns up to n rows by xp, highest first.
	Top(ctx context.Context, n int) ([]Progress, error)
	CountAbove(ctx context.Context, xp int) (int, error)
}
