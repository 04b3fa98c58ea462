package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/tryout/tryoutdomain"
)

type practiceWalker interface {
	WalkUserPracticeResults(ctx context.Context, userID string, fn func(practicedomain.PracticeResult) error) error
}

type tryoutWalker interface {
	WalkUserTryoutResults(ctx context.Context, userID string, fn func(tryoutdomain.TryoutResult) error) error
}

// exportRecord is one line of a results archive.
type exportRecord struct {
	Kind   string `json:"kind"`
	Result any    `json:"result"`
}

type exportCounts struct {
	Practice int
	Tryouts  int
}

// exportResults writes every practice and tryout result of the user as
// zstd-compressed JSON lines, practice results first.
func exportResults(ctx context.Context, w io.Writer, practice practiceWalker, tryouts tryoutWalker, userID string) (exportCounts, error) {
	var counts exportCounts

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return counts, fmt.Errorf("create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)

	err = practice.WalkUserPracticeResults(ctx, userID, func(r practicedomain.PracticeResult) error {
		counts.Practice++
		return enc.Encode(exportRecord{Kind: "practice", Result: r})
	})
	if err != nil {
		zw.Close()
		return counts, fmt.Errorf("export practice results: %w", err)
	}

	err = tryouts.WalkUserTryoutResults(ctx, userID, func(r tryoutdomain.TryoutResult) error {
		counts.Tryouts++
		return enc.Encode(exportRecord{Kind: "tryout", Result: r})
	})
	if err != nil {
		zw.Close()
		return counts, fmt.Errorf("export tryout results: %w", err)
	}

	if err := zw.Close(); err != nil {
		return counts, fmt.Errorf("finish zstd stream: %w", err)
	}
	return counts, nil
}
