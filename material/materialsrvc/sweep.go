package materialsrvc

import (
	"context"
	"fmt"
	"slices"

	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/srvcerr"
)

var sweptPrefixes = []string{"thumbnails/", "notes/"}

// SweepOrphanFiles finds stored files no material points to, which is what
// a failed best-effort delete leaves behind. Unless dryRun is set they are
// deleted. An upload racing the sweep can be reported as an orphan, so run
// it while no materials are being added.
func (s *MaterialSrvc) SweepOrphanFiles(ctx context.Context, dryRun bool) ([]string, error) {
	var stored []string
	for _, prefix := range sweptPrefixes {
		keys, err := s.files.ListFiles(ctx, prefix)
		if err != nil {
			return nil, srvcerr.ErrInternalSE().SetDebug(fmt.Errorf("list %s: %w", prefix, err))
		}
		stored = append(stored, keys...)
	}

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	referenced := make(map[string]bool, len(all))
	for _, m := range all {
		if key, ok := s.files.KeyFromURL(m.StoredFileURL()); ok {
			referenced[key] = true
		}
	}

	log := logger.FromContext(ctx)
	var orphans []string
	for _, key := range stored {
		if referenced[key] {
			continue
		}
		orphans = append(orphans, key)
		if dryRun {
			continue
		}
		if err := s.files.Delete(ctx, key); err != nil {
			return orphans, srvcerr.ErrInternalSE().SetDebug(fmt.Errorf("delete %s: %w", key, err))
		}
		log.Info("deleted orphan material file", "key", key)
	}
	slices.Sort(orphans)
	return orphans, nil
}
