package filesystem

import (
	"context"
	"time"

	"github.com/edushare/edushare/pkg/filesystem/driver"
	"github.com/samber/lo"
)

// ReferenceChecker reports which of the given stored names are still referenced.
type ReferenceChecker func(ctx context.Context, names []string) (map[string]bool, error)

// CollectOrphans removes stored files older than the grace period that no
// catalog row references, returning the number of removed files.
func (fs *FileSystem) CollectOrphans(ctx context.Context, referenced ReferenceChecker) (int, error) {
	objects, err := fs.Handler.List(ctx)
	if err != nil {
		return 0, err
	}

	deadline := fs.now().Add(-time.Duration(fs.policy.OrphanGracePeriod) * time.Second)
	candidates := lo.FilterMap(objects, func(o driver.Object, _ int) (string, bool) {
		return o.Name, o.LastModify.Before(deadline)
	})
	if len(candidates) == 0 {
		return 0, nil
	}

	existing, err := referenced(ctx, candidates)
	if err != nil {
		return 0, err
	}

	orphans := lo.Filter(candidates, func(name string, _ int) bool {
		return !existing[name]
	})
	if len(orphans) == 0 {
		return 0, nil
	}

	failed, err := fs.Remove(ctx, orphans...)
	if err != nil {
		fs.l.Warning("Failed to remove %d orphan file(s): %s", len(failed), err)
	}

	return len(orphans) - len(failed), nil
}
