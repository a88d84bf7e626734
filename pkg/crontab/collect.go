package crontab

import (
	"context"

	"github.com/edushare/edushare/application/dependency"
	"github.com/edushare/edushare/pkg/cache"
	"github.com/edushare/edushare/pkg/logging"
)

// GarbageCollect 清理过期的内存缓存
func GarbageCollect(ctx context.Context) {
	dep := dependency.FromContext(ctx)
	l := logging.FromContext(ctx)

	store, ok := dep.KV().(cache.GarbageCollector)
	if !ok {
		l.Debug("KV store does not need garbage collection, skipped.")
		return
	}

	removed := store.GarbageCollect()
	l.Info("Garbage collection finished, %d expired cache item(s) removed.", removed)
}

// OrphanCollect removes stored blobs that no resource row references.
func OrphanCollect(ctx context.Context) {
	dep := dependency.FromContext(ctx)
	l := logging.FromContext(ctx)

	removed, err := dep.FileSystem().CollectOrphans(ctx, dep.ResourceClient().ExistingFilenames)
	if err != nil {
		l.Warning("Failed to collect orphan files: %s", err)
		return
	}

	l.Info("Orphan collection finished, %d file(s) removed.", removed)
}
