package cache

import (
	"encoding/gob"
)

func init() {
	gob.Register(map[string]itemWithTTL{})
}

// Driver 键值缓存存储容器
type Driver interface {
	// 设置值，ttl为过期时间，单位为秒，<= 0 表示永不过期
	Set(key string, value any, ttl int) error

	// 取值，并返回是否成功
	Get(key string) (any, bool)

	// Delete values by [Prefix + key]. If no key is presented, all keys with given prefix will be deleted.
	Delete(prefix string, keys ...string) error

	// Save in-memory cache to disk
	Persist(path string) error

	// Restore cache from disk
	Restore(path string) error

	// Remove all entries
	DeleteAll() error
}

// GarbageCollector is implemented by drivers that need expired entries swept periodically.
type GarbageCollector interface {
	GarbageCollect() int
}
