package cache

import (
	"encoding/gob"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/edushare/edushare/pkg/util"
)

// MemoStore 内存存储驱动
type MemoStore struct {
	Store *sync.Map
}

// itemWithTTL 是带有过期时间的缓存项
type itemWithTTL struct {
	Expires int64
	Value   any
}

func newItem(value any, expires int) itemWithTTL {
	expires64 := int64(expires)
	if expires > 0 {
		expires64 = time.Now().Unix() + expires64
	}
	return itemWithTTL{
		Value:   value,
		Expires: expires64,
	}
}

// getValue 从itemWithTTL中取值
func getValue(item any, ok bool) (any, bool) {
	if !ok {
		return nil, ok
	}

	var itemObj itemWithTTL
	if itemObj, ok = item.(itemWithTTL); !ok {
		return item, true
	}

	if itemObj.Expires > 0 && itemObj.Expires < time.Now().Unix() {
		return nil, false
	}

	return itemObj.Value, ok
}

// NewMemoStore 新建内存存储
func NewMemoStore() *MemoStore {
	return &MemoStore{
		Store: &sync.Map{},
	}
}

// GarbageCollect 回收已过期的缓存, 返回回收数量
func (store *MemoStore) GarbageCollect() int {
	collected := 0
	store.Store.Range(func(key, value any) bool {
		if item, ok := value.(itemWithTTL); ok {
			if item.Expires > 0 && item.Expires < time.Now().Unix() {
				store.Store.Delete(key)
				collected++
			}
		}
		return true
	})
	return collected
}

// Set 存储值
func (store *MemoStore) Set(key string, value any, ttl int) error {
	store.Store.Store(key, newItem(value, ttl))
	return nil
}

// Get 取值
func (store *MemoStore) Get(key string) (any, bool) {
	return getValue(store.Store.Load(key))
}

// Delete 批量删除值
func (store *MemoStore) Delete(prefix string, keys ...string) error {
	if len(keys) == 0 {
		store.Store.Range(func(key, value any) bool {
			if strings.HasPrefix(key.(string), prefix) {
				store.Store.Delete(key)
			}
			return true
		})
		return nil
	}

	for _, key := range keys {
		store.Store.Delete(prefix + key)
	}
	return nil
}

// DeleteAll 删除所有值
func (store *MemoStore) DeleteAll() error {
	store.Store.Range(func(key any, value any) bool {
		store.Store.Delete(key)
		return true
	})
	return nil
}

// Persist write memory store into cache
func (store *MemoStore) Persist(path string) error {
	persisted := make(map[string]itemWithTTL)
	store.Store.Range(func(key, value any) bool {
		v, ok := store.Store.Load(key)
		if _, ok := getValue(v, ok); ok {
			persisted[key.(string)] = v.(itemWithTTL)
		}
		return true
	})

	f, err := util.CreatNestedFile(path)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(&persisted); err != nil {
		return fmt.Errorf("unable to encode cache: %w", err)
	}

	return nil
}

// Restore memory cache from disk file, the file is removed afterwards.
func (store *MemoStore) Restore(path string) error {
	if !util.Exists(path) {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}

	defer func() {
		f.Close()
		os.Remove(path)
	}()

	persisted := make(map[string]itemWithTTL)
	if err := gob.NewDecoder(f).Decode(&persisted); err != nil {
		return fmt.Errorf("unknown cache file format: %w", err)
	}

	for k, v := range persisted {
		if _, ok := getValue(v, true); ok {
			store.Store.Store(k, v)
		}
	}

	return nil
}
