package providers

import (
	"fmt"
	"github.com/coocood/freecache"
	"promod/internal/structures"
	"sync"
	"time"
	"unsafe"
)

// TransientProviderInterface is an expiring key-value store. Values are
// opaque bytes; every Set carries its own TTL.
type TransientProviderInterface interface {
	Get(key string) ([]byte, bool)
	GetWithExpiration(key string) ([]byte, time.Time, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) bool
	Keys() []string
	Len() int64
}

type TransientProvider struct {
	cache *freecache.Cache
	mu    sync.Mutex
	keys  map[string]struct{}
}

// freecache splits its buffer into 256 segments and refuses entries larger
// than a quarter of a segment, so one entry can use at most size/1024 bytes.
const (
	freecacheEntryRatio    = 1024
	transientEntryOverhead = 1024
)

// transientCacheBytes grows the configured size until a promotion body at
// the response limit fits in one entry.
func transientCacheBytes(conf *structures.Config) int {
	configured := max(conf.Cache.Size, 1) * 1024 * 1024
	required := (ResponseBodyLimit(conf) + transientEntryOverhead) * freecacheEntryRatio
	return max(configured, required)
}

func NewTransientProvider(conf *structures.Config, logger Logger) TransientProviderInterface {
	sizeBytes := transientCacheBytes(conf)

	logger.Infof(TypeApp, "Transient cache initialized: %dKB, max entry %dKB", sizeBytes/1024, sizeBytes/freecacheEntryRatio/1024)

	return &TransientProvider{
		cache: freecache.NewCache(sizeBytes),
		keys:  make(map[string]struct{}),
	}
}

// unsafeStringToBytes converts string to []byte without allocation.
// freecache copies keys internally, so the result is never written.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func ttlSeconds(ttl time.Duration) int {
	return max(int(ttl/time.Second), 1)
}

func (t *TransientProvider) Get(key string) ([]byte, bool) {
	val, err := t.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (t *TransientProvider) GetWithExpiration(key string) ([]byte, time.Time, bool) {
	val, expireAt, err := t.cache.GetWithExpiration(unsafeStringToBytes(key))
	if err != nil {
		return nil, time.Time{}, false
	}
	return val, time.Unix(int64(expireAt), 0), true
}

func (t *TransientProvider) Set(key string, value []byte, ttl time.Duration) error {
	if err := t.cache.Set(unsafeStringToBytes(key), value, ttlSeconds(ttl)); err != nil {
		return fmt.Errorf("set transient %s (%d bytes): %w", key, len(value), err)
	}
	t.mu.Lock()
	t.keys[key] = struct{}{}
	t.mu.Unlock()
	return nil
}

func (t *TransientProvider) Delete(key string) bool {
	affected := t.cache.Del(unsafeStringToBytes(key))
	t.mu.Lock()
	delete(t.keys, key)
	t.mu.Unlock()
	return affected
}

// Keys returns the keys that are still live. Expired keys are pruned.
func (t *TransientProvider) Keys() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	keys := make([]string, 0, len(t.keys))
	for k := range t.keys {
		if _, err := t.cache.TTL(unsafeStringToBytes(k)); err != nil {
			delete(t.keys, k)
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

func (t *TransientProvider) Len() int64 {
	return t.cache.EntryCount()
}
