package adapters

import (
	"sync"
	"time"

	"github.com/shouni/nft-layer-kit/pkg/generator"
)

type cacheItem struct {
	value     any
	expiresAt time.Time // ゼロ値なら無期限
}

// MemoryCache はプロセス内で完結する有効期限付きキャッシュです。
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]cacheItem
	now   func() time.Time
}

var _ generator.ImageCacher = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]cacheItem),
		now:   time.Now,
	}
}

// Get は期限切れのアイテムを削除して未ヒットとして扱います。
func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !item.expiresAt.IsZero() && c.now().After(item.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return item.value, true
}

// Set は d が 0 以下なら無期限で保存します。
func (c *MemoryCache) Set(key string, value any, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := cacheItem{value: value}
	if d > 0 {
		item.expiresAt = c.now().Add(d)
	}
	c.items[key] = item
}

// Len は保持しているアイテム数です。
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
