// Package cache is a keyed fragment cache for rendered HTML. Entries live
// until the fixed TTL elapses or they are explicitly invalidated; writes to
// the underlying data do NOT invalidate entries, so a page may be stale for
// up to one TTL.
package cache

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type Fragment struct {
	lru *expirable.LRU[string, []byte]
}

// New builds a fragment cache holding at most size entries, each expiring
// ttl after insertion.
func New(size int, ttl time.Duration) *Fragment {
	return &Fragment{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

// IndexKey is the cache key for one page of the index post listing.
func IndexKey(page int) string {
	return fmt.Sprintf("index:%d", page)
}

func (f *Fragment) Get(key string) ([]byte, bool) {
	return f.lru.Get(key)
}

func (f *Fragment) Put(key string, fragment []byte) {
	f.lru.Add(key, fragment)
}

func (f *Fragment) Invalidate(key string) {
	f.lru.Remove(key)
}
