package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU is a fixed-capacity least-recently-used cache. Get marks the key as
// recently used; Add evicts the eldest entry once capacity is exceeded.
type LRU[K comparable, V any] struct {
	cache *lru.Cache[K, V]
}

func NewLRU[K comparable, V any](size int) *LRU[K, V] {
	c, _ := lru.New[K, V](size)
	return &LRU[K, V]{cache: c}
}

func (l *LRU[K, V]) Get(key K) (V, bool) {
	return l.cache.Get(key)
}

func (l *LRU[K, V]) Add(key K, value V) {
	l.cache.Add(key, value)
}

func (l *LRU[K, V]) Len() int {
	return l.cache.Len()
}

func (l *LRU[K, V]) Contains(key K) bool {
	return l.cache.Contains(key)
}
