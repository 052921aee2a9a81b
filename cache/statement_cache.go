package cache

import (
	"database/sql"
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Preparer is anything that can produce a prepared statement, e.g. *sql.DB.
type Preparer interface {
	Prepare(query string) (*sql.Stmt, error)
}

// StatementCache holds prepared statements keyed by the fingerprint of their
// final SQL text. Evicted statements are closed.
type StatementCache struct {
	cache *lru.Cache[uint64, *sql.Stmt]
	mu    sync.RWMutex
}

func NewStatementCache(size int) *StatementCache {
	cache, _ := lru.NewWithEvict(size, func(key uint64, stmt *sql.Stmt) {
		stmt.Close()
	})

	return &StatementCache{
		cache: cache,
	}
}

func (s *StatementCache) Get(key uint64) (*sql.Stmt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if stmt, ok := s.cache.Get(key); ok {
		return stmt, nil
	}
	return nil, errors.New("key not found")
}

func (s *StatementCache) Set(key uint64, stmt *sql.Stmt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Add(key, stmt)
	return nil
}

// GetOrPrepare returns the cached statement for key, preparing and caching it
// on a miss.
func (s *StatementCache) GetOrPrepare(key uint64, db Preparer, query string) (*sql.Stmt, error) {
	// Fast path: read lock only
	s.mu.RLock()
	if stmt, ok := s.cache.Get(key); ok {
		s.mu.RUnlock()
		return stmt, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock
	if stmt, ok := s.cache.Get(key); ok {
		return stmt, nil
	}

	stmt, err := db.Prepare(query)
	if err != nil {
		return nil, err
	}

	s.cache.Add(key, stmt)
	return stmt, nil
}

func (s *StatementCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Purge() // triggers the evict callback for all items
	return nil
}
