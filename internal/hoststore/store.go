// Package hoststore holds resolved address→hostname pairs for display.
// It offers an in-memory map for one-shot runs and an embedded badger
// database for installs that want hostnames to survive restarts.
package hoststore

import (
	"sync"

	"go.uber.org/atomic"
)

// Writer is the narrow surface the resolver worker needs: an idempotent
// upsert of a resolved pair. The return value is deliberately absent;
// resolution is best-effort enrichment and a failed write must never
// ripple back into the pipeline.
type Writer interface {
	Put(addr, hostname string)
}

// Store is the full surface the API serves from.
type Store interface {
	Writer
	// Get returns the hostname resolved for addr, if any.
	Get(addr string) (string, bool)
	// Len returns the number of stored pairs.
	Len() int
	// Snapshot returns a copy of all stored pairs.
	Snapshot() map[string]string
	// Close releases any resources held by the store.
	Close() error
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store. The returned store
// is thread-safe and ready to use.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		hosts: make(map[string]string),
	}
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	mu    sync.RWMutex      // protects hosts
	hosts map[string]string // address -> hostname
	count atomic.Int64      // metrics: stored pairs
}

// Put inserts or replaces the hostname for addr.
func (s *MemoryStore) Put(addr, hostname string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hosts[addr]; !ok {
		s.count.Inc()
	}
	s.hosts[addr] = hostname
}

// Get returns the hostname resolved for addr, if any.
func (s *MemoryStore) Get(addr string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hostname, ok := s.hosts[addr]
	return hostname, ok
}

// Len returns the number of stored pairs.
func (s *MemoryStore) Len() int {
	return int(s.count.Load())
}

// Snapshot returns a copy of all stored pairs.
func (s *MemoryStore) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.hosts))
	for addr, hostname := range s.hosts {
		out[addr] = hostname
	}
	return out
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
