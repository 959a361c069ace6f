package store

import (
	"context"
	"sync"
	"time"

	"github.com/weedz/secrets/internal/domain"
)

var _ SecretStore = (*MemoryStore)(nil)

// MemoryStore keeps records in a mutex-guarded map. It backs tests and
// single-process deployments with no Redis configured.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*domain.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*domain.Record)}
}

func (m *MemoryStore) Insert(ctx context.Context, rec *domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[rec.LookupHash]; exists {
		return domain.ErrConflict
	}
	cp := *rec
	m.records[rec.LookupHash] = &cp
	return nil
}

func (m *MemoryStore) Fetch(ctx context.Context, lookupHash string) (*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.records[lookupHash]
	if !exists {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *MemoryStore) DecrementViews(ctx context.Context, lookupHash string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.records[lookupHash]
	if !exists || rec.ViewsRemaining <= 0 {
		return 0, domain.ErrNotFound
	}
	rec.ViewsRemaining--
	return rec.ViewsRemaining, nil
}

func (m *MemoryStore) Delete(ctx context.Context, lookupHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, lookupHash)
	return nil
}

func (m *MemoryStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for hash, rec := range m.records {
		if rec.Expired(now) {
			delete(m.records, hash)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryStore) Close() error { return nil }
