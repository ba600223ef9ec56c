package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps the session record in memory. Used for tests and for
// local runs without Redis; same contract as RedisStore.
type MemoryStore struct {
	mu  sync.Mutex
	rec *Record

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// NewMemoryStoreAt is NewMemoryStore with an injected clock.
func NewMemoryStoreAt(now func() time.Time) *MemoryStore {
	return &MemoryStore{now: now}
}

func (m *MemoryStore) Create(ctx context.Context) (Record, error) {
	id, err := GenerateID()
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		SessionID: id,
		ExpiresAt: m.now().Add(Lifetime),
	}

	m.mu.Lock()
	m.rec = &rec
	m.mu.Unlock()

	return rec, nil
}

func (m *MemoryStore) ReadIfValid(ctx context.Context) (*Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rec == nil {
		return nil, false, nil
	}

	if !m.now().Before(m.rec.ExpiresAt) {
		m.rec = nil
		return nil, true, nil
	}

	rec := *m.rec
	return &rec, false, nil
}

func (m *MemoryStore) Delete(ctx context.Context) error {
	m.mu.Lock()
	m.rec = nil
	m.mu.Unlock()
	return nil
}
