package securestore

import (
	"context"
	"sync"
)

// MemoryStore is the in-memory Store used by tests and local development.
// Failure injection: SetAvailable(false) makes every operation fail with
// ErrUnavailable, FailNext(op, code) makes the next matching operation fail
// with a BackendError carrying the given code.
type MemoryStore struct {
	mu        sync.Mutex
	data      map[string][]byte
	available bool
	failNext  map[string]int
}

// NewMemoryStore returns an empty, available in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:      make(map[string][]byte),
		available: true,
		failNext:  make(map[string]int),
	}
}

// SetAvailable toggles simulated store availability.
func (m *MemoryStore) SetAvailable(ok bool) {
	m.mu.Lock()
	m.available = ok
	m.mu.Unlock()
}

// FailNext arms a one-shot backend failure for the given operation.
func (m *MemoryStore) FailNext(op string, code int) {
	m.mu.Lock()
	m.failNext[op] = code
	m.mu.Unlock()
}

// Len reports the number of stored entries.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func (m *MemoryStore) check(op string) error {
	if !m.available {
		return ErrUnavailable
	}
	if code, ok := m.failNext[op]; ok {
		delete(m.failNext, op)
		return &BackendError{Op: op, Code: code, Err: ErrUnavailable}
	}
	return nil
}

func (m *MemoryStore) Put(ctx context.Context, account string, secret []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("put"); err != nil {
		return err
	}
	cp := make([]byte, len(secret))
	copy(cp, secret)
	m.data[account] = cp
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, account string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("get"); err != nil {
		return nil, err
	}
	secret, ok := m.data[account]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(secret))
	copy(cp, secret)
	return cp, nil
}

func (m *MemoryStore) Delete(ctx context.Context, account string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("delete"); err != nil {
		return err
	}
	if _, ok := m.data[account]; !ok {
		return ErrNotFound
	}
	delete(m.data, account)
	return nil
}

func (m *MemoryStore) Exists(ctx context.Context, account string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("exists"); err != nil {
		return false, err
	}
	_, ok := m.data[account]
	return ok, nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.available {
		return ErrUnavailable
	}
	return nil
}
