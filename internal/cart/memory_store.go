package cart

import (
	"context"
	"sync"
)

// MemoryStore is the in-process Store used in tests and dev mode.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]Cart)}
}

func (m *MemoryStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.carts[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	out := c
	out.Lines = append([]Line(nil), c.Lines...)
	return &out, nil
}

func (m *MemoryStore) Save(ctx context.Context, c *Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *c
	stored.Lines = append([]Line(nil), c.Lines...)
	m.carts[c.SessionID] = stored
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.carts, sessionID)
	return nil
}
