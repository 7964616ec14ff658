package localstore

import "sync"

// KV is the storage port behind the client-local store. Implementations
// must be safe for use from a single process; durability is best-effort.
type KV interface {
	// Get returns the raw value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set stores the raw value for key, replacing any prior value.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

type memoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV returns a process-local KV used in tests and for ephemeral
// sessions where no database path is configured.
func NewMemoryKV() KV {
	return &memoryKV{values: make(map[string]string)}
}

func (m *memoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
