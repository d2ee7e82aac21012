package kvdb

import (
	"bytes"
	"sort"
	"sync"
)

// memoryDB is the in-memory implementation of the kv storage, used when no
// journal path is configured and in tests
type memoryDB struct {
	mu sync.RWMutex
	db map[string][]byte
}

// NewMemoryDB creates a volatile kv storage
func NewMemoryDB() Database {
	return &memoryDB{
		db: map[string][]byte{},
	}
}

func (m *memoryDB) Has(key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.db[string(key)]

	return ok, nil
}

func (m *memoryDB) Get(key []byte) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.db[string(key)]
	if !ok {
		return nil, false, nil
	}

	return append([]byte{}, v...), true, nil
}

func (m *memoryDB) Set(k, v []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.db[string(k)] = append([]byte{}, v...)

	return nil
}

func (m *memoryDB) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.db, string(key))

	return nil
}

func (m *memoryDB) ForEachPrefix(prefix []byte, fn func(k, v []byte) bool) error {
	m.mu.RLock()

	keys := make([]string, 0, len(m.db))

	for k := range m.db {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}

	m.mu.RUnlock()

	sort.Strings(keys)

	for _, k := range keys {
		v, ok, _ := m.Get([]byte(k))
		if !ok {
			continue
		}

		if !fn([]byte(k), v) {
			break
		}
	}

	return nil
}

func (m *memoryDB) Close() error {
	return nil
}
