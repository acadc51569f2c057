package ledger

import "sync"

// MemoryStore keeps the record in process memory, one per simulated browser.
type MemoryStore struct {
	mu    sync.Mutex
	entry *Entry
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entry == nil {
		return nil, nil
	}
	cp := Entry{UserID: m.entry.UserID, TenantIDs: append([]string(nil), m.entry.TenantIDs...)}
	return &cp, nil
}

func (m *MemoryStore) Save(entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry = &entry
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry = nil
	return nil
}
