// Package ledger tracks which tenants a browser explicitly logged into.
package ledger

import (
	"errors"
	"sort"
)

// StorageKey is the fixed name the record is persisted under.
const StorageKey = "rastro.tenant_logins"

// Entry is the single record kept per browser.
type Entry struct {
	UserID    string   `json:"userId"`
	TenantIDs []string `json:"tenantIds"`
}

// Has reports set membership.
func (e Entry) Has(tenantID string) bool {
	for _, id := range e.TenantIDs {
		if id == tenantID {
			return true
		}
	}
	return false
}

// Store persists the record. Load returns nil, nil when nothing is stored.
type Store interface {
	Load() (*Entry, error)
	Save(entry Entry) error
	Clear() error
}

// Ledger implements record, hasLoggedIn and clear over a Store.
type Ledger struct {
	store Store
}

// New wraps store.
func New(store Store) *Ledger {
	if store == nil {
		panic("ledger store is required")
	}
	return &Ledger{store: store}
}

// Record adds tenantID for userID. A different stored user is replaced entirely.
func (l *Ledger) Record(tenantID, userID string) error {
	if tenantID == "" || userID == "" {
		return errors.New("tenant id and user id are required")
	}

	current, err := l.store.Load()
	if err != nil || current == nil || current.UserID != userID {
		return l.store.Save(Entry{UserID: userID, TenantIDs: []string{tenantID}})
	}
	if current.Has(tenantID) {
		return nil
	}

	next := Entry{UserID: userID, TenantIDs: append(append([]string(nil), current.TenantIDs...), tenantID)}
	sort.Strings(next.TenantIDs)
	return l.store.Save(next)
}

// HasLoggedIn is false when nothing is stored, the user differs, or the store is unreadable.
func (l *Ledger) HasLoggedIn(tenantID, userID string) bool {
	current, err := l.store.Load()
	if err != nil || current == nil || current.UserID != userID {
		return false
	}
	return current.Has(tenantID)
}

// Clear wipes the record unconditionally.
func (l *Ledger) Clear() error {
	return l.store.Clear()
}
