package repo

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/zenGate-Global/rastro-saas/domains/branding/be/service"
)

type configKey struct {
	tenantID uuid.UUID
	key      string
}

// MemoryRepository is an in-memory branding repository for tests and local development.
type MemoryRepository struct {
	mu       sync.RWMutex
	platform *service.PlatformSettings
	configs  map[configKey][]byte
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{configs: make(map[configKey][]byte)}
}

// SetPlatformSettings stores the platform row.
func (r *MemoryRepository) SetPlatformSettings(ps service.PlatformSettings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.platform = &ps
}

// PutSystemConfig stores a config value.
func (r *MemoryRepository) PutSystemConfig(tenantID uuid.UUID, key string, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[configKey{tenantID, key}] = raw
}

func (r *MemoryRepository) GetPlatformSettings(context.Context) (service.PlatformSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.platform == nil {
		return service.PlatformSettings{}, service.ErrNotFound
	}
	return *r.platform, nil
}

func (r *MemoryRepository) GetSystemConfig(_ context.Context, tenantID uuid.UUID, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	raw, ok := r.configs[configKey{tenantID, key}]
	if !ok {
		return nil, service.ErrNotFound
	}
	return raw, nil
}
