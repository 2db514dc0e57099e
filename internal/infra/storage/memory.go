package storage

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/voucher"
)

// MemoryStore keeps uploaded objects in process; used without S3.
type MemoryStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string][]byte
}

func NewMemoryStore(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "memory://vouchers"
	}
	return &MemoryStore{baseURL: baseURL, objects: map[string][]byte{}}
}

func (m *MemoryStore) Put(_ context.Context, key, _ string, body []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), body...)
	return m.baseURL + "/" + key, nil
}

func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.objects[key]
	return b, ok
}

var _ voucher.ObjectStore = (*MemoryStore)(nil)
