package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"orphancare/domain"
	"strings"
	"sync"
)

type memoryBlob struct {
	data        []byte
	contentType string
}

// MemoryStore is the default file store for local runs and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	blobs  map[string]memoryBlob
	public string
}

func NewMemoryStore(publicBaseURL string) *MemoryStore {
	return &MemoryStore{
		blobs:  make(map[string]memoryBlob),
		public: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (m *MemoryStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return domain.Internal("Failed to read upload", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[key]; ok {
		return domain.Conflict(fmt.Sprintf("blob %s already exists", key))
	}
	m.blobs[key] = memoryBlob{data: buf.Bytes(), contentType: contentType}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

func (m *MemoryStore) URL(ctx context.Context, key string) (string, error) {
	if m.public != "" {
		return m.public + "/" + key, nil
	}
	return "memory://" + key, nil
}

// Get returns a stored blob. Used by tests.
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[key]
	return b.data, ok
}
