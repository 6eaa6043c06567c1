package mocks

import (
	"context"
	"sync"

	"github.com/user/mdposter/pkg/ports"
)

// ImageStore is a mock implementation of ports.ImageStore.
// Without PutFunc it keeps objects in memory and returns "mem://<name>".
type ImageStore struct {
	PutFunc func(ctx context.Context, name string, data []byte, contentType string) (string, error)
	GetFunc func(ctx context.Context, name string) ([]byte, string, error)

	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (m *ImageStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, name, data, contentType)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = make(map[string][]byte)
		m.types = make(map[string]string)
	}
	m.objects[name] = data
	m.types[name] = contentType
	return "mem://" + name, nil
}

func (m *ImageStore) Get(ctx context.Context, name string) ([]byte, string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[name]
	if !ok {
		return nil, "", ports.ErrImageNotFound
	}
	return data, m.types[name], nil
}

// Objects returns a copy of the stored objects (for test verification).
func (m *ImageStore) Objects() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte, len(m.objects))
	for k, v := range m.objects {
		out[k] = v
	}
	return out
}

// ContentType returns the content type stored for name.
func (m *ImageStore) ContentType(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.types[name]
}

var _ ports.ImageStore = (*ImageStore)(nil)
