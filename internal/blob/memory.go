package blob

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Provider for tests and uri-less dev mode.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailFetch lists storage ids whose Fetch should fail, for exercising
	// per-document failure isolation in tests.
	FailFetch map[string]bool

	deleted []string
}

var _ Provider = (*Memory)(nil)

// NewMemory creates an empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{
		objects:   make(map[string][]byte),
		FailFetch: make(map[string]bool),
	}
}

func (m *Memory) Upload(_ context.Context, data []byte, filename, _ string) (Ref, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := "mem/" + uuid.NewString() + "-" + filename
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[id] = buf
	return Ref{URL: "memory://" + id, ID: id}, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[id]; !ok {
		return fmt.Errorf("blob: delete %s: no such object", id)
	}
	delete(m.objects, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *Memory) Fetch(_ context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFetch[id] {
		return nil, fmt.Errorf("blob: get %s: connection reset", id)
	}
	data, ok := m.objects[id]
	if !ok {
		return nil, fmt.Errorf("blob: get %s: no such object", id)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Deleted returns the ids deleted so far, in order.
func (m *Memory) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.deleted))
	copy(out, m.deleted)
	return out
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
