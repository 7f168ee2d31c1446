package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
)

// Object is a stored blob as seen by Memory.
type Object struct {
	Data        []byte
	ContentType string
}

// Memory keeps objects in process. Tests and local runs without S3 use it.
type Memory struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]Object
	saves   int
}

func NewMemory(baseURL string) *Memory {
	return &Memory{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		objects: make(map[string]Object),
	}
}

func (m *Memory) Save(_ context.Context, path string, body io.Reader, contentType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}

	m.mu.Lock()
	m.objects[path] = Object{Data: buf.Bytes(), ContentType: contentType}
	m.saves++
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	delete(m.objects, path)
	m.mu.Unlock()
	return nil
}

func (m *Memory) URL(path string) string {
	return m.baseURL + "/" + strings.TrimPrefix(path, "/")
}

// Get returns the object stored at path.
func (m *Memory) Get(path string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[path]
	return obj, ok
}

// Saves counts Save calls, including overwrites.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}
