package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync"
)

// MockFileStorage is an in-memory FileStorage implementation for testing
type MockFileStorage struct {
	files map[string][]byte
	mu    sync.RWMutex
}

// NewMockFileStorage creates a new in-memory storage
func NewMockFileStorage() *MockFileStorage {
	return &MockFileStorage{
		files: make(map[string][]byte),
	}
}

// SetAsStorageForTesting installs this mock as the global storage backend
func (m *MockFileStorage) SetAsStorageForTesting() {
	SetFileStorage(m)
}

// Save stores the uploaded file content in memory
func (m *MockFileStorage) Save(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("mock_%s", fileHeader.Filename)

	m.mu.Lock()
	m.files[key] = content
	m.mu.Unlock()

	return key, nil
}

// URL returns a fake URL for a stored key
func (m *MockFileStorage) URL(key string) (string, error) {
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, exists := m.files[key]; !exists {
		return "", fmt.Errorf("file not found: %s", key)
	}
	return "https://mock-storage.example.com/" + key, nil
}

// Delete removes a stored key
func (m *MockFileStorage) Delete(key string) error {
	if key == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.files, key)
	m.mu.Unlock()
	return nil
}

// FileCount returns how many files are stored (test helper)
func (m *MockFileStorage) FileCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

// HasFile reports whether a key exists (test helper)
func (m *MockFileStorage) HasFile(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.files[key]
	return exists
}
