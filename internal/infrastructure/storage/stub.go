package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// StubStore is an in-memory placeholder for deployments without object
// storage configured. Stored objects are kept in a map and the returned
// URLs are synthetic; the fulfillment pipeline can run end to end
// against it in tests and local development.
type StubStore struct {
	// BaseURL is the prefix of generated URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubStore creates a new StubStore
func NewStubStore() *StubStore {
	return &StubStore{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Store keeps the object in memory and returns a synthetic URL
func (s *StubStore) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", &StorageError{Op: "put", Key: key, Cause: errors.New("storage key is required")}
	}

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return s.BaseURL + "/" + key, nil
}

// StoreBookData serializes book data and stores it under key
func (s *StubStore) StoreBookData(ctx context.Context, key string, data any) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", &StorageError{Op: "marshal", Key: key, Cause: err}
	}
	return s.Store(ctx, key, payload, "application/json")
}

// FetchBookData retrieves book data stored through this stub
func (s *StubStore) FetchBookData(ctx context.Context, dataURL string, out any) error {
	key := dataURL
	if len(dataURL) > len(s.BaseURL)+1 && dataURL[:len(s.BaseURL)+1] == s.BaseURL+"/" {
		key = dataURL[len(s.BaseURL)+1:]
	}

	s.mu.RLock()
	data, ok := s.objects[key]
	s.mu.RUnlock()

	if !ok {
		return &StorageError{Op: "fetch", Key: dataURL, Cause: errors.New("object not found")}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &StorageError{Op: "decode", Key: dataURL, Cause: err}
	}
	return nil
}
