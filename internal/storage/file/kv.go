// Package file stores key/value pairs in a single JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sandevgo/geodrop/pkg/log"
)

type KVStore struct {
	path string
	mu   sync.RWMutex
}

func NewKVStore(path string) *KVStore {
	return &KVStore{
		path: path,
	}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.read()
	if err != nil {
		return "", false, err
	}

	v, ok := data[key]
	return v, ok, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	data[key] = value

	if err := s.write(data); err != nil {
		return err
	}

	log.FromCtx(ctx).Debug().Str("key", key).Int("bytes", len(value)).Msg("kv entry written")
	return nil
}

// read returns an empty map for a missing file.
func (s *KVStore) read() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to read kv file: %w", err)
	}

	data := make(map[string]string)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse kv file: %w", err)
	}
	if data == nil {
		data = make(map[string]string)
	}
	return data, nil
}

// write replaces the file via rename so readers never see a partial document.
func (s *KVStore) write(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal kv file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create kv directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".kv-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp kv file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write kv file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close kv file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to chmod kv file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace kv file: %w", err)
	}
	return nil
}
