package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// JSONStateStore keeps every key as a field of one JSON object on disk.
type JSONStateStore struct {
	filepath string
	mu       sync.RWMutex
}

func NewJSONStateStore(filepath string) *JSONStateStore {
	return &JSONStateStore{filepath: filepath}
}

func (r *JSONStateStore) Load(ctx context.Context, key string, v interface{}) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, err := r.read()
	if err != nil {
		return false, err
	}
	raw, ok := doc[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

func (r *JSONStateStore) Save(ctx context.Context, key string, v interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	doc[key] = raw

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.filepath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, r.filepath)
}

func (r *JSONStateStore) read() (map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage)
	data, err := os.ReadFile(r.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", r.filepath, err)
	}
	return doc, nil
}
