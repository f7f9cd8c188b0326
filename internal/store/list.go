package store

import (
	"encoding/json"
	"fmt"

	"sidepad/internal/service"
)

// LoadList reads the JSON array stored under key.
// A missing key yields an empty list. Malformed data also yields an empty
// list, together with an error wrapping service.ErrStorageRead.
func LoadList[T any](kv KV, key string) ([]T, error) {
	data, ok, err := kv.Get(key)
	if err != nil {
		return []T{}, fmt.Errorf("%w: %s: %v", service.ErrStorageRead, key, err)
	}
	if !ok {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return []T{}, fmt.Errorf("%w: %s: %v", service.ErrStorageRead, key, err)
	}
	if items == nil {
		// "null" is valid JSON but not a list
		items = []T{}
	}
	return items, nil
}

// SaveList overwrites key with the full JSON encoding of items.
func SaveList[T any](kv KV, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := kv.Put(key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
