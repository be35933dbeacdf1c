package storage

import (
	"encoding/json"
	"fmt"
)

func MockShard() Shard {
	return func(shard string) (Persistence, error) {
		return NewMockStorage(), nil
	}
}

// MockStorage keeps the stored values in memory.
// Loading goes through json, so that the caller gets a copy the same way a file storage would return it.
type MockStorage struct {
	Elements map[Key]interface{}
}

func NewMockStorage() *MockStorage {
	return &MockStorage{Elements: make(map[Key]interface{})}
}

func (m *MockStorage) Store(k Key, value interface{}) error {
	m.Elements[k] = value
	return nil
}

func (m *MockStorage) Load(k Key, value interface{}) error {
	v, ok := m.Elements[k]
	if !ok {
		return fmt.Errorf("not found '%v': %w", k, NotFoundErr)
	}
	bb, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not marshal value '%v': %w", k, CouldNotLoadErr)
	}
	if err := json.Unmarshal(bb, value); err != nil {
		return fmt.Errorf("could not unmarshal value '%v': %w", k, CouldNotLoadErr)
	}
	return nil
}
