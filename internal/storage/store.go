package storage

import (
	"errors"
	"fmt"
)

// MapsDir is the table trained map snapshots are stored under.
const MapsDir = "maps"

var (
	// DefaultDir is the root of the file storage.
	// It is a variable so that tests and the cli can relocate it.
	DefaultDir = "som-storage"
)

// Shard creates a new storage implementation for the given shard.
type Shard func(shard string) (Persistence, error)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
)

// Key is the storage key for a trained map.
type Key struct {
	// Name is the logical name of the map, usually the dataset it was trained on.
	Name string `json:"name"`
	// Run identifies the training run.
	Run   string `json:"run"`
	Label string `json:"label"`
}

// Path returns the file friendly representation of the key.
func (k Key) Path() string {
	return fmt.Sprintf("%s_%s_%s", k.Name, k.Run, k.Label)
}

// Persistence stores and loads values for a key.
type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}
