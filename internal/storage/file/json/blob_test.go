package json

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/drakos74/det-som/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Rows    int         `json:"rows"`
	Weights [][]float64 `json:"weights"`
}

func TestBlobStorage(t *testing.T) {
	dir := t.TempDir()
	s := NewJsonBlob("maps", "test", true).WithPath(dir)

	k := storage.Key{
		Name:  "clouds",
		Run:   "1",
		Label: "map",
	}
	value := snapshot{
		Rows:    2,
		Weights: [][]float64{{0.1, 0.2}, {0.3, 0.4}},
	}

	err := s.Store(k, value)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "maps", "test", "clouds_1_map.json"))
	assert.NoError(t, err)

	var loaded snapshot
	err = s.Load(k, &loaded)
	require.NoError(t, err)
	assert.Equal(t, value, loaded)

	err = s.Load(storage.Key{Name: "missing"}, &loaded)
	assert.True(t, errors.Is(err, storage.NotFoundErr))
}

func TestBlobStorage_Corrupt(t *testing.T) {
	dir := t.TempDir()
	s := NewJsonBlob("maps", "test", false).WithPath(dir)

	k := storage.Key{Name: "corrupt"}
	p := filepath.Join(dir, "maps", "test")
	require.NoError(t, os.MkdirAll(p, os.ModePerm))
	require.NoError(t, os.WriteFile(filepath.Join(p, k.Path()+".json"), []byte("{not json"), 0600))

	var loaded snapshot
	err := s.Load(k, &loaded)
	assert.True(t, errors.Is(err, storage.CouldNotLoadErr))
}

func TestLocalStorage(t *testing.T) {
	shard := LocalShard()
	s, err := shard("test")
	require.NoError(t, err)

	k := storage.Key{Name: "local"}
	value := snapshot{Rows: 3}

	var loaded snapshot
	err = s.Load(k, &loaded)
	assert.True(t, errors.Is(err, storage.NotFoundErr))

	require.NoError(t, s.Store(k, value))
	require.NoError(t, s.Load(k, &loaded))
	assert.Equal(t, value, loaded)
}

func TestBlobShard(t *testing.T) {
	dir := t.TempDir()
	p, err := BlobShard(dir, storage.MapsDir)("clouds")
	require.NoError(t, err)

	k := storage.Key{Name: "clouds", Run: "2", Label: storage.MapsDir}
	require.NoError(t, p.Store(k, snapshot{Rows: 1}))

	_, err = os.Stat(filepath.Join(dir, storage.MapsDir, "clouds", "clouds_2_maps.json"))
	assert.NoError(t, err)

	var loaded snapshot
	require.NoError(t, p.Load(k, &loaded))
	assert.Equal(t, 1, loaded.Rows)
}
