package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	p := filepath.Join(t.TempDir(), "clouds.csv")
	require.NoError(t, os.WriteFile(p, []byte(content), 0600))
	return p
}

func TestLoadCSV(t *testing.T) {

	type test struct {
		content  string
		headers  bool
		features int
		rows     [][]float64
		labels   []string
	}

	tests := map[string]test{
		"labelled": {
			content:  "a,b,class\n0.1,0.2,cumulus\n0.3,0.4,stratus\n0.5,0.6,cumulus\n",
			headers:  true,
			features: 2,
			rows:     [][]float64{{0.1, 0.2}, {0.3, 0.4}, {0.5, 0.6}},
			labels:   []string{"cumulus", "stratus", "cumulus"},
		},
		"numeric-only": {
			content:  "a,b,c\n1,2,3\n4,5,6\n",
			headers:  true,
			features: 3,
			rows:     [][]float64{{1, 2, 3}, {4, 5, 6}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ds, features, err := LoadCSV(writeFile(t, tt.content), tt.headers)
			require.NoError(t, err)
			assert.Equal(t, tt.features, features)
			require.Equal(t, len(tt.rows), ds.Size())
			for i, row := range tt.rows {
				r := ds.Get(i)
				assert.InDeltaSlice(t, row, r.Features(), 1e-12)
				if tt.labels != nil {
					assert.Equal(t, tt.labels[i], r.Label())
				}
			}
		})
	}
}

func TestLoadCSV_Missing(t *testing.T) {
	ds, _, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), true)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrLoad))
	assert.Nil(t, ds)
}

func TestFromRows(t *testing.T) {
	ds, err := FromRows([][]float64{{1, 2}, {3, 4}}, "x", "y")
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Size())
	assert.Equal(t, "y", ds.Get(1).Label())

	_, err = FromRows([][]float64{{1, 2}, {3}})
	assert.True(t, errors.Is(err, ErrLoad))

	_, err = FromRows([][]float64{{1, 2}}, "x", "y")
	assert.True(t, errors.Is(err, ErrLoad))
}
