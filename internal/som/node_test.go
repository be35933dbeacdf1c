package som

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNode_Distance(t *testing.T) {

	type test struct {
		prototype []float64
		features  []float64
		distance  float64
	}

	tests := map[string]test{
		"equal": {
			prototype: []float64{0.5, 0.5, 0.5},
			features:  []float64{0.5, 0.5, 0.5},
			distance:  0,
		},
		"one-dim": {
			prototype: []float64{0.5, 0.5, 0.5},
			features:  []float64{0.5, 1.5, 0.5},
			distance:  1,
		},
		"all-dims": {
			prototype: []float64{0, 0, 0},
			features:  []float64{1, -2, 3},
			distance:  14,
		},
		"negative": {
			prototype: []float64{-1, -1, -1},
			features:  []float64{1, 1, 1},
			distance:  12,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			n := newNode(0, 0, 0, len(tt.prototype))
			copy(n.prototype, tt.prototype)
			d := n.Distance(tt.features)
			assert.Equal(t, tt.distance, d)
			assert.GreaterOrEqual(t, d, 0.0)
		})
	}
}

func TestNode_Update(t *testing.T) {
	n := newNode(0, 0, 0, 2)
	n.initPrototype(0.5)

	n.Update([]float64{1, 0}, 0.5, 1)
	assert.Equal(t, []float64{0.75, 0.25}, n.Prototype())

	n.Update([]float64{1, 0}, 0.5, 0.5)
	assert.Equal(t, []float64{0.8125, 0.1875}, n.Prototype())

	// no influence, no change
	n.Update([]float64{1, 0}, 0.5, 0)
	assert.Equal(t, []float64{0.8125, 0.1875}, n.Prototype())
}

func TestNode_Membership(t *testing.T) {
	n := newNode(1, 2, 5, 1)
	n.initPrototype(0.5)

	far := NewRecord([]float64{0.9})
	near := NewRecord([]float64{0.6})
	mid := NewRecord([]float64{0.7})

	n.add(far)
	rep, d, ok := n.Representative()
	assert.True(t, ok)
	assert.Equal(t, far, rep)
	assert.InDelta(t, 0.16, d, 1e-12)

	n.add(near)
	n.add(mid)
	// adding twice is a no-op
	n.add(mid)
	assert.Equal(t, 3, n.Size())

	rep, _, _ = n.Representative()
	assert.Equal(t, near, rep)

	for _, r := range []*Record{far, near, mid} {
		idx, ok := r.BMU()
		assert.True(t, ok)
		assert.Equal(t, 5, idx)
	}

	// removing a non representative keeps the cache
	n.remove(far)
	rep, _, _ = n.Representative()
	assert.Equal(t, near, rep)
	_, ok = far.BMU()
	assert.False(t, ok)

	// removing the representative recomputes it
	n.remove(near)
	rep, d, ok = n.Representative()
	assert.True(t, ok)
	assert.Equal(t, mid, rep)
	assert.InDelta(t, 0.04, d, 1e-12)
	assert.Equal(t, []*Record{mid}, n.Records())

	n.remove(mid)
	_, _, ok = n.Representative()
	assert.False(t, ok)
	assert.Equal(t, 0, n.Size())

	// removing an unknown record is a no-op
	n.remove(far)
	assert.Equal(t, 0, n.Size())
}

func TestRecord(t *testing.T) {
	ff := []float64{1, 2, 3}
	r := NewRecord(ff)
	ff[0] = 100
	assert.Equal(t, []float64{1, 2, 3}, r.Features())
	assert.Equal(t, UnknownClass, r.Label())
	_, ok := r.BMU()
	assert.False(t, ok)

	r.WithLabel("cloud")
	assert.Equal(t, "cloud", r.Label())
}
