package eval

import (
	"fmt"
	"math"
)

// Stats is a set of statistical properties of a stream of numbers.
type Stats struct {
	count          int
	sum            float64
	min, max       float64
	mean, dSquared float64
}

// NewStats creates a new Stats.
func NewStats() *Stats {
	return &Stats{
		min: math.MaxFloat64,
		max: -math.MaxFloat64,
	}
}

// Push adds another element to the set.
func (s *Stats) Push(v float64) {
	s.count++
	s.sum += v
	diff := (v - s.mean) / float64(s.count)
	mean := s.mean + diff
	squaredDiff := (v - mean) * (v - s.mean)
	s.dSquared += squaredDiff
	s.mean = mean

	if s.min > v {
		s.min = v
	}

	if s.max < v {
		s.max = v
	}
}

// Avg returns the average value of the set.
func (s Stats) Avg() float64 {
	return s.mean
}

// Sum returns the sum of the set.
func (s Stats) Sum() float64 {
	return s.sum
}

// Count returns the number of elements.
func (s Stats) Count() int {
	return s.count
}

// Min returns the smallest element, or 0 for an empty set.
func (s Stats) Min() float64 {
	if s.count == 0 {
		return 0
	}
	return s.min
}

// Max returns the largest element, or 0 for an empty set.
func (s Stats) Max() float64 {
	if s.count == 0 {
		return 0
	}
	return s.max
}

// Variance is the mathematical variance of the set.
func (s Stats) Variance() float64 {
	if s.count == 0 {
		return 0
	}
	return s.dSquared / float64(s.count)
}

// StDev is the standard deviation of the set.
func (s Stats) StDev() float64 {
	return math.Sqrt(s.Variance())
}

// Collector tracks Stats for every dimension of a vector.
type Collector struct {
	dim   int
	stats []*Stats
}

// NewCollector creates a new collector for vectors of the given dimension.
func NewCollector(dim int) *Collector {
	stats := make([]*Stats, dim)
	for i := 0; i < dim; i++ {
		stats[i] = NewStats()
	}
	return &Collector{
		dim:   dim,
		stats: stats,
	}
}

// Push pushes each value to the corresponding dimension.
func (c *Collector) Push(v ...float64) {
	if len(v) != c.dim {
		panic(fmt.Sprintf("inconsistent dimensions %d vs %d", len(v), c.dim))
	}
	for i := 0; i < len(c.stats); i++ {
		c.stats[i].Push(v[i])
	}
}

// Stats returns the stats for every dimension.
func (c Collector) Stats() []*Stats {
	return c.stats
}

// Size returns the number of vectors pushed.
func (c Collector) Size() int {
	if c.dim == 0 {
		return 0
	}
	return c.stats[0].count
}

// Mean returns the mean vector.
func (c Collector) Mean() []float64 {
	mean := make([]float64, c.dim)
	for i, s := range c.stats {
		mean[i] = s.Avg()
	}
	return mean
}
