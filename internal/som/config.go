package som

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	ErrInvalidShape      = errors.New("invalid map shape")
	ErrInvalidRadius     = errors.New("invalid map radius")
	ErrInvalidIterations = errors.New("invalid number of iterations")
	ErrInvalidRate       = errors.New("invalid learning rate")
	ErrFeatureMismatch   = errors.New("feature vector size mismatch")
	ErrInvalidFeature    = errors.New("invalid feature value")
)

// Config defines the shape and the training parameters of a map.
type Config struct {
	Rows            int     `json:"rows" yaml:"rows"`
	Cols            int     `json:"cols" yaml:"cols"`
	Features        int     `json:"features" yaml:"features"`
	MaxIterations   int     `json:"max_iterations" yaml:"max_iterations"`
	LearningRate    float64 `json:"learning_rate" yaml:"learning_rate"`
	RandomSelection bool    `json:"random_selection" yaml:"random_selection"`
	RandomInit      bool    `json:"random_init" yaml:"random_init"`
	ForceIterations bool    `json:"force_iterations" yaml:"force_iterations"`
	// Source is the single random source for initialization and selection.
	// It is only consulted if RandomInit or RandomSelection is set.
	Source *rand.Rand `json:"-" yaml:"-"`
}

// DefaultConfig returns the reference configuration for the given number of features.
// It trains deterministically, e.g. gradient initialization and staggered selection.
func DefaultConfig(features int) Config {
	return Config{
		Rows:          4,
		Cols:          3,
		Features:      features,
		LearningRate:  0.5,
		MaxIterations: 100,
	}
}

// WithSeed sets a random source with the given seed.
func (c Config) WithSeed(seed int64) Config {
	c.Source = rand.New(rand.NewSource(seed))
	return c
}

// Radius returns the initial neighbourhood radius of the map.
func (c Config) Radius() float64 {
	return float64(max(c.Rows, c.Cols)) / 2
}

// Validate checks the configuration preconditions.
func (c Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("rows and cols must be positive [%d x %d]: %w", c.Rows, c.Cols, ErrInvalidShape)
	}
	if c.Features <= 0 {
		return fmt.Errorf("features must be positive [%d]: %w", c.Features, ErrInvalidShape)
	}
	// the time constant is divided by log10 of the radius
	if max(c.Rows, c.Cols) <= 2 {
		return fmt.Errorf("radius %.2f for [%d x %d] must be greater than 1: %w", c.Radius(), c.Rows, c.Cols, ErrInvalidRadius)
	}
	if c.RandomSelection && c.MaxIterations <= 0 {
		return fmt.Errorf("random selection needs a positive iteration budget [%d]: %w", c.MaxIterations, ErrInvalidIterations)
	}
	if c.LearningRate <= 0 || math.IsNaN(c.LearningRate) || math.IsInf(c.LearningRate, 0) {
		return fmt.Errorf("learning rate must be positive [%v]: %w", c.LearningRate, ErrInvalidRate)
	}
	return nil
}

func (c Config) check(record *Record) error {
	if len(record.features) != c.Features {
		return fmt.Errorf("expected %d features but got %d: %w", c.Features, len(record.features), ErrFeatureMismatch)
	}
	for i, f := range record.features {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("feature %d is %v: %w", i, f, ErrInvalidFeature)
		}
	}
	return nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
