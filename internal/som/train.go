package som

import (
	"github.com/rs/zerolog/log"
)

// Strategy is the way the samples are presented to the map during an iteration.
type Strategy string

const (
	// RandomSelection presents the whole dataset in random order on every iteration.
	RandomSelection Strategy = "random"
	// StaggeredSelection sweeps the dataset alternating forward and backward
	// starting from the front and back index respectively.
	StaggeredSelection Strategy = "staggered"
)

// Status is the outcome of a training run.
type Status struct {
	Strategy  Strategy `json:"strategy"`
	Converged bool     `json:"converged"`
	// Iterations is the number of iterations executed, including the converging one.
	Iterations int `json:"iterations"`
	// Budget is the maximum number of iterations for the strategy.
	Budget int `json:"budget"`
	// Changes holds the number of records that changed node for every iteration.
	Changes []int `json:"changes"`
}

// IterationStat describes a completed training iteration.
type IterationStat struct {
	Strategy     Strategy
	Iteration    int
	Budget       int
	RadiusSq     float64
	LearningRate float64
	Samples      int
	Changes      int
}

// Observer follows the progress of the training.
type Observer interface {
	OnIteration(stat IterationStat)
	OnFinish(status Status)
}

// VoidObserver ignores all events.
type VoidObserver struct {
}

func (v VoidObserver) OnIteration(stat IterationStat) {}

func (v VoidObserver) OnFinish(status Status) {}

// Strategy returns the configured selection strategy.
func (m *Map) Strategy() Strategy {
	if m.config.RandomSelection {
		return RandomSelection
	}
	return StaggeredSelection
}

func (m *Map) convergable() bool {
	return !m.config.ForceIterations
}

// Train trains the map on its dataset.
// Training stops either when the iteration budget is exhausted
// or, if iterations are not forced, on the first iteration where no record changed node.
func (m *Map) Train() Status {
	status := Status{
		Strategy: m.Strategy(),
		Changes:  make([]int, 0),
	}
	if m.dataset.IsEmpty() {
		log.Warn().Str("strategy", string(status.Strategy)).Msg("no data in dataset")
		m.observer.OnFinish(status)
		return status
	}

	log.Info().
		Str("strategy", string(status.Strategy)).
		Bool("force", m.config.ForceIterations).
		Int("records", m.dataset.Size()).
		Msg("start training")

	if m.config.RandomSelection {
		status = m.trainRandom(status)
	} else {
		status = m.trainStaggered(status)
	}

	log.Info().
		Str("strategy", string(status.Strategy)).
		Bool("converged", status.Converged).
		Int("iterations", status.Iterations).
		Int("budget", status.Budget).
		Msg("finished training")

	m.observer.OnFinish(status)
	return status
}

func (m *Map) trainRandom(status Status) Status {
	status.Budget = m.config.MaxIterations
	timeConstant := m.timeConstant(status.Budget)

	converged := false
	iter := 0
	for iter < status.Budget {
		ds := m.dataset.Clone()

		radiusSq := m.radiusSq(iter, timeConstant)
		learningRate := m.learningRate(iter, status.Budget)

		if m.convergable() {
			converged = true
		}

		samples := ds.Size()
		changes := 0
		for !ds.IsEmpty() {
			if m.trainOnRecord(ds.Remove(m.source.Intn(ds.Size())), radiusSq, learningRate) {
				changes++
				converged = false
			}
		}

		status.Changes = append(status.Changes, changes)
		m.observer.OnIteration(IterationStat{
			Strategy:     status.Strategy,
			Iteration:    iter,
			Budget:       status.Budget,
			RadiusSq:     radiusSq,
			LearningRate: learningRate,
			Samples:      samples,
			Changes:      changes,
		})

		if m.convergable() && converged {
			break
		}

		progress(status.Strategy, iter, status.Budget, changes)
		iter++
	}

	status.Converged = converged
	status.Iterations = iter
	if converged {
		status.Iterations = iter + 1
	}
	return status
}

// stagger keeps the anchors of the staggered selection.
// Every record serves as the starting point of a sweep once,
// alternating between the front and the back of the dataset.
type stagger struct {
	front   int
	back    int
	size    int
	reverse bool
}

func newStagger(size int) *stagger {
	return &stagger{
		back: size - 1,
		size: size,
	}
}

func (s *stagger) done() bool {
	return s.front > s.back
}

// sweep returns the indices visited by the current iteration.
// It goes once around the whole dataset starting at the current anchor.
func (s *stagger) sweep() []int {
	start := s.front
	step := 1
	if s.reverse {
		start = s.back
		step = -1
	}
	indices := make([]int, 0, s.size)
	index := start
	for {
		indices = append(indices, index)
		index = (index + step + s.size) % s.size
		if index == start {
			break
		}
	}
	return indices
}

// consume moves the anchor the last sweep started from and switches direction.
func (s *stagger) consume() {
	if s.reverse {
		s.back--
	} else {
		s.front++
	}
	s.reverse = !s.reverse
}

func (m *Map) trainStaggered(status Status) Status {
	size := m.dataset.Size()
	// the dataset size takes the place of the iteration budget
	status.Budget = size
	timeConstant := m.timeConstant(size)

	anchors := newStagger(size)
	converged := false
	iter := 0
	for !anchors.done() {
		radiusSq := m.radiusSq(iter, timeConstant)
		learningRate := m.learningRate(iter, size)

		if m.convergable() {
			converged = true
		}

		changes := 0
		for _, index := range anchors.sweep() {
			if m.trainOnRecord(m.dataset.Get(index), radiusSq, learningRate) {
				changes++
				converged = false
			}
		}

		status.Changes = append(status.Changes, changes)
		m.observer.OnIteration(IterationStat{
			Strategy:     status.Strategy,
			Iteration:    iter,
			Budget:       size,
			RadiusSq:     radiusSq,
			LearningRate: learningRate,
			Samples:      size,
			Changes:      changes,
		})

		if m.convergable() && converged {
			break
		}

		anchors.consume()

		progress(status.Strategy, iter, size, changes)
		iter++
	}

	status.Converged = converged
	status.Iterations = iter
	if converged {
		status.Iterations = iter + 1
	}
	return status
}

func progress(strategy Strategy, iter, budget, changes int) {
	n := iter + 1
	if n%10 == 0 || n == 1 {
		log.Debug().
			Str("strategy", string(strategy)).
			Int("iteration", n).
			Int("budget", budget).
			Int("changes", changes).
			Msg("training progress")
	}
}
