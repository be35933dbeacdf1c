package som

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

const logBase = 10

// Map is a self-organizing map trained on a dataset.
// Given gradient initialization and staggered selection, training is fully deterministic,
// so that different parameter settings can be compared against each other.
type Map struct {
	dataset  *Dataset
	nodes    []*Node
	rows     int
	cols     int
	config   Config
	radius   float64
	source   *rand.Rand
	observer Observer
}

// New creates a new map for the given dataset.
// All preconditions are checked here, training itself cannot fail.
func New(dataset *Dataset, config Config) (*Map, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("could not create map: %w", err)
	}
	if dataset == nil {
		dataset = NewDataset()
	}
	for i, record := range dataset.records {
		if err := config.check(record); err != nil {
			return nil, fmt.Errorf("invalid record at %d: %w", i, err)
		}
	}

	m := newMap(dataset, config)
	if config.RandomInit {
		m.randomInit()
	} else {
		m.gradientInit()
	}

	return m, nil
}

// Restore re-creates a trained map from its prototypes.
// The map has an empty dataset and can be used for matching new samples.
func Restore(config Config, prototypes [][][]float64) (*Map, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("could not restore map: %w", err)
	}
	if len(prototypes) != config.Rows {
		return nil, fmt.Errorf("expected %d rows but got %d: %w", config.Rows, len(prototypes), ErrInvalidShape)
	}
	m := newMap(NewDataset(), config)
	for i, row := range prototypes {
		if len(row) != config.Cols {
			return nil, fmt.Errorf("expected %d cols at row %d but got %d: %w", config.Cols, i, len(row), ErrInvalidShape)
		}
		for j, p := range row {
			if len(p) != config.Features {
				return nil, fmt.Errorf("expected %d features at [%d,%d] but got %d: %w", config.Features, i, j, len(p), ErrFeatureMismatch)
			}
			copy(m.Node(i, j).prototype, p)
		}
	}
	return m, nil
}

func newMap(dataset *Dataset, config Config) *Map {
	source := config.Source
	if source == nil && (config.RandomInit || config.RandomSelection) {
		source = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	m := &Map{
		dataset:  dataset,
		nodes:    make([]*Node, config.Rows*config.Cols),
		rows:     config.Rows,
		cols:     config.Cols,
		config:   config,
		radius:   config.Radius(),
		source:   source,
		observer: VoidObserver{},
	}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			idx := i*m.cols + j
			m.nodes[idx] = newNode(i, j, idx, config.Features)
		}
	}
	return m
}

// WithObserver registers an observer for the training progress.
func (m *Map) WithObserver(observer Observer) *Map {
	if observer == nil {
		observer = VoidObserver{}
	}
	m.observer = observer
	return m
}

// gradientInit spreads the prototypes from 0 at the top left corner to 1 at the bottom right one.
func (m *Map) gradientInit() {
	log.Info().Int("rows", m.rows).Int("cols", m.cols).Msg("using gradient initialization")
	maxDist := math.Pow(float64(m.rows-1), 2)
	if m.cols > 0 {
		maxDist += math.Pow(float64(m.cols-1), 2)
	}
	for _, n := range m.nodes {
		n.initPrototype((math.Pow(float64(n.Row), 2) + math.Pow(float64(n.Col), 2)) / maxDist)
	}
}

func (m *Map) randomInit() {
	log.Info().Int("rows", m.rows).Int("cols", m.cols).Msg("using random initialization")
	for _, n := range m.nodes {
		for k := range n.prototype {
			n.prototype[k] = m.source.Float64()
		}
	}
}

// Rows returns the number of rows of the grid.
func (m *Map) Rows() int {
	return m.rows
}

// Cols returns the number of columns of the grid.
func (m *Map) Cols() int {
	return m.cols
}

// Config returns the configuration of the map.
func (m *Map) Config() Config {
	return m.config
}

// Dataset returns the dataset the map is trained on.
func (m *Map) Dataset() *Dataset {
	return m.dataset
}

// Node returns the node at the given grid position.
func (m *Map) Node(row, col int) *Node {
	return m.nodes[row*m.cols+col]
}

// Nodes returns all nodes in row-major order.
func (m *Map) Nodes() []*Node {
	nn := make([]*Node, len(m.nodes))
	copy(nn, m.nodes)
	return nn
}

// Prototypes returns a copy of all prototype vectors indexed by row and column.
func (m *Map) Prototypes() [][][]float64 {
	pp := make([][][]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		pp[i] = make([][]float64, m.cols)
		for j := 0; j < m.cols; j++ {
			p := m.Node(i, j).prototype
			pp[i][j] = make([]float64, len(p))
			copy(pp[i][j], p)
		}
	}
	return pp
}

// Weights returns the prototypes as a matrix with one row per node in row-major order.
func (m *Map) Weights() *mat.Dense {
	w := mat.NewDense(len(m.nodes), m.config.Features, nil)
	for i, n := range m.nodes {
		w.SetRow(i, n.prototype)
	}
	return w
}

// BestMatch returns the node whose prototype is closest to the given features.
// Ties are resolved in favour of the first node in row-major order.
func (m *Map) BestMatch(features []float64) *Node {
	bmu := m.nodes[0]
	bmuDist := math.MaxFloat64
	for _, n := range m.nodes {
		d := n.Distance(features)
		if d < bmuDist {
			bmu = n
			bmuDist = d
		}
	}
	return bmu
}

// distanceSq is the squared distance of two nodes on the grid.
func distanceSq(n1, n2 *Node) float64 {
	return math.Pow(float64(n2.Row-n1.Row), 2) + math.Pow(float64(n2.Col-n1.Col), 2)
}

// radiusSq returns the squared neighbourhood radius for the given iteration.
func (m *Map) radiusSq(iteration int, timeConstant float64) float64 {
	return math.Pow(m.radius*math.Pow(logBase, -float64(iteration)/timeConstant), 2)
}

// learningRate returns the learning rate for the given iteration.
func (m *Map) learningRate(iteration, budget int) float64 {
	return m.config.LearningRate * math.Pow(logBase, -float64(iteration)/float64(budget))
}

func (m *Map) timeConstant(budget int) float64 {
	return float64(budget) / (math.Log(m.radius) / math.Log(logBase))
}

// roundHalfUp rounds towards positive infinity on ties.
func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}

// trainOnRecord updates the neighbourhood of the best matching node for the record
// and re-assigns it. It reports whether the record changed node.
func (m *Map) trainOnRecord(record *Record, radiusSq, learningRate float64) bool {
	bmu := m.BestMatch(record.features)

	// NOTE : the squared radius is used as a linear offset for the candidate window,
	// the actual neighbourhood is decided by the distance check below.
	minRow := roundHalfUp(float64(bmu.Row) - radiusSq)
	minCol := roundHalfUp(float64(bmu.Col) - radiusSq)
	maxRow := roundHalfUp(float64(bmu.Row) + radiusSq)
	maxCol := roundHalfUp(float64(bmu.Col) + radiusSq)

	if minRow < 0 {
		minRow = 0
	}
	if minCol < 0 {
		minCol = 0
	}
	if maxRow > m.rows-1 {
		maxRow = m.rows - 1
	}
	if maxCol > m.cols-1 {
		maxCol = m.cols - 1
	}

	for i := minRow; i <= maxRow; i++ {
		for j := minCol; j <= maxCol; j++ {
			n := m.Node(i, j)
			d := distanceSq(bmu, n)
			if d < radiusSq {
				n.Update(record.features, learningRate, influence(d, radiusSq))
			}
		}
	}

	prev := m.holder(record)
	if prev == bmu {
		record.bmu = bmu.index
		return false
	}
	if prev != nil {
		prev.remove(record)
	}
	bmu.add(record)
	return true
}

// holder returns the node of this map the record is a member of, if any.
// The record index is only a hint, since the record might have been matched by another map since.
func (m *Map) holder(record *Record) *Node {
	if i := record.bmu; i >= 0 && i < len(m.nodes) && m.nodes[i].has(record) {
		return m.nodes[i]
	}
	for _, n := range m.nodes {
		if n.has(record) {
			return n
		}
	}
	return nil
}

// influence is the gaussian-like decay of the update with the grid distance from the best match.
func influence(distanceSq, radiusSq float64) float64 {
	return math.Pow(logBase, -distanceSq/(radiusSq*2))
}
