package eval

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cdipaolo/goml/cluster"
	"github.com/drakos74/det-som/internal/som"
	"github.com/drakos74/go-ex-machina/xmath"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

var ErrBaseline = errors.New("could not compute baseline")

// Quality summarises how well a map represents a dataset.
type Quality struct {
	Samples int `json:"samples"`
	// Quantization is the mean euclidean distance of the samples to their best matching prototype.
	Quantization      float64 `json:"quantization"`
	QuantizationStDev float64 `json:"quantization_stdev"`
	// Topographic is the share of samples whose first and second best matching nodes are not adjacent.
	Topographic float64 `json:"topographic"`
	// Empty is the number of nodes no sample maps to.
	Empty int `json:"empty"`
}

func distance(a, b []float64) float64 {
	return xmath.Vec(len(a)).With(a...).Diff(xmath.Vec(len(b)).With(b...)).Norm()
}

// adjacent checks if the nodes are direct neighbours on the grid.
func adjacent(n1, n2 *som.Node) bool {
	dr := n1.Row - n2.Row
	dc := n1.Col - n2.Col
	return dr*dr+dc*dc <= 1
}

// bestTwo returns the best and second best matching nodes in row-major tie order.
func bestTwo(nodes []*som.Node, features []float64) (*som.Node, *som.Node) {
	var first, second *som.Node
	d1, d2 := math.MaxFloat64, math.MaxFloat64
	for _, n := range nodes {
		d := n.Distance(features)
		if d < d1 {
			second, d2 = first, d1
			first, d1 = n, d
		} else if d < d2 {
			second, d2 = n, d
		}
	}
	return first, second
}

// Evaluate computes the quality of the map against the given dataset.
func Evaluate(m *som.Map, ds *som.Dataset) Quality {
	q := Quality{}
	if ds == nil || ds.IsEmpty() {
		return q
	}
	nodes := m.Nodes()
	hits := make(map[int]int)
	errs := NewStats()
	topographic := 0
	for _, r := range ds.Records() {
		first, second := bestTwo(nodes, r.Features())
		hits[first.Index()]++
		errs.Push(distance(r.Features(), first.Prototype()))
		if second != nil && !adjacent(first, second) {
			topographic++
		}
	}
	q.Samples = errs.Count()
	q.Quantization = errs.Avg()
	q.QuantizationStDev = errs.StDev()
	q.Topographic = float64(topographic) / float64(q.Samples)
	q.Empty = len(nodes) - len(hits)
	return q
}

// UMatrix returns the mean distance of every prototype to the prototypes of its direct neighbours.
func UMatrix(m *som.Map) *mat.Dense {
	u := mat.NewDense(m.Rows(), m.Cols(), nil)
	moves := [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			n := m.Node(i, j)
			stats := NewStats()
			for _, mv := range moves {
				r, c := i+mv[0], j+mv[1]
				if r < 0 || c < 0 || r >= m.Rows() || c >= m.Cols() {
					continue
				}
				stats.Push(distance(n.Prototype(), m.Node(r, c).Prototype()))
			}
			u.Set(i, j, stats.Avg())
		}
	}
	return u
}

// Labels counts the labels of the records assigned to every node.
func Labels(m *som.Map) [][]map[string]int {
	labels := make([][]map[string]int, m.Rows())
	for i := range labels {
		labels[i] = make([]map[string]int, m.Cols())
		for j := range labels[i] {
			counts := make(map[string]int)
			for _, r := range m.Node(i, j).Records() {
				counts[r.Label()]++
			}
			labels[i][j] = counts
		}
	}
	return labels
}

// Majority returns the most frequent label of the histogram.
// Ties are resolved alphabetically, an empty histogram returns false.
func Majority(counts map[string]int) (string, bool) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	label := ""
	best := 0
	for _, k := range keys {
		if counts[k] > best {
			label = k
			best = counts[k]
		}
	}
	return label, best > 0
}

// Profiles returns the mean feature vector of the records assigned to every node.
// Nodes without records have a nil profile.
func Profiles(m *som.Map) [][][]float64 {
	profiles := make([][][]float64, m.Rows())
	for i := range profiles {
		profiles[i] = make([][]float64, m.Cols())
		for j := range profiles[i] {
			records := m.Node(i, j).Records()
			if len(records) == 0 {
				continue
			}
			c := NewCollector(len(records[0].Features()))
			for _, r := range records {
				c.Push(r.Features()...)
			}
			profiles[i][j] = c.Mean()
		}
	}
	return profiles
}

// KMeansBaseline clusters the dataset with k-means into k clusters
// and returns the quantization error of the clustering,
// so that maps with k nodes can be compared against it.
func KMeansBaseline(ds *som.Dataset, k, iterations int) (float64, error) {
	if ds == nil || ds.Size() < k || k <= 0 {
		return 0, fmt.Errorf("need at least %d samples: %w", k, ErrBaseline)
	}
	data := make([][]float64, ds.Size())
	for i, r := range ds.Records() {
		data[i] = r.Features()
	}

	model := cluster.NewKMeans(k, iterations, data)
	if err := model.Learn(); err != nil {
		log.Error().Err(err).Int("k", k).Msg("could not train k-means baseline")
		return 0, fmt.Errorf("could not learn: %v: %w", err, ErrBaseline)
	}
	guesses := model.Guesses()
	if len(guesses) != len(data) {
		return 0, fmt.Errorf("could not align guesses with data [ %d | %d ]: %w", len(guesses), len(data), ErrBaseline)
	}

	centroids := make(map[int]*Collector)
	for i, g := range guesses {
		if _, ok := centroids[g]; !ok {
			centroids[g] = NewCollector(len(data[i]))
		}
		centroids[g].Push(data[i]...)
	}
	errs := NewStats()
	for i, g := range guesses {
		errs.Push(distance(data[i], centroids[g].Mean()))
	}
	return errs.Avg(), nil
}
