package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/drakos74/det-som/internal/som"
	"github.com/drakos74/det-som/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrWrite is returned for every failure while writing results.
var ErrWrite = errors.New("result write failure")

const weightsPrefix = "MapWeight_"

// Grid gives access to the prototypes of a map.
type Grid interface {
	Prototypes() [][][]float64
}

// WriteWeights writes the first feature of every prototype, one grid row per line.
// Every value is followed by a comma, including the last one of the row.
func WriteWeights(w io.Writer, grid Grid) error {
	bw := bufio.NewWriter(w)
	for _, row := range grid.Prototypes() {
		for _, p := range row {
			if len(p) == 0 {
				return fmt.Errorf("empty prototype: %w", ErrWrite)
			}
			if _, err := bw.WriteString(formatWeight(p[0]) + ","); err != nil {
				return fmt.Errorf("could not write weight: %v: %w", err, ErrWrite)
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return fmt.Errorf("could not write line: %v: %w", err, ErrWrite)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("could not flush weights: %v: %w", err, ErrWrite)
	}
	return nil
}

// formatWeight renders the value the way java.lang.Double does,
// e.g. 1.0 for integral values and 1.0E-4 outside of [1e-3, 1e7).
func formatWeight(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	abs := math.Abs(v)
	if abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	s := strconv.FormatFloat(v, 'E', -1, 64)
	i := strings.Index(s, "E")
	mantissa, exp := s[:i], s[i+1:]
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	e, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(e)
}

// WeightsFile returns the name of the weights file for the given input file.
func WeightsFile(dir, input string) string {
	return filepath.Join(dir, weightsPrefix+filepath.Base(input))
}

// SaveWeights writes the weights of the grid into the results directory, named after the input file.
func SaveWeights(dir, input string, grid Grid) (string, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("could not create results directory")
		return "", fmt.Errorf("could not create dir '%s': %v: %w", dir, err, ErrWrite)
	}
	p := WeightsFile(dir, input)
	f, err := os.Create(p)
	if err != nil {
		log.Error().Err(err).Str("file", p).Msg("could not create weights file")
		return "", fmt.Errorf("could not create file '%s': %v: %w", p, err, ErrWrite)
	}
	if err := writeAndClose(f, grid); err != nil {
		log.Error().Err(err).Str("file", p).Msg("could not write weights")
		return "", err
	}
	return p, nil
}

// writeAndClose writes the weights and closes the writer.
// A failed close is reported, since buffered data might not have reached the disk.
func writeAndClose(wc io.WriteCloser, grid Grid) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("could not close: %v: %w", cerr, ErrWrite)
		}
	}()
	return WriteWeights(wc, grid)
}

// Snapshot is the persisted state of a trained map.
type Snapshot struct {
	Run        string        `json:"run"`
	Name       string        `json:"name"`
	Time       time.Time     `json:"time"`
	Config     som.Config    `json:"config"`
	Status     som.Status    `json:"status"`
	Prototypes [][][]float64 `json:"prototypes"`
	// Sizes holds the number of records assigned to every node.
	Sizes [][]int `json:"sizes"`
}

// NewSnapshot captures the current state of the map under a new run id.
func NewSnapshot(name string, m *som.Map, status som.Status) Snapshot {
	sizes := make([][]int, m.Rows())
	for i := range sizes {
		sizes[i] = make([]int, m.Cols())
		for j := range sizes[i] {
			sizes[i][j] = m.Node(i, j).Size()
		}
	}
	return Snapshot{
		Run:        uuid.New().String(),
		Name:       name,
		Time:       time.Now(),
		Config:     m.Config(),
		Status:     status,
		Prototypes: m.Prototypes(),
		Sizes:      sizes,
	}
}

// Key returns the storage key of the snapshot.
func (s Snapshot) Key() storage.Key {
	return storage.Key{
		Name:  s.Name,
		Run:   s.Run,
		Label: storage.MapsDir,
	}
}

// Map restores the trained map of the snapshot.
func (s Snapshot) Map() (*som.Map, error) {
	return som.Restore(s.Config, s.Prototypes)
}

// Store persists the snapshot and returns the key it is stored under.
func Store(p storage.Persistence, s Snapshot) (storage.Key, error) {
	k := s.Key()
	if err := p.Store(k, s); err != nil {
		log.Error().Err(err).Str("key", fmt.Sprintf("%+v", k)).Msg("could not store snapshot")
		return k, fmt.Errorf("could not store snapshot: %v: %w", err, ErrWrite)
	}
	return k, nil
}

// Load loads the snapshot for the given key.
func Load(p storage.Persistence, k storage.Key) (Snapshot, error) {
	var s Snapshot
	if err := p.Load(k, &s); err != nil {
		return s, fmt.Errorf("could not load snapshot '%+v': %w", k, err)
	}
	return s, nil
}
