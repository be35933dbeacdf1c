package main

import (
	"fmt"
	"time"

	"github.com/drakos74/det-som/infra/config"
	"github.com/drakos74/det-som/internal/data"
	"github.com/drakos74/det-som/internal/eval"
	"github.com/drakos74/det-som/internal/export"
	"github.com/drakos74/det-som/internal/metrics"
	"github.com/drakos74/det-som/internal/som"
	"github.com/drakos74/det-som/internal/storage"
	"github.com/drakos74/det-som/internal/storage/file/json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Result is the outcome of a training run.
type Result struct {
	Run      string
	Name     string
	Map      *som.Map
	Status   som.Status
	Quality  eval.Quality
	Baseline float64
	HasBase  bool
	Weights  string
	Snapshot *storage.Key
	Elapsed  time.Duration
}

// Shard returns the snapshot storage of the experiment.
// Snapshots are discarded if no storage directory is configured.
func Shard(exp config.Experiment) storage.Shard {
	if exp.Storage == "" {
		return storage.VoidShard()
	}
	return json.BlobShard(exp.Storage, storage.MapsDir)
}

// Run loads the data, trains the map and writes the results for the experiment.
// The trained map snapshot is stored in the given shard.
func Run(exp config.Experiment, shard storage.Shard) (Result, error) {
	result := Result{
		Run:  uuid.New().String(),
		Name: exp.Name,
	}

	ds, features, err := data.LoadCSV(exp.Input, exp.Headers)
	if err != nil {
		return result, fmt.Errorf("could not load data: %w", err)
	}
	log.Info().
		Str("input", exp.Input).
		Int("records", ds.Size()).
		Int("features", features).
		Msg("loaded data")

	cfg := exp.Map
	cfg.Features = features
	if exp.Seed != 0 {
		cfg = cfg.WithSeed(exp.Seed)
	}

	start := time.Now()
	m, err := som.New(ds, cfg)
	if err != nil {
		return result, fmt.Errorf("could not create map: %w", err)
	}
	m.WithObserver(metrics.Observer.For(result.Run))
	if exp.MetricsPort > 0 {
		metrics.Serve(exp.MetricsPort)
	}
	result.Status = m.Train()
	result.Elapsed = time.Since(start)
	result.Map = m

	log.Info().
		Str("run", result.Run).
		Bool("converged", result.Status.Converged).
		Int("iterations", result.Status.Iterations).
		Dur("elapsed", result.Elapsed).
		Msg("training finished")

	weights, err := export.SaveWeights(exp.Output, exp.Input, m)
	if err != nil {
		return result, fmt.Errorf("could not save weights: %w", err)
	}
	result.Weights = weights

	snapshot := export.NewSnapshot(exp.Name, m, result.Status)
	snapshot.Run = result.Run
	persistence, err := shard(exp.Name)
	if err != nil {
		return result, fmt.Errorf("could not open storage: %w", err)
	}
	k, err := export.Store(persistence, snapshot)
	if err != nil {
		return result, fmt.Errorf("could not store snapshot: %w", err)
	}
	result.Snapshot = &k

	result.Quality = eval.Evaluate(m, ds)
	if exp.Baseline > 0 {
		qe, err := eval.KMeansBaseline(ds, cfg.Rows*cfg.Cols, exp.Baseline)
		if err != nil {
			log.Warn().Err(err).Msg("skipping baseline")
		} else {
			result.Baseline = qe
			result.HasBase = true
		}
	}
	return result, nil
}
