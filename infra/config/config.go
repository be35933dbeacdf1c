package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/drakos74/det-som/internal/som"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const path = "infra/config"

var ErrConfig = errors.New("invalid config")

// Experiment is the config of a single training run.
type Experiment struct {
	Name    string `json:"name" yaml:"name"`
	Input   string `json:"input" yaml:"input"`
	Headers bool   `json:"headers" yaml:"headers"`
	// Output is the directory the weights file is written to.
	Output string `json:"output" yaml:"output"`
	// Storage is the directory snapshots are stored in, no snapshot is stored if empty.
	Storage string     `json:"storage" yaml:"storage"`
	Map     som.Config `json:"map" yaml:"map"`
	// Seed makes random initialisation and selection reproducible, 0 means a time based seed.
	Seed        int64 `json:"seed" yaml:"seed"`
	MetricsPort int   `json:"metrics_port" yaml:"metrics_port"`
	// Baseline is the number of k-means iterations for the baseline comparison, 0 skips it.
	Baseline int `json:"baseline" yaml:"baseline"`
}

// DefaultExperiment returns the default experiment for the given input file.
func DefaultExperiment(input string) Experiment {
	return Experiment{
		Name:   strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)),
		Input:  input,
		Output: "results",
		Map:    som.DefaultConfig(0),
	}
}

// Validate checks the parts of the experiment that do not depend on the data.
func (e Experiment) Validate() error {
	if e.Input == "" {
		return fmt.Errorf("no input file: %w", ErrConfig)
	}
	if e.Output == "" {
		return fmt.Errorf("no output directory: %w", ErrConfig)
	}
	if e.MetricsPort < 0 {
		return fmt.Errorf("invalid metrics port %d: %w", e.MetricsPort, ErrConfig)
	}
	return nil
}

// Load loads the config file into v, as yaml or json depending on the file extension.
func Load(file string, v interface{}) error {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return fmt.Errorf("could not load config '%s': %v: %w", file, err, ErrConfig)
	}
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, v)
	default:
		err = json.Unmarshal(b, v)
	}
	if err != nil {
		return fmt.Errorf("could not unmarshal config '%s': %v: %w", file, err, ErrConfig)
	}
	log.Info().Str("file", file).Msg("loaded config")
	return nil
}

// MustLoad loads the config for the given key
func MustLoad(key string, v interface{}) {
	if err := Load(fmt.Sprintf("%s/%s.json", path, key), v); err != nil {
		panic(fmt.Sprintf("could not load config for %s: %s", key, err.Error()))
	}
}
