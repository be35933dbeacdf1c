package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/drakos74/det-som/infra/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	configFile = flag.String("config", "", "experiment config file (json or yaml)")
	preset     = flag.String("preset", "", "experiment preset under infra/config")
	input      = flag.String("input", "", "input csv file")
	headers    = flag.Bool("headers", false, "the input file has a header line")
	output     = flag.String("output", "results", "directory for the weights file")
	store      = flag.String("storage", "", "directory for map snapshots, none are stored if empty")
	rows       = flag.Int("rows", 4, "number of grid rows")
	cols       = flag.Int("cols", 3, "number of grid columns")
	iterations = flag.Int("iterations", 100, "iteration budget")
	rate       = flag.Float64("rate", 0.5, "initial learning rate")
	random     = flag.Bool("random", false, "select records randomly instead of staggered sweeps")
	randomInit = flag.Bool("random-init", false, "initialise prototypes randomly instead of the gradient")
	force      = flag.Bool("force", false, "run the full iteration budget")
	seed       = flag.Int64("seed", 0, "seed for the random source, 0 uses the current time")
	port       = flag.Int("metrics", 0, "port to expose metrics on, 0 disables it")
	baseline   = flag.Int("baseline", 0, "k-means iterations for the baseline comparison, 0 skips it")
	debug      = flag.Bool("debug", false, "debug logging")
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func experiment() config.Experiment {
	if *configFile != "" {
		exp := config.DefaultExperiment(*input)
		if err := config.Load(*configFile, &exp); err != nil {
			log.Fatal().Err(err).Str("config", *configFile).Msg("could not load experiment")
		}
		return exp
	}
	if *preset != "" {
		exp := config.DefaultExperiment(*input)
		config.MustLoad(*preset, &exp)
		return exp
	}
	exp := config.DefaultExperiment(*input)
	exp.Headers = *headers
	exp.Output = *output
	exp.Storage = *store
	exp.Seed = *seed
	exp.MetricsPort = *port
	exp.Baseline = *baseline
	exp.Map.Rows = *rows
	exp.Map.Cols = *cols
	exp.Map.MaxIterations = *iterations
	exp.Map.LearningRate = *rate
	exp.Map.RandomSelection = *random
	exp.Map.RandomInit = *randomInit
	exp.Map.ForceIterations = *force
	return exp
}

func main() {
	flag.Parse()
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	exp := experiment()
	if err := exp.Validate(); err != nil {
		flag.Usage()
		log.Fatal().Err(err).Msg("invalid experiment")
	}

	result, err := Run(exp, Shard(exp))
	if err != nil {
		log.Fatal().Err(err).Str("input", exp.Input).Msg("training failed")
	}
	Report(os.Stdout, result)

	if exp.MetricsPort > 0 {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		log.Info().Int("port", exp.MetricsPort).Msg("metrics available, interrupt to exit")
		<-ctx.Done()
	}
}
