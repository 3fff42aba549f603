package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/born-ml/perceptron/internal/dataset"
	"github.com/born-ml/perceptron/internal/history"
	"github.com/born-ml/perceptron/internal/nn"
	"github.com/born-ml/perceptron/internal/parallel"
	"github.com/born-ml/perceptron/internal/trainer"
)

type trainOptions struct {
	hidden   int
	lr       float64
	epochs   int
	seed     uint64
	samples  int
	header   bool
	shuffle  bool
	validate float64
	workers  int
	history  string
}

func runTrain(ctx context.Context, args []string, logger *log.Logger, stderr io.Writer) error {
	var opts trainOptions
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&opts.hidden, "hidden", 800, "hidden layer size")
	fs.Float64Var(&opts.lr, "lr", 0.1, "learning rate")
	fs.IntVar(&opts.epochs, "epochs", 5, "passes over the training data")
	fs.Uint64Var(&opts.seed, "seed", 0, "random seed for weights and shuffling (0 = time based)")
	fs.IntVar(&opts.samples, "samples", 0, "maximum examples to load (0 = all)")
	fs.BoolVar(&opts.header, "header", false, "CSV has a header row")
	fs.BoolVar(&opts.shuffle, "shuffle", false, "shuffle examples every epoch")
	fs.Float64Var(&opts.validate, "validate", 0, "fraction of examples held out and scored after each epoch")
	fs.IntVar(&opts.workers, "workers", 1, "workers for loading and scoring (0 = one per physical core)")
	fs.StringVar(&opts.history, "history", "", "SQLite database to record the run in")

	pos, err := parseCommand(fs, args, 2, "<dataset> <weights>")
	if err != nil {
		return err
	}
	dataPath, weightsPath := pos[0], pos[1]

	if opts.validate < 0 || opts.validate >= 1 {
		return fmt.Errorf("-validate must be in [0, 1), got %v", opts.validate)
	}
	if opts.seed == 0 {
		opts.seed = uint64(time.Now().UnixNano())
	}
	pcfg := workerConfig(opts.workers)

	started := time.Now()
	csvOpts := dataset.DefaultCSVOptions()
	csvOpts.MaxSamples = opts.samples
	csvOpts.HasHeader = opts.header
	csvOpts.Parallel = pcfg

	data, err := dataset.Load(dataPath, true, csvOpts)
	if err != nil {
		return err
	}
	logger.Printf("loaded %d examples from %s in %s", data.Len(), dataPath, time.Since(started).Round(time.Millisecond))

	train, validation := data, (*dataset.Dataset)(nil)
	if opts.validate > 0 {
		train, validation = data.Split(opts.validate)
		logger.Printf("holding out %d examples for validation", validation.Len())
	}

	net, err := nn.New(inputNodes, opts.hidden, outputNodes, opts.lr, rand.New(rand.NewPCG(opts.seed, 0)))
	if err != nil {
		return err
	}
	logger.Printf("training %s for %d epochs (seed %d)", net, opts.epochs, opts.seed)

	cfg := trainer.Config{
		Epochs:     opts.epochs,
		Shuffle:    opts.shuffle,
		Seed:       opts.seed,
		Validation: validation,
		Parallel:   pcfg,
		OnEpoch: func(s trainer.EpochStats) {
			logger.Print(s)
		},
	}
	stats, err := trainer.Fit(ctx, net, train, cfg)
	if err != nil {
		return fmt.Errorf("training stopped after %d epochs: %w", len(stats), err)
	}

	ckpt := &nn.Checkpoint{
		Network: net,
		Metadata: map[string]string{
			"dataset":  dataPath,
			"examples": strconv.Itoa(train.Len()),
			"epochs":   strconv.Itoa(opts.epochs),
			"seed":     strconv.FormatUint(opts.seed, 10),
		},
	}
	var accuracy *float64
	if n := len(stats); n > 0 && stats[n-1].Validation != nil {
		acc := stats[n-1].Validation.Accuracy()
		accuracy = &acc
		ckpt.Metadata["validation_accuracy"] = strconv.FormatFloat(acc, 'f', 2, 64)
	}
	if err := ckpt.Save(weightsPath); err != nil {
		return fmt.Errorf("failed to save weights: %w", err)
	}
	logger.Printf("saved weights %s to %s", ckpt.ID, weightsPath)

	if opts.history == "" {
		return nil
	}
	return recordRun(ctx, opts.history, &history.Run{
		ModelID:      ckpt.ID,
		Mode:         history.ModeTrain,
		Dataset:      dataPath,
		Examples:     train.Len(),
		Epochs:       opts.epochs,
		HiddenNodes:  net.HiddenSize(),
		LearningRate: net.LearningRate(),
		Accuracy:     accuracy,
		Duration:     time.Since(started),
		StartedAt:    started,
	})
}

// workerConfig maps the -workers flag to a parallel.Config.
func workerConfig(workers int) parallel.Config {
	if workers == 0 {
		return parallel.DefaultConfig()
	}
	return parallel.DefaultConfig().WithWorkers(workers)
}

func recordRun(ctx context.Context, path string, run *history.Run) error {
	store, err := history.Open(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Record(ctx, run)
}
