// Package trainer drives a network over a dataset: epochs of per-example
// updates, and accuracy evaluation.
package trainer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/born-ml/perceptron/internal/dataset"
	"github.com/born-ml/perceptron/internal/nn"
	"github.com/born-ml/perceptron/internal/parallel"
)

// Config holds training loop parameters.
type Config struct {
	Epochs     int              // Passes over the training data.
	Shuffle    bool             // Visit examples in a new random order each epoch.
	Seed       uint64           // Shuffle seed.
	Validation *dataset.Dataset // Scored after every epoch when non-nil.
	Parallel   parallel.Config  // Evaluation parallelism. Training is always sequential.

	// OnEpoch, if set, is called after every epoch.
	OnEpoch func(EpochStats)
}

// DefaultConfig returns the configuration of the reference MNIST run.
func DefaultConfig() Config {
	return Config{
		Epochs:   5,
		Parallel: parallel.Sequential(),
	}
}

// EpochStats summarizes one epoch.
type EpochStats struct {
	Epoch      int           // 1-based epoch number.
	Epochs     int           // Total epochs configured.
	Examples   int           // Examples trained on.
	MeanError  float64       // Mean of ½·Σ(target − output)² before each update.
	Duration   time.Duration // Wall time of the epoch, excluding validation.
	Validation *Result       // Validation score, nil without a validation set.
}

// String formats the stats as a progress line.
func (s EpochStats) String() string {
	line := fmt.Sprintf("epoch %d/%d: %d examples, mean error %.6f, %s",
		s.Epoch, s.Epochs, s.Examples, s.MeanError, s.Duration.Round(time.Millisecond))
	if s.Validation != nil {
		line += ", validation " + s.Validation.String()
	}
	return line
}

// Fit trains net on data for cfg.Epochs epochs and returns per-epoch stats.
//
// Each example is presented once per epoch through Network.Step with the
// target from dataset.Target. Fit stops between examples when ctx is
// cancelled and returns the stats of the completed epochs with ctx.Err().
// data is never reordered; shuffling permutes an index slice.
func Fit(ctx context.Context, net *nn.Network, data *dataset.Dataset, cfg Config) ([]EpochStats, error) {
	if cfg.Epochs < 0 {
		return nil, fmt.Errorf("%w: epochs must be >= 0, got %d", nn.ErrInvalidConfig, cfg.Epochs)
	}
	if err := checkCompatible(net, data); err != nil {
		return nil, err
	}
	if cfg.Validation != nil {
		if err := checkCompatible(net, cfg.Validation); err != nil {
			return nil, fmt.Errorf("validation set: %w", err)
		}
	}

	targets := make([][]float64, data.NumClasses)
	for c := range targets {
		targets[c] = dataset.Target(c, data.NumClasses)
	}

	order := make([]int, data.Len())
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	history := make([]EpochStats, 0, cfg.Epochs)
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		if cfg.Shuffle {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		start := time.Now()
		var total float64
		for _, idx := range order {
			if err := ctx.Err(); err != nil {
				return history, err
			}
			ex := data.Examples[idx]
			loss, err := net.Step(ex.Features, targets[ex.Label])
			if err != nil {
				return history, fmt.Errorf("epoch %d, example %d: %w", epoch, idx, err)
			}
			total += loss
		}

		stats := EpochStats{
			Epoch:    epoch,
			Epochs:   cfg.Epochs,
			Examples: len(order),
			Duration: time.Since(start),
		}
		if len(order) > 0 {
			stats.MeanError = total / float64(len(order))
		}

		if cfg.Validation != nil {
			res, err := Evaluate(ctx, net, cfg.Validation, cfg.Parallel)
			if err != nil {
				return history, err
			}
			stats.Validation = &res
		}

		history = append(history, stats)
		if cfg.OnEpoch != nil {
			cfg.OnEpoch(stats)
		}
	}

	return history, nil
}

// Result is the outcome of an evaluation.
type Result struct {
	Correct int
	Total   int
}

// Accuracy returns the percentage of correct predictions, 0 for an empty set.
func (r Result) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total) * 100
}

// String formats the result as "correct/total (accuracy%)".
func (r Result) String() string {
	return fmt.Sprintf("%d/%d (%.2f%%)", r.Correct, r.Total, r.Accuracy())
}

// Evaluate counts the examples of data whose label equals the argmax of
// the network's output. It only queries net, so examples are scored in
// parallel according to pcfg.
func Evaluate(ctx context.Context, net *nn.Network, data *dataset.Dataset, pcfg parallel.Config) (Result, error) {
	if err := checkCompatible(net, data); err != nil {
		return Result{}, err
	}

	var correct atomic.Int64
	err := parallel.ForErr(data.Len(), func(i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		ex := data.Examples[i]
		pred, err := net.Predict(ex.Features)
		if err != nil {
			return fmt.Errorf("example %d: %w", i, err)
		}
		if pred == ex.Label {
			correct.Add(1)
		}
		return nil
	}, pcfg)
	if err != nil {
		return Result{}, err
	}

	return Result{Correct: int(correct.Load()), Total: data.Len()}, nil
}

func checkCompatible(net *nn.Network, data *dataset.Dataset) error {
	if data.NumFeatures != net.InputSize() {
		return &nn.ShapeError{Op: "trainer", Operand: "features", Want: net.InputSize(), Got: data.NumFeatures}
	}
	if data.NumClasses != net.OutputSize() {
		return &nn.ShapeError{Op: "trainer", Operand: "classes", Want: net.OutputSize(), Got: data.NumClasses}
	}
	return nil
}
