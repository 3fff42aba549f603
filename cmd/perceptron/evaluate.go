package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/born-ml/perceptron/internal/dataset"
	"github.com/born-ml/perceptron/internal/history"
	"github.com/born-ml/perceptron/internal/nn"
	"github.com/born-ml/perceptron/internal/trainer"
)

func runTest(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger, stderr io.Writer) error {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(stderr)
	samples := fs.Int("samples", 0, "maximum examples to load (0 = all)")
	header := fs.Bool("header", false, "CSV has a header row")
	workers := fs.Int("workers", 1, "workers for loading and scoring (0 = one per physical core)")
	historyPath := fs.String("history", "", "SQLite database to record the run in")

	pos, err := parseCommand(fs, args, 2, "<dataset> <weights>")
	if err != nil {
		return err
	}
	dataPath, weightsPath := pos[0], pos[1]

	started := time.Now()
	ckpt, err := nn.LoadCheckpoint(weightsPath)
	if err != nil {
		return err
	}
	net := ckpt.Network
	logger.Printf("loaded %s from %s", net, weightsPath)

	pcfg := workerConfig(*workers)
	csvOpts := dataset.CSVOptions{
		NumFeatures: net.InputSize(),
		NumClasses:  net.OutputSize(),
		MaxSamples:  *samples,
		HasHeader:   *header,
		Parallel:    pcfg,
	}
	data, err := dataset.Load(dataPath, false, csvOpts)
	if err != nil {
		return err
	}
	logger.Printf("scoring %d examples from %s", data.Len(), dataPath)

	res, err := trainer.Evaluate(ctx, net, data, pcfg)
	if err != nil {
		return err
	}
	logger.Printf("%s correct in %s", res, time.Since(started).Round(time.Millisecond))
	fmt.Fprintln(stdout, res.Accuracy())

	if *historyPath == "" {
		return nil
	}
	acc := res.Accuracy()
	return recordRun(ctx, *historyPath, &history.Run{
		ModelID:      ckpt.ID,
		Mode:         history.ModeTest,
		Dataset:      dataPath,
		Examples:     res.Total,
		HiddenNodes:  net.HiddenSize(),
		LearningRate: net.LearningRate(),
		Accuracy:     &acc,
		Duration:     time.Since(started),
		StartedAt:    started,
	})
}
