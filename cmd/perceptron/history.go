package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/born-ml/perceptron/internal/history"
)

func runHistory(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", "perceptron.db", "SQLite database written by -history")
	limit := fs.Int("limit", 20, "maximum runs to list (0 = all)")

	if _, err := parseCommand(fs, args, 0, ""); err != nil {
		return err
	}

	store, err := history.Open(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(ctx, *limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tMODE\tMODEL\tDATASET\tEXAMPLES\tEPOCHS\tHIDDEN\tLR\tACCURACY\tDURATION")
	for _, r := range runs {
		accuracy := "-"
		if r.Accuracy != nil {
			accuracy = fmt.Sprintf("%.2f%%", *r.Accuracy)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%g\t%s\t%s\n",
			r.StartedAt.Local().Format(time.DateTime), r.Mode, shortID(r.ModelID), r.Dataset,
			r.Examples, r.Epochs, r.HiddenNodes, r.LearningRate, accuracy, r.Duration.Round(time.Millisecond))
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
