// Package main provides the perceptron CLI: train a digit classifier on
// MNIST-style data, score it, and list past runs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
)

const version = "v0.1.0"

// MNIST network geometry.
const (
	inputNodes  = 784
	outputNodes = 10
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.SetPrefix("perceptron: ")

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		stop()
		os.Exit(2)
	default:
		log.Fatalf("%v", err)
	}
}

// run executes one subcommand. Results go to stdout; progress and
// diagnostics go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	logger := log.New(stderr, "perceptron: ", log.LstdFlags)

	if len(args) == 0 {
		usage(stderr)
		return errUsage
	}

	switch args[0] {
	case "train":
		return runTrain(ctx, args[1:], logger, stderr)
	case "test":
		return runTest(ctx, args[1:], stdout, logger, stderr)
	case "history":
		return runHistory(ctx, args[1:], stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "perceptron %s\n", version)
		return nil
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return errUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  perceptron train [flags] <dataset> <weights>")
	fmt.Fprintln(w, "  perceptron test [flags] <dataset> <weights>")
	fmt.Fprintln(w, "  perceptron history [flags]")
	fmt.Fprintln(w, "  perceptron version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "<dataset> is a CSV file (label first, then 784 pixels per row)")
	fmt.Fprintln(w, "or a directory holding the MNIST IDX files.")
	fmt.Fprintln(w, "Run 'perceptron <command> -h' for command flags.")
}

// parseCommand parses flags and requires exactly want positional arguments.
func parseCommand(fs *flag.FlagSet, args []string, want int, positional string) ([]string, error) {
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: perceptron %s [flags] %s\n\nFlags:\n", fs.Name(), positional)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, errUsage
	}
	if fs.NArg() != want {
		fmt.Fprintf(fs.Output(), "expected %d arguments, got %d\n\n", want, fs.NArg())
		fs.Usage()
		return nil, errUsage
	}
	return fs.Args(), nil
}
