package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/perceptron/internal/parallel"
)

// CSVOptions configures CSV loading.
type CSVOptions struct {
	NumFeatures int             // Pixel values per row after the label.
	NumClasses  int             // Labels must lie in [0, NumClasses).
	MaxSamples  int             // Maximum rows to load (0 = all).
	HasHeader   bool            // Skip the first row.
	Parallel    parallel.Config // Row decoding parallelism.
}

// DefaultCSVOptions returns options for MNIST-shaped CSV files.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		NumFeatures: MNISTFeatures,
		NumClasses:  MNISTClasses,
		Parallel:    parallel.Sequential(),
	}
}

// LoadCSV loads a dataset from the CSV file at path.
//
// CSV format (label first, no header):
//
//	5,0,0,12,...,0
//	0,0,0,0,...,0
func LoadCSV(path string, opts CSVOptions) (*Dataset, error) {
	//nolint:gosec // G304: dataset path is user input by design
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	ds, err := ReadCSV(file, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return ds, nil
}

// ReadCSV reads a dataset from r.
//
// Rows are read sequentially and decoded with opts.Parallel. On failure the
// error names the 1-based line of the lowest offending row.
func ReadCSV(r io.Reader, opts CSVOptions) (*Dataset, error) {
	if opts.NumFeatures <= 0 || opts.NumClasses <= 0 {
		return nil, fmt.Errorf("invalid CSV options: %d features, %d classes", opts.NumFeatures, opts.NumClasses)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if opts.HasHeader {
		if _, err := reader.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrEmpty
			}
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
	}

	var (
		records [][]string
		lines   []int
	)
	for opts.MaxSamples <= 0 || len(records) < opts.MaxSamples {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	examples := make([]Example, len(records))
	err := parallel.ForErr(len(records), func(i int) error {
		ex, err := parseRecord(records[i], opts)
		if err != nil {
			return fmt.Errorf("line %d: %w", lines[i], err)
		}
		examples[i] = ex
		records[i] = nil
		return nil
	}, opts.Parallel)
	if err != nil {
		return nil, err
	}

	return &Dataset{
		Examples:    examples,
		NumFeatures: opts.NumFeatures,
		NumClasses:  opts.NumClasses,
	}, nil
}

func parseRecord(record []string, opts CSVOptions) (Example, error) {
	if len(record) != opts.NumFeatures+1 {
		return Example{}, fmt.Errorf("%w: got %d fields, want %d", ErrMalformedRecord, len(record), opts.NumFeatures+1)
	}

	label, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return Example{}, fmt.Errorf("%w: invalid label: %w", ErrMalformedRecord, err)
	}
	if label < 0 || label >= opts.NumClasses {
		return Example{}, fmt.Errorf("%w: %d not in [0, %d)", ErrLabelOutOfRange, label, opts.NumClasses)
	}

	features := make([]float64, opts.NumFeatures)
	for j, field := range record[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return Example{}, fmt.Errorf("%w: invalid pixel in column %d: %w", ErrMalformedRecord, j+2, err)
		}
		if math.IsNaN(v) || v < 0 || v > MaxPixel {
			return Example{}, fmt.Errorf("%w: column %d: %v not in [0, %d]", ErrPixelOutOfRange, j+2, v, MaxPixel)
		}
		features[j] = Normalize(v)
	}

	return Example{Features: features, Label: label}, nil
}
