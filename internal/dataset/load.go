package dataset

import (
	"fmt"
	"os"
)

// Load loads a CSV file or, when path is a directory, the IDX training set
// (train=true) or test set stored in it. IDX datasets must match
// opts.NumFeatures.
func Load(path string, train bool, opts CSVOptions) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	if !info.IsDir() {
		return LoadCSV(path, opts)
	}

	ds, err := LoadIDX(path, train, opts.MaxSamples)
	if err != nil {
		return nil, err
	}
	if ds.NumFeatures != opts.NumFeatures {
		return nil, fmt.Errorf("%w: IDX images have %d pixels, want %d", ErrMalformedRecord, ds.NumFeatures, opts.NumFeatures)
	}
	return ds, nil
}
