package dataset

import (
	"math/rand/v2"
)

// MNIST geometry.
const (
	MNISTFeatures = 784 // 28×28 pixels
	MNISTClasses  = 10  // digits 0-9
)

// Target values for the correct class and every other class.
const (
	OnValue  = 0.99
	OffValue = 0.1
)

// MaxPixel is the largest raw pixel value.
const MaxPixel = 255

// Example is one labelled input vector.
type Example struct {
	Features []float64 // Normalized to [0.01, 1.00]
	Label    int       // In [0, NumClasses)
}

// Dataset is an ordered collection of examples of equal width.
type Dataset struct {
	Examples    []Example
	NumFeatures int
	NumClasses  int
}

// Len returns the number of examples.
func (d *Dataset) Len() int {
	return len(d.Examples)
}

// Shuffle permutes the examples in place.
func (d *Dataset) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.Examples), func(i, j int) {
		d.Examples[i], d.Examples[j] = d.Examples[j], d.Examples[i]
	})
}

// Limit returns a view of the first n examples. n <= 0 keeps all of them.
func (d *Dataset) Limit(n int) *Dataset {
	if n <= 0 || n >= len(d.Examples) {
		return d
	}
	out := *d
	out.Examples = d.Examples[:n]
	return &out
}

// Split splits the dataset into train and validation views.
// validationRatio is the fraction held out from the end, e.g. 0.2 for 20%.
// The views share the underlying examples.
func (d *Dataset) Split(validationRatio float64) (train, validation *Dataset) {
	n := len(d.Examples)
	splitIdx := n - int(float64(n)*validationRatio)
	splitIdx = min(max(splitIdx, 0), n)

	train, validation = &Dataset{}, &Dataset{}
	*train, *validation = *d, *d
	train.Examples = d.Examples[:splitIdx:splitIdx]
	validation.Examples = d.Examples[splitIdx:]
	return train, validation
}

// Normalize maps a raw pixel value in [0, 255] into [0.01, 1.00].
func Normalize(pixel float64) float64 {
	return pixel/MaxPixel*0.99 + 0.01
}

// Target returns the training target for label: OnValue at the label's
// index and OffValue everywhere else. label must lie in [0, numClasses).
func Target(label, numClasses int) []float64 {
	t := make([]float64, numClasses)
	for i := range t {
		t[i] = OffValue
	}
	t[label] = OnValue
	return t
}
