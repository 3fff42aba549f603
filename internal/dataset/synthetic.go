package dataset

import "math/rand/v2"

// Separable generates n examples of a linearly separable two-class problem.
// Class 0 features fall in [0.01, 0.40] and class 1 features in [0.60, 1.00];
// classes alternate so any prefix is balanced.
func Separable(n, numFeatures int, rng *rand.Rand) *Dataset {
	examples := make([]Example, n)
	for i := range examples {
		label := i % 2
		lo := 0.01
		if label == 1 {
			lo = 0.60
		}

		features := make([]float64, numFeatures)
		for j := range features {
			features[j] = lo + rng.Float64()*(0.40-0.01)
		}
		examples[i] = Example{Features: features, Label: label}
	}

	return &Dataset{
		Examples:    examples,
		NumFeatures: numFeatures,
		NumClasses:  2,
	}
}
