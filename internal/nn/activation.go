package nn

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Sigmoid computes σ(x) = 1 / (1 + exp(-x)).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// sigmoidVec applies Sigmoid to every element of v in place.
func sigmoidVec(v *mat.VecDense) {
	data := v.RawVector().Data
	for i, x := range data {
		data[i] = Sigmoid(x)
	}
}

// localGradient returns err ⊙ act ⊙ (1 - act), the error scaled by the
// sigmoid derivative expressed through the activation itself.
func localGradient(err, act *mat.VecDense) *mat.VecDense {
	e := err.RawVector().Data
	a := act.RawVector().Data

	grad := make([]float64, len(a))
	for i := range grad {
		grad[i] = e[i] * a[i] * (1 - a[i])
	}
	return mat.NewVecDense(len(grad), grad)
}

// Argmax returns the index of the largest value in v.
// When several entries share the maximum, the lowest index wins.
// Panics if v is empty.
func Argmax(v []float64) int {
	return floats.MaxIdx(v)
}
