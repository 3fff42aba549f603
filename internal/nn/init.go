package nn

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// fillNormal overwrites m with draws from N(0, std²), row by row.
func fillNormal(m *mat.Dense, std float64, rng *rand.Rand) {
	raw := m.RawMatrix()
	for r := 0; r < raw.Rows; r++ {
		row := raw.Data[r*raw.Stride : r*raw.Stride+raw.Cols]
		for c := range row {
			row[c] = rng.NormFloat64() * std
		}
	}
}
