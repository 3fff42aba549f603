package nn

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func newTestRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

// randomInput returns n values in [0.01, 1.00], the range the loaders produce.
func randomInput(rng *rand.Rand, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 0.01 + 0.99*rng.Float64()
	}
	return v
}

// referenceTrain applies one update with explicit loops over plain slices.
// wih is [hidden][input], who is [output][hidden].
func referenceTrain(wih, who [][]float64, lr float64, input, target []float64) {
	hidden := make([]float64, len(wih))
	for j := range wih {
		var sum float64
		for i, x := range input {
			sum += wih[j][i] * x
		}
		hidden[j] = Sigmoid(sum)
	}

	out := make([]float64, len(who))
	for k := range who {
		var sum float64
		for j, h := range hidden {
			sum += who[k][j] * h
		}
		out[k] = Sigmoid(sum)
	}

	outErr := make([]float64, len(out))
	for k := range out {
		outErr[k] = target[k] - out[k]
	}

	// Back-projected with the weights as they were before this step.
	hiddenErr := make([]float64, len(hidden))
	for j := range hidden {
		for k := range out {
			hiddenErr[j] += who[k][j] * outErr[k]
		}
	}

	for k := range who {
		g := outErr[k] * out[k] * (1 - out[k])
		for j := range who[k] {
			who[k][j] += lr * g * hidden[j]
		}
	}
	for j := range wih {
		g := hiddenErr[j] * hidden[j] * (1 - hidden[j])
		for i := range wih[j] {
			wih[j][i] += lr * g * input[i]
		}
	}
}

func toRows(m *mat.Dense) [][]float64 {
	r, c := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = make([]float64, c)
		for j := range rows[i] {
			rows[i][j] = m.At(i, j)
		}
	}
	return rows
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name                  string
		input, hidden, output int
		lr                    float64
	}{
		{"zero input", 0, 4, 2, 0.1},
		{"negative hidden", 2, -1, 2, 0.1},
		{"zero output", 2, 4, 0, 0.1},
		{"zero rate", 2, 4, 2, 0},
		{"negative rate", 2, 4, 2, -0.5},
		{"NaN rate", 2, 4, 2, math.NaN()},
		{"infinite rate", 2, 4, 2, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := New(tt.input, tt.hidden, tt.output, tt.lr, newTestRNG(1))
			assert.Nil(t, net)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	t.Run("nil rng", func(t *testing.T) {
		_, err := New(2, 4, 2, 0.1, nil)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestNew_Accessors(t *testing.T) {
	net, err := New(784, 800, 10, 0.1, newTestRNG(1))
	require.NoError(t, err)

	assert.Equal(t, 784, net.InputSize())
	assert.Equal(t, 800, net.HiddenSize())
	assert.Equal(t, 10, net.OutputSize())
	assert.Equal(t, 0.1, net.LearningRate())
	assert.Equal(t, "Network(784-800-10, lr=0.1)", net.String())

	state := net.StateDict()
	r, c := state[KeyInputHidden].Dims()
	assert.Equal(t, []int{800, 784}, []int{r, c})
	r, c = state[KeyHiddenOutput].Dims()
	assert.Equal(t, []int{10, 800}, []int{r, c})
}

func TestNew_SeededIsReproducible(t *testing.T) {
	a, err := New(5, 7, 3, 0.2, newTestRNG(42))
	require.NoError(t, err)
	b, err := New(5, 7, 3, 0.2, newTestRNG(42))
	require.NoError(t, err)
	c, err := New(5, 7, 3, 0.2, newTestRNG(43))
	require.NoError(t, err)

	sa, sb, sc := a.StateDict(), b.StateDict(), c.StateDict()
	assert.True(t, mat.Equal(sa[KeyInputHidden], sb[KeyInputHidden]))
	assert.True(t, mat.Equal(sa[KeyHiddenOutput], sb[KeyHiddenOutput]))
	assert.False(t, mat.Equal(sa[KeyInputHidden], sc[KeyInputHidden]))
}

// TestNew_InitScale checks that each matrix is drawn with std = size^-0.5 of
// the layer it feeds into.
func TestNew_InitScale(t *testing.T) {
	net, err := New(200, 400, 100, 0.1, newTestRNG(7))
	require.NoError(t, err)

	state := net.StateDict()
	wih := state[KeyInputHidden].RawMatrix().Data
	who := state[KeyHiddenOutput].RawMatrix().Data

	assert.InDelta(t, 0, stat.Mean(wih, nil), 0.005)
	assert.InDelta(t, 1/math.Sqrt(400), stat.StdDev(wih, nil), 0.05/math.Sqrt(400))

	assert.InDelta(t, 0, stat.Mean(who, nil), 0.005)
	assert.InDelta(t, 1/math.Sqrt(100), stat.StdDev(who, nil), 0.05/math.Sqrt(100))
}

func TestQuery_OutputInOpenUnitInterval(t *testing.T) {
	rng := newTestRNG(3)
	net, err := New(784, 100, 10, 0.1, rng)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		out, err := net.Query(randomInput(rng, 784))
		require.NoError(t, err)
		require.Len(t, out, 10)
		for _, v := range out {
			assert.Greater(t, v, 0.0)
			assert.Less(t, v, 1.0)
		}
	}
}

func TestQuery_DeterministicAndReadOnly(t *testing.T) {
	rng := newTestRNG(4)
	net, err := New(6, 5, 3, 0.1, rng)
	require.NoError(t, err)

	input := randomInput(rng, 6)
	saved := append([]float64(nil), input...)
	before := net.StateDict()

	first, err := net.Query(input)
	require.NoError(t, err)
	second, err := net.Query(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, saved, input, "Query must not modify its input")

	after := net.StateDict()
	assert.True(t, mat.Equal(before[KeyInputHidden], after[KeyInputHidden]))
	assert.True(t, mat.Equal(before[KeyHiddenOutput], after[KeyHiddenOutput]))

	// Returned slices are independent of each other.
	first[0] = -1
	assert.NotEqual(t, first[0], second[0])
}

func TestQuery_KnownWeights(t *testing.T) {
	net, err := newNetwork(2, 2, 1, 0.1)
	require.NoError(t, err)
	require.NoError(t, net.LoadStateDict(map[string]*mat.Dense{
		KeyInputHidden:  mat.NewDense(2, 2, []float64{0.5, -0.25, 0.1, 0.3}),
		KeyHiddenOutput: mat.NewDense(1, 2, []float64{0.7, -0.4}),
	}))

	out, err := net.Query([]float64{0.8, 0.2})
	require.NoError(t, err)

	h0 := Sigmoid(0.5*0.8 - 0.25*0.2)
	h1 := Sigmoid(0.1*0.8 + 0.3*0.2)
	want := Sigmoid(0.7*h0 - 0.4*h1)

	require.Len(t, out, 1)
	assert.InDelta(t, want, out[0], 1e-12)
}

func TestQuery_ShapeMismatch(t *testing.T) {
	net, err := New(3, 2, 2, 0.1, newTestRNG(1))
	require.NoError(t, err)

	out, err := net.Query([]float64{0.1, 0.2})
	assert.Nil(t, out)
	require.ErrorIs(t, err, ErrShapeMismatch)

	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, "Query", shapeErr.Op)
	assert.Equal(t, "input", shapeErr.Operand)
	assert.Equal(t, 3, shapeErr.Want)
	assert.Equal(t, 2, shapeErr.Got)
}

func TestTrain_MatchesReferenceUpdate(t *testing.T) {
	rng := newTestRNG(11)
	net, err := New(4, 3, 2, 0.3, rng)
	require.NoError(t, err)

	state := net.StateDict()
	wih := toRows(state[KeyInputHidden])
	who := toRows(state[KeyHiddenOutput])

	for i := 0; i < 5; i++ {
		input := randomInput(rng, 4)
		target := []float64{0.99, 0.1}
		if i%2 == 1 {
			target = []float64{0.1, 0.99}
		}

		require.NoError(t, net.Train(input, target))
		referenceTrain(wih, who, 0.3, input, target)
	}

	got := net.StateDict()
	for j, row := range wih {
		for i, w := range row {
			assert.InDelta(t, w, got[KeyInputHidden].At(j, i), 1e-12, "wih[%d][%d]", j, i)
		}
	}
	for k, row := range who {
		for j, w := range row {
			assert.InDelta(t, w, got[KeyHiddenOutput].At(k, j), 1e-12, "who[%d][%d]", k, j)
		}
	}
}

func TestTrain_ReducesErrorOnSameExample(t *testing.T) {
	rng := newTestRNG(5)
	net, err := New(8, 6, 2, 0.1, rng)
	require.NoError(t, err)

	input := randomInput(rng, 8)
	target := []float64{0.99, 0.1}

	before, err := net.Query(input)
	require.NoError(t, err)
	require.NoError(t, net.Train(input, target))
	after, err := net.Query(input)
	require.NoError(t, err)

	assert.Less(t, floats.Distance(target, after, 2), floats.Distance(target, before, 2))
}

func TestTrain_RepeatedExampleSeparatesOutputs(t *testing.T) {
	net, err := New(2, 4, 2, 0.3, newTestRNG(2024))
	require.NoError(t, err)

	input := []float64{0.9, 0.1}
	target := []float64{0.99, 0.1}
	for i := 0; i < 200; i++ {
		require.NoError(t, net.Train(input, target))
	}

	out, err := net.Query(input)
	require.NoError(t, err)
	assert.Greater(t, out[0], out[1])

	digit, err := net.Predict(input)
	require.NoError(t, err)
	assert.Equal(t, 0, digit)
}

func TestTrain_ShapeMismatchLeavesWeights(t *testing.T) {
	tests := []struct {
		name    string
		input   []float64
		target  []float64
		operand string
	}{
		{"short input", []float64{0.5}, []float64{0.99, 0.1}, "input"},
		{"long input", []float64{0.5, 0.5, 0.5}, []float64{0.99, 0.1}, "input"},
		{"short target", []float64{0.5, 0.5}, []float64{0.99}, "target"},
		{"nil target", []float64{0.5, 0.5}, nil, "target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := New(2, 3, 2, 0.5, newTestRNG(9))
			require.NoError(t, err)
			before := net.StateDict()

			err = net.Train(tt.input, tt.target)
			require.ErrorIs(t, err, ErrShapeMismatch)

			var shapeErr *ShapeError
			require.ErrorAs(t, err, &shapeErr)
			assert.Equal(t, tt.operand, shapeErr.Operand)

			after := net.StateDict()
			assert.True(t, mat.Equal(before[KeyInputHidden], after[KeyInputHidden]))
			assert.True(t, mat.Equal(before[KeyHiddenOutput], after[KeyHiddenOutput]))
		})
	}
}

func TestStep_ReturnsPreUpdateError(t *testing.T) {
	rng := newTestRNG(6)
	net, err := New(5, 4, 3, 0.2, rng)
	require.NoError(t, err)

	input := randomInput(rng, 5)
	target := []float64{0.1, 0.99, 0.1}

	out, err := net.Query(input)
	require.NoError(t, err)

	var want float64
	for k := range out {
		d := target[k] - out[k]
		want += 0.5 * d * d
	}

	loss, err := net.Step(input, target)
	require.NoError(t, err)
	assert.InDelta(t, want, loss, 1e-12)
}
