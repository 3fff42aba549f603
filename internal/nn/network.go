package nn

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Network is a fully connected perceptron with one hidden layer and sigmoid
// activations on both the hidden and output layers.
//
// Weights are stored as two dense matrices:
//   - wih: [hidden, input], input → hidden
//   - who: [output, hidden], hidden → output
//
// Entry (i, j) scales the contribution of source node j to destination node i.
// There are no bias terms.
//
// A Network is not safe for concurrent use while Train is running. Query and
// Predict only read the weights and may be called concurrently with each other.
//
// Example:
//
//	rng := rand.New(rand.NewPCG(42, 0))
//	net, err := nn.New(784, 800, 10, 0.1, rng)
//	if err != nil {
//	    return err
//	}
//	if err := net.Train(pixels, dataset.Target(label, 10)); err != nil {
//	    return err
//	}
//	digit, err := net.Predict(pixels)
type Network struct {
	inputSize    int
	hiddenSize   int
	outputSize   int
	learningRate float64

	wih *mat.Dense // [hidden, input]
	who *mat.Dense // [output, hidden]
}

// New creates a Network with Gaussian-initialized weights.
//
// Each weight matrix is drawn from N(0, size^-0.5), where size is the node
// count of the layer the matrix feeds into: hiddenSize for wih and outputSize
// for who. wih is filled first (row-major), then who, so a seeded rng yields
// reproducible weights.
//
// Parameters:
//   - inputSize, hiddenSize, outputSize: Layer widths (must be positive)
//   - learningRate: Scale of every weight update (must be positive and finite)
//   - rng: Random source for initialization (must not be nil)
//
// Returns ErrInvalidConfig if any argument is out of range.
func New(inputSize, hiddenSize, outputSize int, learningRate float64, rng *rand.Rand) (*Network, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	}

	n, err := newNetwork(inputSize, hiddenSize, outputSize, learningRate)
	if err != nil {
		return nil, err
	}

	fillNormal(n.wih, math.Pow(float64(hiddenSize), -0.5), rng)
	fillNormal(n.who, math.Pow(float64(outputSize), -0.5), rng)

	return n, nil
}

// newNetwork validates the configuration and allocates zeroed weights.
func newNetwork(inputSize, hiddenSize, outputSize int, learningRate float64) (*Network, error) {
	if inputSize <= 0 || hiddenSize <= 0 || outputSize <= 0 {
		return nil, fmt.Errorf("%w: layer sizes must be positive, got %d-%d-%d",
			ErrInvalidConfig, inputSize, hiddenSize, outputSize)
	}
	if !(learningRate > 0) || math.IsInf(learningRate, 0) {
		return nil, fmt.Errorf("%w: learning rate must be positive and finite, got %v",
			ErrInvalidConfig, learningRate)
	}

	return &Network{
		inputSize:    inputSize,
		hiddenSize:   hiddenSize,
		outputSize:   outputSize,
		learningRate: learningRate,
		wih:          mat.NewDense(hiddenSize, inputSize, nil),
		who:          mat.NewDense(outputSize, hiddenSize, nil),
	}, nil
}

// Query runs the forward pass and returns the output layer activations.
//
// The input slice is read but never modified. Every returned value lies in
// the open interval (0, 1).
//
// Returns a *ShapeError if len(input) != InputSize().
func (n *Network) Query(input []float64) ([]float64, error) {
	if err := n.checkLen("Query", "input", input, n.inputSize); err != nil {
		return nil, err
	}

	_, out := n.forward(mat.NewVecDense(n.inputSize, input))
	return out.RawVector().Data, nil
}

// Predict returns the index of the strongest output for input.
// Ties resolve to the lowest index.
func (n *Network) Predict(input []float64) (int, error) {
	out, err := n.Query(input)
	if err != nil {
		return 0, err
	}
	return Argmax(out), nil
}

// Train applies one backpropagation step for a single example.
//
// The hidden error is the raw output error projected back through the
// transposed output weights, taken before those weights are updated:
//
//	outErr    = target - out
//	hiddenErr = who^T · outErr
//	who      += lr · (outErr ⊙ out ⊙ (1-out)) · hidden^T
//	wih      += lr · (hiddenErr ⊙ hidden ⊙ (1-hidden)) · input^T
//
// Returns a *ShapeError, leaving the weights untouched, if input or target
// has the wrong length.
func (n *Network) Train(input, target []float64) error {
	_, err := n.Step(input, target)
	return err
}

// Step performs the same update as Train and returns the squared error
// 0.5·Σ(target-out)² measured on the forward pass that preceded the update.
func (n *Network) Step(input, target []float64) (float64, error) {
	if err := n.checkLen("Train", "input", input, n.inputSize); err != nil {
		return 0, err
	}
	if err := n.checkLen("Train", "target", target, n.outputSize); err != nil {
		return 0, err
	}

	x := mat.NewVecDense(n.inputSize, input)
	hidden, out := n.forward(x)

	outErr := mat.NewVecDense(n.outputSize, nil)
	outErr.SubVec(mat.NewVecDense(n.outputSize, target), out)

	hiddenErr := mat.NewVecDense(n.hiddenSize, nil)
	hiddenErr.MulVec(n.who.T(), outErr)

	n.who.RankOne(n.who, n.learningRate, localGradient(outErr, out), hidden)
	n.wih.RankOne(n.wih, n.learningRate, localGradient(hiddenErr, hidden), x)

	return 0.5 * mat.Dot(outErr, outErr), nil
}

// forward returns the hidden and output activations for x.
func (n *Network) forward(x mat.Vector) (hidden, out *mat.VecDense) {
	hidden = mat.NewVecDense(n.hiddenSize, nil)
	hidden.MulVec(n.wih, x)
	sigmoidVec(hidden)

	out = mat.NewVecDense(n.outputSize, nil)
	out.MulVec(n.who, hidden)
	sigmoidVec(out)

	return hidden, out
}

func (n *Network) checkLen(op, operand string, v []float64, want int) error {
	if len(v) != want {
		return &ShapeError{Op: op, Operand: operand, Want: want, Got: len(v)}
	}
	return nil
}

// InputSize returns the number of input nodes.
func (n *Network) InputSize() int {
	return n.inputSize
}

// HiddenSize returns the number of hidden nodes.
func (n *Network) HiddenSize() int {
	return n.hiddenSize
}

// OutputSize returns the number of output nodes.
func (n *Network) OutputSize() int {
	return n.outputSize
}

// LearningRate returns the learning rate fixed at construction.
func (n *Network) LearningRate() float64 {
	return n.learningRate
}

// String describes the layer layout, e.g. "Network(784-800-10, lr=0.1)".
func (n *Network) String() string {
	return fmt.Sprintf("Network(%d-%d-%d, lr=%g)", n.inputSize, n.hiddenSize, n.outputSize, n.learningRate)
}
