// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/perceptron/internal/nn"
)

// Network is a fully connected sigmoid network with one hidden layer.
type Network = nn.Network

// ShapeError reports an input, target or weight matrix of the wrong size.
type ShapeError = nn.ShapeError

// Checkpoint is a saved network with its identity and metadata.
type Checkpoint = nn.Checkpoint

// Errors.
var (
	ErrInvalidConfig  = nn.ErrInvalidConfig
	ErrShapeMismatch  = nn.ErrShapeMismatch
	ErrMissingWeights = nn.ErrMissingWeights
)

// State dict keys.
const (
	KeyInputHidden  = nn.KeyInputHidden
	KeyHiddenOutput = nn.KeyHiddenOutput
)

// New creates a network with Gaussian initial weights drawn from rng.
//
// Example:
//
//	rng := rand.New(rand.NewPCG(1, 2))
//	net, err := nn.New(784, 200, 10, 0.1, rng)
func New(inputSize, hiddenSize, outputSize int, learningRate float64, rng *rand.Rand) (*Network, error) {
	return nn.New(inputSize, hiddenSize, outputSize, learningRate, rng)
}

// Save writes net to path as JSON, or YAML for .yaml/.yml paths.
func Save(net *Network, path string, metadata map[string]string) error {
	return nn.Save(net, path, metadata)
}

// Load reads a network saved with Save.
func Load(path string) (*Network, error) {
	return nn.Load(path)
}

// LoadCheckpoint reads a saved network together with its id and metadata.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	return nn.LoadCheckpoint(path)
}

// Sigmoid returns 1 / (1 + e^-x).
func Sigmoid(x float64) float64 {
	return nn.Sigmoid(x)
}

// Argmax returns the index of the largest value, the lowest index on ties.
func Argmax(v []float64) int {
	return nn.Argmax(v)
}
