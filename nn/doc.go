// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides a one-hidden-layer perceptron trained by
// backpropagation, one example at a time.
//
// # Overview
//
// A Network maps an input vector through a sigmoid hidden layer to a sigmoid
// output layer. There are no biases. Weights start as Gaussian noise with a
// standard deviation of size^-0.5, where size is the node count of the layer
// the weights feed into.
//
// # Basic Usage
//
//	import (
//	    "math/rand/v2"
//
//	    "github.com/born-ml/perceptron/nn"
//	)
//
//	func main() {
//	    rng := rand.New(rand.NewPCG(1, 2))
//	    net, err := nn.New(784, 800, 10, 0.1, rng)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // One backpropagation step
//	    err = net.Train(pixels, target)
//
//	    // Forward pass
//	    out, err := net.Query(pixels)
//	    digit := nn.Argmax(out)
//	}
//
// # Persistence
//
// Save and Load store the layer sizes, learning rate and both weight
// matrices as a JSON or YAML document:
//
//	err := nn.Save(net, "weights.json", map[string]string{"epochs": "5"})
//	net, err := nn.Load("weights.json")
//
// # Concurrency
//
// Query and Predict only read the weights and may run concurrently.
// Train and Step modify them and need exclusive access.
package nn
