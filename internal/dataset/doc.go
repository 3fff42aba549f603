// Package dataset loads labelled digit images for the perceptron.
//
// Two on-disk formats are supported:
//
//   - CSV, one example per row: the label followed by one value per pixel
//     (0-255). No header by default; see CSVOptions.HasHeader.
//   - IDX, the official MNIST binary format. A directory holds the
//     train-images-idx3-ubyte / train-labels-idx1-ubyte pair (or the t10k-
//     pair for the test set), optionally gzipped.
//
// Pixels are mapped into [0.01, 1.00] by Normalize so that no input is
// exactly zero, and labels become training targets through Target.
package dataset
