// Package serialization provides the text weight format used to save and load
// perceptron networks.
//
// A weight document is a single JSON (default) or YAML object:
//
//	Document Structure:
//	  format_version  int      (1; absent in files written by older tools)
//	  id              string   (UUID of the trained model)
//	  created_at      RFC 3339 timestamp
//	  input_nodes     int
//	  hidden_nodes    int
//	  output_nodes    int
//	  training_rate   float
//	  wih             matrix [hidden_nodes, input_nodes]
//	  who             matrix [output_nodes, hidden_nodes]
//	  checksum        hex SHA-256 over sizes, rate and both matrices
//	  metadata        map of strings
//
// Matrices are encoded as {"v": 1, "dim": [rows, cols], "data": [...]} with
// data stored row-major. Floats are written in shortest round-trip form, so a
// save → load cycle reproduces the weights exactly.
//
// Example usage:
//
//	// Save
//	doc := &serialization.Document{InputNodes: 784, ...}
//	if err := serialization.WriteFile("weights.json", doc); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load
//	doc, err := serialization.ReadFile("weights.json", serialization.ValidationStrict)
//	if err != nil {
//	    log.Fatal(err)
//	}
package serialization
