package nn

import (
	"fmt"
	"time"

	"github.com/born-ml/perceptron/internal/serialization"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

// Checkpoint pairs a network with the identity of its weight file.
//
// Example:
//
//	ckpt := &nn.Checkpoint{
//	    Network:  net,
//	    Metadata: map[string]string{"epochs": "5", "dataset": "mnist_train.csv"},
//	}
//	if err := ckpt.Save("weights.json"); err != nil {
//	    return err
//	}
//	fmt.Println("saved model", ckpt.ID)
//
// To evaluate later:
//
//	ckpt, err := nn.LoadCheckpoint("weights.json")
//	digit, err := ckpt.Network.Predict(pixels)
type Checkpoint struct {
	Network   *Network          // The trained network
	ID        string            // Model UUID, assigned on first save
	CreatedAt time.Time         // When the weights were written
	Metadata  map[string]string // Free-form training metadata
}

// Save writes the checkpoint to path (JSON, or YAML for .yaml/.yml).
// A missing ID or CreatedAt is assigned before writing.
func (c *Checkpoint) Save(path string) error {
	if c.Network == nil {
		return fmt.Errorf("checkpoint has no network")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	doc := c.Network.Document()
	doc.ID = c.ID
	doc.CreatedAt = c.CreatedAt
	doc.Metadata = c.Metadata

	if err := serialization.WriteFile(path, doc); err != nil {
		return fmt.Errorf("failed to save network: %w", err)
	}
	return nil
}

// LoadCheckpoint reads a weight file with strict validation.
// No network is returned if any check fails.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	doc, err := serialization.ReadFile(path, serialization.ValidationStrict)
	if err != nil {
		return nil, fmt.Errorf("failed to load network: %w", err)
	}

	net, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to load network: %w", err)
	}

	return &Checkpoint{
		Network:   net,
		ID:        doc.ID,
		CreatedAt: doc.CreatedAt,
		Metadata:  doc.Metadata,
	}, nil
}

// Save is a convenience wrapper around Checkpoint.Save.
func Save(net *Network, path string, metadata map[string]string) error {
	ckpt := &Checkpoint{Network: net, Metadata: metadata}
	return ckpt.Save(path)
}

// Load is a convenience wrapper around LoadCheckpoint returning only the network.
func Load(path string) (*Network, error) {
	ckpt, err := LoadCheckpoint(path)
	if err != nil {
		return nil, err
	}
	return ckpt.Network, nil
}

// Document converts the network to a serialization document.
// Identity fields (ID, CreatedAt, Checksum) are left empty.
func (n *Network) Document() *serialization.Document {
	return &serialization.Document{
		FormatVersion: serialization.FormatVersion,
		InputNodes:    n.inputSize,
		HiddenNodes:   n.hiddenSize,
		OutputNodes:   n.outputSize,
		TrainingRate:  n.learningRate,
		WIH:           serialization.FromDense(n.wih),
		WHO:           serialization.FromDense(n.who),
	}
}

// FromDocument rebuilds a network from a decoded document.
// Matrix dimensions must agree with the declared layer sizes.
func FromDocument(doc *serialization.Document) (*Network, error) {
	n, err := newNetwork(doc.InputNodes, doc.HiddenNodes, doc.OutputNodes, doc.TrainingRate)
	if err != nil {
		return nil, err
	}

	wih, err := doc.WIH.Dense()
	if err != nil {
		return nil, fmt.Errorf("wih: %w", err)
	}
	who, err := doc.WHO.Dense()
	if err != nil {
		return nil, fmt.Errorf("who: %w", err)
	}

	if err := n.LoadStateDict(map[string]*mat.Dense{
		KeyInputHidden:  wih,
		KeyHiddenOutput: who,
	}); err != nil {
		return nil, err
	}
	return n, nil
}
