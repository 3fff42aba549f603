package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// State dict keys.
const (
	KeyInputHidden  = "wih"
	KeyHiddenOutput = "who"
)

// StateDict returns deep copies of the weight matrices keyed by
// KeyInputHidden and KeyHiddenOutput.
func (n *Network) StateDict() map[string]*mat.Dense {
	return map[string]*mat.Dense{
		KeyInputHidden:  mat.DenseCopyOf(n.wih),
		KeyHiddenOutput: mat.DenseCopyOf(n.who),
	}
}

// LoadStateDict copies weights from a state dictionary into the network.
//
// Both matrices must be present and match the network's shapes; otherwise
// the network is left unchanged.
func (n *Network) LoadStateDict(stateDict map[string]*mat.Dense) error {
	wih, err := lookupWeights(stateDict, KeyInputHidden, n.hiddenSize, n.inputSize)
	if err != nil {
		return err
	}
	who, err := lookupWeights(stateDict, KeyHiddenOutput, n.outputSize, n.hiddenSize)
	if err != nil {
		return err
	}

	n.wih.Copy(wih)
	n.who.Copy(who)
	return nil
}

func lookupWeights(stateDict map[string]*mat.Dense, key string, rows, cols int) (*mat.Dense, error) {
	m, ok := stateDict[key]
	if !ok || m == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingWeights, key)
	}
	if r, c := m.Dims(); r != rows || c != cols {
		return nil, &ShapeError{
			Op:      "LoadStateDict",
			Operand: key,
			Want:    [2]int{rows, cols},
			Got:     [2]int{r, c},
		}
	}
	return m, nil
}
