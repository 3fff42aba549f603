package serialization

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// Format constants.
const (
	FormatVersion = 1 // Current document version
	MatrixVersion = 1 // Version tag carried by every encoded matrix
)

// Encoding selects the text representation of a document.
type Encoding int

// Supported encodings.
const (
	EncodingJSON Encoding = iota
	EncodingYAML
)

// String returns the encoding name.
func (e Encoding) String() string {
	switch e {
	case EncodingJSON:
		return "json"
	case EncodingYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// EncodingForPath picks YAML for .yaml/.yml files and JSON for everything else.
func EncodingForPath(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return EncodingYAML
	default:
		return EncodingJSON
	}
}

// Document is the persisted state of a network.
type Document struct {
	FormatVersion int               `json:"format_version" yaml:"format_version"`
	ID            string            `json:"id,omitempty" yaml:"id,omitempty"`
	CreatedAt     time.Time         `json:"created_at" yaml:"created_at"`
	InputNodes    int               `json:"input_nodes" yaml:"input_nodes"`
	HiddenNodes   int               `json:"hidden_nodes" yaml:"hidden_nodes"`
	OutputNodes   int               `json:"output_nodes" yaml:"output_nodes"`
	TrainingRate  float64           `json:"training_rate" yaml:"training_rate"`
	WIH           Matrix            `json:"wih" yaml:"wih"`
	WHO           Matrix            `json:"who" yaml:"who"`
	Checksum      string            `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Matrix is a dense row-major matrix.
type Matrix struct {
	V    int       `json:"v" yaml:"v"`
	Dim  []int     `json:"dim" yaml:"dim,flow"`
	Data []float64 `json:"data" yaml:"data,flow"`
}

// FromDense copies m into a Matrix.
func FromDense(m mat.Matrix) Matrix {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return Matrix{V: MatrixVersion, Dim: []int{r, c}, Data: data}
}

// Rows returns the declared row count, or 0 if dim is malformed.
func (m Matrix) Rows() int {
	if len(m.Dim) != 2 {
		return 0
	}
	return m.Dim[0]
}

// Cols returns the declared column count, or 0 if dim is malformed.
func (m Matrix) Cols() int {
	if len(m.Dim) != 2 {
		return 0
	}
	return m.Dim[1]
}

// Dense converts m to a gonum matrix, copying the data.
func (m Matrix) Dense() (*mat.Dense, error) {
	if len(m.Dim) != 2 || m.Dim[0] <= 0 || m.Dim[1] <= 0 {
		return nil, fmt.Errorf("%w: bad dim %v", ErrDimensionMismatch, m.Dim)
	}
	if len(m.Data) != m.Dim[0]*m.Dim[1] {
		return nil, fmt.Errorf("%w: dim %v needs %d values, got %d",
			ErrDimensionMismatch, m.Dim, m.Dim[0]*m.Dim[1], len(m.Data))
	}
	data := make([]float64, len(m.Data))
	copy(data, m.Data)
	return mat.NewDense(m.Dim[0], m.Dim[1], data), nil
}

// Marshal encodes doc in the given encoding.
func Marshal(doc *Document, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingJSON:
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return data, nil
	case EncodingYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown encoding %d", int(enc))
	}
}

// Unmarshal decodes a document. It does not validate; see ValidateDocument.
func Unmarshal(data []byte, enc Encoding) (*Document, error) {
	var doc Document
	switch enc {
	case EncodingJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case EncodingYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown encoding %d", int(enc))
	}
	return &doc, nil
}
