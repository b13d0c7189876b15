// Package export serializes a batch fit result to JSON for interop and
// debugging outside the core module.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tsawler/go-lmfit"
)

// Document is the on-disk shape one Save call writes: the result plus
// enough request metadata to interpret it standalone.
type Document struct {
	GeneratedAt    time.Time `json:"generated_at"`
	Model          string    `json:"model"`
	Estimator      string    `json:"estimator"`
	NFits          int       `json:"n_fits"`
	OutParameters  []float32 `json:"out_parameters"`
	OutStates      []int32   `json:"out_states"`
	OutChiSquares  []float64 `json:"out_chi_squares"`
	OutNIterations []int32   `json:"out_n_iterations"`
}

// NewDocument builds a Document from a completed Result plus the model and
// estimator names of the call that produced it. generatedAt is passed in
// rather than taken from time.Now() so callers control reproducibility in
// tests.
func NewDocument(model, estimator string, nFits int, result *lmfit.Result, generatedAt time.Time) *Document {
	return &Document{
		GeneratedAt:    generatedAt,
		Model:          model,
		Estimator:      estimator,
		NFits:          nFits,
		OutParameters:  result.OutParameters,
		OutStates:      result.OutStates,
		OutChiSquares:  result.OutChiSquares,
		OutNIterations: result.OutNIterations,
	}
}

// Write encodes doc as pretty-printed JSON to w.
func Write(w io.Writer, doc *Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("export: failed to encode result: %v", err)
	}
	return nil
}

// Save writes doc to path, creating or truncating the file.
func Save(doc *Document, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: failed to create result file: %v", err)
	}
	defer file.Close()
	return Write(file, doc)
}

// Load reads a Document previously written by Save.
func Load(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("export: failed to open result file: %v", err)
	}
	defer file.Close()

	var doc Document
	if err := json.NewDecoder(file).Decode(&doc); err != nil {
		return nil, fmt.Errorf("export: failed to decode result file: %v", err)
	}
	return &doc, nil
}
