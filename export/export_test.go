package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/tsawler/go-lmfit"
)

func TestWriteRoundTrip(t *testing.T) {
	result := &lmfit.Result{
		OutParameters:  []float32{1, 1},
		OutStates:      []int32{0},
		OutChiSquares:  []float64{0},
		OutNIterations: []int32{2},
	}
	doc := NewDocument("LINEAR_1D", "LSE", 1, result, time.Unix(0, 0).UTC())

	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got Document
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Model != "LINEAR_1D" || got.Estimator != "LSE" || got.NFits != 1 {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if len(got.OutParameters) != 2 || got.OutParameters[0] != 1 {
		t.Errorf("OutParameters = %v", got.OutParameters)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	result := &lmfit.Result{
		OutParameters:  []float32{2, 3},
		OutStates:      []int32{1},
		OutChiSquares:  []float64{4.5},
		OutNIterations: []int32{2},
	}
	doc := NewDocument("GAUSS_1D", "MLE", 1, result, time.Unix(100, 0).UTC())

	path := t.TempDir() + "/result.json"
	if err := Save(doc, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Model != "GAUSS_1D" || loaded.OutStates[0] != 1 {
		t.Errorf("loaded = %+v", loaded)
	}
}
