package models

import (
	"math"
	"testing"
)

func TestLookupKnownModels(t *testing.T) {
	cases := []struct {
		id       ID
		nParams  int
		wantName string
	}{
		{Gauss1D, 4, "GAUSS_1D"},
		{Gauss2D, 5, "GAUSS_2D"},
		{Gauss2DElliptic, 6, "GAUSS_2D_ELLIPTIC"},
		{Gauss2DRotated, 7, "GAUSS_2D_ROTATED"},
		{Cauchy2DElliptic, 6, "CAUCHY_2D_ELLIPTIC"},
		{Linear1D, 2, "LINEAR_1D"},
	}
	for _, c := range cases {
		ev, err := Lookup(c.id)
		if err != nil {
			t.Fatalf("Lookup(%v): %v", c.id, err)
		}
		if got := ev.ParameterCount(); got != c.nParams {
			t.Errorf("%s: ParameterCount() = %d, want %d", c.id, got, c.nParams)
		}
		if got := c.id.String(); got != c.wantName {
			t.Errorf("String() = %q, want %q", got, c.wantName)
		}
	}
}

func TestLookupUnknownModel(t *testing.T) {
	if _, err := Lookup(ID(999)); err == nil {
		t.Fatal("expected error for unknown model id")
	}
}

func TestLinear1DExactFit(t *testing.T) {
	// y = 1 + 1*x over x = [0,1,2,3,4].
	x := []float32{0, 1, 2, 3, 4}
	ev, _ := Lookup(Linear1D)
	nPoints := len(x)
	ctx := &EvalContext{
		Parameters:     []float32{1, 1},
		NFits:          1,
		NPoints:        nPoints,
		NParameters:    2,
		ValuesOut:      make([]float32, nPoints),
		DerivativesOut: make([]float32, 2*nPoints),
		UserInfo:       EncodeFloat32Grid(x),
		Finished:       []bool{false},
	}
	if err := ev.Evaluate(ctx); err != nil {
		t.Fatal(err)
	}
	want := []float32{1, 2, 3, 4, 5}
	for i := range want {
		if ctx.ValuesOut[i] != want[i] {
			t.Errorf("values[%d] = %v, want %v", i, ctx.ValuesOut[i], want[i])
		}
	}
	for i := 0; i < nPoints; i++ {
		if ctx.DerivativesOut[0*nPoints+i] != 1 {
			t.Errorf("d/dp0[%d] = %v, want 1", i, ctx.DerivativesOut[i])
		}
		if ctx.DerivativesOut[1*nPoints+i] != x[i] {
			t.Errorf("d/dp1[%d] = %v, want %v", i, ctx.DerivativesOut[nPoints+i], x[i])
		}
	}
}

func TestGauss1DPeakValue(t *testing.T) {
	x := []float32{5}
	ev, _ := Lookup(Gauss1D)
	ctx := &EvalContext{
		Parameters:     []float32{2, 5, 1, 0.5}, // a, c, s, o; evaluated at x=c
		NFits:          1,
		NPoints:        1,
		NParameters:    4,
		ValuesOut:      make([]float32, 1),
		DerivativesOut: make([]float32, 4),
		UserInfo:       EncodeFloat32Grid(x),
		Finished:       []bool{false},
	}
	if err := ev.Evaluate(ctx); err != nil {
		t.Fatal(err)
	}
	// at the center, exp term is 1, so value = a + o.
	want := float32(2.5)
	if diff := math.Abs(float64(ctx.ValuesOut[0] - want)); diff > 1e-5 {
		t.Errorf("value at peak = %v, want %v", ctx.ValuesOut[0], want)
	}
}

func TestFinishedFitsSkipped(t *testing.T) {
	x := []float32{0, 1}
	ev, _ := Lookup(Linear1D)
	ctx := &EvalContext{
		Parameters:     []float32{10, 10, 1, 1},
		NFits:          2,
		NPoints:        2,
		NParameters:    2,
		ValuesOut:      make([]float32, 4),
		DerivativesOut: make([]float32, 8),
		UserInfo:       EncodeFloat32Grid(x),
		Finished:       []bool{true, false},
	}
	if err := ev.Evaluate(ctx); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if ctx.ValuesOut[i] != 0 {
			t.Errorf("finished fit 0 should be untouched, values[%d] = %v", i, ctx.ValuesOut[i])
		}
	}
	if ctx.ValuesOut[2] == 0 && ctx.ValuesOut[3] == 0 {
		t.Error("live fit 1 should have been evaluated")
	}
}
