package linalg

import "testing"

func TestSolveBatchIdentity(t *testing.T) {
	n := 2
	h := []float64{1, 0, 0, 1}
	g := []float64{3, 4}
	delta := make([]float64, 2)
	singular := make([]bool, 1)
	SolveBatch(1, n, h, g, delta, singular, []bool{false})
	if singular[0] {
		t.Fatal("unexpected singular flag")
	}
	if delta[0] != 3 || delta[1] != 4 {
		t.Errorf("delta = %v, want [3 4]", delta)
	}
}

func TestSolveBatchGeneral(t *testing.T) {
	// [[2,1],[1,3]] * x = [3,5] -> x = [4/5, 7/5]
	h := []float64{2, 1, 1, 3}
	g := []float64{3, 5}
	delta := make([]float64, 2)
	singular := make([]bool, 1)
	SolveBatch(1, 2, h, g, delta, singular, []bool{false})
	if singular[0] {
		t.Fatal("unexpected singular flag")
	}
	wantX, wantY := 4.0/5.0, 7.0/5.0
	if abs(delta[0]-wantX) > 1e-9 || abs(delta[1]-wantY) > 1e-9 {
		t.Errorf("delta = %v, want [%v %v]", delta, wantX, wantY)
	}
}

func TestSolveBatchDetectsSingular(t *testing.T) {
	// constant-x linear fit produces a rank-deficient Hessian.
	h := []float64{0, 0, 0, 0}
	g := []float64{1, 1}
	delta := make([]float64, 2)
	singular := make([]bool, 1)
	SolveBatch(1, 2, h, g, delta, singular, []bool{false})
	if !singular[0] {
		t.Fatal("expected singular flag for zero matrix")
	}
}

func TestSolveBatchSkipsFlaggedFits(t *testing.T) {
	h := []float64{1, 0, 0, 1, 5, 5, 5, 5}
	g := []float64{1, 1, 9, 9}
	delta := []float64{-1, -1, -1, -1}
	singular := make([]bool, 2)
	SolveBatch(2, 2, h, g, delta, singular, []bool{false, true})
	if delta[0] != 1 || delta[1] != 1 {
		t.Errorf("live fit 0 not solved: %v", delta[:2])
	}
	if delta[2] != -1 || delta[3] != -1 {
		t.Errorf("skipped fit 1 should be untouched: %v", delta[2:])
	}
}

func TestSolveBatchIndependence(t *testing.T) {
	// Fit 1 being singular must not affect fit 0's solution.
	h := []float64{1, 0, 0, 1, 0, 0, 0, 0}
	g := []float64{2, 3, 1, 1}
	delta := make([]float64, 4)
	singular := make([]bool, 2)
	SolveBatch(2, 2, h, g, delta, singular, []bool{false, false})
	if singular[0] {
		t.Fatal("fit 0 incorrectly flagged singular")
	}
	if delta[0] != 2 || delta[1] != 3 {
		t.Errorf("fit 0 delta = %v, want [2 3]", delta[:2])
	}
	if !singular[1] {
		t.Fatal("fit 1 should be flagged singular")
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
