package lmfit_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/tsawler/go-lmfit"
	"github.com/tsawler/go-lmfit/device"
	"github.com/tsawler/go-lmfit/estimators"
	"github.com/tsawler/go-lmfit/models"
	"github.com/tsawler/go-lmfit/planner"
)

func TestFitTinyLinearFit(t *testing.T) {
	x := []float32{0, 1, 2, 3, 4}
	data := make([]float32, len(x))
	for i, xi := range x {
		data[i] = 1 + 2*xi
	}

	req := &lmfit.Request{
		NFits:             1,
		NPoints:           len(x),
		Data:              data,
		ModelID:           models.Linear1D,
		EstimatorID:       estimators.LSE,
		InitialParameters: []float32{0, 0},
		ParametersToFit:   []int{1, 1},
		Tolerance:         1e-6,
		MaxIterations:     20,
		UserInfo:          models.EncodeFloat32Grid(x),
	}

	result, err := lmfit.Fit(context.Background(), req)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if got := device.State(result.OutStates[0]); got != device.Converged {
		t.Fatalf("state = %v, want converged", got)
	}
	if math.Abs(float64(result.OutParameters[0])-1) > 1e-3 {
		t.Errorf("p0 = %v, want ~1", result.OutParameters[0])
	}
	if math.Abs(float64(result.OutParameters[1])-2) > 1e-3 {
		t.Errorf("p1 = %v, want ~2", result.OutParameters[1])
	}
	if result.OutNIterations[0] > 3 {
		t.Errorf("n_iterations = %d, want <= 3 for an exact linear fit", result.OutNIterations[0])
	}
}

// TestFitAllParametersFrozen exercises an all-zero ParametersToFit mask
// through the public Fit entry point: with nothing to solve for, every fit
// must finish after exactly one iteration in state CONVERGED, and its
// parameters must come back unchanged from the initial guess.
func TestFitAllParametersFrozen(t *testing.T) {
	x := []float32{0, 1, 2, 3, 4}
	data := make([]float32, len(x))
	for i, xi := range x {
		data[i] = 1 + 2*xi
	}

	req := &lmfit.Request{
		NFits:             1,
		NPoints:           len(x),
		Data:              data,
		ModelID:           models.Linear1D,
		EstimatorID:       estimators.LSE,
		InitialParameters: []float32{5, -3},
		ParametersToFit:   []int{0, 0},
		Tolerance:         1e-6,
		MaxIterations:     20,
		UserInfo:          models.EncodeFloat32Grid(x),
	}

	result, err := lmfit.Fit(context.Background(), req)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if got := device.State(result.OutStates[0]); got != device.Converged {
		t.Fatalf("state = %v, want converged", got)
	}
	if result.OutNIterations[0] != 1 {
		t.Errorf("n_iterations = %d, want exactly 1", result.OutNIterations[0])
	}
	if result.OutParameters[0] != 5 || result.OutParameters[1] != -3 {
		t.Errorf("parameters = %v, want unchanged [5 -3]", result.OutParameters)
	}
}

func TestFitGauss1DFixedCenterBatch(t *testing.T) {
	const nFits = 100
	const nPoints = 40
	x := make([]float32, nPoints)
	for i := range x {
		x[i] = float32(i) * 20 / float32(nPoints)
	}

	data := make([]float32, nFits*nPoints)
	weights := make([]float32, nFits*nPoints)
	initial := make([]float32, nFits*4)
	center := float32(10)

	rng := rand.New(rand.NewSource(1))
	for f := 0; f < nFits; f++ {
		amplitude := 2 + rng.Float64()*3
		sigma := 1 + rng.Float64()*2
		offset := rng.Float64()
		for pt := 0; pt < nPoints; pt++ {
			dx := float64(x[pt]) - float64(center)
			v := amplitude*math.Exp(-(dx*dx)/(2*sigma*sigma)) + offset
			data[f*nPoints+pt] = float32(v)
			weights[f*nPoints+pt] = 1
		}
		base := f * 4
		initial[base+0] = float32(amplitude * 1.1)
		initial[base+1] = center // center is frozen, start exact
		initial[base+2] = float32(sigma * 0.9)
		initial[base+3] = float32(offset + 0.05)
	}

	req := &lmfit.Request{
		NFits:             nFits,
		NPoints:           nPoints,
		Data:              data,
		Weights:           weights,
		ModelID:           models.Gauss1D,
		EstimatorID:       estimators.LSE,
		InitialParameters: initial,
		ParametersToFit:   []int{1, 0, 1, 1}, // center frozen
		Tolerance:         1e-6,
		MaxIterations:     50,
		UserInfo:          models.EncodeFloat32Grid(x),
	}

	result, err := lmfit.Fit(context.Background(), req)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	converged := 0
	for f := 0; f < nFits; f++ {
		if device.State(result.OutStates[f]) == device.Converged {
			converged++
		}
		// The frozen parameter must not move from its initial value.
		if got := result.OutParameters[f*4+1]; got != center {
			t.Errorf("fit %d: center moved to %v, want frozen at %v", f, got, center)
		}
	}
	if converged < nFits*9/10 {
		t.Errorf("converged = %d/%d, want at least 90%%", converged, nFits)
	}
}

func TestFitSingularHessian(t *testing.T) {
	// Every x is 0, so the slope derivative column is identically zero: the
	// Hessian is singular no matter what chi-square does.
	x := []float32{0, 0, 0, 0, 0}
	data := []float32{3, 3, 3, 3, 3}

	req := &lmfit.Request{
		NFits:             1,
		NPoints:           len(x),
		Data:              data,
		ModelID:           models.Linear1D,
		EstimatorID:       estimators.LSE,
		InitialParameters: []float32{0, 1},
		ParametersToFit:   []int{1, 1},
		Tolerance:         1e-6,
		MaxIterations:     20,
		UserInfo:          models.EncodeFloat32Grid(x),
	}

	result, err := lmfit.Fit(context.Background(), req)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if got := device.State(result.OutStates[0]); got != device.SingularHessian {
		t.Fatalf("state = %v, want singular_hessian", got)
	}
}

func TestFitMaxIterationCeiling(t *testing.T) {
	x := []float32{0, 1, 2, 3, 4}
	data := make([]float32, len(x))
	for i, xi := range x {
		data[i] = 1 + 2*xi
	}

	req := &lmfit.Request{
		NFits:             1,
		NPoints:           len(x),
		Data:              data,
		ModelID:           models.Linear1D,
		EstimatorID:       estimators.LSE,
		InitialParameters: []float32{500, -300}, // wild guess, won't converge in one step
		ParametersToFit:   []int{1, 1},
		Tolerance:         1e-12,
		MaxIterations:     1,
		UserInfo:          models.EncodeFloat32Grid(x),
	}

	result, err := lmfit.Fit(context.Background(), req)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if got := device.State(result.OutStates[0]); got != device.MaxIteration {
		t.Fatalf("state = %v, want max_iteration", got)
	}
	if result.OutNIterations[0] != 1 {
		t.Errorf("n_iterations = %d, want 1", result.OutNIterations[0])
	}
}

func TestFitMLEPoisson(t *testing.T) {
	const nFits = 50
	const nPoints = 30
	x := make([]float32, nPoints)
	for i := range x {
		x[i] = float32(i) * 20 / float32(nPoints)
	}

	data := make([]float32, nFits*nPoints)
	initial := make([]float32, nFits*4)
	center := float32(10)

	rng := rand.New(rand.NewSource(2))
	for f := 0; f < nFits; f++ {
		amplitude := 50 + rng.Float64()*50
		sigma := 2 + rng.Float64()
		offset := 2 + rng.Float64()*2
		for pt := 0; pt < nPoints; pt++ {
			dx := float64(x[pt]) - float64(center)
			lambda := amplitude*math.Exp(-(dx*dx)/(2*sigma*sigma)) + offset
			data[f*nPoints+pt] = float32(poissonSample(rng, lambda))
		}
		base := f * 4
		initial[base+0] = float32(amplitude * 1.1)
		initial[base+1] = center
		initial[base+2] = float32(sigma * 0.9)
		initial[base+3] = float32(offset * 1.1)
	}

	req := &lmfit.Request{
		NFits:             nFits,
		NPoints:           nPoints,
		Data:              data,
		ModelID:           models.Gauss1D,
		EstimatorID:       estimators.MLE,
		InitialParameters: initial,
		ParametersToFit:   []int{1, 0, 1, 1},
		Tolerance:         1e-6,
		MaxIterations:     75,
		UserInfo:          models.EncodeFloat32Grid(x),
	}

	result, err := lmfit.Fit(context.Background(), req)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for f := 0; f < nFits; f++ {
		state := device.State(result.OutStates[f])
		if state != device.Converged && state != device.MaxIteration {
			t.Errorf("fit %d: state = %v, want converged or max_iteration", f, state)
		}
	}
}

// poissonSample draws one sample from a Poisson distribution with mean
// lambda via Knuth's algorithm.
func poissonSample(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		k++
		p *= rng.Float64()
		if p <= l {
			return k - 1
		}
	}
}

// TestFitChunkBoundaryInvariance asserts that splitting the same batch into
// different chunk sizes never changes a single fit's result: each fit only
// ever sees its own data, so the chunk boundaries a planner.Config chooses
// must be invisible in the output.
func TestFitChunkBoundaryInvariance(t *testing.T) {
	const nFits = 400
	x := []float32{0, 1, 2, 3, 4, 5}
	data := make([]float32, nFits*len(x))
	initial := make([]float32, nFits*2)

	rng := rand.New(rand.NewSource(3))
	for f := 0; f < nFits; f++ {
		a := rng.Float64()*4 - 2
		b := rng.Float64()*4 - 2
		for pt, xi := range x {
			data[f*len(x)+pt] = float32(a + b*float64(xi))
		}
		initial[f*2+0] = float32(a * 1.3)
		initial[f*2+1] = float32(b * 0.7)
	}

	run := func(maxConcurrentBlocks uint64) *lmfit.Result {
		cfg := &planner.Config{MaxConcurrentBlocks: &maxConcurrentBlocks}
		req := &lmfit.Request{
			NFits:             nFits,
			NPoints:           len(x),
			Data:              data,
			ModelID:           models.Linear1D,
			EstimatorID:       estimators.LSE,
			InitialParameters: initial,
			ParametersToFit:   []int{1, 1},
			Tolerance:         1e-8,
			MaxIterations:     30,
			UserInfo:          models.EncodeFloat32Grid(x),
			PlannerConfig:     cfg,
		}
		result, err := lmfit.Fit(context.Background(), req)
		if err != nil {
			t.Fatalf("Fit: %v", err)
		}
		return result
	}

	small := run(7)
	large := run(333)

	for i := range small.OutParameters {
		if small.OutParameters[i] != large.OutParameters[i] {
			t.Fatalf("parameter %d differs across chunk sizes: %v vs %v", i, small.OutParameters[i], large.OutParameters[i])
		}
	}
	for i := range small.OutStates {
		if small.OutStates[i] != large.OutStates[i] {
			t.Fatalf("state %d differs across chunk sizes: %v vs %v", i, small.OutStates[i], large.OutStates[i])
		}
		if small.OutNIterations[i] != large.OutNIterations[i] {
			t.Fatalf("n_iterations %d differs across chunk sizes: %v vs %v", i, small.OutNIterations[i], large.OutNIterations[i])
		}
	}
}
