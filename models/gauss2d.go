package models

import "math"

// gauss2D implements GAUSS_2D, the circularly-symmetric 2-D Gaussian:
//
//	f(x,y) = a*exp(-((x-cx)^2+(y-cy)^2) / (2*s^2)) + o
//
// parameters: [a, cx, cy, s, o].
// user_info layout: n_points x-grid float32 values followed by n_points
// y-grid float32 values (both little-endian).
type gauss2D struct{}

func (gauss2D) ParameterCount() int { return 5 }

func (gauss2D) Evaluate(ctx *EvalContext) error {
	x := decodeFloat32Grid(ctx.UserInfo, 0, ctx.NPoints)
	y := decodeFloat32Grid(ctx.UserInfo, 4*ctx.NPoints, ctx.NPoints)
	for fit := 0; fit < ctx.NFits; fit++ {
		if ctx.Finished[fit] {
			continue
		}
		base := fit * ctx.NParameters
		a, cx, cy, s, o := ctx.Parameters[base+0], ctx.Parameters[base+1], ctx.Parameters[base+2], ctx.Parameters[base+3], ctx.Parameters[base+4]
		s2 := s * s
		dOff := fit * ctx.NParameters * ctx.NPoints
		for pt := 0; pt < ctx.NPoints; pt++ {
			dx := x[pt] - cx
			dy := y[pt] - cy
			r2 := dx*dx + dy*dy
			e := float32(math.Exp(float64(-r2 / (2 * s2))))
			ctx.ValuesOut[fit*ctx.NPoints+pt] = a*e + o

			ctx.DerivativesOut[dOff+0*ctx.NPoints+pt] = e
			ctx.DerivativesOut[dOff+1*ctx.NPoints+pt] = a * e * dx / s2
			ctx.DerivativesOut[dOff+2*ctx.NPoints+pt] = a * e * dy / s2
			ctx.DerivativesOut[dOff+3*ctx.NPoints+pt] = a * e * r2 / (s2 * s)
			ctx.DerivativesOut[dOff+4*ctx.NPoints+pt] = 1
		}
	}
	return nil
}
