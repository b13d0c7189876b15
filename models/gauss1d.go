package models

import "math"

// gauss1D implements GAUSS_1D:
//
//	f(x) = a*exp(-(x-c)^2 / (2*s^2)) + o
//
// parameters: [a (amplitude), c (center), s (width), o (offset)].
// user_info layout: n_points little-endian float32 values, the x grid.
type gauss1D struct{}

func (gauss1D) ParameterCount() int { return 4 }

func (gauss1D) Evaluate(ctx *EvalContext) error {
	x := decodeFloat32Grid(ctx.UserInfo, 0, ctx.NPoints)
	for fit := 0; fit < ctx.NFits; fit++ {
		if ctx.Finished[fit] {
			continue
		}
		base := fit * ctx.NParameters
		a, c, s, o := ctx.Parameters[base+0], ctx.Parameters[base+1], ctx.Parameters[base+2], ctx.Parameters[base+3]
		s2 := s * s
		for pt := 0; pt < ctx.NPoints; pt++ {
			dx := x[pt] - c
			e := float32(math.Exp(float64(-(dx * dx) / (2 * s2))))
			ctx.ValuesOut[fit*ctx.NPoints+pt] = a*e + o

			dOff := fit * ctx.NParameters * ctx.NPoints
			ctx.DerivativesOut[dOff+0*ctx.NPoints+pt] = e
			ctx.DerivativesOut[dOff+1*ctx.NPoints+pt] = a * e * dx / s2
			ctx.DerivativesOut[dOff+2*ctx.NPoints+pt] = a * e * dx * dx / (s2 * s)
			ctx.DerivativesOut[dOff+3*ctx.NPoints+pt] = 1
		}
	}
	return nil
}
