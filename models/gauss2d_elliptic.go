package models

import "math"

// gauss2DElliptic implements GAUSS_2D_ELLIPTIC, an axis-aligned elliptic
// Gaussian with independent widths per axis:
//
//	f(x,y) = a*exp(-((x-cx)^2/(2*sx^2) + (y-cy)^2/(2*sy^2))) + o
//
// parameters: [a, cx, cy, sx, sy, o].
// user_info layout: n_points x-grid values followed by n_points y-grid
// values, both little-endian float32.
type gauss2DElliptic struct{}

func (gauss2DElliptic) ParameterCount() int { return 6 }

func (gauss2DElliptic) Evaluate(ctx *EvalContext) error {
	x := decodeFloat32Grid(ctx.UserInfo, 0, ctx.NPoints)
	y := decodeFloat32Grid(ctx.UserInfo, 4*ctx.NPoints, ctx.NPoints)
	for fit := 0; fit < ctx.NFits; fit++ {
		if ctx.Finished[fit] {
			continue
		}
		base := fit * ctx.NParameters
		a, cx, cy := ctx.Parameters[base+0], ctx.Parameters[base+1], ctx.Parameters[base+2]
		sx, sy, o := ctx.Parameters[base+3], ctx.Parameters[base+4], ctx.Parameters[base+5]
		sx2, sy2 := sx*sx, sy*sy
		dOff := fit * ctx.NParameters * ctx.NPoints
		for pt := 0; pt < ctx.NPoints; pt++ {
			dx := x[pt] - cx
			dy := y[pt] - cy
			argx := dx * dx / (2 * sx2)
			argy := dy * dy / (2 * sy2)
			e := float32(math.Exp(float64(-(argx + argy))))
			ctx.ValuesOut[fit*ctx.NPoints+pt] = a*e + o

			ctx.DerivativesOut[dOff+0*ctx.NPoints+pt] = e
			ctx.DerivativesOut[dOff+1*ctx.NPoints+pt] = a * e * dx / sx2
			ctx.DerivativesOut[dOff+2*ctx.NPoints+pt] = a * e * dy / sy2
			ctx.DerivativesOut[dOff+3*ctx.NPoints+pt] = a * e * dx * dx / (sx2 * sx)
			ctx.DerivativesOut[dOff+4*ctx.NPoints+pt] = a * e * dy * dy / (sy2 * sy)
			ctx.DerivativesOut[dOff+5*ctx.NPoints+pt] = 1
		}
	}
	return nil
}
