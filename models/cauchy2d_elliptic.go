package models

// cauchy2DElliptic implements CAUCHY_2D_ELLIPTIC, an axis-aligned elliptic
// Lorentzian/Cauchy peak:
//
//	f(x,y) = a / (1 + ((x-cx)/sx)^2 + ((y-cy)/sy)^2) + o
//
// parameters: [a, cx, cy, sx, sy, o].
// user_info layout: n_points x-grid values followed by n_points y-grid
// values, both little-endian float32.
type cauchy2DElliptic struct{}

func (cauchy2DElliptic) ParameterCount() int { return 6 }

func (cauchy2DElliptic) Evaluate(ctx *EvalContext) error {
	x := decodeFloat32Grid(ctx.UserInfo, 0, ctx.NPoints)
	y := decodeFloat32Grid(ctx.UserInfo, 4*ctx.NPoints, ctx.NPoints)
	for fit := 0; fit < ctx.NFits; fit++ {
		if ctx.Finished[fit] {
			continue
		}
		base := fit * ctx.NParameters
		a, cx, cy := ctx.Parameters[base+0], ctx.Parameters[base+1], ctx.Parameters[base+2]
		sx, sy, o := ctx.Parameters[base+3], ctx.Parameters[base+4], ctx.Parameters[base+5]
		dOff := fit * ctx.NParameters * ctx.NPoints
		for pt := 0; pt < ctx.NPoints; pt++ {
			tx := (x[pt] - cx) / sx
			ty := (y[pt] - cy) / sy
			denom := 1 + tx*tx + ty*ty
			inv := 1 / denom
			ctx.ValuesOut[fit*ctx.NPoints+pt] = a*inv + o

			ctx.DerivativesOut[dOff+0*ctx.NPoints+pt] = inv
			ctx.DerivativesOut[dOff+1*ctx.NPoints+pt] = a * inv * inv * 2 * tx / sx
			ctx.DerivativesOut[dOff+2*ctx.NPoints+pt] = a * inv * inv * 2 * ty / sy
			ctx.DerivativesOut[dOff+3*ctx.NPoints+pt] = a * inv * inv * 2 * tx * tx / sx
			ctx.DerivativesOut[dOff+4*ctx.NPoints+pt] = a * inv * inv * 2 * ty * ty / sy
			ctx.DerivativesOut[dOff+5*ctx.NPoints+pt] = 1
		}
	}
	return nil
}
