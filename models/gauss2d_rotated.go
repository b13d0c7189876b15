package models

import "math"

// gauss2DRotated implements GAUSS_2D_ROTATED: an elliptic Gaussian whose
// major/minor axes are rotated by angle theta (radians) from the x/y axes.
//
// parameters: [a, cx, cy, sx, sy, theta, o].
// user_info layout: n_points x-grid values followed by n_points y-grid
// values, both little-endian float32.
type gauss2DRotated struct{}

func (gauss2DRotated) ParameterCount() int { return 7 }

func (gauss2DRotated) Evaluate(ctx *EvalContext) error {
	x := decodeFloat32Grid(ctx.UserInfo, 0, ctx.NPoints)
	y := decodeFloat32Grid(ctx.UserInfo, 4*ctx.NPoints, ctx.NPoints)
	for fit := 0; fit < ctx.NFits; fit++ {
		if ctx.Finished[fit] {
			continue
		}
		base := fit * ctx.NParameters
		a, cx, cy := ctx.Parameters[base+0], ctx.Parameters[base+1], ctx.Parameters[base+2]
		sx, sy, theta, o := ctx.Parameters[base+3], ctx.Parameters[base+4], ctx.Parameters[base+5], ctx.Parameters[base+6]
		sinT, cosT := float32(math.Sin(float64(theta))), float32(math.Cos(float64(theta)))
		sx2, sy2 := sx*sx, sy*sy
		dOff := fit * ctx.NParameters * ctx.NPoints
		for pt := 0; pt < ctx.NPoints; pt++ {
			dx := x[pt] - cx
			dy := y[pt] - cy
			// rotate (dx,dy) into the ellipse's own frame
			u := dx*cosT + dy*sinT
			v := -dx*sinT + dy*cosT
			argu := u * u / (2 * sx2)
			argv := v * v / (2 * sy2)
			e := float32(math.Exp(float64(-(argu + argv))))
			ctx.ValuesOut[fit*ctx.NPoints+pt] = a*e + o

			// d(u)/d(cx) = -cosT, d(u)/d(cy) = -sinT; same chain rule for v.
			dEdu := -e * u / sx2
			dEdv := -e * v / sy2
			dEdcx := -(dEdu*cosT - dEdv*sinT)
			dEdcy := -(dEdu*sinT + dEdv*cosT)
			dUdtheta := -dx*sinT + dy*cosT // = v
			dVdtheta := -dx*cosT - dy*sinT // = -u
			dEdtheta := dEdu*dUdtheta + dEdv*dVdtheta

			ctx.DerivativesOut[dOff+0*ctx.NPoints+pt] = e
			ctx.DerivativesOut[dOff+1*ctx.NPoints+pt] = a * dEdcx
			ctx.DerivativesOut[dOff+2*ctx.NPoints+pt] = a * dEdcy
			ctx.DerivativesOut[dOff+3*ctx.NPoints+pt] = a * e * u * u / (sx2 * sx)
			ctx.DerivativesOut[dOff+4*ctx.NPoints+pt] = a * e * v * v / (sy2 * sy)
			ctx.DerivativesOut[dOff+5*ctx.NPoints+pt] = a * dEdtheta
			ctx.DerivativesOut[dOff+6*ctx.NPoints+pt] = 1
		}
	}
	return nil
}
