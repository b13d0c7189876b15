package models

// linear1D implements LINEAR_1D: f(x) = p0 + p1*x.
//
// user_info layout: n_points little-endian float32 values, the x grid,
// shared by every fit in the call (chunk_index is unused since the grid does
// not depend on which fit-base offset this chunk starts at).
type linear1D struct{}

func (linear1D) ParameterCount() int { return 2 }

func (linear1D) Evaluate(ctx *EvalContext) error {
	x := decodeFloat32Grid(ctx.UserInfo, 0, ctx.NPoints)
	for fit := 0; fit < ctx.NFits; fit++ {
		if ctx.Finished[fit] {
			continue
		}
		p0 := ctx.Parameters[fit*ctx.NParameters+0]
		p1 := ctx.Parameters[fit*ctx.NParameters+1]
		for pt := 0; pt < ctx.NPoints; pt++ {
			ctx.ValuesOut[fit*ctx.NPoints+pt] = p0 + p1*x[pt]
			ctx.DerivativesOut[(fit*ctx.NParameters+0)*ctx.NPoints+pt] = 1
			ctx.DerivativesOut[(fit*ctx.NParameters+1)*ctx.NPoints+pt] = x[pt]
		}
	}
	return nil
}
