// Package device implements the per-chunk working-buffer component: it
// owns all working arrays for one chunk, pooling typed float32 and float64
// slices by element count so streaming many chunks through one call does
// not thrash the allocator.
package device

import "sync"

// float32Pool pools []float32 slices of a given capacity, backed by
// sync.Pool keyed on size class.
type float32Pool struct {
	pools sync.Map // capacity -> *sync.Pool
}

func (p *float32Pool) get(n int) []float32 {
	if n == 0 {
		return nil
	}
	poolIface, _ := p.pools.LoadOrStore(n, &sync.Pool{
		New: func() any { return make([]float32, n) },
	})
	buf := poolIface.(*sync.Pool).Get().([]float32)
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

func (p *float32Pool) put(buf []float32) {
	if len(buf) == 0 {
		return
	}
	poolIface, ok := p.pools.Load(len(buf))
	if !ok {
		return
	}
	poolIface.(*sync.Pool).Put(buf) //nolint:staticcheck // capacity-keyed pool, len==cap by construction
}

type float64Pool struct {
	pools sync.Map
}

func (p *float64Pool) get(n int) []float64 {
	if n == 0 {
		return nil
	}
	poolIface, _ := p.pools.LoadOrStore(n, &sync.Pool{
		New: func() any { return make([]float64, n) },
	})
	buf := poolIface.(*sync.Pool).Get().([]float64)
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

func (p *float64Pool) put(buf []float64) {
	if len(buf) == 0 {
		return
	}
	poolIface, ok := p.pools.Load(len(buf))
	if !ok {
		return
	}
	poolIface.(*sync.Pool).Put(buf)
}

var (
	f32Pool float32Pool
	f64Pool float64Pool
)
