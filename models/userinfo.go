package models

import (
	"encoding/binary"
	"math"
)

// EncodeFloat32Grid packs values as little-endian float32 bytes, the inverse
// of decodeFloat32Grid. Exported for callers building user_info buffers
// (tests and the demo CLI).
func EncodeFloat32Grid(values []float32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[4*i:4*i+4], math.Float32bits(v))
	}
	return out
}

// decodeFloat32Grid reads n little-endian float32 values starting at byte
// offset off in user_info. Models that need a coordinate grid (e.g. the x
// values for LINEAR_1D, or x/y for the 2D Gaussians) read it this way rather
// than assuming a particular host memory layout, since user_info crosses the
// public Fit boundary as an opaque []byte.
func decodeFloat32Grid(userInfo []byte, off, n int) []float32 {
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(userInfo[off+4*i : off+4*i+4])
		out[i] = math.Float32frombits(bits)
	}
	return out
}
