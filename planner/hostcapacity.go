package planner

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// HostCapacity stands in for the compute-device properties a resource query
// would report before every call. On the CPU worker-pool substrate this
// module targets, "device memory" is host RAM available to the call,
// "threads" are goroutine lanes, and "blocks" are the concurrent
// worker-pool lanes the kernel dispatcher (kernels.Dispatch) is willing to
// run at once.
type HostCapacity struct {
	AvailableMemoryBytes uint64
	MaxConcurrentBlocks  uint64
	MaxThreads           int
}

// vectorWidth reports the SIMD lane width in float32 elements the detected
// CPU feature set supports, the CPU analogue of a GPU warp/wavefront size.
func vectorWidth() int {
	switch {
	case cpu.X86.HasAVX512F:
		return 16
	case cpu.X86.HasAVX2:
		return 8
	case cpu.X86.HasAVX:
		return 8
	case cpu.ARM64.HasASIMD:
		return 4
	default:
		return 4
	}
}

// DetectHostCapacity reports a conservative estimate of this host's capacity
// for one engine call: NumCPU goroutine lanes, a block count scaled by SIMD
// width so the per-block thread headroom check behaves sensibly on CPU, and
// free memory read via runtime.MemStats as a lower bound (embedders should
// override AvailableMemoryBytes via Config for accurate sizing in
// memory-constrained deployments).
func DetectHostCapacity() HostCapacity {
	n := runtime.NumCPU()
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	available := mem.Sys - mem.HeapInuse
	if available == 0 {
		available = 256 << 20 // 256MiB fallback when the estimate is zero, so a cold-started process can still plan a first chunk
	}
	return HostCapacity{
		AvailableMemoryBytes: available,
		MaxConcurrentBlocks:  uint64(n * vectorWidth()),
		MaxThreads:           n * vectorWidth() * 32,
	}
}
