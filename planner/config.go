package planner

// Config overrides the host-capacity defaults Info.Configure would
// otherwise fill in from runtime.NumCPU and CPU feature detection
// (DetectHostCapacity). Fields are pointers so a yaml.v3-decoded Config can
// distinguish "not set in the file" from "explicitly set to zero".
type Config struct {
	AvailableMemoryBytes *uint64 `yaml:"available_memory_bytes"`
	MaxConcurrentBlocks  *uint64 `yaml:"max_concurrent_blocks"`
	MaxThreads           *int    `yaml:"max_threads"`
}

// apply overlays non-nil fields of c onto the detected capacity.
func (c *Config) apply(cap *HostCapacity) {
	if c == nil {
		return
	}
	if c.AvailableMemoryBytes != nil {
		cap.AvailableMemoryBytes = *c.AvailableMemoryBytes
	}
	if c.MaxConcurrentBlocks != nil {
		cap.MaxConcurrentBlocks = *c.MaxConcurrentBlocks
	}
	if c.MaxThreads != nil {
		cap.MaxThreads = *c.MaxThreads
	}
}
