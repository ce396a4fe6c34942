package engine

import (
	"time"
)

// SystemBuilderOption is a functional option for configuring a System.
// Use the With* functions to create options that are applied directly to the system instance.
type SystemBuilderOption func(*systemImpl)

// WithWorkers sets the number of pooled workers used for parallel entity
// evaluation during Step. Values <= 0 are ignored and the default
// (max(NumCPU-1, 1)) is kept.
//
// Parameters:
//   - count: number of worker goroutines for the step pool
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithWorkers(count int) SystemBuilderOption {
	return func(s *systemImpl) {
		if count > 0 {
			s.stepWorkers = count
		}
	}
}

// WithQueueSize sets the step pool's task queue capacity. Values <= 0 are
// ignored and the default (256) is kept.
//
// Parameters:
//   - size: task queue capacity for the step pool
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithQueueSize(size int) SystemBuilderOption {
	return func(s *systemImpl) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithPoolIdleTimeout sets how long idle step pool workers linger before
// exiting. Values <= 0 are ignored and the default (1s) is kept.
//
// Parameters:
//   - timeout: idle worker lifetime
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithPoolIdleTimeout(timeout time.Duration) SystemBuilderOption {
	return func(s *systemImpl) {
		if timeout > 0 {
			s.idleTimeout = timeout
		}
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithProfiling(enabled bool) SystemBuilderOption {
	return func(s *systemImpl) {
		s.profilingEnabled = enabled
	}
}
