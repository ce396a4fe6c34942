package engine

// RunnerBuilderOption is a functional option for configuring a Runner.
// Use the With* functions to create options that are applied directly to the runner instance.
type RunnerBuilderOption func(*runnerImpl)

// WithTickRate sets the runner tick rate in ticks per second.
// The system is stepped at this rate.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - tps: target ticks per second (default 60)
//
// Returns:
//   - RunnerBuilderOption: option function to apply
func WithTickRate(tps float64) RunnerBuilderOption {
	return func(r *runnerImpl) {
		if tps <= 0 {
			tps = 60.0
		}
		r.tickRate = tickInterval(tps)
	}
}

// WithTickCallback registers a function called after each system step during
// runner construction.
//
// Parameters:
//   - callback: function to call each tick, receiving the delta time in seconds
//
// Returns:
//   - RunnerBuilderOption: option function to apply
func WithTickCallback(callback func(deltaTime float32)) RunnerBuilderOption {
	return func(r *runnerImpl) {
		r.tickCallback = callback
	}
}
