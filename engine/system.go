package engine

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Marlowe-Hayes/animato-go/engine/asset"
	"github.com/Marlowe-Hayes/animato-go/engine/playback"
	"github.com/Marlowe-Hayes/animato-go/engine/profiler"
	"github.com/Marlowe-Hayes/animato-go/engine/world"
)

// systemImpl implements the System interface.
// Coordinates the playback registry, clip resolution, and the per-tick
// parallel evaluation of entities.
type systemImpl struct {
	registry playback.Registry
	resolver asset.Resolver
	target   world.Target

	// stepPool manages a bounded set of reusable goroutines for the parallel
	// entity phase of Step. Workers persist across ticks, avoiding per-tick
	// goroutine spawn/teardown overhead.
	stepPool    worker.DynamicWorkerPool
	stepWorkers int // stored so options can override before the pool exists
	queueSize   int
	idleTimeout time.Duration

	profiler         *profiler.Profiler
	profilingEnabled bool
}

// System is the main entry point for animation playback.
// It owns the playback registry and drives clip evaluation against entity
// components each Step. All playback methods are safe to call from any
// goroutine, including while a Step is in flight; effects relative to an
// in-flight Step are unordered.
type System interface {
	// Play starts the clip on the entity, or restarts it from elapsed time 0
	// if that pair is already playing. Speed and loop settings are replaced
	// by the given options on every call.
	//
	// Parameters:
	//   - clip: the handle of the clip to play
	//   - entity: the entity to animate
	//   - options: per-playback settings (speed, looping)
	Play(clip asset.Handle, entity world.Entity, options ...playback.PlayOption)

	// Stop removes the (clip, entity) playback if present; no-op otherwise.
	//
	// Parameters:
	//   - clip: the handle of the clip to stop
	//   - entity: the entity it is playing on
	Stop(clip asset.Handle, entity world.Entity)

	// AdvanceBy adds delta to the playback's elapsed time without evaluating
	// the clip; no-op when the pair is not playing. The playback's speed
	// multiplier is not applied.
	//
	// Parameters:
	//   - clip: the handle of the clip to advance
	//   - entity: the entity it is playing on
	//   - delta: seconds to add to the elapsed time
	AdvanceBy(clip asset.Handle, entity world.Entity, delta float32)

	// AdvanceTo overwrites the playback's elapsed time without evaluating
	// the clip; no-op when the pair is not playing.
	//
	// Parameters:
	//   - clip: the handle of the clip to reposition
	//   - entity: the entity it is playing on
	//   - elapsed: the new elapsed time in seconds
	AdvanceTo(clip asset.Handle, entity world.Entity, elapsed float32)

	// Status reports the playback's elapsed time and whether it is live.
	//
	// Parameters:
	//   - clip: the handle of the clip to query
	//   - entity: the entity it is playing on
	//
	// Returns:
	//   - float32: the elapsed time in seconds, or 0 when not playing
	//   - bool: true if the pair is currently playing
	Status(clip asset.Handle, entity world.Entity) (float32, bool)

	// ActiveCount returns the number of live playback entries.
	//
	// Returns:
	//   - int: entry count
	ActiveCount() int

	// Registry returns the underlying playback registry.
	//
	// Returns:
	//   - playback.Registry: the registry instance
	Registry() playback.Registry

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Step advances every live playback by delta seconds (scaled per entry)
	// and writes the evaluated values into entity components. Entities are
	// processed in parallel; clips on the same entity are applied serially
	// in ascending handle order. Completed, orphaned, and removed-clip
	// playbacks are retired. Blocks until the tick is fully applied.
	//
	// Parameters:
	//   - delta: seconds of wall-clock time to advance
	Step(delta float32)
}

// Ensure systemImpl implements System.
var _ System = &systemImpl{}

// NewSystem creates a new System using the given clip resolver and entity
// target. Both are required and NewSystem panics if either is nil.
// Options are applied directly to the system struct via the option-builder pattern.
//
// Parameters:
//   - resolver: source of clips for the handles being played (must not be nil)
//   - target: source of exclusive entity access for writing values (must not be nil)
//   - options: functional options for system configuration (workers, profiling, etc.)
//
// Returns:
//   - System: the newly created system
func NewSystem(resolver asset.Resolver, target world.Target, options ...SystemBuilderOption) System {
	if resolver == nil {
		panic("engine: NewSystem requires a non-nil Resolver")
	}
	if target == nil {
		panic("engine: NewSystem requires a non-nil Target")
	}

	s := &systemImpl{
		registry:         playback.NewRegistry(),
		resolver:         resolver,
		target:           target,
		stepWorkers:      max(runtime.NumCPU()-1, 1),
		queueSize:        256,
		idleTimeout:      1 * time.Second,
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the step pool after options so WithWorkers can override the default.
	s.stepPool = worker.NewDynamicWorkerPool(s.stepWorkers, s.queueSize, s.idleTimeout)

	return s
}

func (s *systemImpl) Play(clip asset.Handle, entity world.Entity, options ...playback.PlayOption) {
	s.registry.Play(playback.Key{Clip: clip, Entity: entity}, options...)
}

func (s *systemImpl) Stop(clip asset.Handle, entity world.Entity) {
	s.registry.Stop(playback.Key{Clip: clip, Entity: entity})
}

func (s *systemImpl) AdvanceBy(clip asset.Handle, entity world.Entity, delta float32) {
	s.registry.AdvanceBy(playback.Key{Clip: clip, Entity: entity}, delta)
}

func (s *systemImpl) AdvanceTo(clip asset.Handle, entity world.Entity, elapsed float32) {
	s.registry.AdvanceTo(playback.Key{Clip: clip, Entity: entity}, elapsed)
}

func (s *systemImpl) Status(clip asset.Handle, entity world.Entity) (float32, bool) {
	return s.registry.Elapsed(playback.Key{Clip: clip, Entity: entity})
}

func (s *systemImpl) ActiveCount() int {
	return s.registry.Len()
}

func (s *systemImpl) Registry() playback.Registry {
	return s.registry
}

// EnableProfiler enables performance profiling output to the log.
func (s *systemImpl) EnableProfiler() {
	s.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (s *systemImpl) DisableProfiler() {
	s.profilingEnabled = false
}
