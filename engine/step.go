package engine

import (
	"math"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Marlowe-Hayes/animato-go/engine/clip"
	"github.com/Marlowe-Hayes/animato-go/engine/playback"
	"github.com/Marlowe-Hayes/animato-go/engine/world"
)

// unitRef is one registry entry as read by the tick snapshot.
type unitRef struct {
	key     playback.Key
	elapsed float32
	speed   float32
	loop    bool
}

// Step advances every live playback by delta seconds and applies the results.
// Processes the tick in three phases:
// Snapshot (serial): copy the registry so concurrent Play/Stop calls never block the tick.
// Group (serial): bucket entries by entity and order each bucket by clip handle.
// Evaluate (parallel): fan one task per entity out to the step pool.
func (s *systemImpl) Step(delta float32) {
	entries := s.registry.Snapshot()
	if len(entries) == 0 {
		if s.profilingEnabled && s.profiler != nil {
			s.profiler.Tick(0, s.registry.Len())
		}
		return
	}

	// Each entity is one unit of work, so no two workers ever touch the same
	// entity's components.
	groups := make(map[world.Entity][]unitRef, len(entries))
	for _, entry := range entries {
		groups[entry.Key.Entity] = append(groups[entry.Key.Entity], unitRef{
			key:     entry.Key,
			elapsed: entry.Elapsed,
			speed:   entry.Speed,
			loop:    entry.Loop,
		})
	}

	// Clips on the same entity always apply in ascending handle order, so
	// overlapping component writes resolve the same way every tick.
	for _, group := range groups {
		refs := group
		sort.Slice(refs, func(i, j int) bool {
			return refs[i].key.Clip.Compare(refs[j].key.Clip) < 0
		})
	}

	// Fan out per-entity evaluation to the step pool. Workers are reused
	// across ticks (no goroutine spawn overhead). A WaitGroup provides the
	// per-tick barrier sync since pool.Wait() blocks until workers idle-exit
	// which is unsuitable for tick-rate workloads.
	var wg sync.WaitGroup
	taskID := 0
	for entity, group := range groups {
		wg.Add(1)
		entityCap := entity // capture for closure
		refs := group
		id := taskID
		taskID++
		s.stepPool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				s.stepEntity(entityCap, refs, delta)
				return nil, nil
			},
		})
	}
	wg.Wait()

	if s.profilingEnabled && s.profiler != nil {
		s.profiler.Tick(len(groups), s.registry.Len())
	}
}

// stepEntity advances every clip playing on one entity. The exclusive claim
// spans all of the entity's clips for the tick.
func (s *systemImpl) stepEntity(entity world.Entity, refs []unitRef, delta float32) {
	access, ok := s.target.Acquire(entity)
	if !ok {
		// The entity is gone; retire every clip that was playing on it.
		for _, ref := range refs {
			s.registry.Stop(ref.key)
		}
		return
	}
	defer access.Release()

	for _, ref := range refs {
		c, ok := s.resolver.Resolve(ref.key.Clip)
		if !ok {
			if ref.elapsed == 0 {
				// Not loaded yet; keep the entry so playback starts the tick
				// the clip appears.
				continue
			}
			// The clip was removed mid-playback; retire the entry.
			s.registry.Stop(ref.key)
			continue
		}

		t := ref.elapsed + delta*ref.speed

		if ref.loop {
			if d := c.Duration(); d > 0 && t > d {
				t = float32(math.Mod(float64(t), float64(d)))
			}
			c.Apply(t, access)
			s.registry.AdvanceTo(ref.key, t)
			continue
		}

		state := c.Apply(t, access)
		if state == clip.StateFinished || t >= c.Duration() {
			// The final values are already written; the entry just retires.
			s.registry.Stop(ref.key)
			continue
		}
		s.registry.AdvanceTo(ref.key, t)
	}
}
