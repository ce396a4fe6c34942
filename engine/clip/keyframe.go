// package clip contains the keyframe data model: typed tracks that sample one
// component each, and the immutable Clip bundle that groups tracks under a
// shared duration. Evaluation semantics live here; deciding when and how far
// to evaluate is the engine's job.
package clip

import (
	"fmt"
)

// Keyframe pairs a sample time with the value a track holds at that time.
type Keyframe[T any] struct {
	// Time is the sample position in seconds from the start of the clip.
	Time float32

	// Value is the track's value at Time.
	Value T
}

// validateKeyframes rejects sequences whose times are not strictly
// increasing. The track's binary search depends on strict ordering, so a bad
// sequence must never reach evaluation.
func validateKeyframes[T any](keys []Keyframe[T]) error {
	for i := 1; i < len(keys); i++ {
		if keys[i].Time <= keys[i-1].Time {
			return fmt.Errorf("keyframe times must be strictly increasing: key %d at %.6f does not advance past key %d at %.6f",
				i, keys[i].Time, i-1, keys[i-1].Time)
		}
	}
	return nil
}
