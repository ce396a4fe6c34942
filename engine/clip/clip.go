package clip

import (
	"fmt"

	"github.com/Marlowe-Hayes/animato-go/engine/world"
)

// Clip is an immutable bundle of tracks sharing one duration. A clip holds no
// playback state of its own: the same clip can be evaluated for any number of
// entities at any number of times concurrently, as long as no two concurrent
// evaluations share a target entity.
type Clip struct {
	tracks   []Track
	duration float32
}

// NewClip bundles tracks under a shared duration. Track validation has
// already happened in the track constructors; NewClip only rejects nil
// tracks, which indicate a dropped construction error upstream.
//
// Parameters:
//   - duration: the clip length in seconds; playback entries are removed once elapsed time reaches it
//   - tracks: the tracks evaluated by this clip, in application order
//
// Returns:
//   - *Clip: the new clip
//   - error: error if any track is nil
func NewClip(duration float32, tracks ...Track) (*Clip, error) {
	for i, tr := range tracks {
		if tr == nil {
			return nil, fmt.Errorf("clip track %d is nil", i)
		}
	}

	owned := make([]Track, len(tracks))
	copy(owned, tracks)
	return &Clip{tracks: owned, duration: duration}, nil
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float32 {
	return c.duration
}

// TrackCount returns the number of tracks in the clip.
func (c *Clip) TrackCount() int {
	return len(c.tracks)
}

// Tracks returns a copy of the clip's track list.
//
// Returns:
//   - []Track: the tracks in application order
func (c *Clip) Tracks() []Track {
	cp := make([]Track, len(c.tracks))
	copy(cp, c.tracks)
	return cp
}

// Apply evaluates every track at the given time against one entity's
// components. Tracks whose component kind is absent on the entity are
// skipped. The aggregate state is StateFinished only when no track reported
// StatePlaying, so a clip keeps playing until its slowest track is done.
//
// Parameters:
//   - time: the sample time in seconds from the start of the clip
//   - target: the exclusive component access for the entity being animated
//
// Returns:
//   - State: the aggregate playback state across all tracks
func (c *Clip) Apply(time float32, target world.Access) State {
	state := StateFinished
	for _, tr := range c.tracks {
		component, ok := target.Component(tr.Kind())
		if !ok {
			continue
		}
		if tr.Sample(time, component) == StatePlaying {
			state = StatePlaying
		}
	}
	return state
}
