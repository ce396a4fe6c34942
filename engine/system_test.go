package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marlowe-Hayes/animato-go/common"
	"github.com/Marlowe-Hayes/animato-go/engine/asset"
	"github.com/Marlowe-Hayes/animato-go/engine/clip"
	"github.com/Marlowe-Hayes/animato-go/engine/playback"
	"github.com/Marlowe-Hayes/animato-go/engine/world"
)

const kindOpacity = world.Kind("opacity")

// rampClip builds the canonical scenario clip: 2 seconds long, rising to 10
// over the first second and falling back to 0 over the next.
func rampClip(t *testing.T) *clip.Clip {
	t.Helper()
	tr, err := clip.NewLerpTrack[common.Scalar](kindOpacity, []clip.Keyframe[common.Scalar]{
		{Time: 0, Value: 0},
		{Time: 1, Value: 10},
		{Time: 2, Value: 0},
	})
	require.NoError(t, err)
	c, err := clip.NewClip(2, tr)
	require.NoError(t, err)
	return c
}

// constClip builds a long clip holding kindOpacity at a fixed value.
func constClip(t *testing.T, value common.Scalar) *clip.Clip {
	t.Helper()
	tr, err := clip.NewStepTrack[common.Scalar](kindOpacity, []clip.Keyframe[common.Scalar]{
		{Time: 0, Value: value},
		{Time: 10, Value: value},
	})
	require.NoError(t, err)
	c, err := clip.NewClip(10, tr)
	require.NoError(t, err)
	return c
}

// newScenario wires a library, a world with one opacity-bearing entity, and a
// system over both.
func newScenario(t *testing.T) (asset.Library, world.World, world.Entity, System) {
	t.Helper()
	library := asset.NewLibrary()
	w := world.NewWorld()
	e := w.CreateEntity()
	world.Set(w, e, kindOpacity, common.Scalar(-1))
	sys := NewSystem(library, w, WithWorkers(2))
	return library, w, e, sys
}

func opacity(t *testing.T, w world.World, e world.Entity) float64 {
	t.Helper()
	value, ok := world.Get[common.Scalar](w, e, kindOpacity)
	require.True(t, ok)
	return float64(value)
}

func TestStepScenario(t *testing.T) {
	library, w, e, sys := newScenario(t)
	handle := library.Add("ramp", rampClip(t))

	sys.Play(handle, e)
	require.Equal(t, 1, sys.ActiveCount())

	sys.Step(0.5)
	assert.InDelta(t, 5, opacity(t, w, e), 1e-5)
	elapsed, playing := sys.Status(handle, e)
	assert.True(t, playing)
	assert.InDelta(t, 0.5, float64(elapsed), 1e-6)

	sys.Step(0.5)
	assert.InDelta(t, 10, opacity(t, w, e), 1e-5)

	sys.Step(0.5)
	assert.InDelta(t, 5, opacity(t, w, e), 1e-5)

	// The final tick writes the closing value and retires the playback.
	sys.Step(0.5)
	assert.InDelta(t, 0, opacity(t, w, e), 1e-5)
	_, playing = sys.Status(handle, e)
	assert.False(t, playing)
	assert.Equal(t, 0, sys.ActiveCount())
}

func TestPlayRestartsFromZero(t *testing.T) {
	library, w, e, sys := newScenario(t)
	handle := library.Add("ramp", rampClip(t))

	sys.Play(handle, e)
	sys.Step(0.5)
	sys.Step(0.5)
	assert.InDelta(t, 10, opacity(t, w, e), 1e-5)

	sys.Play(handle, e)
	elapsed, playing := sys.Status(handle, e)
	require.True(t, playing)
	assert.Zero(t, elapsed)

	sys.Step(0.5)
	assert.InDelta(t, 5, opacity(t, w, e), 1e-5)
}

func TestStopRetiresPlayback(t *testing.T) {
	library, w, e, sys := newScenario(t)
	handle := library.Add("ramp", rampClip(t))

	sys.Play(handle, e)
	sys.Step(0.5)
	sys.Stop(handle, e)
	assert.Equal(t, 0, sys.ActiveCount())

	// The last written value stays in place.
	sys.Step(0.5)
	assert.InDelta(t, 5, opacity(t, w, e), 1e-5)
}

func TestManualAdvance(t *testing.T) {
	library, w, e, sys := newScenario(t)
	handle := library.Add("ramp", rampClip(t))

	sys.Play(handle, e)
	sys.AdvanceBy(handle, e, 0.25)
	elapsed, _ := sys.Status(handle, e)
	assert.InDelta(t, 0.25, float64(elapsed), 1e-6)
	assert.InDelta(t, -1, opacity(t, w, e), 1e-6, "manual advances must not evaluate the clip")

	sys.Step(0.25)
	assert.InDelta(t, 5, opacity(t, w, e), 1e-5)

	sys.AdvanceTo(handle, e, 1)
	sys.Step(0.5)
	assert.InDelta(t, 5, opacity(t, w, e), 1e-5, "elapsed 1.5 lies halfway down the falling edge")
}

func TestSpeedMultiplier(t *testing.T) {
	library, w, e, sys := newScenario(t)
	handle := library.Add("ramp", rampClip(t))

	sys.Play(handle, e, playback.WithSpeed(2))
	sys.Step(0.5)
	assert.InDelta(t, 10, opacity(t, w, e), 1e-5)
	elapsed, _ := sys.Status(handle, e)
	assert.InDelta(t, 1, float64(elapsed), 1e-6)
}

func TestZeroSpeedFreezes(t *testing.T) {
	library, w, e, sys := newScenario(t)
	handle := library.Add("ramp", rampClip(t))

	sys.Play(handle, e, playback.WithSpeed(0))
	for i := 0; i < 4; i++ {
		sys.Step(0.5)
	}

	elapsed, playing := sys.Status(handle, e)
	assert.True(t, playing, "a frozen playback never completes")
	assert.Zero(t, elapsed)
	assert.InDelta(t, 0, opacity(t, w, e), 1e-5, "the frozen playback keeps writing its start value")
}

func TestLoopWrapsAroundDuration(t *testing.T) {
	library, w, e, sys := newScenario(t)
	handle := library.Add("ramp", rampClip(t))

	sys.Play(handle, e, playback.WithLoop())
	for i := 0; i < 4; i++ {
		sys.Step(0.5)
	}

	// Reaching the duration exactly does not wrap or retire a looping entry.
	elapsed, playing := sys.Status(handle, e)
	require.True(t, playing)
	assert.InDelta(t, 2, float64(elapsed), 1e-6)
	assert.InDelta(t, 0, opacity(t, w, e), 1e-5)

	// The next tick passes the end and wraps back into the first segment.
	sys.Step(0.5)
	elapsed, playing = sys.Status(handle, e)
	require.True(t, playing)
	assert.InDelta(t, 0.5, float64(elapsed), 1e-6)
	assert.InDelta(t, 5, opacity(t, w, e), 1e-5)
}

func TestMultipleEntitiesAdvanceIndependently(t *testing.T) {
	library, w, a, sys := newScenario(t)
	handle := library.Add("ramp", rampClip(t))

	b := w.CreateEntity()
	world.Set(w, b, kindOpacity, common.Scalar(-1))

	sys.Play(handle, a)
	sys.Play(handle, b, playback.WithSpeed(2))

	sys.Step(0.5)
	assert.InDelta(t, 5, opacity(t, w, a), 1e-5)
	assert.InDelta(t, 10, opacity(t, w, b), 1e-5)
}

func TestMultipleClipsOnOneEntity(t *testing.T) {
	library, w, e, sys := newScenario(t)
	const kindWidth = world.Kind("width")
	world.Set(w, e, kindWidth, common.Scalar(0))

	widthTrack, err := clip.NewLerpTrack[common.Scalar](kindWidth, []clip.Keyframe[common.Scalar]{
		{Time: 0, Value: 100},
		{Time: 2, Value: 200},
	})
	require.NoError(t, err)
	widthClip, err := clip.NewClip(2, widthTrack)
	require.NoError(t, err)

	opacityHandle := library.Add("ramp", rampClip(t))
	widthHandle := library.Add("grow", widthClip)

	sys.Play(opacityHandle, e)
	sys.Play(widthHandle, e)

	sys.Step(0.5)
	assert.InDelta(t, 5, opacity(t, w, e), 1e-5)
	width, ok := world.Get[common.Scalar](w, e, kindWidth)
	require.True(t, ok)
	assert.InDelta(t, 125, float64(width), 1e-5)
}

func TestSameFieldWritesResolveByHandleOrder(t *testing.T) {
	library, w, e, sys := newScenario(t)
	h1 := library.Add("hold_one", constClip(t, 1))
	h2 := library.Add("hold_two", constClip(t, 2))

	// The clip with the larger handle applies last, so its value sticks.
	expected := float64(1)
	if h2.Compare(h1) > 0 {
		expected = 2
	}

	sys.Play(h1, e)
	sys.Play(h2, e)
	for i := 0; i < 10; i++ {
		sys.Step(0.1)
		assert.InDelta(t, expected, opacity(t, w, e), 1e-5, "tick %d must resolve to the same winner", i)
	}
}

// gatedResolver withholds its clip until the gate opens, standing in for an
// asset that has not finished loading.
type gatedResolver struct {
	mu     sync.Mutex
	open   bool
	handle asset.Handle
	clip   *clip.Clip
}

func (g *gatedResolver) Resolve(handle asset.Handle) (*clip.Clip, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.open || handle != g.handle {
		return nil, false
	}
	return g.clip, true
}

func (g *gatedResolver) release() {
	g.mu.Lock()
	g.open = true
	g.mu.Unlock()
}

func TestPlaybackWaitsForLateLoadedClip(t *testing.T) {
	w := world.NewWorld()
	e := w.CreateEntity()
	world.Set(w, e, kindOpacity, common.Scalar(-1))

	gated := &gatedResolver{handle: asset.NewHandle(), clip: rampClip(t)}
	sys := NewSystem(gated, w, WithWorkers(2))

	sys.Play(gated.handle, e)
	for i := 0; i < 3; i++ {
		sys.Step(0.5)
	}

	// The entry idles at zero until the clip appears.
	elapsed, playing := sys.Status(gated.handle, e)
	require.True(t, playing)
	assert.Zero(t, elapsed)
	assert.InDelta(t, -1, opacity(t, w, e), 1e-6)

	gated.release()
	sys.Step(0.5)
	assert.InDelta(t, 5, opacity(t, w, e), 1e-5, "playback starts fresh on the tick the clip appears")
}

func TestClipRemovedMidPlaybackRetiresEntry(t *testing.T) {
	library, w, e, sys := newScenario(t)
	handle := library.Add("ramp", rampClip(t))

	sys.Play(handle, e)
	sys.Step(0.5)
	require.InDelta(t, 5, opacity(t, w, e), 1e-5)

	library.Remove(handle)
	sys.Step(0.5)

	_, playing := sys.Status(handle, e)
	assert.False(t, playing)
	assert.Equal(t, 0, sys.ActiveCount())
	assert.InDelta(t, 5, opacity(t, w, e), 1e-5, "the last written value stays in place")
}

func TestClipMissingBeforeFirstTickKeepsEntry(t *testing.T) {
	library, w, e, sys := newScenario(t)
	handle := library.Add("ramp", rampClip(t))
	library.Remove(handle)

	sys.Play(handle, e)
	sys.Step(0.5)

	// An entry that never advanced is indistinguishable from one waiting on
	// a load, so it stays pending.
	elapsed, playing := sys.Status(handle, e)
	assert.True(t, playing)
	assert.Zero(t, elapsed)
	assert.InDelta(t, -1, opacity(t, w, e), 1e-6)
}

func TestDestroyedEntityRetiresItsPlaybacks(t *testing.T) {
	library, w, e, sys := newScenario(t)
	handle := library.Add("ramp", rampClip(t))

	sys.Play(handle, e)
	sys.Step(0.5)
	w.DestroyEntity(e)

	sys.Step(0.5)
	assert.Equal(t, 0, sys.ActiveCount())
}

func TestClipWithoutMatchingComponentsRetires(t *testing.T) {
	library := asset.NewLibrary()
	w := world.NewWorld()
	e := w.CreateEntity()
	sys := NewSystem(library, w, WithWorkers(2))

	handle := library.Add("ramp", rampClip(t))
	sys.Play(handle, e)
	sys.Step(0.5)

	// Every track was skipped, so nothing reported playing.
	assert.Equal(t, 0, sys.ActiveCount())
	_, ok := world.Get[common.Scalar](w, e, kindOpacity)
	assert.False(t, ok, "a skipped track must not create the component")
}

func TestStepManyEntitiesInParallel(t *testing.T) {
	library := asset.NewLibrary()
	w := world.NewWorld()
	sys := NewSystem(library, w, WithWorkers(8))
	handle := library.Add("ramp", rampClip(t))

	entities := make([]world.Entity, 64)
	for i := range entities {
		e := w.CreateEntity()
		world.Set(w, e, kindOpacity, common.Scalar(-1))
		sys.Play(handle, e)
		entities[i] = e
	}

	sys.Step(0.5)

	assert.Equal(t, 64, sys.ActiveCount())
	for _, e := range entities {
		assert.InDelta(t, 5, opacity(t, w, e), 1e-5)
	}
}

func TestSystemProfilerToggle(t *testing.T) {
	library, _, e, sys := newScenario(t)
	handle := library.Add("ramp", rampClip(t))

	sys.EnableProfiler()
	sys.Play(handle, e)
	sys.Step(0.5)
	sys.DisableProfiler()
	sys.Step(0.5)

	assert.Equal(t, 1, sys.ActiveCount())
}

func TestSystemRegistryAccessor(t *testing.T) {
	library, _, e, sys := newScenario(t)
	handle := library.Add("ramp", rampClip(t))

	sys.Play(handle, e)
	entry, ok := sys.Registry().Lookup(playback.Key{Clip: handle, Entity: e})
	require.True(t, ok)
	assert.Equal(t, float32(1), entry.Speed)
}

func TestNewSystemRequiresCollaborators(t *testing.T) {
	library := asset.NewLibrary()
	w := world.NewWorld()

	assert.Panics(t, func() { NewSystem(nil, w) })
	assert.Panics(t, func() { NewSystem(library, nil) })
}
