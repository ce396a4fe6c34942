package asset

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marlowe-Hayes/animato-go/common"
	"github.com/Marlowe-Hayes/animato-go/engine/clip"
)

// makeClip builds a one-track scalar clip with the given duration.
func makeClip(t *testing.T, duration float32) *clip.Clip {
	t.Helper()
	tr, err := clip.NewLerpTrack[common.Scalar]("opacity", []clip.Keyframe[common.Scalar]{
		{Time: 0, Value: 0},
		{Time: duration, Value: 1},
	})
	require.NoError(t, err)
	c, err := clip.NewClip(duration, tr)
	require.NoError(t, err)
	return c
}

func TestLibraryAddAndResolve(t *testing.T) {
	library := NewLibrary()
	c := makeClip(t, 1)

	handle := library.Add("walk", c)
	assert.False(t, handle.IsZero())

	got, ok := library.Resolve(handle)
	assert.True(t, ok)
	assert.Same(t, c, got)

	named, ok := library.Lookup("walk")
	assert.True(t, ok)
	assert.Equal(t, handle, named)

	assert.Equal(t, 1, library.Len())
}

func TestLibraryResolveUnknownHandle(t *testing.T) {
	library := NewLibrary()
	got, ok := library.Resolve(NewHandle())
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestLibraryReplaceKeepsHandle(t *testing.T) {
	library := NewLibrary()
	v1 := makeClip(t, 1)
	v2 := makeClip(t, 2)

	h1 := library.Add("walk", v1)
	h2 := library.Add("walk", v2)
	assert.Equal(t, h1, h2, "re-adding under the same name must reuse the handle")

	got, ok := library.Resolve(h1)
	assert.True(t, ok)
	assert.Same(t, v2, got)
	assert.Equal(t, 1, library.Len())
}

func TestLibraryAnonymousClips(t *testing.T) {
	library := NewLibrary()
	h1 := library.Add("", makeClip(t, 1))
	h2 := library.Add("", makeClip(t, 2))

	assert.NotEqual(t, h1, h2, "anonymous clips never share handles")
	assert.Equal(t, 2, library.Len())

	_, ok := library.Lookup("")
	assert.False(t, ok, "the empty name must not be indexed")
}

func TestLibraryRemove(t *testing.T) {
	library := NewLibrary()
	handle := library.Add("walk", makeClip(t, 1))

	library.Remove(handle)
	_, ok := library.Resolve(handle)
	assert.False(t, ok)
	_, ok = library.Lookup("walk")
	assert.False(t, ok, "removal must clear the name index")
	assert.Equal(t, 0, library.Len())

	// The name is free again, so a later Add gets a fresh handle.
	again := library.Add("walk", makeClip(t, 2))
	assert.NotEqual(t, handle, again)

	// Removing an unknown handle is a no-op.
	library.Remove(handle)
	assert.Equal(t, 1, library.Len())
}

func TestLibraryHandles(t *testing.T) {
	library := NewLibrary()
	h1 := library.Add("a", makeClip(t, 1))
	h2 := library.Add("b", makeClip(t, 2))

	handles := library.Handles()
	assert.Len(t, handles, 2)
	assert.Contains(t, handles, h1)
	assert.Contains(t, handles, h2)
}

func TestHandleCompare(t *testing.T) {
	a := NewHandle()
	b := NewHandle()

	assert.Zero(t, a.Compare(a))
	if a.Compare(b) < 0 {
		assert.Positive(t, b.Compare(a))
	} else {
		assert.Negative(t, b.Compare(a))
	}
}

func TestHandleCompareGivesStableOrder(t *testing.T) {
	handles := []Handle{NewHandle(), NewHandle(), NewHandle(), NewHandle()}

	first := append([]Handle(nil), handles...)
	sort.Slice(first, func(i, j int) bool { return first[i].Compare(first[j]) < 0 })

	second := append([]Handle(nil), handles...)
	for i, j := 0, len(second)-1; i < j; i, j = i+1, j-1 {
		second[i], second[j] = second[j], second[i]
	}
	sort.Slice(second, func(i, j int) bool { return second[i].Compare(second[j]) < 0 })

	assert.Equal(t, first, second, "handle ordering must not depend on insertion order")
	for i := 1; i < len(first); i++ {
		assert.Negative(t, first[i-1].Compare(first[i]))
	}
}
