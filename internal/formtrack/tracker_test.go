package formtrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_DirtyThenSaved(t *testing.T) {
	tr := NewTracker()
	tr.Track("sticker", Values{"name": {"a"}})
	assert.False(t, tr.Dirty())

	dirty, err := tr.Update("sticker", "name", "b")
	require.NoError(t, err)
	assert.True(t, dirty)
	assert.True(t, tr.Dirty())

	require.NoError(t, tr.MarkAsSaved("sticker"))
	assert.False(t, tr.Dirty())

	// saving keeps the live values
	dirty, err = tr.Update("sticker", "name", "b")
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestTracker_RevertingIsClean(t *testing.T) {
	tr := NewTracker()
	tr.Track("f", Values{"name": {"a"}})
	_, err := tr.Update("f", "name", "b")
	require.NoError(t, err)
	dirty, err := tr.Update("f", "name", "a")
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.False(t, tr.Dirty())
}

func TestEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b Values
		want bool
	}{
		{"identical", Values{"x": {"1"}}, Values{"x": {"1"}}, true},
		{"missing key vs empty", Values{"x": {"1"}}, Values{"x": {"1"}, "y": nil}, true},
		{"missing key vs blank", Values{}, Values{"y": {""}}, true},
		{"new key with value", Values{}, Values{"y": {"v"}}, false},
		{"removed key", Values{"y": {"v"}}, Values{}, false},
		{"checkbox order", Values{"c": {"a", "b"}}, Values{"c": {"b", "a"}}, false},
		{"checkbox added", Values{"c": {"a"}}, Values{"c": {"a", "b"}}, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Equal(c.a, c.b), c.name)
	}
}

func TestTracker_GlobalFlagIsOr(t *testing.T) {
	tr := NewTracker()
	var flips []bool
	tr.OnChange(func(d bool) { flips = append(flips, d) })

	tr.Track("a", Values{"x": {"1"}})
	tr.Track("b", Values{"y": {"1"}})
	_, _ = tr.Update("a", "x", "2")
	_, _ = tr.Update("b", "y", "2")
	assert.True(t, tr.Dirty())

	require.NoError(t, tr.MarkAsSaved("a"))
	assert.True(t, tr.Dirty())

	tr.Untrack("b")
	assert.False(t, tr.Dirty())
	assert.Equal(t, []bool{true, false}, flips)
	assert.Equal(t, []string{"a"}, tr.FormIDs())
}

func TestTracker_ResetClearsValues(t *testing.T) {
	tr := NewTracker()
	tr.Track("f", Values{"name": {"a"}, "tags": {"x", "y"}})
	_, _ = tr.Update("f", "name", "b")
	require.NoError(t, tr.Reset("f"))
	assert.False(t, tr.Dirty())

	dirty, err := tr.Update("f", "name", "a")
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestTracker_MarkAllSaved(t *testing.T) {
	tr := NewTracker()
	tr.Track("a", Values{})
	tr.Track("b", Values{})
	_, _ = tr.Update("a", "x", "1")
	_, _ = tr.Update("b", "x", "1")
	tr.MarkAllSaved()
	assert.False(t, tr.Dirty())
	s := tr.State()
	assert.Equal(t, map[string]bool{"a": false, "b": false}, s.Forms)
}

func TestTracker_UnknownForm(t *testing.T) {
	tr := NewTracker()
	_, err := tr.Update("nope", "x", "1")
	assert.ErrorIs(t, err, ErrUnknownForm)
	_, err = tr.FormDirty("nope")
	assert.ErrorIs(t, err, ErrUnknownForm)
	assert.ErrorIs(t, tr.MarkAsSaved("nope"), ErrUnknownForm)
	assert.ErrorIs(t, tr.Reset("nope"), ErrUnknownForm)
}

func TestTracker_ConfirmNavigation(t *testing.T) {
	tr := NewTracker()
	asked := 0
	deny := func(msg string) bool {
		asked++
		assert.Equal(t, DefaultConfirmMessage, msg)
		return false
	}

	tr.Track("f", Values{"x": {"1"}})
	assert.True(t, tr.ConfirmNavigation(deny))
	assert.Equal(t, 0, asked)

	_, _ = tr.Update("f", "x", "2")
	assert.False(t, tr.ConfirmNavigation(deny))
	assert.Equal(t, 1, asked)
	assert.True(t, tr.ConfirmNavigation(func(string) bool { return true }))
	assert.False(t, tr.ConfirmNavigation(nil))

	tr.SetEnabled(false)
	assert.True(t, tr.ConfirmNavigation(deny))
	assert.Equal(t, 1, asked)
	assert.True(t, tr.Dirty())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := r.For("s1")
	assert.Same(t, a, r.For("s1"))
	assert.NotSame(t, a, r.For("s2"))
	assert.Equal(t, 2, r.Len())

	r.Drop("s1")
	assert.Equal(t, 1, r.Len())
	assert.NotSame(t, a, r.For("s1"))
}
