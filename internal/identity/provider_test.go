package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pclogr/pclogr/internal/model"
)

func TestNotifierCurrent(t *testing.T) {
	t.Parallel()

	n := NewNotifier()

	_, ok := n.Current()
	assert.False(t, ok)

	n.Set("u-1")
	uid, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, model.UserID("u-1"), uid)

	n.Set("")
	_, ok = n.Current()
	assert.False(t, ok)
}

func TestNotifierTransitions(t *testing.T) {
	t.Parallel()

	n := NewNotifier()

	var seen []model.UserID
	unsubscribe := n.Subscribe(func(uid model.UserID) { seen = append(seen, uid) })

	n.Set("u-1")
	n.Set("u-1") // no transition, no notification
	n.Set("")
	n.Set("u-2")

	assert.Equal(t, []model.UserID{"u-1", "", "u-2"}, seen)

	unsubscribe()
	n.Set("u-3")
	assert.Len(t, seen, 3)
}

func TestNotifierMultipleListeners(t *testing.T) {
	t.Parallel()

	n := NewNotifier()

	var a, b int
	n.Subscribe(func(model.UserID) { a++ })
	stop := n.Subscribe(func(model.UserID) { b++ })

	n.Set("u-1")
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)

	stop()
	n.Set("u-2")
	assert.Equal(t, 2, a)
	assert.Equal(t, 1, b)
}
