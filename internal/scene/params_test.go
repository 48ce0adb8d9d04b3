package scene

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/data/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBindings(t *testing.T, w, h float64) (binding.Float, binding.Float) {
	t.Helper()
	width, height := binding.NewFloat(), binding.NewFloat()
	require.NoError(t, width.Set(w))
	require.NoError(t, height.Set(h))
	return width, height
}

func waitForParams(t *testing.T, w *ParameterWatcher) DoorParameters {
	t.Helper()
	var got DoorParameters
	require.Eventually(t, func() bool {
		p, ok := w.Poll()
		if ok {
			got = p
		}
		return ok
	}, time.Second, 5*time.Millisecond)
	return got
}

func TestParameterWatcherDeliversPair(t *testing.T) {
	width, height := newBindings(t, 2, 4)
	w := NewParameterWatcher(width, height)
	defer w.Close()

	require.NoError(t, width.Set(3))

	assert.Equal(t, DoorParameters{Width: 3, Height: 4}, waitForParams(t, w))
}

func TestParameterWatcherIgnoresInitialValues(t *testing.T) {
	width, height := newBindings(t, 2, 4)
	w := NewParameterWatcher(width, height)
	defer w.Close()

	// Registration notifies once with the unchanged values.
	time.Sleep(50 * time.Millisecond)
	_, ok := w.Poll()
	assert.False(t, ok)
}

func TestParameterWatcherKeepsNewest(t *testing.T) {
	width, height := newBindings(t, 2, 4)
	w := NewParameterWatcher(width, height)
	defer w.Close()

	require.NoError(t, width.Set(3))
	require.NoError(t, height.Set(6))
	require.NoError(t, width.Set(4.5))

	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.last == DoorParameters{Width: 4.5, Height: 6}
	}, time.Second, 5*time.Millisecond)

	p, ok := w.Poll()
	require.True(t, ok)
	assert.Equal(t, DoorParameters{Width: 4.5, Height: 6}, p)
	_, ok = w.Poll()
	assert.False(t, ok, "older pairs are coalesced away")
}

func TestParameterWatcherClose(t *testing.T) {
	width, height := newBindings(t, 2, 4)
	w := NewParameterWatcher(width, height)

	require.NoError(t, w.Close())
	require.NoError(t, width.Set(3))

	time.Sleep(50 * time.Millisecond)
	_, ok := w.Poll()
	assert.False(t, ok)
	assert.NoError(t, w.Close())
}

func TestClampRanges(t *testing.T) {
	assert.Equal(t, 1.0, ClampWidth(0.2))
	assert.Equal(t, 5.0, ClampWidth(7))
	assert.Equal(t, 2.5, ClampWidth(2.5))
	assert.Equal(t, 2.0, ClampHeight(1))
	assert.Equal(t, 8.0, ClampHeight(9))
	assert.Equal(t, 4.0, ClampHeight(4))
}
