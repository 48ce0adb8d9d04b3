package engine

import (
	"testing"

	"DoorScene/internal/config"

	"github.com/stretchr/testify/assert"
)

func newTestWindow() *Window {
	return NewWindow(config.Window{Width: 640, Height: 480, Title: "test"})
}

func TestFramesRunOnceInRequestOrder(t *testing.T) {
	w := newTestWindow()
	var order []int
	w.RequestFrame(func(float64) { order = append(order, 1) })
	w.RequestFrame(func(float64) { order = append(order, 2) })

	assert.True(t, w.runFrames(0.016))
	assert.Equal(t, []int{1, 2}, order)

	assert.False(t, w.runFrames(0.016), "callbacks run once per request")
	assert.Equal(t, []int{1, 2}, order)
}

func TestFrameRequestedDuringFrameWaits(t *testing.T) {
	w := newTestWindow()
	runs := 0
	var loop func(float64)
	loop = func(float64) {
		runs++
		w.RequestFrame(loop)
	}
	w.RequestFrame(loop)

	w.runFrames(0.016)
	assert.Equal(t, 1, runs)
	w.runFrames(0.016)
	assert.Equal(t, 2, runs)
}

func TestCancelFrame(t *testing.T) {
	w := newTestWindow()
	var dt float64
	h := w.RequestFrame(func(d float64) { dt = d })
	w.RequestFrame(func(float64) {})

	w.CancelFrame(h)
	w.runFrames(0.5)

	assert.Zero(t, dt)
}

func TestResizeListeners(t *testing.T) {
	w := newTestWindow()
	var calls []string
	removeA := w.OnResize(func() { calls = append(calls, "a") })
	w.OnResize(func() { calls = append(calls, "b") })

	w.notifyResize()
	assert.Equal(t, []string{"a", "b"}, calls)

	removeA()
	w.notifyResize()
	assert.Equal(t, []string{"a", "b", "b"}, calls)
}

func TestSizeBeforeOpen(t *testing.T) {
	w := newTestWindow()
	width, height := w.Size()
	assert.Equal(t, 640, width)
	assert.Equal(t, 480, height)
}
