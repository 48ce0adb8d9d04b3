package controls

import (
	"testing"

	"DoorScene/internal/renderer"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrbit() (*Orbit, *renderer.Camera) {
	cam := renderer.NewPerspectiveCamera(75, 1, 0.1, 1000)
	cam.Position = mgl32.Vec3{0, 2, 8}
	return NewOrbit(cam, mgl32.Vec3{}), cam
}

func TestNewOrbitKeepsCameraPosition(t *testing.T) {
	o, cam := newOrbit()

	assert.InDelta(t, math32.Sqrt(68), o.Distance(), 1e-4)
	assert.True(t, cam.Position.ApproxEqualThreshold(mgl32.Vec3{0, 2, 8}, 1e-4), "position %v", cam.Position)

	want := mgl32.Vec3{0, -2, -8}.Normalize()
	assert.True(t, cam.Front.ApproxEqualThreshold(want, 1e-4), "front %v", cam.Front)
}

func TestOrbitDragKeepsDistance(t *testing.T) {
	o, cam := newOrbit()
	before := o.Distance()

	o.Drag(100, 0)
	o.Update(0)

	assert.True(t, o.Dragging())
	assert.InDelta(t, before, cam.Position.Len(), 1e-4)
	assert.NotEqual(t, float32(0), cam.Position.X(), "horizontal drag should swing the camera sideways")
}

func TestOrbitClampsPolarAngle(t *testing.T) {
	o, cam := newOrbit()

	o.Drag(0, -100000)
	o.Update(0)
	assert.InDelta(t, o.MaxPolar, o.phi, 1e-6)
	assert.Greater(t, cam.Position.Y(), float32(0), "camera must not dip below the target")

	o.Drag(0, 100000)
	o.Update(0)
	assert.InDelta(t, o.MinPolar, o.phi, 1e-6)
}

func TestOrbitZoomClamps(t *testing.T) {
	o, _ := newOrbit()

	o.Zoom(1000)
	assert.Equal(t, o.MinDistance, o.Distance())

	o.Zoom(-1000)
	assert.Equal(t, o.MaxDistance, o.Distance())
}

func TestOrbitReleaseDampsToRest(t *testing.T) {
	o, cam := newOrbit()

	o.Drag(20, 0)
	o.Release()
	require.False(t, o.Settled())

	released := cam.Position
	o.Update(1.0 / 60)
	assert.False(t, cam.Position.ApproxEqual(released), "camera should keep drifting after release")

	for i := 0; i < 120; i++ {
		o.Update(1.0 / 60)
	}
	assert.True(t, o.Settled())

	rest := cam.Position
	o.Update(1.0 / 60)
	assert.Equal(t, rest, cam.Position, "camera must stay put once settled")
}

func TestOrbitReleaseWithoutDrag(t *testing.T) {
	o, _ := newOrbit()
	o.Release()
	assert.True(t, o.Settled())
}

func TestOrbitReleaseAfterHoldingStill(t *testing.T) {
	o, cam := newOrbit()

	o.Drag(20, 0)
	o.Update(1.0 / 60)
	for i := 0; i < 30; i++ {
		o.Update(1.0 / 60)
	}
	o.Release()
	assert.True(t, o.Settled(), "a drag that stopped before release must not coast")

	held := cam.Position
	for i := 0; i < 60; i++ {
		o.Update(1.0 / 60)
	}
	assert.Equal(t, held, cam.Position)
}

func TestOrbitDampingIgnoresFrameRate(t *testing.T) {
	coast := func(fps int) float32 {
		o, _ := newOrbit()
		o.Drag(20, 0)
		o.Release()
		start := o.theta
		for i := 0; i < 2*fps; i++ {
			o.Update(1 / float32(fps))
		}
		require.True(t, o.Settled())
		return o.theta - start
	}

	slow, fast := coast(60), coast(144)
	assert.Less(t, slow, float32(0))
	assert.InDelta(t, slow, fast, 0.1)
}
