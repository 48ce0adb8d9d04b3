// Package controls moves the scene camera in response to pointer input.
package controls

import (
	"DoorScene/internal/renderer"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Orbit keeps the camera on a sphere around Target. Dragging rotates it,
// scrolling changes the radius, and releasing lets the drag velocity of the
// last frame decay to rest.
type Orbit struct {
	Camera *renderer.Camera
	Target mgl32.Vec3

	MinDistance float32
	MaxDistance float32
	MinPolar    float32 // radians from +Y
	MaxPolar    float32
	RotateSpeed float32 // radians per pixel
	ZoomSpeed   float32 // distance per scroll step
	DampingTime float32 // seconds for a released drag to stop

	radius float32
	theta  float32 // azimuth about +Y, 0 on +Z
	phi    float32 // polar angle

	// Rotation dragged since the last Update, in radians.
	pendingTheta, pendingPhi float32
	// Angular velocity in radians per second.
	velTheta, velPhi float32
	frameDt          float32
	damping          *gween.Tween
	dragging         bool
}

// NewOrbit derives the orbit from the camera's current position.
func NewOrbit(camera *renderer.Camera, target mgl32.Vec3) *Orbit {
	o := &Orbit{
		Camera:      camera,
		Target:      target,
		MinDistance: 2,
		MaxDistance: 30,
		MinPolar:    0.05,
		MaxPolar:    math32.Pi/2 - 0.02,
		RotateSpeed: 0.005,
		ZoomSpeed:   0.5,
		DampingTime: 0.6,
		frameDt:     1.0 / 60,
	}
	o.sync()
	o.apply()
	return o
}

// sync reads the spherical coordinates from the camera position.
func (o *Orbit) sync() {
	offset := o.Camera.Position.Sub(o.Target)
	o.radius = offset.Len()
	if o.radius == 0 {
		o.radius = o.MinDistance
		offset = mgl32.Vec3{0, 0, o.radius}
	}
	o.theta = math32.Atan2(offset.X(), offset.Z())
	o.phi = math32.Acos(mgl32.Clamp(offset.Y()/o.radius, -1, 1))
	o.clamp()
}

func (o *Orbit) clamp() {
	o.radius = mgl32.Clamp(o.radius, o.MinDistance, o.MaxDistance)
	o.phi = mgl32.Clamp(o.phi, o.MinPolar, o.MaxPolar)
}

// Drag rotates by a pointer delta in pixels.
func (o *Orbit) Drag(dx, dy float32) {
	o.dragging = true
	o.damping = nil
	dTheta, dPhi := -dx*o.RotateSpeed, -dy*o.RotateSpeed
	o.theta += dTheta
	o.phi += dPhi
	o.pendingTheta += dTheta
	o.pendingPhi += dPhi
	o.clamp()
}

// track turns the rotation dragged during the last dt seconds into a
// velocity. A frame without drag input leaves the orbit at rest.
func (o *Orbit) track(dt float32) {
	if dt <= 0 {
		return
	}
	o.velTheta = o.pendingTheta / dt
	o.velPhi = o.pendingPhi / dt
	o.pendingTheta, o.pendingPhi = 0, 0
	o.frameDt = dt
}

// Release ends a drag; the last frame's drag velocity then eases out over
// DampingTime.
func (o *Orbit) Release() {
	if !o.dragging {
		return
	}
	o.dragging = false
	if o.pendingTheta != 0 || o.pendingPhi != 0 {
		o.track(o.frameDt)
	}
	if o.velTheta == 0 && o.velPhi == 0 {
		return
	}
	o.damping = gween.New(1, 0, o.DampingTime, ease.OutCubic)
}

// Zoom moves towards the target for positive steps.
func (o *Orbit) Zoom(steps float32) {
	o.radius -= steps * o.ZoomSpeed
	o.clamp()
}

func (o *Orbit) Dragging() bool {
	return o.dragging
}

// Settled reports whether no damping motion is pending.
func (o *Orbit) Settled() bool {
	return o.damping == nil
}

func (o *Orbit) Distance() float32 {
	return o.radius
}

// Update advances damping by dt seconds and writes the camera.
func (o *Orbit) Update(dt float32) {
	if o.dragging {
		o.track(dt)
	} else if o.damping != nil {
		factor, done := o.damping.Update(dt)
		o.theta += o.velTheta * factor * dt
		o.phi += o.velPhi * factor * dt
		o.clamp()
		if done {
			o.damping = nil
			o.velTheta, o.velPhi = 0, 0
		}
	}
	o.apply()
}

func (o *Orbit) apply() {
	sinPhi := math32.Sin(o.phi)
	offset := mgl32.Vec3{
		o.radius * sinPhi * math32.Sin(o.theta),
		o.radius * math32.Cos(o.phi),
		o.radius * sinPhi * math32.Cos(o.theta),
	}
	o.Camera.Position = o.Target.Add(offset)
	o.Camera.LookAt(o.Target)
}
