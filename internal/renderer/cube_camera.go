package renderer

import "github.com/go-gl/mathgl/mgl32"

// CubeRenderTarget is a cube map the scene is captured into. The GL objects
// are created lazily by the renderer on the render thread.
type CubeRenderTarget struct {
	Size int32

	texture, framebuffer, depth uint32
}

// Uploaded reports whether the target currently owns GPU resources.
func (t *CubeRenderTarget) Uploaded() bool {
	return t.texture != 0
}

// CubeCamera renders the six faces of its target from one point, giving a
// reflective material an environment that follows the scene.
type CubeCamera struct {
	Position mgl32.Vec3
	Near     float32
	Far      float32
	Target   *CubeRenderTarget
}

func NewCubeCamera(near, far float32, resolution int32) *CubeCamera {
	return &CubeCamera{
		Near:   near,
		Far:    far,
		Target: &CubeRenderTarget{Size: resolution},
	}
}

// Update captures scene into the camera's target.
func (c *CubeCamera) Update(r CubeRenderer, scene *Scene) {
	r.RenderCube(scene, c)
}

// Projection is the 90 degree square frustum shared by all faces.
func (c *CubeCamera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(90), 1, c.Near, c.Far)
}

// cubeFaces lists direction and up vectors in GL face order
// (+X, -X, +Y, -Y, +Z, -Z).
var cubeFaces = [6][2]mgl32.Vec3{
	{{1, 0, 0}, {0, -1, 0}},
	{{-1, 0, 0}, {0, -1, 0}},
	{{0, 1, 0}, {0, 0, 1}},
	{{0, -1, 0}, {0, 0, -1}},
	{{0, 0, 1}, {0, -1, 0}},
	{{0, 0, -1}, {0, -1, 0}},
}

// FaceViews returns the view matrix of every cube face.
func (c *CubeCamera) FaceViews() [6]mgl32.Mat4 {
	var views [6]mgl32.Mat4
	for i, f := range cubeFaces {
		views[i] = mgl32.LookAtV(c.Position, c.Position.Add(f[0]), f[1])
	}
	return views
}
