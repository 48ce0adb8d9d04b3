package scene

import "DoorScene/internal/renderer"

// ReflectionUpdater refreshes the environment map of one reflective mesh
// from the mesh's own position.
type ReflectionUpdater struct {
	Mesh     *renderer.Model
	Probe    *renderer.CubeCamera
	Renderer renderer.CubeRenderer
	Scene    *renderer.Scene
}

// Update hides the mesh, captures the scene into the probe and shows the
// mesh again. A mesh left visible during capture would reflect its own
// inside.
func (u *ReflectionUpdater) Update() {
	u.Probe.Position = u.Mesh.WorldPosition()

	visible := u.Mesh.Visible
	u.Mesh.Visible = false
	defer func() { u.Mesh.Visible = visible }()

	u.Probe.Update(u.Renderer, u.Scene)
}
