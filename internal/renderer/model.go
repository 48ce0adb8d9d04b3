package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Model is a node in the scene graph. A model with Geometry is drawn with
// its Material; a model without one only groups its children.
type Model struct {
	// HOT DATA - read every frame while drawing
	ModelMatrix mgl32.Mat4 // local TRS matrix
	Position    mgl32.Vec3
	Scale       mgl32.Vec3
	Rotation    mgl32.Quat
	Geometry    *Geometry
	Material    *Material
	Visible     bool

	// COLD DATA
	Name     string
	Children []*Model
	parent   *Model
}

// NewGroup returns an empty transform node.
func NewGroup(name string) *Model {
	m := &Model{
		Name:     name,
		Scale:    mgl32.Vec3{1, 1, 1},
		Rotation: mgl32.QuatIdent(),
		Visible:  true,
	}
	m.updateModelMatrix()
	return m
}

// NewMesh returns a drawable node.
func NewMesh(name string, geometry *Geometry, material *Material) *Model {
	m := NewGroup(name)
	m.Geometry = geometry
	m.Material = material
	return m
}

func (m *Model) X() float32 {
	return m.Position[0]
}

func (m *Model) Y() float32 {
	return m.Position[1]
}

func (m *Model) Z() float32 {
	return m.Position[2]
}

// Rotate applies rotations in degrees about X, then Y, then Z.
func (m *Model) Rotate(angleX, angleY, angleZ float32) {
	rotationX := mgl32.QuatRotate(mgl32.DegToRad(angleX), mgl32.Vec3{1, 0, 0})
	rotationY := mgl32.QuatRotate(mgl32.DegToRad(angleY), mgl32.Vec3{0, 1, 0})
	rotationZ := mgl32.QuatRotate(mgl32.DegToRad(angleZ), mgl32.Vec3{0, 0, 1})
	m.Rotation = m.Rotation.Mul(rotationX).Mul(rotationY).Mul(rotationZ)
	m.updateModelMatrix()
}

// SetPosition sets the position of the model
func (m *Model) SetPosition(x, y, z float32) {
	m.Position = mgl32.Vec3{x, y, z}
	m.updateModelMatrix()
}

func (m *Model) SetScale(x, y, z float32) {
	m.Scale = mgl32.Vec3{x, y, z}
	m.updateModelMatrix()
}

func (m *Model) updateModelMatrix() {
	// T * R * S: scale first, then rotate, then translate
	scaleMatrix := mgl32.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2])
	rotationMatrix := m.Rotation.Mat4()
	translationMatrix := mgl32.Translate3D(m.Position[0], m.Position[1], m.Position[2])
	m.ModelMatrix = translationMatrix.Mul4(rotationMatrix).Mul4(scaleMatrix)
}

// WorldMatrix composes the model matrices from the root down to m.
func (m *Model) WorldMatrix() mgl32.Mat4 {
	world := m.ModelMatrix
	for p := m.parent; p != nil; p = p.parent {
		world = p.ModelMatrix.Mul4(world)
	}
	return world
}

// WorldPosition returns the origin of m in world space.
func (m *Model) WorldPosition() mgl32.Vec3 {
	return m.WorldMatrix().Col(3).Vec3()
}

// Parent returns the node m is attached to, or nil.
func (m *Model) Parent() *Model {
	return m.parent
}

// Add attaches child to m, detaching it from any previous parent.
func (m *Model) Add(child *Model) {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = m
	m.Children = append(m.Children, child)
}

// Remove detaches child and reports whether it was attached to m.
func (m *Model) Remove(child *Model) bool {
	for i, c := range m.Children {
		if c == child {
			m.Children = append(m.Children[:i], m.Children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Traverse visits m and its descendants depth first. Returning false from
// fn skips the node's children.
func (m *Model) Traverse(fn func(*Model) bool) {
	if !fn(m) {
		return
	}
	for _, c := range m.Children {
		c.Traverse(fn)
	}
}

// Geometries returns every geometry under m, m included.
func (m *Model) Geometries() []*Geometry {
	var out []*Geometry
	m.Traverse(func(n *Model) bool {
		if n.Geometry != nil {
			out = append(out, n.Geometry)
		}
		return true
	})
	return out
}

// FindByName returns the first node under m with the given name.
func (m *Model) FindByName(name string) *Model {
	var found *Model
	m.Traverse(func(n *Model) bool {
		if found != nil {
			return false
		}
		if n.Name == name {
			found = n
			return false
		}
		return true
	})
	return found
}
