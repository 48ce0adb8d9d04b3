package renderer

import "github.com/go-gl/mathgl/mgl32"

// Scene is the root of a scene graph plus its lights.
type Scene struct {
	Root       *Model
	Lights     []*Light
	Background mgl32.Vec3
}

func NewScene() *Scene {
	return &Scene{
		Root:       NewGroup("root"),
		Background: mgl32.Vec3{0.05, 0.05, 0.08},
	}
}

func (s *Scene) Add(m *Model) {
	s.Root.Add(m)
}

func (s *Scene) Remove(m *Model) bool {
	return s.Root.Remove(m)
}

func (s *Scene) AddLight(l *Light) {
	s.Lights = append(s.Lights, l)
}

// Ambient sums the ambient lights.
func (s *Scene) Ambient() mgl32.Vec3 {
	var sum mgl32.Vec3
	for _, l := range s.Lights {
		if l.Mode == AmbientLight {
			sum = sum.Add(l.Color.Mul(l.Intensity))
		}
	}
	return sum
}

// DrawList returns the visible drawable models with their world matrices.
// Invisible nodes hide their whole subtree.
func (s *Scene) DrawList() []DrawItem {
	var items []DrawItem
	var walk func(m *Model, parent mgl32.Mat4)
	walk = func(m *Model, parent mgl32.Mat4) {
		if !m.Visible {
			return
		}
		world := parent.Mul4(m.ModelMatrix)
		if m.Geometry != nil && m.Material != nil {
			items = append(items, DrawItem{Model: m, World: world})
		}
		for _, c := range m.Children {
			walk(c, world)
		}
	}
	walk(s.Root, mgl32.Ident4())
	return items
}

type DrawItem struct {
	Model *Model
	World mgl32.Mat4
}
