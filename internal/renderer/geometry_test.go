package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestBoxGeometry(t *testing.T) {
	g := NewBoxGeometry(2, 4, 0.1)

	if g.VertexCount() != 24 {
		t.Errorf("vertex count = %d, want 24", g.VertexCount())
	}
	if len(g.Faces) != 36 {
		t.Errorf("index count = %d, want 36", len(g.Faces))
	}
	if size := g.Size(); !size.ApproxEqual(mgl32.Vec3{2, 4, 0.1}) {
		t.Errorf("size = %v", size)
	}
	lo, hi := g.Bounds()
	if !lo.ApproxEqual(mgl32.Vec3{-1, -2, -0.05}) || !hi.ApproxEqual(mgl32.Vec3{1, 2, 0.05}) {
		t.Errorf("bounds = %v %v", lo, hi)
	}
	if g.Uploaded() {
		t.Error("new geometry should not own GPU buffers")
	}
}

func TestBoxGeometryWinding(t *testing.T) {
	g := NewBoxGeometry(1, 1, 1)
	for i := 0; i < len(g.Faces); i += 3 {
		a, b, c := vertexAt(g, g.Faces[i]), vertexAt(g, g.Faces[i+1]), vertexAt(g, g.Faces[i+2])
		n := mgl32.Vec3{g.Normals[g.Faces[i]*3], g.Normals[g.Faces[i]*3+1], g.Normals[g.Faces[i]*3+2]}
		if b.Sub(a).Cross(c.Sub(a)).Dot(n) <= 0 {
			t.Fatalf("triangle %d is wound clockwise", i/3)
		}
	}
}

func vertexAt(g *Geometry, i uint32) mgl32.Vec3 {
	return mgl32.Vec3{g.Vertices[i*3], g.Vertices[i*3+1], g.Vertices[i*3+2]}
}

func TestScaleUV(t *testing.T) {
	g := NewPlaneGeometry(1, 1)
	g.ScaleUV(1.8, 3.8)

	var maxU, maxV float32
	for i := 0; i < len(g.TextureCoords); i += 2 {
		maxU = max(maxU, g.TextureCoords[i])
		maxV = max(maxV, g.TextureCoords[i+1])
	}
	if maxU != 1.8 || maxV != 3.8 {
		t.Errorf("max uv = (%v, %v)", maxU, maxV)
	}
}

func TestInterleavedLayout(t *testing.T) {
	g := NewPlaneGeometry(2, 2)
	data := g.Interleaved()

	if len(data) != g.VertexCount()*8 {
		t.Fatalf("interleaved length = %d", len(data))
	}
	// first vertex: position, uv, normal
	want := []float32{-1, -1, 0, 0, 0, 0, 0, 1}
	for i, v := range want {
		if data[i] != v {
			t.Errorf("data[%d] = %v, want %v", i, data[i], v)
		}
	}
}

func TestCylinderGeometry(t *testing.T) {
	g := NewCylinderGeometry(0.05, 0.05, 0.2, 32)

	size := g.Size()
	if !mgl32.FloatEqualThreshold(size.Y(), 0.2, 1e-5) {
		t.Errorf("height = %v", size.Y())
	}
	if !mgl32.FloatEqualThreshold(size.X(), 0.1, 1e-3) {
		t.Errorf("diameter = %v", size.X())
	}
	for _, idx := range g.Faces {
		if int(idx) >= g.VertexCount() {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestConeGeometryHasNoTopCap(t *testing.T) {
	cone := NewConeGeometry(1, 2, 4)
	cylinder := NewCylinderGeometry(1, 1, 2, 4)

	if len(cone.Faces) >= len(cylinder.Faces) {
		t.Errorf("cone should have fewer triangles than a capped cylinder: %d vs %d",
			len(cone.Faces), len(cylinder.Faces))
	}
	lo, hi := cone.Bounds()
	if lo.Y() != -1 || hi.Y() != 1 {
		t.Errorf("cone spans %v..%v", lo.Y(), hi.Y())
	}
}
