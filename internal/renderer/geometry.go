package renderer

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is indexed triangle data plus the GPU buffers it is uploaded to.
// Geometries are never shared between models built by the door builder, so
// releasing one never affects another model.
type Geometry struct {
	Vertices      []float32 // x, y, z per vertex
	Normals       []float32 // x, y, z per vertex
	TextureCoords []float32 // u, v per vertex
	Faces         []uint32

	vao, vbo, ebo uint32
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Vertices) / 3
}

// Uploaded reports whether the geometry currently owns GPU buffers.
func (g *Geometry) Uploaded() bool {
	return g.vao != 0
}

// Interleaved packs position, uv and normal per vertex, the layout the
// default shader reads.
func (g *Geometry) Interleaved() []float32 {
	n := g.VertexCount()
	data := make([]float32, 0, n*8)
	for i := 0; i < n; i++ {
		data = append(data, g.Vertices[i*3], g.Vertices[i*3+1], g.Vertices[i*3+2])
		data = append(data, g.TextureCoords[i*2], g.TextureCoords[i*2+1])
		data = append(data, g.Normals[i*3], g.Normals[i*3+1], g.Normals[i*3+2])
	}
	return data
}

// ScaleUV multiplies every texture coordinate, so a repeating texture keeps
// a constant density when the geometry is resized.
func (g *Geometry) ScaleUV(u, v float32) {
	for i := 0; i+1 < len(g.TextureCoords); i += 2 {
		g.TextureCoords[i] *= u
		g.TextureCoords[i+1] *= v
	}
}

// Bounds returns the axis-aligned bounding box in local space.
func (g *Geometry) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	if len(g.Vertices) < 3 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	lo := mgl32.Vec3{g.Vertices[0], g.Vertices[1], g.Vertices[2]}
	hi := lo
	for i := 3; i+2 < len(g.Vertices); i += 3 {
		for k := 0; k < 3; k++ {
			lo[k] = math32.Min(lo[k], g.Vertices[i+k])
			hi[k] = math32.Max(hi[k], g.Vertices[i+k])
		}
	}
	return lo, hi
}

// Size returns the extent of the bounding box.
func (g *Geometry) Size() mgl32.Vec3 {
	lo, hi := g.Bounds()
	return hi.Sub(lo)
}

func (g *Geometry) addVertex(p, n mgl32.Vec3, u, v float32) uint32 {
	idx := uint32(g.VertexCount())
	g.Vertices = append(g.Vertices, p.X(), p.Y(), p.Z())
	g.Normals = append(g.Normals, n.X(), n.Y(), n.Z())
	g.TextureCoords = append(g.TextureCoords, u, v)
	return idx
}

// addQuad appends a quad spanned from origin along du and dv, wound
// counter-clockwise when seen from the side normal points to.
func (g *Geometry) addQuad(origin, du, dv, normal mgl32.Vec3) {
	a := g.addVertex(origin, normal, 0, 0)
	b := g.addVertex(origin.Add(du), normal, 1, 0)
	c := g.addVertex(origin.Add(du).Add(dv), normal, 1, 1)
	d := g.addVertex(origin.Add(dv), normal, 0, 1)
	g.Faces = append(g.Faces, a, b, c, a, c, d)
}

// NewBoxGeometry returns a box centred on the origin. Each face carries its
// own 0..1 UVs.
func NewBoxGeometry(width, height, depth float32) *Geometry {
	g := &Geometry{}
	hx, hy, hz := width/2, height/2, depth/2
	x := mgl32.Vec3{width, 0, 0}
	y := mgl32.Vec3{0, height, 0}
	z := mgl32.Vec3{0, 0, depth}

	g.addQuad(mgl32.Vec3{-hx, -hy, hz}, x, y, mgl32.Vec3{0, 0, 1})          // pz
	g.addQuad(mgl32.Vec3{hx, -hy, -hz}, x.Mul(-1), y, mgl32.Vec3{0, 0, -1}) // nz
	g.addQuad(mgl32.Vec3{hx, -hy, hz}, z.Mul(-1), y, mgl32.Vec3{1, 0, 0})   // px
	g.addQuad(mgl32.Vec3{-hx, -hy, -hz}, z, y, mgl32.Vec3{-1, 0, 0})        // nx
	g.addQuad(mgl32.Vec3{-hx, hy, hz}, x, z.Mul(-1), mgl32.Vec3{0, 1, 0})   // py
	g.addQuad(mgl32.Vec3{-hx, -hy, -hz}, x, z, mgl32.Vec3{0, -1, 0})        // ny
	return g
}

// NewPlaneGeometry returns a plane in XY facing +Z, centred on the origin.
func NewPlaneGeometry(width, height float32) *Geometry {
	g := &Geometry{}
	g.addQuad(mgl32.Vec3{-width / 2, -height / 2, 0}, mgl32.Vec3{width, 0, 0}, mgl32.Vec3{0, height, 0}, mgl32.Vec3{0, 0, 1})
	return g
}

// NewCylinderGeometry returns a capped cylinder along Y centred on the
// origin. A zero top radius yields a cone; four segments a pyramid.
func NewCylinderGeometry(radiusTop, radiusBottom, height float32, radialSegments int) *Geometry {
	if radialSegments < 3 {
		radialSegments = 3
	}
	g := &Geometry{}
	hy := height / 2
	slope := (radiusBottom - radiusTop) / height

	for i := 0; i <= radialSegments; i++ {
		u := float32(i) / float32(radialSegments)
		theta := u * 2 * math32.Pi
		sin, cos := math32.Sin(theta), math32.Cos(theta)
		normal := mgl32.Vec3{sin, slope, cos}.Normalize()
		g.addVertex(mgl32.Vec3{radiusTop * sin, hy, radiusTop * cos}, normal, u, 1)
		g.addVertex(mgl32.Vec3{radiusBottom * sin, -hy, radiusBottom * cos}, normal, u, 0)
	}
	for i := 0; i < radialSegments; i++ {
		top, bottom := uint32(i*2), uint32(i*2+1)
		nextTop, nextBottom := top+2, bottom+2
		g.Faces = append(g.Faces, top, bottom, nextBottom, top, nextBottom, nextTop)
	}

	g.addCap(radiusTop, hy, radialSegments, 1)
	g.addCap(radiusBottom, -hy, radialSegments, -1)
	return g
}

// NewConeGeometry returns a cone along Y; radialSegments of 4 gives a
// square pyramid.
func NewConeGeometry(radius, height float32, radialSegments int) *Geometry {
	return NewCylinderGeometry(0, radius, height, radialSegments)
}

func (g *Geometry) addCap(radius, y float32, segments int, side float32) {
	if radius <= 0 {
		return
	}
	normal := mgl32.Vec3{0, side, 0}
	center := g.addVertex(mgl32.Vec3{0, y, 0}, normal, 0.5, 0.5)
	first := uint32(g.VertexCount())
	for i := 0; i <= segments; i++ {
		theta := float32(i) / float32(segments) * 2 * math32.Pi
		sin, cos := math32.Sin(theta), math32.Cos(theta)
		g.addVertex(mgl32.Vec3{radius * sin, y, radius * cos}, normal, 0.5+sin/2, 0.5+cos/2)
	}
	for i := 0; i < segments; i++ {
		a, b := first+uint32(i), first+uint32(i+1)
		if side > 0 {
			g.Faces = append(g.Faces, center, a, b)
		} else {
			g.Faces = append(g.Faces, center, b, a)
		}
	}
}
