package door

import (
	"image"
	"testing"

	"DoorScene/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTextures() Textures {
	return Textures{
		Wood:   &renderer.Texture{Name: "wood.jpg", RGBA: image.NewRGBA(image.Rect(0, 0, 2, 2))},
		Marble: &renderer.Texture{Name: "marble.jpg", RGBA: image.NewRGBA(image.Rect(0, 0, 2, 2))},
	}
}

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(testTextures())
	require.NoError(t, err)
	return b
}

func sizeOf(t *testing.T, door *renderer.Model, name string) mgl32.Vec3 {
	t.Helper()
	node := door.FindByName(name)
	require.NotNil(t, node, "missing %s", name)
	return node.Geometry.Size()
}

func assertVec(t *testing.T, want, got mgl32.Vec3, msg string) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-5), "%s: want %v, got %v", msg, want, got)
}

func TestNewBuilderRequiresTextures(t *testing.T) {
	_, err := NewBuilder(Textures{Wood: testTextures().Wood})
	assert.ErrorIs(t, err, ErrMissingTexture)

	_, err = NewBuilder(Textures{Marble: testTextures().Marble})
	assert.ErrorIs(t, err, ErrMissingTexture)
}

func TestBuildTwoByFour(t *testing.T) {
	b := newTestBuilder(t)

	door, err := b.Build(2, 4)
	require.NoError(t, err)

	assert.Equal(t, GroupName, door.Name)
	assert.Len(t, door.Children, 6)

	const ft = FrameThickness
	assertVec(t, mgl32.Vec3{2 - 2*ft, 4 - 2*ft, PanelDepth}, sizeOf(t, door, "panel"), "panel")
	assertVec(t, mgl32.Vec3{2, ft, FrameDepth}, sizeOf(t, door, "frame-top"), "top")
	assertVec(t, mgl32.Vec3{2, ft, FrameDepth}, sizeOf(t, door, "frame-bottom"), "bottom")
	assertVec(t, mgl32.Vec3{ft, 4, FrameDepth}, sizeOf(t, door, "frame-left"), "left")
	assertVec(t, mgl32.Vec3{ft, 4, FrameDepth}, sizeOf(t, door, "frame-right"), "right")

	handle := door.FindByName("handle")
	require.NotNil(t, handle)
	assert.InDelta(t, 1-ft-0.1, handle.X(), 1e-6)

	// Bottom edge of the door rests on the floor plane.
	assert.InDelta(t, 4.0/2-FloorOffset, door.Y(), 1e-6)
	bottom := door.FindByName("frame-bottom")
	assert.InDelta(t, -FloorOffset+ft/2, bottom.WorldPosition().Y(), 1e-5)
}

func TestFrameSegmentsAreFlushWithPanel(t *testing.T) {
	b := newTestBuilder(t)
	door, err := b.Build(3, 5)
	require.NoError(t, err)

	panelHalfW := sizeOf(t, door, "panel").X() / 2
	left := door.FindByName("frame-left")
	right := door.FindByName("frame-right")

	assert.InDelta(t, -panelHalfW, left.X()+FrameThickness/2, 1e-5)
	assert.InDelta(t, panelHalfW, right.X()-FrameThickness/2, 1e-5)

	panelHalfH := sizeOf(t, door, "panel").Y() / 2
	top := door.FindByName("frame-top")
	assert.InDelta(t, panelHalfH, top.Y()-FrameThickness/2, 1e-5)
}

func TestHandlePointsOutOfPanel(t *testing.T) {
	b := newTestBuilder(t)
	door, err := b.Build(2, 4)
	require.NoError(t, err)

	handle := door.FindByName("handle")
	axis := handle.ModelMatrix.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	assertVec(t, mgl32.Vec3{0, 0, 1}, axis, "handle axis")
	assert.Greater(t, handle.Z(), float32(PanelDepth/2))
}

func TestBuildIsDeterministicWithSharedMaterials(t *testing.T) {
	b := newTestBuilder(t)

	first, err := b.Build(2.5, 6)
	require.NoError(t, err)
	second, err := b.Build(2.5, 6)
	require.NoError(t, err)

	require.Equal(t, len(first.Children), len(second.Children))
	assert.Equal(t, first.Position, second.Position)
	for i := range first.Children {
		a, c := first.Children[i], second.Children[i]
		assert.Equal(t, a.Name, c.Name)
		assert.Equal(t, a.Position, c.Position)
		assert.NotSame(t, a.Geometry, c.Geometry, "%s geometry must not be shared", a.Name)
		assert.Equal(t, a.Geometry.Vertices, c.Geometry.Vertices)
	}

	assert.Same(t, b.FrameMaterial(), first.FindByName("frame-top").Material)
	assert.Same(t, b.FrameMaterial(), second.FindByName("frame-left").Material)
	assert.Same(t, b.HandleMaterial(), first.FindByName("handle").Material)
	assert.Same(t, b.HandleMaterial(), second.FindByName("handle").Material)
}

func TestPanelTextureRepeats(t *testing.T) {
	b := newTestBuilder(t)
	door, err := b.Build(2, 4)
	require.NoError(t, err)

	panel := door.FindByName("panel")
	assert.Same(t, b.textures.Wood, panel.Material.Texture)
	assert.Equal(t, mgl32.Vec2{PanelRepeat, PanelRepeat}, panel.Material.TextureRepeat)
	assert.Equal(t, renderer.WrapRepeat, panel.Material.Texture.Wrap)

	var maxU, maxV float32
	uv := panel.Geometry.TextureCoords
	for i := 0; i < len(uv); i += 2 {
		maxU, maxV = max(maxU, uv[i]), max(maxV, uv[i+1])
	}
	assert.InDelta(t, 2-2*FrameThickness, maxU, 1e-5)
	assert.InDelta(t, 4-2*FrameThickness, maxV, 1e-5)
}

func TestBuildRejectsDegenerateDimensions(t *testing.T) {
	b := newTestBuilder(t)

	for _, dims := range [][2]float32{{0.2, 4}, {2, 0.2}, {0.1, 0.1}, {-1, 4}} {
		_, err := b.Build(dims[0], dims[1])
		assert.ErrorIs(t, err, ErrDegenerateDoor, "%v", dims)
	}
}
