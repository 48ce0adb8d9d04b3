// Package door builds the parametric door sub-scene: a wooden panel, four
// frame segments and a marble handle grouped under one node.
package door

import (
	"errors"
	"fmt"

	"DoorScene/internal/renderer"
)

const (
	FrameThickness = 0.1  // margin subtracted on each side to size the panel
	FrameDepth     = 0.15 // frame segments stand proud of the panel
	PanelDepth     = 0.05
	FloorOffset    = 1.0 // the floor plane sits at y = -FloorOffset

	HandleRadius   = 0.05
	HandleLength   = 0.2
	HandleInset    = 0.1 // distance from the inner frame edge to the handle
	HandleSegments = 32

	PanelRepeat = 0.5

	// GroupName names the node Build returns.
	GroupName = "door"
)

var (
	ErrMissingTexture = errors.New("door: wood and marble textures are required")
	ErrDegenerateDoor = errors.New("door: dimensions must exceed twice the frame thickness")
)

// Textures the builder samples. Both must be loaded before a Builder exists.
type Textures struct {
	Wood   *renderer.Texture
	Marble *renderer.Texture
}

// Builder produces door sub-graphs. Its frame and handle materials are made
// once in NewBuilder and shared by every door it builds.
type Builder struct {
	textures Textures
	frame    *renderer.Material
	handle   *renderer.Material
}

func NewBuilder(t Textures) (*Builder, error) {
	if t.Wood == nil || t.Marble == nil {
		return nil, ErrMissingTexture
	}
	return &Builder{
		textures: t,
		frame:    renderer.NewTexturedMaterial("door-frame", t.Wood).SetPBR(0.0, 0.8),
		handle:   renderer.NewTexturedMaterial("door-handle", t.Marble).SetPBR(0.9, 0.2),
	}, nil
}

func (b *Builder) FrameMaterial() *renderer.Material {
	return b.frame
}

func (b *Builder) HandleMaterial() *renderer.Material {
	return b.handle
}

// Build returns a new door group for the given outer width and height. The
// group's bottom edge rests on the floor plane. Geometry is never shared
// between calls.
func (b *Builder) Build(width, height float32) (*renderer.Model, error) {
	const t = FrameThickness
	if width <= 2*t || height <= 2*t {
		return nil, fmt.Errorf("%w: %gx%g", ErrDegenerateDoor, width, height)
	}
	innerW, innerH := width-2*t, height-2*t

	door := renderer.NewGroup(GroupName)

	// Panel UVs follow the inner size so the grain keeps its density.
	panelGeometry := renderer.NewBoxGeometry(innerW, innerH, PanelDepth)
	panelGeometry.ScaleUV(innerW, innerH)
	panelMaterial := renderer.NewTexturedMaterial("door-panel", b.textures.Wood).
		SetPBR(0.0, 0.7).
		SetRepeat(PanelRepeat, PanelRepeat)
	door.Add(renderer.NewMesh("panel", panelGeometry, panelMaterial))

	halfW, halfH := width/2, height/2
	segments := []struct {
		name string
		w, h float32
		x, y float32
	}{
		{"frame-top", width, t, 0, halfH - t/2},
		{"frame-bottom", width, t, 0, -halfH + t/2},
		{"frame-left", t, height, -halfW + t/2, 0},
		{"frame-right", t, height, halfW - t/2, 0},
	}
	for _, s := range segments {
		segment := renderer.NewMesh(s.name, renderer.NewBoxGeometry(s.w, s.h, FrameDepth), b.frame)
		segment.SetPosition(s.x, s.y, 0)
		door.Add(segment)
	}

	// The cylinder is built along Y; tipping it about X points it out of the panel.
	handle := renderer.NewMesh("handle",
		renderer.NewCylinderGeometry(HandleRadius, HandleRadius, HandleLength, HandleSegments),
		b.handle)
	handle.Rotate(90, 0, 0)
	handle.SetPosition(halfW-t-HandleInset, 0, PanelDepth/2+HandleLength/2)
	door.Add(handle)

	door.SetPosition(0, halfH-FloorOffset, 0)
	return door, nil
}
