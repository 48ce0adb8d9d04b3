package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

var FaceCullingEnabled bool = false
var Debug bool = false
var DepthTestEnabled bool = true

type LightMode string

const (
	AmbientLight     LightMode = "ambient"
	DirectionalLight LightMode = "directional"
	PointLight       LightMode = "point"
)

// MaxLights is the number of non-ambient lights the default shader reads.
const MaxLights = 4

type Light struct {
	Mode      LightMode
	Position  mgl32.Vec3 // point lights
	Direction mgl32.Vec3 // directional lights, pointing away from the source
	Color     mgl32.Vec3
	Intensity float32
	Range     float32 // point light falloff distance
}

func CreateAmbientLight(color mgl32.Vec3, intensity float32) *Light {
	return &Light{Mode: AmbientLight, Color: color, Intensity: intensity}
}

// CreateDirectionalLight creates a directional light (like the sun)
func CreateDirectionalLight(direction mgl32.Vec3, color mgl32.Vec3, intensity float32) *Light {
	return &Light{
		Mode:      DirectionalLight,
		Direction: direction.Normalize(),
		Color:     color,
		Intensity: intensity,
	}
}

// CreatePointLight creates a point light that fades out at range_
func CreatePointLight(position mgl32.Vec3, color mgl32.Vec3, intensity float32, range_ float32) *Light {
	return &Light{
		Mode:      PointLight,
		Position:  position,
		Color:     color,
		Intensity: intensity,
		Range:     range_,
	}
}

// Render is the drawing surface the scene is presented on.
type Render interface {
	Render(scene *Scene, camera *Camera)
	SetSize(width, height int32)
	Size() (int32, int32)
	ReleaseTexture(t *Texture)
	ReleaseGeometry(g *Geometry)
	Dispose() error
	CubeRenderer
}

// CubeRenderer captures a scene into a cube render target.
type CubeRenderer interface {
	RenderCube(scene *Scene, probe *CubeCamera)
}
