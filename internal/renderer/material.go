package renderer

import "github.com/go-gl/mathgl/mgl32"

type Material struct {
	// HOT DATA - Accessed every render call for shading calculations
	DiffuseColor  [3]float32 // Base color, multiplied with the texture
	SpecularColor [3]float32 // Specular highlight color
	Shininess     float32    // Specular exponent
	Metallic      float32    // 0.0 = dielectric, 1.0 = metallic
	Roughness     float32    // 0.0 = mirror, 1.0 = completely rough
	Alpha         float32    // Transparency (0.0 = transparent, 1.0 = opaque)
	Texture       *Texture   // Diffuse map, shared with the texture cache
	TextureRepeat mgl32.Vec2 // UV multiplier applied in the shader
	EnvMap        *CubeRenderTarget
	Reflectivity  float32 // Blend towards the environment map

	// COLD DATA
	Name string
}

// NewMaterial returns an untextured white material.
func NewMaterial(name string) *Material {
	return &Material{
		Name:          name,
		DiffuseColor:  [3]float32{1.0, 1.0, 1.0},
		SpecularColor: [3]float32{1.0, 1.0, 1.0},
		Shininess:     32.0,
		Metallic:      0.0,
		Roughness:     0.5,
		Alpha:         1.0,
		TextureRepeat: mgl32.Vec2{1, 1},
	}
}

// NewTexturedMaterial returns a white material sampling tex.
func NewTexturedMaterial(name string, tex *Texture) *Material {
	m := NewMaterial(name)
	m.Texture = tex
	return m
}

func (m *Material) SetDiffuseColor(r, g, b float32) *Material {
	m.DiffuseColor = [3]float32{r, g, b}
	return m
}

// SetPBR sets metallic and roughness and derives the Blinn-Phong
// specular terms the default shader uses from them.
func (m *Material) SetPBR(metallic, roughness float32) *Material {
	m.Metallic = metallic
	m.Roughness = roughness
	m.Shininess = 2 + (1-roughness)*(1-roughness)*126
	spec := 0.04 + 0.96*metallic
	m.SpecularColor = [3]float32{spec, spec, spec}
	return m
}

func (m *Material) SetPolishedMetal(r, g, b float32) *Material {
	return m.SetDiffuseColor(r, g, b).SetPBR(1.0, 0.1)
}

func (m *Material) SetMatte(r, g, b float32) *Material {
	return m.SetDiffuseColor(r, g, b).SetPBR(0.0, 0.9)
}

// SetRepeat sets the UV repeat and switches the texture to repeat wrapping.
func (m *Material) SetRepeat(u, v float32) *Material {
	m.TextureRepeat = mgl32.Vec2{u, v}
	if m.Texture != nil {
		m.Texture.Wrap = WrapRepeat
	}
	return m
}

// SetEnvMap makes the material reflect target by the given amount.
func (m *Material) SetEnvMap(target *CubeRenderTarget, reflectivity float32) *Material {
	m.EnvMap = target
	m.Reflectivity = reflectivity
	return m
}
