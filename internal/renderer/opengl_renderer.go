package renderer

import (
	"errors"
	"fmt"

	"DoorScene/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// OpenGLRenderer draws a Scene into the window's default framebuffer and
// captures cube maps for probes. Every method must run on the thread that
// owns the GL context.
type OpenGLRenderer struct {
	width, height int32
	shader        Shader
	uniforms      *UniformCache
	whiteTexture  uint32

	geometries  map[*Geometry]struct{}
	textures    map[*Texture]struct{}
	cubeTargets map[*CubeRenderTarget]struct{}
	initialized bool
}

func NewOpenGLRenderer() *OpenGLRenderer {
	return &OpenGLRenderer{
		geometries:  make(map[*Geometry]struct{}),
		textures:    make(map[*Texture]struct{}),
		cubeTargets: make(map[*CubeRenderTarget]struct{}),
	}
}

// Init loads GL entry points, compiles the default shader and sizes the
// viewport. The context must be current.
func (rend *OpenGLRenderer) Init(width, height int32) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("init OpenGL: %w", err)
	}

	var cleanup Unwind
	defer cleanup.Unwind()

	rend.shader = InitShader()
	if err := rend.shader.Compile(); err != nil {
		logger.Log.Error("Failed to build default shader", zap.Error(err))
		return err
	}
	cleanup.Add(rend.shader.Delete)
	rend.uniforms = NewUniformCache(rend.shader.program)

	white := []uint8{255, 255, 255, 255}
	gl.GenTextures(1, &rend.whiteTexture)
	gl.BindTexture(gl.TEXTURE_2D, rend.whiteTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(white))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	if Debug {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	rend.SetSize(width, height)
	rend.initialized = true
	cleanup.Discard()

	logger.Log.Info("OpenGL renderer initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.Int32("width", width),
		zap.Int32("height", height))
	return nil
}

// SetSize matches the drawing buffer to the viewport in pixels.
func (rend *OpenGLRenderer) SetSize(width, height int32) {
	rend.width, rend.height = width, height
	if rend.uniforms != nil {
		gl.Viewport(0, 0, width, height)
	}
}

func (rend *OpenGLRenderer) Size() (int32, int32) {
	return rend.width, rend.height
}

// Clear paints the default framebuffer with a flat color, used while no
// scene is ready.
func (rend *OpenGLRenderer) Clear(color mgl32.Vec3) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, rend.width, rend.height)
	gl.ClearColor(color.X(), color.Y(), color.Z(), 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (rend *OpenGLRenderer) Render(scene *Scene, camera *Camera) {
	if !rend.initialized {
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, rend.width, rend.height)
	rend.draw(scene, camera.GetViewMatrix(), camera.GetProjectionMatrix(), camera.Position)
}

func (rend *OpenGLRenderer) RenderCube(scene *Scene, probe *CubeCamera) {
	if !rend.initialized {
		return
	}
	target := probe.Target
	if err := rend.ensureCubeTarget(target); err != nil {
		logger.Log.Error("Cube render target unavailable", zap.Error(err))
		return
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, target.framebuffer)
	gl.Viewport(0, 0, target.Size, target.Size)
	projection := probe.Projection()
	for face, view := range probe.FaceViews() {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
			gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), target.texture, 0)
		rend.draw(scene, view, projection, probe.Position)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, rend.width, rend.height)
}

func (rend *OpenGLRenderer) draw(scene *Scene, view, projection mgl32.Mat4, eye mgl32.Vec3) {
	bg := scene.Background
	gl.ClearColor(bg.X(), bg.Y(), bg.Z(), 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if DepthTestEnabled {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthMask(true)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	if FaceCullingEnabled {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
		gl.FrontFace(gl.CCW)
	}

	rend.shader.Use()
	u := rend.uniforms
	u.SetMat4("view", view)
	u.SetMat4("projection", projection)
	u.SetVec3("viewPos", eye)
	u.SetVec3("ambientColor", scene.Ambient())
	rend.setLightUniforms(scene.Lights)
	u.SetInt("textureSampler", 0)
	u.SetInt("envMap", 1)

	for _, item := range scene.DrawList() {
		geometry := item.Model.Geometry
		if err := rend.ensureGeometry(geometry); err != nil {
			logger.Log.Error("Geometry upload failed", zap.String("model", item.Model.Name), zap.Error(err))
			continue
		}
		u.SetMat4("model", item.World)
		rend.setMaterialUniforms(item.Model.Material)

		gl.BindVertexArray(geometry.vao)
		gl.DrawElements(gl.TRIANGLES, int32(len(geometry.Faces)), gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
}

func (rend *OpenGLRenderer) setLightUniforms(lights []*Light) {
	u := rend.uniforms
	n := 0
	for _, l := range lights {
		if l.Mode == AmbientLight || n == MaxLights {
			continue
		}
		kind := int32(0)
		if l.Mode == PointLight {
			kind = 1
		}
		u.SetInt(fmt.Sprintf("lightKind[%d]", n), kind)
		u.SetVec3(fmt.Sprintf("lightPosition[%d]", n), l.Position)
		u.SetVec3(fmt.Sprintf("lightDirection[%d]", n), l.Direction)
		u.SetVec3(fmt.Sprintf("lightColor[%d]", n), l.Color.Mul(l.Intensity))
		u.SetFloat(fmt.Sprintf("lightRange[%d]", n), l.Range)
		n++
	}
	u.SetInt("lightCount", int32(n))
}

func (rend *OpenGLRenderer) setMaterialUniforms(m *Material) {
	u := rend.uniforms
	u.SetVec3("diffuseColor", mgl32.Vec3(m.DiffuseColor))
	u.SetVec3("specularColor", mgl32.Vec3(m.SpecularColor))
	u.SetFloat("shininess", m.Shininess)
	u.SetFloat("alpha", m.Alpha)
	repeat := m.TextureRepeat
	if repeat == (mgl32.Vec2{}) {
		repeat = mgl32.Vec2{1, 1}
	}
	u.SetVec2("uvRepeat", repeat)

	gl.ActiveTexture(gl.TEXTURE0)
	if m.Texture != nil && rend.ensureTexture(m.Texture) == nil {
		gl.BindTexture(gl.TEXTURE_2D, m.Texture.id)
	} else {
		gl.BindTexture(gl.TEXTURE_2D, rend.whiteTexture)
	}

	gl.ActiveTexture(gl.TEXTURE1)
	if m.EnvMap != nil && m.EnvMap.Uploaded() {
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, m.EnvMap.texture)
		u.SetInt("hasEnvMap", 1)
		u.SetFloat("reflectivity", m.Reflectivity)
	} else {
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
		u.SetInt("hasEnvMap", 0)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

func (rend *OpenGLRenderer) ensureGeometry(g *Geometry) error {
	if g.vao != 0 {
		return nil
	}
	if len(g.Faces) == 0 {
		return errors.New("geometry has no faces")
	}
	data := g.Interleaved()

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Faces)*4, gl.Ptr(g.Faces), gl.STATIC_DRAW)

	stride := int32(8 * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(5*4))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	rend.geometries[g] = struct{}{}
	return nil
}

func (rend *OpenGLRenderer) ensureTexture(t *Texture) error {
	if t.id != 0 {
		return nil
	}
	if t.RGBA == nil {
		return fmt.Errorf("texture %q has no pixels", t.Path)
	}
	w, h := t.Size()

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(t.RGBA.Pix))

	wrap := int32(gl.CLAMP_TO_EDGE)
	if t.Wrap == WrapRepeat {
		wrap = gl.REPEAT
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	rend.textures[t] = struct{}{}
	logger.Log.Debug("Texture uploaded",
		zap.String("path", t.Path),
		zap.Uint32("textureID", t.id))
	return nil
}

func (rend *OpenGLRenderer) ensureCubeTarget(t *CubeRenderTarget) error {
	if t.texture != 0 {
		return nil
	}
	var cleanup Unwind
	defer cleanup.Unwind()

	gl.GenTextures(1, &t.texture)
	cleanup.Add(func() { gl.DeleteTextures(1, &t.texture); t.texture = 0 })
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.texture)
	for face := uint32(0); face < 6; face++ {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face, 0, gl.RGBA, t.Size, t.Size, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)

	gl.GenRenderbuffers(1, &t.depth)
	cleanup.Add(func() { gl.DeleteRenderbuffers(1, &t.depth); t.depth = 0 })
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, t.Size, t.Size)

	gl.GenFramebuffers(1, &t.framebuffer)
	cleanup.Add(func() { gl.DeleteFramebuffers(1, &t.framebuffer); t.framebuffer = 0 })
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.framebuffer)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, t.depth)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_CUBE_MAP_POSITIVE_X, t.texture, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("cube framebuffer incomplete: 0x%x", status)
	}
	cleanup.Discard()
	rend.cubeTargets[t] = struct{}{}
	return nil
}

func (rend *OpenGLRenderer) ReleaseTexture(t *Texture) {
	if t == nil || t.id == 0 {
		return
	}
	gl.DeleteTextures(1, &t.id)
	t.id = 0
	delete(rend.textures, t)
}

func (rend *OpenGLRenderer) ReleaseGeometry(g *Geometry) {
	if g == nil || g.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteBuffers(1, &g.ebo)
	g.vao, g.vbo, g.ebo = 0, 0, 0
	delete(rend.geometries, g)
}

func (rend *OpenGLRenderer) releaseCubeTarget(t *CubeRenderTarget) {
	gl.DeleteFramebuffers(1, &t.framebuffer)
	gl.DeleteRenderbuffers(1, &t.depth)
	gl.DeleteTextures(1, &t.texture)
	t.framebuffer, t.depth, t.texture = 0, 0, 0
	delete(rend.cubeTargets, t)
}

// Dispose frees every GL object the renderer created and reports any GL
// error raised while doing so. Textures still referenced by a cache are
// released too.
func (rend *OpenGLRenderer) Dispose() error {
	if !rend.initialized {
		return nil
	}
	for g := range rend.geometries {
		rend.ReleaseGeometry(g)
	}
	for t := range rend.textures {
		rend.ReleaseTexture(t)
	}
	for t := range rend.cubeTargets {
		rend.releaseCubeTarget(t)
	}
	gl.DeleteTextures(1, &rend.whiteTexture)
	rend.whiteTexture = 0
	rend.shader.Delete()
	rend.uniforms = nil
	rend.initialized = false

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("dispose renderer: GL error 0x%x", code)
	}
	logger.Log.Info("OpenGL renderer disposed")
	return nil
}
