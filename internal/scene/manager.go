// Package scene owns the door scene's lifetime: loading its textures,
// building the scene graph, driving the frame loop and tearing it all down.
package scene

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"DoorScene/internal/config"
	"DoorScene/internal/controls"
	"DoorScene/internal/door"
	"DoorScene/internal/logger"
	"DoorScene/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Logical texture names, resolved by the cache against the asset base.
const (
	WoodTexture   = "wood.jpg"
	MarbleTexture = "marble.jpg"
	WallTexture   = "wall.jpg"
)

// Names of the static scene nodes.
const (
	ReflectorName = "reflector"
	FloorName     = "floor"
	WallName      = "wall"
	PyramidName   = "pyramid"
)

var (
	ErrInvalidState = errors.New("scene: invalid state")
	ErrDisposed     = errors.New("scene: disposed")
)

type State int

const (
	Uninitialized State = iota
	Initializing
	Ready
	Animating
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Animating:
		return "animating"
	case Disposed:
		return "disposed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Options struct {
	Config    config.Config
	Target    renderer.Render
	Viewport  Viewport
	Scheduler Scheduler
	Cache     *renderer.TextureCache
	Logger    *zap.Logger
}

// SceneObjects is everything Initialize builds. It is read by the frame loop
// and the resize and parameter handlers.
type SceneObjects struct {
	Camera    *renderer.Camera
	Target    renderer.Render
	Controls  *controls.Orbit
	Scene     *renderer.Scene
	Reflector *renderer.Model
	Probe     *renderer.CubeCamera
	Door      *renderer.Model
	Builder   *door.Builder
}

// Manager drives one scene through
// Uninitialized -> Initializing -> Ready <-> Animating -> Disposed.
// Frame, resize, parameter handling and Dispose run on the render thread,
// since Dispose releases GPU resources. Only Initialize's texture loads run
// on other goroutines.
type Manager struct {
	opts Options
	log  *zap.Logger

	mu         sync.Mutex
	state      State
	cancelInit context.CancelFunc
	objects    *SceneObjects
	reflection *ReflectionUpdater
	handle     AnimationHandle
	params     ParameterSource
}

func New(opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = logger.Log
	}
	return &Manager{opts: opts, log: log}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Objects returns the built scene, or nil before Initialize succeeds.
func (m *Manager) Objects() *SceneObjects {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects
}

// SetParameterSource makes the frame loop apply door changes from src.
func (m *Manager) SetParameterSource(src ParameterSource) {
	m.mu.Lock()
	m.params = src
	m.mu.Unlock()
}

func (m *Manager) invalid(op string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidState, op, m.state)
}

type sceneTextures struct {
	wood, marble, wall *renderer.Texture
}

// Initialize loads the wood, marble and wall textures concurrently, then
// builds the scene. A load failure returns the manager to Uninitialized so
// it can be retried. If Dispose runs while the loads are pending,
// Initialize returns ErrDisposed and builds nothing.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.state != Uninitialized {
		defer m.mu.Unlock()
		return m.invalid("initialize")
	}
	m.state = Initializing
	ctx, cancel := context.WithCancel(ctx)
	m.cancelInit = cancel
	m.mu.Unlock()
	defer cancel()

	cfg := m.opts.Config
	width, height := m.opts.Viewport.Size()
	camera := renderer.NewPerspectiveCamera(cfg.Camera.Fov, aspect(width, height), cfg.Camera.Near, cfg.Camera.Far)
	camera.Position = mgl32.Vec3(cfg.Camera.Position)
	orbit := controls.NewOrbit(camera, mgl32.Vec3(cfg.Camera.Target))
	if width > 0 && height > 0 {
		m.opts.Target.SetSize(int32(width), int32(height))
	}

	m.log.Info("Loading scene textures", zap.String("base", cfg.AssetBase()))
	textures, loadErr := m.loadTextures(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelInit = nil
	if m.state == Disposed {
		return ErrDisposed
	}
	if loadErr != nil {
		m.state = Uninitialized
		m.log.Error("Scene initialization failed", zap.Error(loadErr))
		return fmt.Errorf("initialize scene: %w", loadErr)
	}

	objects, err := m.build(textures, camera, orbit)
	if err != nil {
		m.state = Uninitialized
		return fmt.Errorf("initialize scene: %w", err)
	}
	m.objects = objects
	m.reflection = &ReflectionUpdater{
		Mesh:     objects.Reflector,
		Probe:    objects.Probe,
		Renderer: objects.Target,
		Scene:    objects.Scene,
	}
	m.state = Ready
	m.opts.Cache.LogStats()
	m.log.Info("Scene ready",
		zap.Float32("doorWidth", cfg.Door.Width),
		zap.Float32("doorHeight", cfg.Door.Height))
	return nil
}

func (m *Manager) loadTextures(ctx context.Context) (sceneTextures, error) {
	names := [...]string{WoodTexture, MarbleTexture, WallTexture}
	var loaded [len(names)]*renderer.Texture

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			tex, err := m.opts.Cache.Load(gctx, name)
			if err != nil {
				return err
			}
			loaded[i] = tex
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sceneTextures{}, err
	}
	return sceneTextures{wood: loaded[0], marble: loaded[1], wall: loaded[2]}, nil
}

func (m *Manager) build(t sceneTextures, camera *renderer.Camera, orbit *controls.Orbit) (*SceneObjects, error) {
	cfg := m.opts.Config
	s := renderer.NewScene()

	builder, err := door.NewBuilder(door.Textures{Wood: t.wood, Marble: t.marble})
	if err != nil {
		return nil, err
	}
	doorModel, err := builder.Build(cfg.Door.Width, cfg.Door.Height)
	if err != nil {
		return nil, err
	}

	probe := renderer.NewCubeCamera(cfg.Camera.Near, cfg.Camera.Far, cfg.Reflection.Resolution)
	chrome := renderer.NewMaterial("chrome").
		SetPolishedMetal(0.9, 0.9, 0.95).
		SetEnvMap(probe.Target, 0.85)
	reflector := renderer.NewMesh(ReflectorName, renderer.NewCylinderGeometry(0.5, 0.5, 2, 48), chrome)
	reflector.SetPosition(-3, 1-door.FloorOffset, 0)
	probe.Position = reflector.WorldPosition()

	floor := renderer.NewMesh(FloorName, renderer.NewPlaneGeometry(20, 20),
		renderer.NewTexturedMaterial("floor", t.marble).SetPBR(0.1, 0.4).SetRepeat(4, 4))
	floor.Rotate(-90, 0, 0)
	floor.SetPosition(0, -door.FloorOffset, 0)

	wall := renderer.NewMesh(WallName, renderer.NewPlaneGeometry(20, 10),
		renderer.NewTexturedMaterial("wall", t.wall).SetMatte(1, 1, 1).SetRepeat(4, 2))
	wall.SetPosition(0, 5-door.FloorOffset, -3)

	pyramid := renderer.NewMesh(PyramidName, renderer.NewConeGeometry(0.8, 1.5, 4),
		renderer.NewMaterial("pyramid").SetMatte(0.8, 0.35, 0.2))
	pyramid.SetPosition(3, 0.75-door.FloorOffset, 0.5)

	s.Add(floor)
	s.Add(wall)
	s.Add(reflector)
	s.Add(pyramid)
	s.Add(doorModel)

	s.AddLight(renderer.CreateAmbientLight(mgl32.Vec3{1, 1, 1}, 0.3))
	s.AddLight(renderer.CreateDirectionalLight(mgl32.Vec3{-1, -2, -1}, mgl32.Vec3{1, 0.98, 0.92}, 0.8))
	s.AddLight(renderer.CreatePointLight(mgl32.Vec3{0, 4, 4}, mgl32.Vec3{1, 1, 1}, 0.6, 20))

	return &SceneObjects{
		Camera:    camera,
		Target:    m.opts.Target,
		Controls:  orbit,
		Scene:     s,
		Reflector: reflector,
		Probe:     probe,
		Door:      doorModel,
		Builder:   builder,
	}, nil
}

// Start begins the frame loop. Each frame applies a pending parameter
// change, refreshes the reflection, updates the controls and renders.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Ready {
		return m.invalid("start")
	}
	m.state = Animating
	m.handle = m.opts.Scheduler.RequestFrame(m.frame)
	m.log.Debug("Frame loop started")
	return nil
}

// Stop cancels the pending frame and returns to Ready.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Animating {
		return m.invalid("stop")
	}
	m.opts.Scheduler.CancelFrame(m.handle)
	m.handle = 0
	m.state = Ready
	m.log.Debug("Frame loop stopped")
	return nil
}

func (m *Manager) frame(dt float64) {
	m.mu.Lock()
	if m.state != Animating {
		m.mu.Unlock()
		return
	}
	objects, reflection, params := m.objects, m.reflection, m.params
	m.mu.Unlock()

	if params != nil {
		if p, ok := params.Poll(); ok {
			if err := m.HandleParameterChange(p.Width, p.Height); err != nil {
				m.log.Warn("Door parameters rejected", zap.Error(err))
			}
		}
	}

	reflection.Update()
	objects.Controls.Update(float32(dt))
	objects.Target.Render(objects.Scene, objects.Camera)

	m.mu.Lock()
	if m.state == Animating {
		m.handle = m.opts.Scheduler.RequestFrame(m.frame)
	}
	m.mu.Unlock()
}

// HandleResize matches the camera aspect and render target to the
// viewport. A viewport with no area, as when minimised, is ignored.
func (m *Manager) HandleResize() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Ready && m.state != Animating {
		return m.invalid("resize")
	}
	width, height := m.opts.Viewport.Size()
	if width <= 0 || height <= 0 {
		return nil
	}
	m.objects.Camera.SetAspectRatio(aspect(width, height))
	m.objects.Target.SetSize(int32(width), int32(height))
	m.log.Debug("Viewport resized", zap.Int("width", width), zap.Int("height", height))
	return nil
}

// HandleParameterChange swaps the door for one of the given size. Nothing
// else in the scene changes. The old door's geometry is released.
func (m *Manager) HandleParameterChange(width, height float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Ready && m.state != Animating {
		return m.invalid("change door parameters")
	}
	objects := m.objects

	next, err := objects.Builder.Build(width, height)
	if err != nil {
		return err
	}
	old := objects.Door
	objects.Scene.Remove(old)
	for _, g := range old.Geometries() {
		objects.Target.ReleaseGeometry(g)
	}
	objects.Scene.Add(next)
	objects.Door = next

	m.log.Debug("Door rebuilt", zap.Float32("width", width), zap.Float32("height", height))
	return nil
}

// Dispose stops the frame loop, cancels a pending Initialize, empties the
// texture cache and releases the render target. Later calls do nothing.
func (m *Manager) Dispose() error {
	m.mu.Lock()
	if m.state == Disposed {
		m.mu.Unlock()
		return nil
	}
	previous := m.state
	m.state = Disposed
	if m.cancelInit != nil {
		m.cancelInit()
		m.cancelInit = nil
	}
	if previous == Animating {
		m.opts.Scheduler.CancelFrame(m.handle)
		m.handle = 0
	}
	objects := m.objects
	m.objects = nil
	m.reflection = nil
	m.params = nil
	m.mu.Unlock()

	var err error
	if objects != nil {
		for _, g := range objects.Scene.Root.Geometries() {
			objects.Target.ReleaseGeometry(g)
		}
	}
	m.opts.Cache.Dispose(m.opts.Target)
	err = multierr.Append(err, m.opts.Target.Dispose())

	m.log.Info("Scene disposed", zap.Stringer("from", previous), zap.Error(err))
	return err
}

func aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
