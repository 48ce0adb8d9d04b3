package scene

import (
	"context"
	"errors"
	"image"
	"sort"
	"sync"
	"testing"

	"DoorScene/internal/config"
	"DoorScene/internal/renderer"

	"go.uber.org/zap"
)

// fakeScheduler queues frame callbacks until Tick runs them.
type fakeScheduler struct {
	next    AnimationHandle
	pending map[AnimationHandle]func(float64)
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{pending: map[AnimationHandle]func(float64){}}
}

func (s *fakeScheduler) RequestFrame(fn func(dt float64)) AnimationHandle {
	s.next++
	s.pending[s.next] = fn
	return s.next
}

func (s *fakeScheduler) CancelFrame(h AnimationHandle) {
	delete(s.pending, h)
}

// Tick runs every callback queued before the tick, in request order.
func (s *fakeScheduler) Tick(dt float64) {
	handles := make([]AnimationHandle, 0, len(s.pending))
	for h := range s.pending {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	queued := s.pending
	s.pending = map[AnimationHandle]func(float64){}
	for _, h := range handles {
		queued[h](dt)
	}
}

type fakeViewport struct {
	width, height int
}

func (v *fakeViewport) Size() (int, int) {
	return v.width, v.height
}

// fakeTarget records what the manager asks of the renderer.
type fakeTarget struct {
	width, height    int32
	renders          int
	cubeRenders      int
	reflectorVisible []bool
	releasedGeometry map[*renderer.Geometry]int
	releasedTextures []*renderer.Texture
	disposeCalls     int
	disposeErr       error
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{releasedGeometry: map[*renderer.Geometry]int{}}
}

func (t *fakeTarget) Render(scene *renderer.Scene, camera *renderer.Camera) {
	t.renders++
}

func (t *fakeTarget) SetSize(width, height int32) {
	t.width, t.height = width, height
}

func (t *fakeTarget) Size() (int32, int32) {
	return t.width, t.height
}

func (t *fakeTarget) ReleaseTexture(tex *renderer.Texture) {
	t.releasedTextures = append(t.releasedTextures, tex)
}

func (t *fakeTarget) ReleaseGeometry(g *renderer.Geometry) {
	t.releasedGeometry[g]++
}

func (t *fakeTarget) Dispose() error {
	t.disposeCalls++
	return t.disposeErr
}

func (t *fakeTarget) RenderCube(scene *renderer.Scene, probe *renderer.CubeCamera) {
	t.cubeRenders++
	if r := scene.Root.FindByName(ReflectorName); r != nil {
		t.reflectorVisible = append(t.reflectorVisible, r.Visible)
	}
}

// stubFetcher serves a tiny image for every path except those in fail.
// With gate set, every fetch waits for the gate or the context.
type stubFetcher struct {
	mu      sync.Mutex
	fail    map[string]error
	gate    chan struct{}
	started chan string
}

func (f *stubFetcher) Fetch(ctx context.Context, path string) (image.Image, error) {
	if f.started != nil {
		f.started <- path
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	err := f.fail[path]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

type harness struct {
	manager   *Manager
	scheduler *fakeScheduler
	target    *fakeTarget
	viewport  *fakeViewport
	cache     *renderer.TextureCache
	fetcher   *stubFetcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		scheduler: newFakeScheduler(),
		target:    newFakeTarget(),
		viewport:  &fakeViewport{width: 800, height: 600},
		fetcher:   &stubFetcher{fail: map[string]error{}},
	}
	cfg := config.Default()
	h.cache = renderer.NewTextureCache(renderer.BaseResolver(cfg.AssetBase()), h.fetcher).WithLogger(zap.NewNop())
	h.manager = New(Options{
		Config:    cfg,
		Target:    h.target,
		Viewport:  h.viewport,
		Scheduler: h.scheduler,
		Cache:     h.cache,
		Logger:    zap.NewNop(),
	})
	return h
}

var errNotFound = errors.New("404 Not Found")

// doorNodes returns the scene root's children named "door".
func doorNodes(s *renderer.Scene) []*renderer.Model {
	var doors []*renderer.Model
	for _, c := range s.Root.Children {
		if c.Name == "door" {
			doors = append(doors, c)
		}
	}
	return doors
}
