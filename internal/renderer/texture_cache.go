package renderer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"DoorScene/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrCacheDisposed is returned by Load after Dispose, including for loads
// that were already in flight when the cache was disposed.
var ErrCacheDisposed = errors.New("texture cache disposed")

// LoadError names the path whose load failed and wraps the cause.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load texture %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// TextureStats provides debugging and profiling information
type TextureStats struct {
	CachedTextures int
	CacheHits      int
	CacheMisses    int
	Fetches        int
	Failures       int
}

// TextureReleaser frees the GPU side of a texture.
type TextureReleaser interface {
	ReleaseTexture(t *Texture)
}

// TextureCache loads textures by logical name, at most once per resolved path.
type TextureCache struct {
	resolve Resolver
	fetch   Fetcher
	log     *zap.Logger

	mu       sync.Mutex
	textures map[string]*Texture // resolved path -> shared handle
	stats    TextureStats
	disposed bool

	inflight singleflight.Group
	ctx      context.Context // cancelled by Dispose
	cancel   context.CancelFunc
}

// NewTextureCache creates an empty cache resolving names with resolve and
// loading them with fetch.
func NewTextureCache(resolve Resolver, fetch Fetcher) *TextureCache {
	ctx, cancel := context.WithCancel(context.Background())
	return &TextureCache{
		resolve:  resolve,
		fetch:    fetch,
		log:      logger.Log,
		textures: make(map[string]*Texture),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// WithLogger replaces the cache's logger.
func (tc *TextureCache) WithLogger(l *zap.Logger) *TextureCache {
	tc.log = l
	return tc
}

// Load returns the texture for name, fetching it if no earlier load of the
// same resolved path has completed. Concurrent callers for one path share a
// single fetch. Failures are not cached.
func (tc *TextureCache) Load(ctx context.Context, name string) (*Texture, error) {
	path := tc.resolve(name)

	tc.mu.Lock()
	if tc.disposed {
		tc.mu.Unlock()
		return nil, &LoadError{Path: path, Err: ErrCacheDisposed}
	}
	if tex, ok := tc.textures[path]; ok {
		tc.stats.CacheHits++
		tc.mu.Unlock()
		tc.log.Debug("Texture cache hit", zap.String("path", path))
		return tex, nil
	}
	tc.stats.CacheMisses++
	tc.mu.Unlock()

	ch := tc.inflight.DoChan(path, func() (interface{}, error) {
		return tc.fetchAndStore(name, path)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Texture), nil
	case <-ctx.Done():
		return nil, &LoadError{Path: path, Err: ctx.Err()}
	}
}

func (tc *TextureCache) fetchAndStore(name, path string) (*Texture, error) {
	tc.mu.Lock()
	// A caller that missed just before an earlier flight finished lands here
	// after the texture was stored.
	if tex, ok := tc.textures[path]; ok {
		tc.mu.Unlock()
		return tex, nil
	}
	tc.stats.Fetches++
	tc.mu.Unlock()

	img, err := tc.fetch.Fetch(tc.ctx, path)
	if err == nil && img == nil {
		err = errors.New("fetcher returned no image")
	}
	if err != nil {
		tc.mu.Lock()
		tc.stats.Failures++
		disposed := tc.disposed
		tc.mu.Unlock()
		if disposed {
			err = ErrCacheDisposed
		}
		tc.log.Warn("Texture load failed", zap.String("path", path), zap.Error(err))
		return nil, &LoadError{Path: path, Err: err}
	}

	tex := &Texture{
		Name: name,
		Path: path,
		RGBA: toRGBA(img),
		Wrap: WrapClampToEdge,
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.disposed {
		// The cache was torn down while the fetch was running; the texture was
		// never uploaded, so dropping it leaks nothing.
		return nil, &LoadError{Path: path, Err: ErrCacheDisposed}
	}
	if existing, ok := tc.textures[path]; ok {
		return existing, nil
	}
	tc.textures[path] = tex

	w, h := tex.Size()
	tc.log.Info("Texture loaded and cached",
		zap.String("name", name),
		zap.String("path", path),
		zap.Int("width", w),
		zap.Int("height", h))
	return tex, nil
}

// Lookup returns a cached texture without loading it.
func (tc *TextureCache) Lookup(name string) (*Texture, bool) {
	path := tc.resolve(name)
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tex, ok := tc.textures[path]
	return tex, ok
}

// Len returns the number of cached textures.
func (tc *TextureCache) Len() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.textures)
}

// Disposed reports whether Dispose has run.
func (tc *TextureCache) Disposed() bool {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.disposed
}

// GetStats returns current texture cache statistics
func (tc *TextureCache) GetStats() TextureStats {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	stats := tc.stats
	stats.CachedTextures = len(tc.textures)
	return stats
}

// LogStats logs current texture statistics
func (tc *TextureCache) LogStats() {
	stats := tc.GetStats()
	hitRate := 0.0
	if lookups := stats.CacheHits + stats.CacheMisses; lookups > 0 {
		hitRate = float64(stats.CacheHits) / float64(lookups)
	}
	tc.log.Info("Texture cache stats",
		zap.Int("cached", stats.CachedTextures),
		zap.Int("hits", stats.CacheHits),
		zap.Int("misses", stats.CacheMisses),
		zap.Int("fetches", stats.Fetches),
		zap.Int("failures", stats.Failures),
		zap.Float64("hitRate", hitRate))
}

// Dispose cancels in-flight fetches, releases the GPU resource of every
// cached texture and empties the cache. Handles returned earlier must not be
// used afterwards. Calling Dispose again is a no-op.
func (tc *TextureCache) Dispose(r TextureReleaser) {
	tc.mu.Lock()
	if tc.disposed {
		tc.mu.Unlock()
		return
	}
	tc.disposed = true
	textures := tc.textures
	tc.textures = make(map[string]*Texture)
	tc.mu.Unlock()
	tc.cancel()

	for _, tex := range textures {
		if r != nil {
			r.ReleaseTexture(tex)
		}
	}
	tc.log.Info("Texture cache disposed", zap.Int("released", len(textures)))
}
