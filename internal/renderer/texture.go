package renderer

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxTextureSize bounds either side of an uploaded texture; larger images
// are downscaled when decoded.
const MaxTextureSize = 2048

// MaxImageSize bounds either side of a source image. Larger images are
// rejected from their header, before any pixels are decoded.
const MaxImageSize = 4 * MaxTextureSize

var ErrImageTooLarge = errors.New("image too large")

type WrapMode int

const (
	WrapClampToEdge WrapMode = iota
	WrapRepeat
)

// Texture is a decoded image waiting for, or already holding, a GPU texture.
// Handles are shared by pointer; the cache never copies them.
type Texture struct {
	Name string // logical name, e.g. "wood.jpg"
	Path string // resolved path the image was fetched from
	RGBA *image.RGBA
	Wrap WrapMode

	id uint32 // GL texture name, 0 until uploaded on the render thread
}

// Uploaded reports whether the texture currently owns a GPU resource.
func (t *Texture) Uploaded() bool {
	return t.id != 0
}

// Size returns the pixel dimensions of the decoded image.
func (t *Texture) Size() (int, int) {
	if t.RGBA == nil {
		return 0, 0
	}
	b := t.RGBA.Bounds()
	return b.Dx(), b.Dy()
}

// Resolver maps a logical texture name to the path it is fetched from.
type Resolver func(name string) string

// BaseResolver joins names onto a filesystem directory or URL prefix.
func BaseResolver(base string) Resolver {
	if isURL(base) {
		base = strings.TrimSuffix(base, "/")
		return func(name string) string {
			return base + "/" + strings.TrimPrefix(name, "/")
		}
	}
	return func(name string) string {
		return path.Join(base, name)
	}
}

// Fetcher retrieves and decodes the image at a resolved path. Implementations
// must be safe for concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (image.Image, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, path string) (image.Image, error)

func (f FetcherFunc) Fetch(ctx context.Context, path string) (image.Image, error) {
	return f(ctx, path)
}

// FetcherFor picks the HTTP fetcher for URL bases and the file fetcher
// otherwise.
func FetcherFor(base string) Fetcher {
	if isURL(base) {
		return &HTTPFetcher{Client: http.DefaultClient}
	}
	return FileFetcher{}
}

// FileFetcher reads images from the local filesystem.
type FileFetcher struct{}

func (FileFetcher) Fetch(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeImage(f)
}

// HTTPFetcher downloads images with a GET request.
type HTTPFetcher struct {
	Client *http.Client
}

func (h *HTTPFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return decodeImage(resp.Body)
}

// decodeImage reads the image header first and refuses images larger than
// MaxImageSize on either side.
func decodeImage(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(br, &header))
	if err != nil {
		return nil, err
	}
	if cfg.Width > MaxImageSize || cfg.Height > MaxImageSize {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(io.MultiReader(&header, br))
	return img, err
}

// toRGBA converts img to tightly packed RGBA, downscaling anything larger
// than MaxTextureSize. Rows are stored bottom-up, as GL samples them.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > MaxTextureSize || h > MaxTextureSize {
		scale := float64(MaxTextureSize) / float64(max(w, h))
		w = max(1, int(float64(w)*scale))
		h = max(1, int(float64(h)*scale))
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(rgba, rgba.Bounds(), img, b, draw.Src, nil)
	}
	flipRows(rgba)
	return rgba
}

func flipRows(img *image.RGBA) {
	h := img.Rect.Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
