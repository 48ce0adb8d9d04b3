// Package texgen authors the scene's wood, marble and wall textures from
// Perlin noise so the repository carries no binary assets.
package texgen

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"DoorScene/internal/logger"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/aquilax/go-perlin"
	"go.uber.org/zap"
)

type Options struct {
	Size    int   // width and height in pixels
	Seed    int64 // same seed, same pixels
	Quality int   // JPEG quality
}

func DefaultOptions() Options {
	return Options{Size: 512, Seed: 1, Quality: 90}
}

// Texture names match the logical names the scene loads.
const (
	WoodFile   = "wood.jpg"
	MarbleFile = "marble.jpg"
	WallFile   = "wall.jpg"
)

type generator func(Options) *image.RGBA

var generators = []struct {
	name string
	gen  generator
}{
	{WoodFile, Wood},
	{MarbleFile, Marble},
	{WallFile, Wall},
}

// Generate writes all three textures into dir and returns their paths.
func Generate(dir string, opts Options) ([]string, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("texgen: size %d", opts.Size)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(generators))
	for _, g := range generators {
		path := filepath.Join(dir, g.name)
		if err := imgio.Save(path, g.gen(opts), imgio.JPEGEncoder(opts.Quality)); err != nil {
			return paths, fmt.Errorf("texgen: save %s: %w", path, err)
		}
		logger.Log.Info("Texture written", zap.String("path", path), zap.Int("size", opts.Size))
		paths = append(paths, path)
	}
	return paths, nil
}

// Wood draws concentric growth rings bent by noise.
func Wood(opts Options) *image.RGBA {
	p := perlin.NewPerlin(2, 2, 3, opts.Seed)
	light := color.RGBA{196, 143, 87, 255}
	dark := color.RGBA{112, 68, 36, 255}

	img := fill(opts.Size, func(u, v float64) color.RGBA {
		// Stretch along v so the grain runs the length of the board.
		x, y := u*4-2, v*0.6
		d := math.Sqrt(x*x+y*y) + p.Noise2D(u*3, v*12)*0.35
		rings := d * 9
		t := rings - math.Floor(rings)
		return mix(light, dark, smoothstep(0.2, 0.8, t))
	})
	return blur.Gaussian(img, 0.8)
}

// Marble draws sinusoidal veins disturbed by turbulence.
func Marble(opts Options) *image.RGBA {
	p := perlin.NewPerlin(1.8, 2, 5, opts.Seed+1)
	base := color.RGBA{236, 233, 228, 255}
	vein := color.RGBA{92, 96, 104, 255}

	img := fill(opts.Size, func(u, v float64) color.RGBA {
		turbulence := math.Abs(p.Noise2D(u*5, v*5)) * 6
		s := math.Sin((u+v)*10 + turbulence)
		t := math.Pow(1-math.Abs(s), 6)
		return mix(base, vein, t)
	})
	return blur.Gaussian(img, 0.6)
}

// Wall draws soft plaster: a warm base with low and high frequency mottling.
func Wall(opts Options) *image.RGBA {
	p := perlin.NewPerlin(2, 2, 4, opts.Seed+2)
	base := color.RGBA{214, 206, 190, 255}
	shade := color.RGBA{168, 160, 146, 255}

	img := fill(opts.Size, func(u, v float64) color.RGBA {
		coarse := p.Noise2D(u*3, v*3)
		fine := p.Noise2D(u*40, v*40) * 0.25
		t := clamp01(0.5 + coarse + fine)
		return mix(base, shade, t*0.6)
	})
	return blur.Gaussian(img, 1.0)
}

func fill(size int, shade func(u, v float64) color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		v := float64(y) / float64(size)
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, shade(float64(x)/float64(size), v))
		}
	}
	return img
}

func mix(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 255}
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
