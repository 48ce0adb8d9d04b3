package main

import (
	"flag"
	"os"

	"DoorScene/internal/logger"
	"DoorScene/internal/texgen"

	"go.uber.org/zap"
)

func main() {
	defaults := texgen.DefaultOptions()
	out := flag.String("out", "assets/textures", "directory to write textures into")
	size := flag.Int("size", defaults.Size, "texture width and height in pixels")
	seed := flag.Int64("seed", defaults.Seed, "noise seed")
	quality := flag.Int("quality", defaults.Quality, "JPEG quality (1-100)")
	flag.Parse()

	logger.Init()
	defer logger.Log.Sync()

	paths, err := texgen.Generate(*out, texgen.Options{Size: *size, Seed: *seed, Quality: *quality})
	if err != nil {
		logger.Log.Error("Texture generation failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Log.Info("Textures generated", zap.Strings("paths", paths))
}
