package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Deployment modes select the base path textures are resolved against.
const (
	ModeProduction  = "production"
	ModeDevelopment = "development"
)

// Environment overrides, applied after the file is read.
const (
	ModeEnv   = "DOORSCENE_MODE"
	AssetsEnv = "DOORSCENE_ASSETS"
)

// UI ranges for the two door parameters.
const (
	MinDoorWidth  = 1.0
	MaxDoorWidth  = 5.0
	MinDoorHeight = 2.0
	MaxDoorHeight = 8.0
)

type Assets struct {
	ProductionBase  string `yaml:"production_base"`
	DevelopmentBase string `yaml:"development_base"`
}

type Window struct {
	Width  int32  `yaml:"width"`
	Height int32  `yaml:"height"`
	Title  string `yaml:"title"`
}

type Door struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

type Camera struct {
	Fov      float32    `yaml:"fov"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
}

// Reflection configures the dynamic environment probe.
type Reflection struct {
	Resolution int32 `yaml:"resolution"`
}

type Config struct {
	Mode       string     `yaml:"mode"`
	LogLevel   string     `yaml:"log_level"`
	Assets     Assets     `yaml:"assets"`
	Window     Window     `yaml:"window"`
	Door       Door       `yaml:"door"`
	Camera     Camera     `yaml:"camera"`
	Reflection Reflection `yaml:"reflection"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Mode:     ModeDevelopment,
		LogLevel: "info",
		Assets: Assets{
			ProductionBase:  "https://assets.doorscene.dev/textures",
			DevelopmentBase: "assets/textures",
		},
		Window: Window{Width: 1280, Height: 720, Title: "DoorScene"},
		Door:   Door{Width: 2, Height: 4},
		Camera: Camera{
			Fov:      75,
			Near:     0.1,
			Far:      1000,
			Position: [3]float32{0, 2, 8},
		},
		Reflection: Reflection{Resolution: 256},
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error; a malformed or invalid one is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if mode := os.Getenv(ModeEnv); mode != "" {
		c.Mode = strings.ToLower(mode)
	}
	if base := os.Getenv(AssetsEnv); base != "" {
		if c.Mode == ModeProduction {
			c.Assets.ProductionBase = base
		} else {
			c.Assets.DevelopmentBase = base
		}
	}
}

// Validate reports the first setting that cannot drive a scene.
func (c Config) Validate() error {
	if c.Mode != ModeProduction && c.Mode != ModeDevelopment {
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}
	if c.AssetBase() == "" {
		return fmt.Errorf("config: empty asset base for mode %q", c.Mode)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Door.Width < MinDoorWidth || c.Door.Width > MaxDoorWidth {
		return fmt.Errorf("config: door width %g outside [%g, %g]", c.Door.Width, MinDoorWidth, MaxDoorWidth)
	}
	if c.Door.Height < MinDoorHeight || c.Door.Height > MaxDoorHeight {
		return fmt.Errorf("config: door height %g outside [%g, %g]", c.Door.Height, MinDoorHeight, MaxDoorHeight)
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		return fmt.Errorf("config: camera fov %g", c.Camera.Fov)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("config: camera clip planes %g..%g", c.Camera.Near, c.Camera.Far)
	}
	if c.Reflection.Resolution <= 0 {
		return fmt.Errorf("config: reflection resolution %d", c.Reflection.Resolution)
	}
	return nil
}

// AssetBase is the base path or URL logical texture names are joined onto.
func (c Config) AssetBase() string {
	if c.Mode == ModeProduction {
		return c.Assets.ProductionBase
	}
	return c.Assets.DevelopmentBase
}
