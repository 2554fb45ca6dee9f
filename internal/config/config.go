// Package config holds the showcase scene description. Default returns the
// built-in scene; Load overlays a YAML file on top of it.
package config

import (
	"PBRShowcase/internal/logger"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid scene config")

type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
}

type Fog struct {
	Enabled bool    `yaml:"enabled"`
	Color   uint32  `yaml:"color"`
	Near    float32 `yaml:"near"`
	Far     float32 `yaml:"far"`
}

type Camera struct {
	Fov           float32    `yaml:"fov"`
	Near          float32    `yaml:"near"`
	Far           float32    `yaml:"far"`
	Position      [3]float32 `yaml:"position"`
	Target        [3]float32 `yaml:"target"`
	Damping       bool       `yaml:"damping"`
	DampingFactor float32    `yaml:"damping_factor"`
}

type HemisphereLight struct {
	Sky       uint32     `yaml:"sky"`
	Ground    uint32     `yaml:"ground"`
	Intensity float32    `yaml:"intensity"`
	Position  [3]float32 `yaml:"position"`
}

type AmbientLight struct {
	Color     uint32  `yaml:"color"`
	Intensity float32 `yaml:"intensity"`
}

type Shadow struct {
	MapSize int     `yaml:"map_size"`
	Near    float32 `yaml:"near"`
	Far     float32 `yaml:"far"`
	Left    float32 `yaml:"left"`
	Right   float32 `yaml:"right"`
	Top     float32 `yaml:"top"`
	Bottom  float32 `yaml:"bottom"`
}

type DirectionalLight struct {
	Name       string     `yaml:"name"`
	Color      uint32     `yaml:"color"`
	Intensity  float32    `yaml:"intensity"`
	Position   [3]float32 `yaml:"position"`
	CastShadow bool       `yaml:"cast_shadow"`
	Shadow     Shadow     `yaml:"shadow"`
	// Panel exposes the light in its own debug folder.
	Panel bool `yaml:"panel"`
}

type Ground struct {
	Width         float32 `yaml:"width"`
	Depth         float32 `yaml:"depth"`
	Color         uint32  `yaml:"color"`
	DepthWrite    bool    `yaml:"depth_write"`
	ReceiveShadow bool    `yaml:"receive_shadow"`
}

type Model struct {
	Path               string     `yaml:"path"`
	Scale              float32    `yaml:"scale"`
	Rotation           [3]float32 `yaml:"rotation"`
	CastShadow         bool       `yaml:"cast_shadow"`
	ReceiveShadow      bool       `yaml:"receive_shadow"`
	RecalculateNormals bool       `yaml:"recalculate_normals"`
}

// TextureOption is one named texture file of a slot catalog.
type TextureOption struct {
	Key  string `yaml:"key"`
	Path string `yaml:"path"`
}

// SlotTextures lists the file textures offered for one material slot. A
// "none" option is always added in front.
type SlotTextures struct {
	Slot    string          `yaml:"slot"`
	Initial string          `yaml:"initial"`
	Options []TextureOption `yaml:"options"`
}

type Noise struct {
	Enabled bool   `yaml:"enabled"`
	Key     string `yaml:"key"`
	Size    int    `yaml:"size"`
	Seed    int64  `yaml:"seed"`
}

type Material struct {
	Name      string         `yaml:"name"`
	Roughness float32        `yaml:"roughness"`
	Metalness float32        `yaml:"metalness"`
	Textures  []SlotTextures `yaml:"textures"`
	// RoughnessNoise adds a procedural roughness variant.
	RoughnessNoise Noise `yaml:"roughness_noise"`
}

type Capture struct {
	Enabled bool    `yaml:"enabled"`
	Size    int     `yaml:"size"`
	Near    float32 `yaml:"near"`
	Far     float32 `yaml:"far"`
}

// Environment holds the cube map faces in +X, -X, +Y, -Y, +Z, -Z order.
type Environment struct {
	Faces   [6]string `yaml:"faces"`
	Initial string    `yaml:"initial"`
	Capture Capture   `yaml:"capture"`
}

type Scene struct {
	Window      Window             `yaml:"window"`
	Background  uint32             `yaml:"background"`
	Fog         Fog                `yaml:"fog"`
	Camera      Camera             `yaml:"camera"`
	Hemisphere  HemisphereLight    `yaml:"hemisphere"`
	Ambient     AmbientLight       `yaml:"ambient"`
	Directional []DirectionalLight `yaml:"directional"`
	Ground      Ground             `yaml:"ground"`
	Model       Model              `yaml:"model"`
	Material    Material           `yaml:"material"`
	Environment Environment        `yaml:"environment"`
}

// Default is the cutter showcase scene.
func Default() *Scene {
	const models = "assets/models"
	cube := func(face string) string { return filepath.Join("assets/textures/cube", face+".jpg") }
	texture := func(slot, file string) SlotTextures {
		return SlotTextures{
			Slot:    slot,
			Options: []TextureOption{{Key: "modelTexture", Path: filepath.Join(models, file)}},
		}
	}

	return &Scene{
		Window:     Window{Title: "PBR Showcase", Width: 1280, Height: 720, VSync: true},
		Background: 0xEEE5E9,
		Fog:        Fog{Enabled: true, Color: 0xEEE5E9, Near: 4, Far: 15},
		Camera: Camera{
			Fov: 45, Near: 0.1, Far: 1000,
			Position:      [3]float32{3, 2, 0},
			Target:        [3]float32{0, 0.7, 0},
			Damping:       true,
			DampingFactor: 0.05,
		},
		Hemisphere: HemisphereLight{Sky: 0xffffff, Ground: 0x444444, Intensity: 1, Position: [3]float32{0, 20, 0}},
		Ambient:    AmbientLight{Color: 0xffffff, Intensity: 0.5},
		Directional: []DirectionalLight{
			{
				Name: "Directional Light", Color: 0xffffff, Intensity: 1,
				Position:   [3]float32{0.1, 1, 0},
				CastShadow: true,
				Shadow:     Shadow{MapSize: 512, Near: 0.5, Far: 500, Left: -5, Right: 5, Top: 5, Bottom: -5},
				Panel:      true,
			},
			{
				Name: "Key Light", Color: 0xffffff, Intensity: 1,
				Position:   [3]float32{3, 10, 10},
				CastShadow: true,
				Shadow:     Shadow{MapSize: 512, Near: 0.1, Far: 40, Left: -2, Right: 2, Top: 2, Bottom: -2},
			},
		},
		Ground: Ground{Width: 100, Depth: 100, Color: 0x999999, DepthWrite: false, ReceiveShadow: true},
		Model: Model{
			Path:          filepath.Join(models, "cutter.obj"),
			Scale:         0.01,
			Rotation:      [3]float32{0, 4, 0},
			CastShadow:    true,
			ReceiveShadow: false,
		},
		Material: Material{
			Name:      "cutter",
			Roughness: 1,
			Metalness: 1,
			Textures: []SlotTextures{
				texture("map", "Cutter_A.png"),
				texture("normalMap", "Cutter_N.png"),
				texture("roughnessMap", "Cutter_S.png"),
				texture("metalnessMap", "Cutter_M.png"),
				texture("aoMap", "Cutter_O.png"),
			},
			RoughnessNoise: Noise{Enabled: true, Key: "perlin", Size: 256, Seed: 7},
		},
		Environment: Environment{
			Faces:   [6]string{cube("px"), cube("nx"), cube("py"), cube("ny"), cube("pz"), cube("nz")},
			Initial: "reflection",
			Capture: Capture{Enabled: true, Size: 128, Near: 1, Far: 10000},
		},
	}
}

// Load reads a YAML file over the defaults. Fields missing from the file keep
// their default values; lists present in the file replace the default lists.
func Load(path string) (*Scene, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Log.Info("Scene config loaded", zap.String("path", path))
	return cfg, nil
}

// Validate checks ranges the panel and renderer rely on.
func (s *Scene) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(s.Window.Width > 0 && s.Window.Height > 0, "window size %dx%d", s.Window.Width, s.Window.Height)
	check(s.Camera.Near > 0 && s.Camera.Far > s.Camera.Near, "camera range %g-%g", s.Camera.Near, s.Camera.Far)
	check(s.Ambient.Intensity >= 0 && s.Ambient.Intensity <= 1, "ambient intensity %g", s.Ambient.Intensity)
	for _, d := range s.Directional {
		check(d.Intensity >= 0 && d.Intensity <= 1, "%s intensity %g", d.Name, d.Intensity)
	}
	if s.Fog.Enabled {
		check(s.Fog.Far > s.Fog.Near, "fog range %g-%g", s.Fog.Near, s.Fog.Far)
	}
	check(s.Material.Roughness >= 0 && s.Material.Roughness <= 1, "roughness %g", s.Material.Roughness)
	check(s.Material.Metalness >= 0 && s.Material.Metalness <= 1, "metalness %g", s.Material.Metalness)
	for _, t := range s.Material.Textures {
		check(len(t.Options) > 0, "slot %s has no textures", t.Slot)
	}
	if s.Environment.Capture.Enabled {
		check(s.Environment.Capture.Size > 0, "capture size %d", s.Environment.Capture.Size)
	}
	check(s.Model.Scale > 0, "model scale %g", s.Model.Scale)
	return errors.Join(errs...)
}
