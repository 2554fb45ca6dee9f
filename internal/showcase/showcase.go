// Package showcase assembles the cutter scene: lights, ground, the switchable
// PBR material and the debug panel, then streams the model in.
package showcase

import (
	"PBRShowcase/internal/config"
	"PBRShowcase/internal/engine"
	"PBRShowcase/internal/loader"
	"PBRShowcase/internal/logger"
	"PBRShowcase/internal/renderer"
	"PBRShowcase/internal/switchboard"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Environment catalog keys.
const (
	EnvReflection = "reflection"
	EnvRefraction = "refraction"
	EnvCapture    = "capture"
)

var ErrUnknownSlot = errors.New("unknown material slot")

type Showcase struct {
	Config      *config.Scene
	Material    *renderer.Material
	Switchboard *switchboard.Switchboard
	Hemisphere  *renderer.Light
	Ambient     *renderer.Light
	Directional []*renderer.Light
	Ground      *renderer.Model
	// Capture is nil when live environment capture is disabled.
	Capture *renderer.CubeCamera
	// Model is nil until the load request delivers.
	Model   *renderer.Model
	Request *loader.Request

	ctx *engine.Context
}

// Build populates the context scene from cfg. The model itself is loaded
// separately by LoadModel.
func Build(c *engine.Context, cfg *config.Scene) (*Showcase, error) {
	s := &Showcase{Config: cfg, ctx: c}

	s.setupScene()
	s.setupLights()
	s.setupGround()

	bindings, err := s.buildBindings()
	if err != nil {
		return nil, err
	}
	sb, err := switchboard.New(s.Material, bindings...)
	if err != nil {
		return nil, fmt.Errorf("material switchboard: %w", err)
	}
	s.Switchboard = sb

	s.buildPanel()
	logger.Log.Info("Showcase built",
		zap.Int("objects", c.Scene.ObjectCount()),
		zap.Int("lights", len(c.Scene.Lights)),
		zap.Int("slots", len(sb.Slots())))
	return s, nil
}

func (s *Showcase) setupScene() {
	cfg, scene := s.Config, s.ctx.Scene
	scene.Background = renderer.HexColor(cfg.Background)
	if cfg.Fog.Enabled {
		scene.Fog = &renderer.Fog{Color: renderer.HexColor(cfg.Fog.Color), Near: cfg.Fog.Near, Far: cfg.Fog.Far}
	}

	cam := s.ctx.Camera
	cam.SetFov(cfg.Camera.Fov)
	cam.SetNear(cfg.Camera.Near)
	cam.SetFar(cfg.Camera.Far)
	cam.Position = mgl32.Vec3(cfg.Camera.Position)
	target := mgl32.Vec3(cfg.Camera.Target)
	cam.LookAt(target)

	controls := s.ctx.Controls
	controls.EnableDamping = cfg.Camera.Damping
	controls.DampingFactor = cfg.Camera.DampingFactor
	controls.SetTarget(target)
}

func (s *Showcase) setupLights() {
	cfg, scene := s.Config, s.ctx.Scene

	s.Hemisphere = renderer.CreateHemisphereLight(
		renderer.HexColor(cfg.Hemisphere.Sky),
		renderer.HexColor(cfg.Hemisphere.Ground),
		cfg.Hemisphere.Intensity)
	s.Hemisphere.Position = mgl32.Vec3(cfg.Hemisphere.Position)
	scene.AddLight(s.Hemisphere)

	s.Ambient = renderer.CreateAmbientLight(renderer.HexColor(cfg.Ambient.Color), cfg.Ambient.Intensity)
	scene.AddLight(s.Ambient)

	for _, d := range cfg.Directional {
		l := renderer.CreateDirectionalLight(mgl32.Vec3(d.Position), renderer.HexColor(d.Color), d.Intensity)
		l.Name = d.Name
		l.CastShadow = d.CastShadow
		if d.Shadow.MapSize > 0 {
			l.Shadow = renderer.ShadowCamera{
				MapWidth: d.Shadow.MapSize, MapHeight: d.Shadow.MapSize,
				Near: d.Shadow.Near, Far: d.Shadow.Far,
				Left: d.Shadow.Left, Right: d.Shadow.Right,
				Top: d.Shadow.Top, Bottom: d.Shadow.Bottom,
			}
		}
		scene.AddLight(l)
		s.Directional = append(s.Directional, l)
	}
}

func (s *Showcase) setupGround() {
	g := s.Config.Ground
	s.Ground = loader.LoadPlane(g.Width, g.Depth)
	s.Ground.Name = "ground"
	mat := renderer.NewPhongMaterial("ground", [3]float32(renderer.HexColor(g.Color)))
	mat.DepthWrite = g.DepthWrite
	s.Ground.Material = mat
	s.Ground.ReceiveShadow = g.ReceiveShadow
	s.ctx.Scene.Add(s.Ground)
}

// buildBindings loads every texture catalog. The material is created here
// so the catalogs and the material share one texture manager.
func (s *Showcase) buildBindings() ([]switchboard.Binding, error) {
	mc := s.Config.Material
	tm := s.ctx.Textures

	s.Material = renderer.NewStandardMaterial(mc.Name)
	s.Material.Roughness = mc.Roughness
	s.Material.Metalness = mc.Metalness

	var bindings []switchboard.Binding
	for _, st := range mc.Textures {
		slot, ok := renderer.ParseSlot(st.Slot)
		if !ok || slot == renderer.SlotEnvMap {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, st.Slot)
		}
		keys := make([]string, 0, len(st.Options))
		paths := make(map[string]string, len(st.Options))
		for _, o := range st.Options {
			keys = append(keys, o.Key)
			paths[o.Key] = o.Path
		}
		catalog, err := switchboard.FromPaths(tm, keys, paths)
		if err != nil {
			return nil, fmt.Errorf("slot %s: %w", slot, err)
		}
		if slot == renderer.SlotRoughnessMap && mc.RoughnessNoise.Enabled {
			if catalog, err = s.withNoise(catalog); err != nil {
				return nil, fmt.Errorf("slot %s: %w", slot, err)
			}
		}
		bindings = append(bindings, switchboard.Binding{
			Slot:    slot,
			Catalog: catalog,
			Initial: initialKey(slot, catalog, st.Initial),
		})
	}

	env, err := s.envCatalog()
	if err != nil {
		return nil, err
	}
	return append(bindings, switchboard.Binding{
		Slot:    renderer.SlotEnvMap,
		Catalog: env,
		Initial: initialKey(renderer.SlotEnvMap, env, s.Config.Environment.Initial),
	}), nil
}

// initialKey returns want when the catalog holds it. Otherwise, as when its
// texture failed to load, the catalog default is used.
func initialKey(slot renderer.Slot, catalog *switchboard.Catalog, want string) string {
	if want == "" {
		return ""
	}
	if _, ok := catalog.Lookup(want); ok {
		return want
	}
	logger.Log.Warn("Initial texture unavailable, using default",
		zap.Stringer("slot", slot),
		zap.String("key", want),
		zap.String("default", catalog.DefaultKey()))
	return ""
}

func (s *Showcase) withNoise(catalog *switchboard.Catalog) (*switchboard.Catalog, error) {
	n := s.Config.Material.RoughnessNoise
	tex := loader.NoiseTexture(n.Size, n.Seed)
	tex = s.ctx.Textures.AddTexture(tex.Name, tex)
	return switchboard.NewCatalog(append(catalog.Entries(), switchboard.Entry{Key: n.Key, Texture: tex})...)
}

// envCatalog offers no environment, the static cube map used for reflection
// or refraction, and when enabled a cube camera capture that follows the
// model. A cube map that fails to load is logged and its two entries are
// left out.
func (s *Showcase) envCatalog() (*switchboard.Catalog, error) {
	ec := s.Config.Environment
	tm := s.ctx.Textures

	entries := []switchboard.Entry{{Key: switchboard.NoneKey}}
	reflection, err := tm.LoadCubeTexture(ec.Faces, renderer.MappingCubeReflection)
	if err != nil {
		logger.Log.Error("Environment load failed", zap.String("first", ec.Faces[0]), zap.Error(err))
	} else {
		refraction := reflection.WithMapping("env:refraction", renderer.MappingCubeRefraction)
		refraction = tm.AddTexture(refraction.Name, refraction)
		entries = append(entries,
			switchboard.Entry{Key: EnvReflection, Texture: reflection},
			switchboard.Entry{Key: EnvRefraction, Texture: refraction})
	}
	if ec.Capture.Enabled {
		// The capture exists before the model does and is attached once the
		// model arrives.
		s.Capture = renderer.NewCubeCamera(ec.Capture.Near, ec.Capture.Far, ec.Capture.Size)
		s.ctx.Capture = s.Capture
		entries = append(entries, switchboard.Entry{Key: EnvCapture, Texture: s.Capture.Target})
	}
	return switchboard.NewCatalog(entries...)
}

// LoadModel starts loading the configured model in the background. Handlers
// run on the frame thread.
func (s *Showcase) LoadModel() *loader.Request {
	mc := s.Config.Model
	s.Request = s.ctx.Load(mc.Path, loader.Options{RecalculateNormals: mc.RecalculateNormals}, s.Handlers())
	return s.Request
}

// Handlers returns the callbacks used for the model load.
func (s *Showcase) Handlers() loader.Handlers {
	return loader.Handlers{
		OnLoad: s.onLoad,
		OnProgress: func(fraction float64) {
			logger.Log.Info("Loading model", zap.String("progress", fmt.Sprintf("%.0f%%", fraction*100)))
		},
		OnError: func(err error) {
			logger.Log.Error("Model load failed", zap.String("path", s.Config.Model.Path), zap.Error(err))
		},
	}
}

func (s *Showcase) onLoad(model *renderer.Model) {
	mc := s.Config.Model
	model.Traverse(func(m *renderer.Model) {
		if m.IsMesh() {
			m.Material = s.Material
		}
		m.CastShadow = mc.CastShadow
		m.ReceiveShadow = mc.ReceiveShadow
	})
	model.SetScale(mc.Scale, mc.Scale, mc.Scale)
	model.SetRotation(mc.Rotation[0], mc.Rotation[1], mc.Rotation[2])

	if s.Capture != nil {
		s.Capture.Attach(model)
	}
	s.Model = model
	s.ctx.Scene.Add(model)
	logger.Log.Info("Model added",
		zap.String("name", model.Name),
		zap.Int("objects", s.ctx.Scene.ObjectCount()))
}
