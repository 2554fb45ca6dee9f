package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Fog is linear distance fog.
type Fog struct {
	Color     mgl32.Vec3
	Near, Far float32
}

// Scene is the root of everything the renderer draws in a frame.
type Scene struct {
	Background mgl32.Vec3
	Fog        *Fog
	Models     []*Model
	Lights     []*Light
}

func NewScene() *Scene {
	return &Scene{}
}

func (s *Scene) Add(model *Model) {
	s.Models = append(s.Models, model)
}

func (s *Scene) AddLight(light *Light) {
	s.Lights = append(s.Lights, light)
}

// ObjectCount is the number of top level models and lights.
func (s *Scene) ObjectCount() int {
	return len(s.Models) + len(s.Lights)
}

// Traverse visits every model in the scene, children included.
func (s *Scene) Traverse(fn func(*Model)) {
	for _, m := range s.Models {
		m.Traverse(fn)
	}
}

// UpdateMatrices refreshes world matrices for all root models.
func (s *Scene) UpdateMatrices() {
	for _, m := range s.Models {
		m.UpdateMatrices(mgl32.Ident4())
	}
}

// VisibleLights returns the lights of kind k that are switched on.
func (s *Scene) VisibleLights(k LightKind) []*Light {
	var lights []*Light
	for _, l := range s.Lights {
		if l.Kind == k && l.Visible {
			lights = append(lights, l)
		}
	}
	return lights
}
