package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

type LightKind int

const (
	AmbientLight LightKind = iota
	HemisphereLight
	DirectionalLight
)

func (k LightKind) String() string {
	switch k {
	case AmbientLight:
		return "ambient"
	case HemisphereLight:
		return "hemisphere"
	case DirectionalLight:
		return "directional"
	}
	return "unknown"
}

// ShadowCamera holds the orthographic volume and map size of a shadow casting
// directional light.
type ShadowCamera struct {
	MapWidth, MapHeight      int
	Near, Far                float32
	Left, Right, Top, Bottom float32
}

// DefaultShadowCamera mirrors the usual directional light defaults.
func DefaultShadowCamera() ShadowCamera {
	return ShadowCamera{
		MapWidth: 512, MapHeight: 512,
		Near: 0.5, Far: 500,
		Left: -5, Right: 5, Top: 5, Bottom: -5,
	}
}

type Light struct {
	Kind        LightKind
	Position    mgl32.Vec3 // Directional lights shine from Position towards the origin
	Color       mgl32.Vec3
	GroundColor mgl32.Vec3 // Hemisphere only
	Intensity   float32
	Visible     bool
	CastShadow  bool
	Shadow      ShadowCamera
	Name        string
}

// Direction is the normalized direction the light travels in.
func (l *Light) Direction() mgl32.Vec3 {
	if l.Position.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return l.Position.Mul(-1).Normalize()
}

func CreateAmbientLight(color mgl32.Vec3, intensity float32) *Light {
	return &Light{
		Kind:      AmbientLight,
		Name:      "ambient",
		Color:     color,
		Intensity: intensity,
		Visible:   true,
	}
}

func CreateHemisphereLight(sky, ground mgl32.Vec3, intensity float32) *Light {
	return &Light{
		Kind:        HemisphereLight,
		Name:        "hemisphere",
		Position:    mgl32.Vec3{0, 1, 0},
		Color:       sky,
		GroundColor: ground,
		Intensity:   intensity,
		Visible:     true,
	}
}

// CreateDirectionalLight creates a directional light (like the sun)
func CreateDirectionalLight(position mgl32.Vec3, color mgl32.Vec3, intensity float32) *Light {
	return &Light{
		Kind:      DirectionalLight,
		Name:      "directional",
		Position:  position,
		Color:     color,
		Intensity: intensity,
		Visible:   true,
		Shadow:    DefaultShadowCamera(),
	}
}

// HexColor converts 0xRRGGBB to a linear 0..1 vector.
func HexColor(hex uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32((hex>>16)&0xff) / 255,
		float32((hex>>8)&0xff) / 255,
		float32(hex&0xff) / 255,
	}
}
