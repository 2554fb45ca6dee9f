package renderer

import (
	"PBRShowcase/internal/logger"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

// Slot is a texture input of a PBR material.
type Slot int

const (
	SlotMap Slot = iota
	SlotNormalMap
	SlotRoughnessMap
	SlotMetalnessMap
	SlotAOMap
	SlotEnvMap

	SlotCount
)

var slotNames = [SlotCount]string{
	SlotMap:          "map",
	SlotNormalMap:    "normalMap",
	SlotRoughnessMap: "roughnessMap",
	SlotMetalnessMap: "metalnessMap",
	SlotAOMap:        "aoMap",
	SlotEnvMap:       "envMap",
}

// Sampler uniform and presence flag per slot.
var slotUniforms = [SlotCount]struct{ sampler, has string }{
	SlotMap:          {"mapSampler", "hasMap"},
	SlotNormalMap:    {"normalSampler", "hasNormalMap"},
	SlotRoughnessMap: {"roughnessSampler", "hasRoughnessMap"},
	SlotMetalnessMap: {"metalnessSampler", "hasMetalnessMap"},
	SlotAOMap:        {"aoSampler", "hasAOMap"},
	SlotEnvMap:       {"envSampler", "hasEnvMap"},
}

func (s Slot) String() string {
	if !s.Valid() {
		return "invalid"
	}
	return slotNames[s]
}

func (s Slot) Valid() bool {
	return s >= 0 && s < SlotCount
}

// ParseSlot maps a slot display name back to its Slot.
func ParseSlot(name string) (Slot, bool) {
	for i, n := range slotNames {
		if n == name {
			return Slot(i), true
		}
	}
	return 0, false
}

// AllSlots lists the slots in table order.
func AllSlots() []Slot {
	slots := make([]Slot, SlotCount)
	for i := range slots {
		slots[i] = Slot(i)
	}
	return slots
}

type ShadingModel int

const (
	ShadingStandard ShadingModel = iota
	ShadingPhong
)

// DefaultMaterial provides a basic material to fall back on
var DefaultMaterial = &Material{
	Name:            "default",
	DiffuseColor:    [3]float32{1.0, 1.0, 1.0},
	Shininess:       30.0,
	Metalness:       0.0,
	Roughness:       1.0,
	Exposure:        1.0,
	Alpha:           1.0,
	EnvMapIntensity: 1.0,
	DepthWrite:      true,
}

type Material struct {
	// HOT DATA - read every draw
	DiffuseColor    [3]float32
	Metalness       float32 // 0.0 = dielectric, 1.0 = metallic
	Roughness       float32 // 0.0 = mirror, 1.0 = completely rough
	Exposure        float32
	Alpha           float32
	EnvMapIntensity float32
	Shininess       float32 // Phong only
	Shading         ShadingModel
	DepthWrite      bool
	textures        [SlotCount]*Texture

	needsUpdate bool
	version     uint64

	// COLD DATA
	Name string
}

// NewStandardMaterial returns a physically based material with the default
// factors and no textures.
func NewStandardMaterial(name string) *Material {
	m := DefaultMaterial.Clone()
	m.Name = name
	m.Shading = ShadingStandard
	return m
}

// NewPhongMaterial returns a Blinn-Phong material of a flat color.
func NewPhongMaterial(name string, color [3]float32) *Material {
	m := DefaultMaterial.Clone()
	m.Name = name
	m.Shading = ShadingPhong
	m.DiffuseColor = color
	return m
}

// Texture returns the texture bound to slot, nil when the slot is empty.
func (m *Material) Texture(slot Slot) *Texture {
	if !slot.Valid() {
		return nil
	}
	return m.textures[slot]
}

// SetTexture binds tex (nil clears) to slot and flags the material for a
// backend refresh.
func (m *Material) SetTexture(slot Slot, tex *Texture) {
	if !slot.Valid() {
		logger.Log.Warn("Ignoring texture for invalid slot", zap.Int("slot", int(slot)))
		return
	}
	m.textures[slot] = tex
	m.MarkNeedsUpdate()
}

// MarkNeedsUpdate makes the renderer re-read the material before the next draw.
func (m *Material) MarkNeedsUpdate() {
	m.needsUpdate = true
	m.version++
}

func (m *Material) NeedsUpdate() bool {
	return m.needsUpdate
}

// ClearNeedsUpdate is called by the renderer once the material is uploaded.
func (m *Material) ClearNeedsUpdate() {
	m.needsUpdate = false
}

// Version increases on every change, starting at zero.
func (m *Material) Version() uint64 {
	return m.version
}

// Clone copies the scalar state. Texture handles are shared, not duplicated.
func (m *Material) Clone() *Material {
	clone := &Material{}
	if err := copier.Copy(clone, m); err != nil {
		logger.Log.Error("Material copy failed", zap.String("material", m.Name), zap.Error(err))
		*clone = *m
	}
	// copier skips unexported fields
	clone.textures = m.textures
	clone.needsUpdate = true
	clone.version = 0
	return clone
}
