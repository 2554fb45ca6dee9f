// Package switchboard lets a debug panel swap the textures of a material at
// runtime. Each material slot gets a catalog of named textures and exactly
// one selected key; the material always holds the selected texture.
package switchboard

import (
	"PBRShowcase/internal/logger"
	"PBRShowcase/internal/panel"
	"PBRShowcase/internal/renderer"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	ErrUnknownSlot   = errors.New("slot not registered")
	ErrUnknownKey    = errors.New("key not in catalog")
	ErrDuplicateSlot = errors.New("slot registered twice")
	ErrEmptyCatalog  = errors.New("catalog is empty")
	ErrEmptyKey      = errors.New("catalog key is empty")
	ErrDuplicateKey  = errors.New("catalog key repeated")
	ErrNilMaterial   = errors.New("material is nil")
)

// Binding registers a slot with its catalog. An empty Initial selects the
// catalog's default key.
type Binding struct {
	Slot    renderer.Slot
	Catalog *Catalog
	Initial string
}

type slotState struct {
	catalog  *Catalog
	selected string
	combo    *panel.Combo // set by Bind
}

type Switchboard struct {
	material *renderer.Material
	slots    [renderer.SlotCount]*slotState
	order    []renderer.Slot
}

// New registers bindings on material and applies their initial selections.
func New(material *renderer.Material, bindings ...Binding) (*Switchboard, error) {
	if material == nil {
		return nil, ErrNilMaterial
	}
	sb := &Switchboard{material: material}
	for _, b := range bindings {
		if !b.Slot.Valid() {
			return nil, fmt.Errorf("slot %d: %w", int(b.Slot), ErrUnknownSlot)
		}
		if sb.slots[b.Slot] != nil {
			return nil, fmt.Errorf("slot %s: %w", b.Slot, ErrDuplicateSlot)
		}
		if b.Catalog == nil || b.Catalog.Len() == 0 {
			return nil, fmt.Errorf("slot %s: %w", b.Slot, ErrEmptyCatalog)
		}
		initial := b.Initial
		if initial == "" {
			initial = b.Catalog.DefaultKey()
		}
		if _, ok := b.Catalog.Lookup(initial); !ok {
			return nil, fmt.Errorf("slot %s initial %q: %w", b.Slot, initial, ErrUnknownKey)
		}
		sb.slots[b.Slot] = &slotState{catalog: b.Catalog, selected: initial}
		sb.order = append(sb.order, b.Slot)
	}

	for _, slot := range sb.order {
		st := sb.slots[slot]
		tex, _ := st.catalog.Lookup(st.selected)
		material.SetTexture(slot, tex)
	}
	material.MarkNeedsUpdate()
	logger.Log.Info("Switchboard bound",
		zap.String("material", material.Name),
		zap.Int("slots", len(sb.order)))
	return sb, nil
}

// Select puts the texture registered under key into slot and flags the
// material for update. Reselecting the current key applies it again. On error
// the material is not touched.
func (sb *Switchboard) Select(slot renderer.Slot, key string) error {
	st, err := sb.state(slot)
	if err != nil {
		return err
	}
	tex, ok := st.catalog.Lookup(key)
	if !ok {
		return fmt.Errorf("slot %s key %q: %w", slot, key, ErrUnknownKey)
	}
	st.selected = key
	sb.material.SetTexture(slot, tex)
	if st.combo != nil {
		st.combo.Sync(st.catalog.IndexOf(key))
	}
	logger.Log.Debug("Texture selected",
		zap.String("material", sb.material.Name),
		zap.Stringer("slot", slot),
		zap.String("key", key))
	return nil
}

// SelectIndex selects by display position.
func (sb *Switchboard) SelectIndex(slot renderer.Slot, i int) error {
	st, err := sb.state(slot)
	if err != nil {
		return err
	}
	e, ok := st.catalog.At(i)
	if !ok {
		return fmt.Errorf("slot %s index %d: %w", slot, i, ErrUnknownKey)
	}
	return sb.Select(slot, e.Key)
}

// Selected returns the current key of slot.
func (sb *Switchboard) Selected(slot renderer.Slot) (string, error) {
	st, err := sb.state(slot)
	if err != nil {
		return "", err
	}
	return st.selected, nil
}

// Options returns the catalog keys of slot in display order.
func (sb *Switchboard) Options(slot renderer.Slot) ([]string, error) {
	st, err := sb.state(slot)
	if err != nil {
		return nil, err
	}
	return st.catalog.Keys(), nil
}

// Slots lists registered slots in registration order.
func (sb *Switchboard) Slots() []renderer.Slot {
	return append([]renderer.Slot(nil), sb.order...)
}

func (sb *Switchboard) Material() *renderer.Material {
	return sb.material
}

func (sb *Switchboard) state(slot renderer.Slot) (*slotState, error) {
	if !slot.Valid() || sb.slots[slot] == nil {
		return nil, fmt.Errorf("slot %s: %w", slot, ErrUnknownSlot)
	}
	return sb.slots[slot], nil
}

// Bind adds one combo per slot plus roughness and metalness sliders to f.
func (sb *Switchboard) Bind(f *panel.Folder) {
	for _, slot := range sb.order {
		slot := slot
		st := sb.slots[slot]
		combo := f.AddCombo(slot.String(), st.catalog.Keys(), st.catalog.IndexOf(st.selected))
		st.combo = combo
		combo.OnChange = func(i int, key string) {
			if err := sb.SelectIndex(slot, i); err != nil {
				logger.Log.Error("Texture selection failed", zap.Stringer("slot", slot), zap.Error(err))
			}
		}
	}

	m := sb.material
	roughness := f.AddSlider("roughness", &m.Roughness, 0, 1)
	roughness.OnChange = func(float32) { m.MarkNeedsUpdate() }
	metalness := f.AddSlider("metalness", &m.Metalness, 0, 1)
	metalness.OnChange = func(float32) { m.MarkNeedsUpdate() }
}
