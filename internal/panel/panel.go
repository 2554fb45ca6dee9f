// Package panel is a small debug GUI model: named folders holding controls
// bound to live values. Drawing is done with imgui, see Draw.
package panel

import (
	"PBRShowcase/internal/logger"

	"go.uber.org/zap"
)

// Control is one row of a folder.
type Control interface {
	Label() string
	draw()
}

type Panel struct {
	Title   string
	Visible bool
	folders []*Folder
}

func New(title string) *Panel {
	return &Panel{Title: title, Visible: true}
}

// AddFolder appends a folder. Folders are drawn in insertion order.
func (p *Panel) AddFolder(name string) *Folder {
	f := &Folder{Name: name, Open: true}
	p.folders = append(p.folders, f)
	return f
}

func (p *Panel) Folders() []*Folder {
	return p.folders
}

// Folder returns the folder with the given name, nil when absent.
func (p *Panel) Folder(name string) *Folder {
	for _, f := range p.folders {
		if f.Name == name {
			return f
		}
	}
	return nil
}

type Folder struct {
	Name     string
	Open     bool
	controls []Control
}

func (f *Folder) Controls() []Control {
	return f.controls
}

// Control returns the first control with the given label, nil when absent.
func (f *Folder) Control(label string) Control {
	for _, c := range f.controls {
		if c.Label() == label {
			return c
		}
	}
	return nil
}

func (f *Folder) add(c Control) {
	f.controls = append(f.controls, c)
}

// =============================================================
//
//	Checkbox
//
// =============================================================

type Checkbox struct {
	label    string
	value    *bool
	OnChange func(bool)
}

// AddCheckbox binds a checkbox to value.
func (f *Folder) AddCheckbox(label string, value *bool) *Checkbox {
	c := &Checkbox{label: label, value: value}
	f.add(c)
	return c
}

func (c *Checkbox) Label() string { return c.label }
func (c *Checkbox) Value() bool   { return *c.value }

func (c *Checkbox) Set(v bool) {
	if *c.value == v {
		return
	}
	*c.value = v
	if c.OnChange != nil {
		c.OnChange(v)
	}
}

// =============================================================
//
//	Slider
//
// =============================================================

type Slider struct {
	label    string
	value    *float32
	Min, Max float32
	Format   string
	OnChange func(float32)
}

// AddSlider binds a slider to value. The current value is clamped into range.
func (f *Folder) AddSlider(label string, value *float32, min, max float32) *Slider {
	if min > max {
		min, max = max, min
	}
	s := &Slider{label: label, value: value, Min: min, Max: max, Format: "%.2f"}
	*value = s.clamp(*value)
	f.add(s)
	return s
}

func (s *Slider) Label() string  { return s.label }
func (s *Slider) Value() float32 { return *s.value }

// Set clamps v to [Min, Max] before storing it.
func (s *Slider) Set(v float32) {
	v = s.clamp(v)
	if *s.value == v {
		return
	}
	*s.value = v
	if s.OnChange != nil {
		s.OnChange(v)
	}
}

func (s *Slider) clamp(v float32) float32 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// =============================================================
//
//	Combo
//
// =============================================================

// Combo picks one entry of a closed list of options.
type Combo struct {
	label    string
	options  []string
	selected int
	OnChange func(index int, option string)
}

func (f *Folder) AddCombo(label string, options []string, selected int) *Combo {
	c := &Combo{label: label, options: append([]string(nil), options...), selected: -1}
	if selected >= 0 && selected < len(options) {
		c.selected = selected
	}
	f.add(c)
	return c
}

func (c *Combo) Label() string     { return c.label }
func (c *Combo) Options() []string { return append([]string(nil), c.options...) }
func (c *Combo) Selected() int     { return c.selected }

// SelectedOption returns the chosen option, empty when nothing is selected.
func (c *Combo) SelectedOption() string {
	if c.selected < 0 {
		return ""
	}
	return c.options[c.selected]
}

// Choose selects option i and fires OnChange. Out of range indices are
// ignored.
func (c *Combo) Choose(i int) {
	if i < 0 || i >= len(c.options) {
		logger.Log.Debug("Ignoring combo choice out of range",
			zap.String("combo", c.label),
			zap.Int("index", i))
		return
	}
	c.selected = i
	if c.OnChange != nil {
		c.OnChange(i, c.options[i])
	}
}

// Sync moves the selection to i without firing OnChange, for when the bound
// value changed elsewhere. Out of range indices are ignored.
func (c *Combo) Sync(i int) {
	if i >= 0 && i < len(c.options) {
		c.selected = i
	}
}

// =============================================================
//
//	Text
//
// =============================================================

// Text shows a label and a value computed at draw time.
type Text struct {
	label string
	value func() string
}

func (f *Folder) AddText(label string, value func() string) *Text {
	t := &Text{label: label, value: value}
	f.add(t)
	return t
}

func (t *Text) Label() string { return t.label }

func (t *Text) Value() string {
	if t.value == nil {
		return ""
	}
	return t.value()
}
