package panel

import (
	"fmt"

	"github.com/inkyblackness/imgui-go/v4"
)

// Draw emits the panel into the current imgui frame. It must run between
// imgui.NewFrame and imgui.Render.
func (p *Panel) Draw() {
	if !p.Visible {
		return
	}
	imgui.SetNextWindowPosV(imgui.Vec2{X: 10, Y: 10}, imgui.ConditionFirstUseEver, imgui.Vec2{})
	imgui.SetNextWindowSizeV(imgui.Vec2{X: 300, Y: 0}, imgui.ConditionFirstUseEver)
	if imgui.BeginV(p.Title, &p.Visible, 0) {
		for _, f := range p.folders {
			f.draw()
		}
	}
	imgui.End()
}

func (f *Folder) draw() {
	flags := imgui.TreeNodeFlagsNone
	if f.Open {
		flags = imgui.TreeNodeFlagsDefaultOpen
	}
	if !imgui.CollapsingHeaderV(f.Name, flags) {
		return
	}
	imgui.PushID(f.Name)
	for _, c := range f.controls {
		c.draw()
	}
	imgui.PopID()
}

func (c *Checkbox) draw() {
	v := *c.value
	if imgui.Checkbox(c.label, &v) {
		c.Set(v)
	}
}

func (s *Slider) draw() {
	v := *s.value
	if imgui.SliderFloatV(s.label, &v, s.Min, s.Max, s.Format, imgui.SliderFlagsNone) {
		s.Set(v)
	}
}

func (c *Combo) draw() {
	if !imgui.BeginCombo(c.label, c.SelectedOption()) {
		return
	}
	for i, option := range c.options {
		selected := i == c.selected
		if imgui.SelectableV(option, selected, 0, imgui.Vec2{}) && !selected {
			c.Choose(i)
		}
		if selected {
			imgui.SetItemDefaultFocus()
		}
	}
	imgui.EndCombo()
}

func (t *Text) draw() {
	imgui.Text(fmt.Sprintf("%s: %s", t.label, t.Value()))
}
