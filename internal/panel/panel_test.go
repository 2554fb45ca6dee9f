package panel

import (
	"testing"
)

func TestAddFolderKeepsOrder(t *testing.T) {
	p := New("Debug")
	p.AddFolder("Ambient Light")
	p.AddFolder("Material")

	folders := p.Folders()
	if len(folders) != 2 {
		t.Fatalf("Expected 2 folders, got %d", len(folders))
	}
	if folders[0].Name != "Ambient Light" || folders[1].Name != "Material" {
		t.Errorf("Expected folders in insertion order, got %s, %s", folders[0].Name, folders[1].Name)
	}
	if p.Folder("Material") != folders[1] {
		t.Error("Expected Folder to find Material")
	}
	if p.Folder("missing") != nil {
		t.Error("Expected nil for unknown folder")
	}
}

func TestCheckboxSet(t *testing.T) {
	visible := true
	f := New("Debug").AddFolder("Light")
	cb := f.AddCheckbox("visible", &visible)

	calls := 0
	cb.OnChange = func(bool) { calls++ }

	cb.Set(false)
	cb.Set(false)

	if visible {
		t.Error("Expected bound value to be false")
	}
	if calls != 1 {
		t.Errorf("Expected 1 change, got %d", calls)
	}
}

func TestSliderClamps(t *testing.T) {
	intensity := float32(0.5)
	f := New("Debug").AddFolder("Light")
	s := f.AddSlider("intensity", &intensity, 0, 1)

	var last float32
	s.OnChange = func(v float32) { last = v }

	s.Set(3)
	if intensity != 1 {
		t.Errorf("Expected clamp to 1, got %f", intensity)
	}
	if last != 1 {
		t.Errorf("Expected OnChange with 1, got %f", last)
	}

	s.Set(-2)
	if intensity != 0 {
		t.Errorf("Expected clamp to 0, got %f", intensity)
	}
}

func TestSliderClampsInitialValue(t *testing.T) {
	v := float32(7)
	New("Debug").AddFolder("f").AddSlider("x", &v, 0, 1)

	if v != 1 {
		t.Errorf("Expected initial value clamped to 1, got %f", v)
	}
}

func TestComboChoose(t *testing.T) {
	f := New("Debug").AddFolder("Material")
	c := f.AddCombo("map", []string{"none", "modelTexture"}, 1)

	var chosen string
	c.OnChange = func(i int, option string) { chosen = option }

	c.Choose(0)
	if c.Selected() != 0 || chosen != "none" {
		t.Errorf("Expected none selected, got %d (%q)", c.Selected(), chosen)
	}
}

func TestComboIgnoresOutOfRange(t *testing.T) {
	f := New("Debug").AddFolder("Material")
	c := f.AddCombo("map", []string{"none", "modelTexture"}, 1)

	calls := 0
	c.OnChange = func(int, string) { calls++ }

	c.Choose(2)
	c.Choose(-1)

	if c.Selected() != 1 {
		t.Errorf("Expected selection to stay 1, got %d", c.Selected())
	}
	if calls != 0 {
		t.Errorf("Expected no change callbacks, got %d", calls)
	}
}

func TestComboOptionsAreCopied(t *testing.T) {
	options := []string{"a", "b"}
	c := New("Debug").AddFolder("f").AddCombo("c", options, 0)

	options[0] = "changed"
	got := c.Options()
	got[1] = "changed"

	if c.SelectedOption() != "a" {
		t.Errorf("Expected a, got %s", c.SelectedOption())
	}
	if c.Options()[1] != "b" {
		t.Errorf("Expected b, got %s", c.Options()[1])
	}
}

func TestTextValue(t *testing.T) {
	n := 0
	f := New("Debug").AddFolder("Stats")
	text := f.AddText("frames", func() string {
		n++
		return "42"
	})

	if text.Value() != "42" {
		t.Errorf("Expected 42, got %s", text.Value())
	}
	if f.Control("frames") != text {
		t.Error("Expected Control to find the text")
	}
	if n != 1 {
		t.Errorf("Expected value func called once, got %d", n)
	}
}

func TestComboSyncDoesNotFire(t *testing.T) {
	c := New("Debug").AddFolder("f").AddCombo("c", []string{"a", "b"}, 0)
	fired := false
	c.OnChange = func(int, string) { fired = true }

	c.Sync(1)
	if c.Selected() != 1 {
		t.Errorf("Expected index 1, got %d", c.Selected())
	}
	c.Sync(5)
	if c.Selected() != 1 {
		t.Errorf("Expected out of range sync to be ignored, got %d", c.Selected())
	}
	if fired {
		t.Error("Expected Sync not to fire OnChange")
	}
}
