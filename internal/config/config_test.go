package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config to be valid, got %v", err)
	}
	if cfg.Background != 0xEEE5E9 {
		t.Errorf("Expected background 0xEEE5E9, got %#x", cfg.Background)
	}
	if cfg.Fog.Near != 4 || cfg.Fog.Far != 15 {
		t.Errorf("Expected fog 4-15, got %g-%g", cfg.Fog.Near, cfg.Fog.Far)
	}
	if cfg.Camera.Position != [3]float32{3, 2, 0} {
		t.Errorf("Expected camera at (3,2,0), got %v", cfg.Camera.Position)
	}
	if len(cfg.Directional) != 2 {
		t.Fatalf("Expected 2 directional lights, got %d", len(cfg.Directional))
	}
	if cfg.Directional[1].Shadow.Far != 40 {
		t.Errorf("Expected second shadow far 40, got %g", cfg.Directional[1].Shadow.Far)
	}
	if cfg.Environment.Capture.Size != 128 {
		t.Errorf("Expected capture size 128, got %d", cfg.Environment.Capture.Size)
	}
	if len(cfg.Material.Textures) != 5 {
		t.Errorf("Expected 5 texture slots, got %d", len(cfg.Material.Textures))
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
background: 0x101010
ambient:
  intensity: 0.25
model:
  path: other.glb
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Background != 0x101010 {
		t.Errorf("Expected background 0x101010, got %#x", cfg.Background)
	}
	if cfg.Ambient.Intensity != 0.25 {
		t.Errorf("Expected ambient 0.25, got %g", cfg.Ambient.Intensity)
	}
	if cfg.Ambient.Color != 0xffffff {
		t.Errorf("Expected ambient color to keep its default, got %#x", cfg.Ambient.Color)
	}
	if cfg.Model.Path != "other.glb" || cfg.Model.Scale != 0.01 {
		t.Errorf("Expected overlay path with default scale, got %s %g", cfg.Model.Path, cfg.Model.Scale)
	}
	if cfg.Fog.Far != 15 {
		t.Errorf("Expected default fog far 15, got %g", cfg.Fog.Far)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "ambient:\n  intensity: 3\n")

	_, err := Load(path)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid, got %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
	if _, err := Load(writeConfig(t, "window: [1, 2")); err == nil {
		t.Error("Expected a parse error")
	}
}

func TestValidateEmptyCatalog(t *testing.T) {
	cfg := Default()
	cfg.Material.Textures[0].Options = nil

	if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid, got %v", err)
	}
}
