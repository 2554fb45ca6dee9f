package switchboard

import (
	"PBRShowcase/internal/logger"
	"PBRShowcase/internal/renderer"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCatalogKeepsOrder(t *testing.T) {
	c := mustCatalog(t, Entry{Key: "b"}, Entry{Key: "a"}, Entry{Key: "c"})

	keys := c.Keys()
	expected := []string{"b", "a", "c"}
	for i := range expected {
		if keys[i] != expected[i] {
			t.Errorf("Expected key %d to be %s, got %s", i, expected[i], keys[i])
		}
	}

	keys[0] = "changed"
	if c.Keys()[0] != "b" {
		t.Error("Expected Keys to return a copy")
	}
}

func TestCatalogLookup(t *testing.T) {
	tex := testTexture("t")
	c := mustCatalog(t, Entry{Key: NoneKey}, Entry{Key: "t", Texture: tex})

	if got, ok := c.Lookup(NoneKey); !ok || got != nil {
		t.Errorf("Expected (nil, true) for none, got (%v, %v)", got, ok)
	}
	if got, ok := c.Lookup("t"); !ok || got != tex {
		t.Error("Expected texture for t")
	}
	if _, ok := c.Lookup("missing"); ok {
		t.Error("Expected missing key to fail")
	}
	if c.IndexOf("t") != 1 || c.IndexOf("missing") != -1 {
		t.Errorf("Unexpected indexes %d, %d", c.IndexOf("t"), c.IndexOf("missing"))
	}
}

func TestCatalogRejectsBadKeys(t *testing.T) {
	if _, err := NewCatalog(Entry{Key: "a"}, Entry{Key: "a"}); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
	if _, err := NewCatalog(Entry{Key: ""}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Expected ErrEmptyKey, got %v", err)
	}
}

func TestCatalogDefaultKey(t *testing.T) {
	if k := mustCatalog(t, Entry{Key: NoneKey}, Entry{Key: "t"}).DefaultKey(); k != "t" {
		t.Errorf("Expected t, got %s", k)
	}
	if k := mustCatalog(t, Entry{Key: "only"}).DefaultKey(); k != "only" {
		t.Errorf("Expected only, got %s", k)
	}
	if k := mustCatalog(t).DefaultKey(); k != "" {
		t.Errorf("Expected empty key, got %s", k)
	}
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestFromPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "base.png")
	writePNG(t, path)

	tm := renderer.NewTextureManager()
	c, err := FromPaths(tm, []string{"modelTexture"}, map[string]string{"modelTexture": path})
	if err != nil {
		t.Fatalf("FromPaths failed: %v", err)
	}

	keys := c.Keys()
	if len(keys) != 2 || keys[0] != NoneKey || keys[1] != "modelTexture" {
		t.Errorf("Expected [none modelTexture], got %v", keys)
	}
	tex, _ := c.Lookup("modelTexture")
	if tex == nil || tex.Width() != 4 {
		t.Error("Expected a decoded 4x4 texture")
	}
}

func TestFromPathsSkipsMissingFile(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer logger.Use(zap.New(core))()

	dir := t.TempDir()
	good := filepath.Join(dir, "base.png")
	writePNG(t, good)
	missing := filepath.Join(dir, "Cutter_N.png")

	tm := renderer.NewTextureManager()
	c, err := FromPaths(tm, []string{"modelTexture", "base"}, map[string]string{
		"modelTexture": missing,
		"base":         good,
	})
	if err != nil {
		t.Fatalf("Expected a catalog despite the missing file, got %v", err)
	}
	keys := c.Keys()
	if len(keys) != 2 || keys[0] != NoneKey || keys[1] != "base" {
		t.Errorf("Expected [none base], got %v", keys)
	}

	entries := logs.FilterMessage("Texture load failed").All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 error log, got %d", len(entries))
	}
	for _, f := range entries[0].Context {
		if f.Key == "error" {
			if err, ok := f.Interface.(error); !ok || !errors.Is(err, os.ErrNotExist) {
				t.Errorf("Expected the not-exist cause, got %v", f.Interface)
			}
		}
	}
}

func TestFromPathsAllMissing(t *testing.T) {
	tm := renderer.NewTextureManager()
	c, err := FromPaths(tm, []string{"x"}, map[string]string{"x": filepath.Join(t.TempDir(), "missing.png")})
	if err != nil {
		t.Fatalf("FromPaths failed: %v", err)
	}
	if c.Len() != 1 || c.DefaultKey() != NoneKey {
		t.Errorf("Expected only none, got %v", c.Keys())
	}
}

func TestFromPathsUnknownKey(t *testing.T) {
	tm := renderer.NewTextureManager()
	if _, err := FromPaths(tm, []string{"y"}, map[string]string{}); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Expected ErrUnknownKey, got %v", err)
	}
}
