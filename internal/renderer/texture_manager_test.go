package renderer

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

type fakeUploader struct {
	deleted []*Texture
}

func (f *fakeUploader) UploadTexture(t *Texture) error {
	t.ID = 1
	return nil
}

func (f *fakeUploader) DeleteTexture(t *Texture) {
	f.deleted = append(f.deleted, t)
}

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{255, uint8(x), uint8(y), 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTextureCaches(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "albedo.png", 4, 2)
	tm := NewTextureManager()

	first, err := tm.LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture failed: %v", err)
	}
	second, err := tm.LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture failed: %v", err)
	}

	if first != second {
		t.Error("Expected the cached texture on the second load")
	}
	if first.Width() != 4 || first.Height() != 2 {
		t.Errorf("Expected 4x2, got %dx%d", first.Width(), first.Height())
	}
	if !first.NeedsUpdate {
		t.Error("Expected a new texture to need an upload")
	}
	stats := tm.GetStats()
	if stats.CacheHits != 1 || stats.CacheMisses != 1 || stats.ActiveTextures != 1 {
		t.Errorf("Expected 1 hit, 1 miss, 1 active, got %+v", stats)
	}
	if tm.RefCount(first) != 2 {
		t.Errorf("Expected refcount 2, got %d", tm.RefCount(first))
	}
}

func TestLoadTextureMissing(t *testing.T) {
	tm := NewTextureManager()
	_, err := tm.LoadTexture(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestReleaseTextureDeletesAtZero(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "albedo.png", 2, 2)
	up := &fakeUploader{}
	tm := NewTextureManager()
	tm.SetUploader(up)

	tex, _ := tm.LoadTexture(path)
	tm.AddReference(tex)
	_ = up.UploadTexture(tex)

	tm.ReleaseTexture(tex)
	if len(up.deleted) != 0 {
		t.Error("Expected the texture to survive while referenced")
	}
	tm.ReleaseTexture(tex)
	if len(up.deleted) != 1 || up.deleted[0] != tex {
		t.Errorf("Expected the texture to be deleted, got %v", up.deleted)
	}
	if tm.RefCount(tex) != 0 {
		t.Errorf("Expected refcount 0, got %d", tm.RefCount(tex))
	}
}

func TestLoadCubeTextureResamples(t *testing.T) {
	dir := t.TempDir()
	var paths [6]string
	for i := range paths {
		size := 4
		if i == 3 {
			size = 8
		}
		paths[i] = writeTestPNG(t, dir, string(rune('a'+i))+".png", size, size)
	}
	tm := NewTextureManager()

	tex, err := tm.LoadCubeTexture(paths, MappingCubeReflection)
	if err != nil {
		t.Fatalf("LoadCubeTexture failed: %v", err)
	}
	if tex.Target != TextureCube || len(tex.Images) != 6 {
		t.Fatalf("Expected a six face cube, got target %v with %d images", tex.Target, len(tex.Images))
	}
	for i, img := range tex.Images {
		if img.Rect.Dx() != 4 || img.Rect.Dy() != 4 {
			t.Errorf("Expected face %d to be 4x4, got %v", i, img.Rect)
		}
	}

	refraction, err := tm.LoadCubeTexture(paths, MappingCubeRefraction)
	if err != nil {
		t.Fatalf("LoadCubeTexture failed: %v", err)
	}
	if refraction == tex {
		t.Error("Expected a distinct texture per mapping")
	}
}

func TestLoadCubeTextureNotSquare(t *testing.T) {
	dir := t.TempDir()
	var paths [6]string
	for i := range paths {
		paths[i] = writeTestPNG(t, dir, string(rune('a'+i))+".png", 4, 4)
	}
	paths[2] = writeTestPNG(t, dir, "wide.png", 8, 4)

	_, err := NewTextureManager().LoadCubeTexture(paths, MappingCubeReflection)
	if !errors.Is(err, ErrFaceNotSquare) {
		t.Errorf("Expected ErrFaceNotSquare, got %v", err)
	}
}

func TestAddTextureAndClear(t *testing.T) {
	up := &fakeUploader{}
	tm := NewTextureManager()
	tm.SetUploader(up)

	tex := NewTexture2D("noise", image.NewGray(image.Rect(0, 0, 2, 2)))
	if got := tm.AddTexture("noise", tex); got != tex {
		t.Error("Expected the added texture back")
	}
	other := NewTexture2D("noise", image.NewGray(image.Rect(0, 0, 2, 2)))
	if got := tm.AddTexture("noise", other); got != tex {
		t.Error("Expected the cached texture for a repeated name")
	}

	_ = up.UploadTexture(tex)
	tm.Clear()
	if len(up.deleted) != 1 {
		t.Errorf("Expected 1 deleted texture, got %d", len(up.deleted))
	}
	if tm.GetStats().ActiveTextures != 0 {
		t.Error("Expected no active textures after Clear")
	}
}

func TestWithMappingSharesPixels(t *testing.T) {
	tex := NewTexture2D("a", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	tex.ID = 9
	tex.NeedsUpdate = false

	view := tex.WithMapping("b", MappingCubeRefraction)
	if view.ID != 0 || !view.NeedsUpdate {
		t.Error("Expected a fresh GPU resource")
	}
	if &view.Images[0].Pix[0] != &tex.Images[0].Pix[0] {
		t.Error("Expected shared pixels")
	}
}
