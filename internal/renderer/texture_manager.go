package renderer

import (
	"PBRShowcase/internal/logger"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/transform"
	"go.uber.org/zap"
)

var ErrFaceNotSquare = errors.New("cube face is not square")

// Uploader moves texture pixels to the GPU. The OpenGL renderer implements it.
type Uploader interface {
	UploadTexture(t *Texture) error
	DeleteTexture(t *Texture)
}

// TextureStats provides debugging and profiling information
type TextureStats struct {
	TotalTextures  int
	CacheHits      int
	CacheMisses    int
	ActiveTextures int
}

// TextureManager decodes, caches and reference counts textures. Decoding does
// not touch the GPU so it is safe to call from loader goroutines.
type TextureManager struct {
	textureCache    map[string]*Texture // cache key -> texture
	textureRefCount map[*Texture]int
	textureKeys     map[*Texture]string
	uploader        Uploader
	mu              sync.RWMutex
	stats           TextureStats
}

func NewTextureManager() *TextureManager {
	return &TextureManager{
		textureCache:    make(map[string]*Texture),
		textureRefCount: make(map[*Texture]int),
		textureKeys:     make(map[*Texture]string),
	}
}

// SetUploader attaches the GPU side. Until then released textures are only
// dropped from the cache.
func (tm *TextureManager) SetUploader(u Uploader) {
	tm.mu.Lock()
	tm.uploader = u
	tm.mu.Unlock()
}

// LoadTexture decodes a PNG or JPEG file or returns the cached texture,
// incrementing its reference count.
func (tm *TextureManager) LoadTexture(filePath string) (*Texture, error) {
	if tex := tm.cached(filePath); tex != nil {
		return tex, nil
	}

	img, err := decodeImage(filePath)
	if err != nil {
		return nil, err
	}
	tex := NewTexture2D(filePath, img)
	tex.Path = filePath

	tex = tm.store(filePath, tex)
	logger.Log.Info("Texture loaded and cached",
		zap.String("path", filePath),
		zap.Int("width", tex.Width()),
		zap.Int("height", tex.Height()))
	return tex, nil
}

// LoadCubeTexture decodes six faces in +X, -X, +Y, -Y, +Z, -Z order. Faces
// must be square; faces whose size differs from the first one are resampled.
func (tm *TextureManager) LoadCubeTexture(paths [6]string, mapping Mapping) (*Texture, error) {
	key := fmt.Sprintf("cube:%d:%s", mapping, strings.Join(paths[:], "|"))
	if tex := tm.cached(key); tex != nil {
		return tex, nil
	}

	var faces [6]image.Image
	size := 0
	for i, p := range paths {
		img, err := decodeImage(p)
		if err != nil {
			return nil, err
		}
		b := img.Bounds()
		if b.Dx() != b.Dy() {
			return nil, fmt.Errorf("%s: %w (%dx%d)", p, ErrFaceNotSquare, b.Dx(), b.Dy())
		}
		if i == 0 {
			size = b.Dx()
		} else if b.Dx() != size {
			logger.Log.Warn("Resampling cube face",
				zap.String("path", p),
				zap.Int("from", b.Dx()),
				zap.Int("to", size))
			img = transform.Resize(img, size, size, transform.Linear)
		}
		faces[i] = img
	}

	tex := NewCubeTexture(key, faces, mapping)
	tex.Path = paths[0]
	tex = tm.store(key, tex)
	logger.Log.Info("Cube texture loaded and cached",
		zap.String("first", paths[0]),
		zap.Int("size", size))
	return tex, nil
}

// AddTexture registers a texture created in memory under name.
func (tm *TextureManager) AddTexture(name string, tex *Texture) *Texture {
	if cached := tm.cached(name); cached != nil {
		return cached
	}
	return tm.store(name, tex)
}

// AddReference increments the reference count for a texture
func (tm *TextureManager) AddReference(tex *Texture) {
	if tex == nil {
		return
	}
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if _, ok := tm.textureRefCount[tex]; ok {
		tm.textureRefCount[tex]++
	}
}

// ReleaseTexture decrements the reference count and frees the texture when it
// reaches zero.
func (tm *TextureManager) ReleaseTexture(tex *Texture) {
	if tex == nil {
		return
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	refCount, exists := tm.textureRefCount[tex]
	if !exists {
		logger.Log.Warn("Attempted to release unknown texture", zap.String("name", tex.Name))
		return
	}

	refCount--
	tm.textureRefCount[tex] = refCount
	if refCount > 0 {
		return
	}

	if tm.uploader != nil && tex.ID != 0 {
		tm.uploader.DeleteTexture(tex)
	}
	key := tm.textureKeys[tex]
	delete(tm.textureCache, key)
	delete(tm.textureRefCount, tex)
	delete(tm.textureKeys, tex)
	logger.Log.Info("Texture freed", zap.String("key", key))
}

// RefCount reports the current reference count, 0 for unknown textures.
func (tm *TextureManager) RefCount(tex *Texture) int {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.textureRefCount[tex]
}

// GetStats returns current texture manager statistics
func (tm *TextureManager) GetStats() TextureStats {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	stats := tm.stats
	stats.ActiveTextures = len(tm.textureRefCount)
	return stats
}

// Clear releases all textures
func (tm *TextureManager) Clear() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for tex := range tm.textureRefCount {
		if tm.uploader != nil && tex.ID != 0 {
			tm.uploader.DeleteTexture(tex)
		}
	}
	tm.textureCache = make(map[string]*Texture)
	tm.textureRefCount = make(map[*Texture]int)
	tm.textureKeys = make(map[*Texture]string)
	logger.Log.Info("Texture manager cleared")
}

func (tm *TextureManager) cached(key string) *Texture {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tex, ok := tm.textureCache[key]
	if !ok {
		tm.stats.CacheMisses++
		return nil
	}
	tm.textureRefCount[tex]++
	tm.stats.CacheHits++
	logger.Log.Debug("Texture cache hit",
		zap.String("key", key),
		zap.Int("refCount", tm.textureRefCount[tex]))
	return tex
}

// store caches tex under key. If another goroutine won the race the cached
// texture is returned instead.
func (tm *TextureManager) store(key string, tex *Texture) *Texture {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if existing, ok := tm.textureCache[key]; ok {
		tm.textureRefCount[existing]++
		return existing
	}
	tm.textureCache[key] = tex
	tm.textureRefCount[tex] = 1
	tm.textureKeys[tex] = key
	tm.stats.TotalTextures++
	return tex
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
