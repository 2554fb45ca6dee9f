package renderer

import (
	"image"
	"image/draw"
)

type TextureTarget int

const (
	Texture2D TextureTarget = iota
	TextureCube
)

// Mapping tells the shader how to sample a texture.
type Mapping int

const (
	MappingUV Mapping = iota
	MappingCubeReflection
	MappingCubeRefraction
)

// Cube face order, matching GL_TEXTURE_CUBE_MAP_POSITIVE_X + i.
const (
	FacePosX = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// Texture is a texture resource handle shared between materials. The pixel
// data stays on the CPU side until the renderer uploads it.
type Texture struct {
	// HOT DATA
	ID          uint32        // GPU texture name, 0 until uploaded
	Target      TextureTarget // 2D or cube
	Mapping     Mapping       // UV, cube reflection or cube refraction
	NeedsUpdate bool          // Pixels changed and must be (re)uploaded

	// COLD DATA
	Name         string
	Path         string
	Images       []*image.RGBA // one image for 2D, six faces for cubes
	RenderTarget bool          // Filled by the GPU, no CPU images
	Size         int           // Face size for render targets
}

// NewTexture2D wraps an image as a texture. The image is converted to RGBA.
func NewTexture2D(name string, img image.Image) *Texture {
	return &Texture{
		Name:        name,
		Target:      Texture2D,
		Mapping:     MappingUV,
		Images:      []*image.RGBA{toRGBA(img)},
		NeedsUpdate: true,
	}
}

// NewCubeTexture wraps six faces (+X, -X, +Y, -Y, +Z, -Z) as a cube texture.
func NewCubeTexture(name string, faces [6]image.Image, mapping Mapping) *Texture {
	images := make([]*image.RGBA, 6)
	for i, face := range faces {
		images[i] = toRGBA(face)
	}
	return &Texture{
		Name:        name,
		Target:      TextureCube,
		Mapping:     mapping,
		Images:      images,
		NeedsUpdate: true,
	}
}

// NewCubeRenderTarget creates an empty cube texture that is rendered into.
func NewCubeRenderTarget(name string, size int) *Texture {
	return &Texture{
		Name:         name,
		Target:       TextureCube,
		Mapping:      MappingCubeReflection,
		RenderTarget: true,
		Size:         size,
		NeedsUpdate:  true,
	}
}

// WithMapping returns a texture sharing the same pixels but sampled with a
// different mapping. The GPU resource is not shared.
func (t *Texture) WithMapping(name string, mapping Mapping) *Texture {
	return &Texture{
		Name:        name,
		Target:      t.Target,
		Mapping:     mapping,
		Path:        t.Path,
		Images:      t.Images,
		NeedsUpdate: true,
	}
}

func (t *Texture) Width() int {
	if len(t.Images) == 0 {
		return t.Size
	}
	return t.Images[0].Rect.Dx()
}

func (t *Texture) Height() int {
	if len(t.Images) == 0 {
		return t.Size
	}
	return t.Images[0].Rect.Dy()
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
