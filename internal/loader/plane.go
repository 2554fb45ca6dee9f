package loader

import (
	"PBRShowcase/internal/renderer"
)

// LoadPlane builds a flat quad on the XZ plane centered at the origin, facing
// +Y, with UVs spanning 0..1.
func LoadPlane(width, depth float32) *renderer.Model {
	hw, hd := width/2, depth/2
	interleaved := []float32{
		// x, y, z, u, v, nx, ny, nz
		-hw, 0, hd, 0, 0, 0, 1, 0,
		hw, 0, hd, 1, 0, 0, 1, 0,
		hw, 0, -hd, 1, 1, 0, 1, 0,
		-hw, 0, -hd, 0, 1, 0, 1, 0,
	}
	faces := []uint32{0, 1, 2, 0, 2, 3}
	return renderer.CreateModel("plane", interleaved, faces)
}
