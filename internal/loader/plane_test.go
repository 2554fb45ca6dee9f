package loader

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestLoadPlane(t *testing.T) {
	plane := LoadPlane(100, 100)

	if plane.VertexCount() != 4 || len(plane.Faces) != 6 {
		t.Fatalf("Expected 4 vertices and 6 indices, got %d and %d", plane.VertexCount(), len(plane.Faces))
	}
	for i := 0; i < 4; i++ {
		o := i * 8
		if plane.InterleavedData[o+1] != 0 {
			t.Errorf("Expected vertex %d on y=0", i)
		}
		if plane.InterleavedData[o] != 50 && plane.InterleavedData[o] != -50 {
			t.Errorf("Expected x of +-50, got %f", plane.InterleavedData[o])
		}
	}

	v := func(i uint32) mgl32.Vec3 {
		o := i * 8
		return mgl32.Vec3{plane.InterleavedData[o], plane.InterleavedData[o+1], plane.InterleavedData[o+2]}
	}
	a, b, c := v(plane.Faces[0]), v(plane.Faces[1]), v(plane.Faces[2])
	if n := b.Sub(a).Cross(c.Sub(a)); n[1] <= 0 {
		t.Errorf("Expected counter-clockwise winding facing up, got normal %v", n)
	}
}

func TestNoiseTextureIsDeterministic(t *testing.T) {
	a := NoiseTexture(16, 42)
	b := NoiseTexture(16, 42)

	if a.Width() != 16 || a.Height() != 16 {
		t.Fatalf("Expected 16x16, got %dx%d", a.Width(), a.Height())
	}
	pa, pb := a.Images[0].Pix, b.Images[0].Pix
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatal("Expected identical pixels for the same seed")
		}
	}
}
