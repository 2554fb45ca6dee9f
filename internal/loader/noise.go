package loader

import (
	"PBRShowcase/internal/renderer"
	"fmt"
	"image"
	"image/color"

	"github.com/aquilax/go-perlin"
)

const (
	noiseAlpha  = 2.0
	noiseBeta   = 2.0
	noiseOctave = 3
	noiseScale  = 8.0
)

// NoiseTexture returns a size x size grayscale Perlin noise texture. The same
// seed always gives the same pixels.
func NoiseTexture(size int, seed int64) *renderer.Texture {
	if size < 1 {
		size = 1
	}
	p := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, seed)
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			n := p.Noise2D(float64(x)/float64(size)*noiseScale, float64(y)/float64(size)*noiseScale)
			v := (n + 1) / 2
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v * 255)})
		}
	}
	return renderer.NewTexture2D(fmt.Sprintf("noise:%d:%d", size, seed), img)
}
