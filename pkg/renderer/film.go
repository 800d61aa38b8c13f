package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// Film accumulates radiance samples. Pixel (0, 0) is the bottom-left of
// the screen, matching camera film coordinates where v grows upward.
type Film struct {
	Width, Height int
	Pixels        []core.Color // Row-major sums, indexed x + y*Width
	Samples       int          // Samples per pixel accumulated so far
}

// NewFilm creates a cleared film
func NewFilm(width, height int) *Film {
	return &Film{
		Width:  width,
		Height: height,
		Pixels: make([]core.Color, width*height),
	}
}

func (f *Film) index(x, y int) int {
	return x + y*f.Width
}

// Clone returns an independent copy of the film
func (f *Film) Clone() *Film {
	clone := *f
	clone.Pixels = append([]core.Color(nil), f.Pixels...)
	return &clone
}

// Clear zeroes every pixel and the sample count
func (f *Film) Clear() {
	for i := range f.Pixels {
		f.Pixels[i] = core.Black
	}
	f.Samples = 0
}

// Set overwrites a pixel sum
func (f *Film) Set(x, y int, c core.Color) {
	f.Pixels[f.index(x, y)] = c
}

// Add accumulates a sample into a pixel
func (f *Film) Add(x, y int, c core.Color) {
	i := f.index(x, y)
	f.Pixels[i] = f.Pixels[i].Add(c)
}

// Get returns a pixel sum
func (f *Film) Get(x, y int) core.Color {
	return f.Pixels[f.index(x, y)]
}

// Average returns the mean radiance of a pixel
func (f *Film) Average(x, y int) core.Color {
	if f.Samples == 0 {
		return core.Black
	}
	return f.Get(x, y).DivScalar(float64(f.Samples))
}

// Sample maps pixel (x, y) and a jitter in [0,1)² to film coordinates in [0,1]²
func (f *Film) Sample(x, y int, jitter core.Vec2) core.Vec2 {
	return core.NewVec2(
		(float64(x)+jitter.X)/float64(f.Width),
		(float64(y)+jitter.Y)/float64(f.Height),
	)
}

// ToneMap averages a pixel sum over samples, clamps it to [0, 1] and
// applies gamma 2.0
func ToneMap(sum core.Color, samples int) color.RGBA {
	if samples <= 0 {
		return color.RGBA{A: 255}
	}
	c := sum.DivScalar(float64(samples)).Clamp(0, 1).Sqrt()
	return color.RGBA{
		R: uint8(255 * c.R),
		G: uint8(255 * c.G),
		B: uint8(255 * c.B),
		A: 255,
	}
}

// RGB returns 8-bit tone-mapped pixels, three bytes per pixel, in film
// order (bottom row first)
func (f *Film) RGB() []byte {
	out := make([]byte, 0, 3*len(f.Pixels))
	for _, sum := range f.Pixels {
		c := ToneMap(sum, f.Samples)
		out = append(out, c.R, c.G, c.B)
	}
	return out
}

// Image returns the tone-mapped film as an upright image (top row first)
func (f *Film) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, f.Height-1-y, ToneMap(f.Get(x, y), f.Samples))
		}
	}
	return img
}

// imageRow converts a top-down image row into a film row
func (f *Film) imageRow(row int) int {
	return f.Height - 1 - row
}
