package core

import "math"

// Color is a linear RGB triplet. Values are unbounded: radiance estimates
// routinely exceed 1 before tone mapping.
type Color struct {
	R, G, B float64
}

var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
	Red   = Color{1, 0, 0}
	Green = Color{0, 1, 0}
	Blue  = Color{0, 0, 1}
)

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Gray returns a color with all three channels set to v
func Gray(v float64) Color {
	return Color{v, v, v}
}

// Add returns the component-wise sum
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Sub returns the component-wise difference
func (c Color) Sub(o Color) Color {
	return Color{c.R - o.R, c.G - o.G, c.B - o.B}
}

// Mul returns the component-wise product
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B}
}

// Div returns the component-wise quotient
func (c Color) Div(o Color) Color {
	return Color{c.R / o.R, c.G / o.G, c.B / o.B}
}

// Scale multiplies every channel by s
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// DivScalar divides every channel by s
func (c Color) DivScalar(s float64) Color {
	return Color{c.R / s, c.G / s, c.B / s}
}

// AddScalar adds s to every channel
func (c Color) AddScalar(s float64) Color {
	return Color{c.R + s, c.G + s, c.B + s}
}

// Clamp returns the color with every channel clamped to [lo, hi]
func (c Color) Clamp(lo, hi float64) Color {
	return Color{
		R: max(lo, min(hi, c.R)),
		G: max(lo, min(hi, c.G)),
		B: max(lo, min(hi, c.B)),
	}
}

// Sqrt applies a square root per channel (gamma 2.0 encoding)
func (c Color) Sqrt() Color {
	return Color{math.Sqrt(c.R), math.Sqrt(c.G), math.Sqrt(c.B)}
}

// Luminance returns the perceptual luminance of the color
// Uses standard luminance weights: 0.299*R + 0.587*G + 0.114*B
func (c Color) Luminance() float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// MaxComponent returns the largest channel value
func (c Color) MaxComponent() float64 {
	return max(c.R, c.G, c.B)
}

// IsBlack reports whether every channel is exactly zero
func (c Color) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// IsFinite reports whether every channel is neither NaN nor infinite
func (c Color) IsFinite() bool {
	return isFinite(c.R) && isFinite(c.G) && isFinite(c.B)
}
