package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator. It is not safe for
// concurrent use; renderers hand one to each tile.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded by seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	x := r.random.Float64()
	y := r.random.Float64()
	return NewVec2(x, y)
}

// MixSeed folds the given values into a single well-distributed seed using
// the splitmix64 finalizer. Used to derive independent per-tile streams.
func MixSeed(parts ...int64) int64 {
	h := uint64(0x9e3779b97f4a7c15)
	for _, p := range parts {
		h ^= uint64(p)
		h += 0x9e3779b97f4a7c15
		h = (h ^ (h >> 30)) * 0xbf58476d1ce4e5b9
		h = (h ^ (h >> 27)) * 0x94d049bb133111eb
		h ^= h >> 31
	}
	return int64(h >> 1)
}

// UniformSphere maps u to a direction uniformly distributed over the unit sphere
func UniformSphere(u Vec2) Vec3 {
	z := 1.0 - 2.0*u.X
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * u.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// UniformSpherePDF is the solid angle density of UniformSphere
func UniformSpherePDF() float64 {
	return 1.0 / (4.0 * math.Pi)
}

// UniformHemisphere maps u to a direction uniformly distributed over the +z hemisphere
func UniformHemisphere(u Vec2) Vec3 {
	z := u.X
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * u.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// UniformHemispherePDF is the solid angle density of UniformHemisphere
func UniformHemispherePDF() float64 {
	return 1.0 / (2.0 * math.Pi)
}

// CosineHemisphere maps u to a cosine-weighted direction in the +z hemisphere
func CosineHemisphere(u Vec2) Vec3 {
	cosTheta := math.Sqrt(u.X)
	sinTheta := math.Sqrt(math.Max(0, 1.0-u.X))
	phi := 2.0 * math.Pi * u.Y
	return NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}

// CosineHemispherePDF is cosθ/π for directions above the surface and 0 otherwise
func CosineHemispherePDF(cosTheta float64) float64 {
	if cosTheta <= 0 {
		return 0
	}
	return cosTheta / math.Pi
}

// UniformCone maps u to a direction uniformly distributed in the cone of
// half-angle acos(cosThetaMax) around +z
func UniformCone(u Vec2, cosThetaMax float64) Vec3 {
	cosTheta := 1.0 - u.X*(1.0-cosThetaMax)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * u.Y
	return NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}

// UniformConePDF is the solid angle density of UniformCone
func UniformConePDF(cosThetaMax float64) float64 {
	return 1.0 / (2.0 * math.Pi * (1.0 - cosThetaMax))
}

// UniformDisk maps u to a point uniformly distributed on the unit disk,
// returned in polar form (radius, angle)
func UniformDisk(u Vec2) Vec2 {
	return NewVec2(math.Sqrt(u.X), 2.0*math.Pi*u.Y)
}

// UniformDiskPDF is the area density of UniformDisk
func UniformDiskPDF() float64 {
	return 1.0 / math.Pi
}

// DiskToCartesian converts a polar disk sample to (x, y)
func DiskToCartesian(polar Vec2) Vec2 {
	return NewVec2(polar.X*math.Cos(polar.Y), polar.X*math.Sin(polar.Y))
}

// UniformTriangle maps u to barycentric coordinates uniformly distributed over a triangle
func UniformTriangle(u Vec2) Vec2 {
	su := math.Sqrt(u.X)
	return NewVec2(1.0-su, su*u.Y)
}

// UniformTrianglePDF is the density of UniformTriangle relative to
// barycentric area
func UniformTrianglePDF() float64 {
	return 2.0
}
