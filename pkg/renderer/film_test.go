package renderer

import (
	"image/color"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/google/go-cmp/cmp"
)

func TestToneMap(t *testing.T) {
	tests := []struct {
		name     string
		sum      core.Color
		samples  int
		expected color.RGBA
	}{
		{"no samples", core.White, 0, color.RGBA{A: 255}},
		{"black", core.Black, 4, color.RGBA{A: 255}},
		{"white", core.White, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{"gamma on quarter", core.Gray(0.25), 1, color.RGBA{R: 127, G: 127, B: 127, A: 255}},
		{"averaged over samples", core.White, 4, color.RGBA{R: 127, G: 127, B: 127, A: 255}},
		{"clamped above one", core.NewColor(4, 0.25, -1), 1, color.RGBA{R: 255, G: 127, B: 0, A: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToneMap(tt.sum, tt.samples); got != tt.expected {
				t.Errorf("ToneMap(%v, %d) = %v, want %v", tt.sum, tt.samples, got, tt.expected)
			}
		})
	}
}

func TestFilm_AddAndClear(t *testing.T) {
	film := NewFilm(3, 2)
	film.Add(2, 1, core.NewColor(0.5, 0, 0))
	film.Add(2, 1, core.NewColor(0.5, 1, 0))
	film.Samples = 2

	if got := film.Get(2, 1); got != core.NewColor(1, 1, 0) {
		t.Errorf("Expected accumulated (1,1,0), got %v", got)
	}
	if got := film.Average(2, 1); got != core.NewColor(0.5, 0.5, 0) {
		t.Errorf("Expected average (0.5,0.5,0), got %v", got)
	}
	if got := film.Pixels[2+1*3]; got != core.NewColor(1, 1, 0) {
		t.Errorf("Expected row-major storage, got %v at index 5", got)
	}

	film.Clear()
	if film.Samples != 0 || film.Get(2, 1) != core.Black {
		t.Errorf("Clear left samples=%d pixel=%v", film.Samples, film.Get(2, 1))
	}
}

func TestFilm_Sample(t *testing.T) {
	film := NewFilm(4, 5)
	got := film.Sample(1, 2, core.NewVec2(0.5, 0.5))
	if diff := cmp.Diff(core.NewVec2(0.375, 0.5), got); diff != "" {
		t.Errorf("Sample mismatch (-want +got):\n%s", diff)
	}

	corner := film.Sample(3, 4, core.NewVec2(1, 1))
	if corner.X != 1 || corner.Y != 1 {
		t.Errorf("Expected far corner at (1,1), got %v", corner)
	}
}

func TestFilm_ImageIsFlipped(t *testing.T) {
	film := NewFilm(2, 2)
	film.Set(0, 0, core.White) // bottom-left on screen
	film.Samples = 1

	img := film.Image()
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}

	if got := img.RGBAAt(0, 1); got != white {
		t.Errorf("Expected bottom-left image pixel white, got %v", got)
	}
	if got := img.RGBAAt(0, 0); got != black {
		t.Errorf("Expected top-left image pixel black, got %v", got)
	}
}

func TestFilm_RGBInFilmOrder(t *testing.T) {
	film := NewFilm(2, 2)
	film.Set(0, 0, core.White)
	film.Set(1, 1, core.Gray(0.25))
	film.Samples = 1

	expected := []byte{
		255, 255, 255, 0, 0, 0,
		0, 0, 0, 127, 127, 127,
	}
	if diff := cmp.Diff(expected, film.RGB()); diff != "" {
		t.Errorf("RGB mismatch (-want +got):\n%s", diff)
	}
}

func TestFilm_CloneIsIndependent(t *testing.T) {
	film := NewFilm(2, 2)
	film.Add(1, 0, core.NewColor(1, 2, 3))
	film.Samples = 1

	clone := film.Clone()
	if diff := cmp.Diff(film, clone); diff != "" {
		t.Errorf("Clone differs (-want +got):\n%s", diff)
	}

	film.Add(1, 0, core.NewColor(1, 1, 1))
	film.Samples = 2
	if got := clone.Get(1, 0); got != core.NewColor(1, 2, 3) {
		t.Errorf("Clone pixel changed with the original: %v", got)
	}
	if clone.Samples != 1 {
		t.Errorf("Clone samples changed with the original: %d", clone.Samples)
	}
}
