package core

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestVec3_Cross(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec3
		expected Vec3
	}{
		{"x cross y", NewVec3(1, 0, 0), NewVec3(0, 1, 0), NewVec3(0, 0, 1)},
		{"y cross z", NewVec3(0, 1, 0), NewVec3(0, 0, 1), NewVec3(1, 0, 0)},
		{"z cross x", NewVec3(0, 0, 1), NewVec3(1, 0, 0), NewVec3(0, 1, 0)},
		{"parallel", NewVec3(2, 0, 0), NewVec3(5, 0, 0), NewVec3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, tt.a.Cross(tt.b)); diff != "" {
				t.Errorf("Cross mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(3, 4, 12).Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", v.Length())
	}

	if zero := (Vec3{}).Normalize(); zero != (Vec3{}) {
		t.Errorf("Expected zero vector to normalize to zero, got %v", zero)
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, -1))
	got := ray.At(2.5)
	want := NewVec3(1, 2, 0.5)
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestNewRayTo(t *testing.T) {
	ray := NewRayTo(NewVec3(0, 0, 0), NewVec3(0, 10, 0))
	if ray.Direction != NewVec3(0, 1, 0) {
		t.Errorf("Expected unit +y direction, got %v", ray.Direction)
	}
}

func TestColor_Operations(t *testing.T) {
	a := NewColor(0.5, 1, 2)
	b := NewColor(2, 0.5, 0.25)

	approx := cmpopts.EquateApprox(0, 1e-12)
	checks := []struct {
		name string
		got  Color
		want Color
	}{
		{"Add", a.Add(b), NewColor(2.5, 1.5, 2.25)},
		{"Sub", a.Sub(b), NewColor(-1.5, 0.5, 1.75)},
		{"Mul", a.Mul(b), NewColor(1, 0.5, 0.5)},
		{"Div", a.Div(b), NewColor(0.25, 2, 8)},
		{"Scale", a.Scale(2), NewColor(1, 2, 4)},
		{"DivScalar", a.DivScalar(2), NewColor(0.25, 0.5, 1)},
		{"AddScalar", a.AddScalar(1), NewColor(1.5, 2, 3)},
		{"Clamp", a.Clamp(0, 1), NewColor(0.5, 1, 1)},
		{"Sqrt", NewColor(0.25, 1, 4).Sqrt(), NewColor(0.5, 1, 2)},
	}

	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if diff := cmp.Diff(c.want, c.got, approx); diff != "" {
				t.Errorf("%s mismatch (-want +got):\n%s", c.name, diff)
			}
		})
	}
}

func TestColor_Predicates(t *testing.T) {
	if !Black.IsBlack() {
		t.Error("Black should be black")
	}
	if White.IsBlack() {
		t.Error("White should not be black")
	}
	if NewColor(math.NaN(), 0, 0).IsFinite() {
		t.Error("NaN color should not be finite")
	}
	if got := NewColor(0.1, 0.7, 0.3).MaxComponent(); got != 0.7 {
		t.Errorf("Expected max component 0.7, got %f", got)
	}
	if math.Abs(White.Luminance()-1) > 1e-12 {
		t.Errorf("Expected white luminance 1, got %f", White.Luminance())
	}
}

func TestFrame_Orthonormal(t *testing.T) {
	directions := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(1, 0, 0),
		NewVec3(0, -1, 0),
		NewVec3(1, 2, 3).Normalize(),
		NewVec3(-0.05, 0.99, 0.1).Normalize(),
	}

	const tolerance = 1e-9
	for _, w := range directions {
		f := NewFrameFromW(w)
		if math.Abs(f.U.Dot(f.V)) > tolerance || math.Abs(f.U.Dot(f.W)) > tolerance || math.Abs(f.V.Dot(f.W)) > tolerance {
			t.Errorf("Frame for %v is not orthogonal: %+v", w, f)
		}
		for _, axis := range []Vec3{f.U, f.V, f.W} {
			if math.Abs(axis.Length()-1) > tolerance {
				t.Errorf("Frame for %v has non-unit axis %v", w, axis)
			}
		}

		local := NewVec3(0.3, -0.4, 0.5)
		back := f.WorldToLocal(f.LocalToWorld(local))
		if back.Subtract(local).Length() > tolerance {
			t.Errorf("Round trip through frame changed %v to %v", local, back)
		}
	}
}

func TestFrame_FromWV(t *testing.T) {
	f := NewFrameFromWV(NewVec3(0, 0, 5), NewVec3(0, 1, 0))

	const tolerance = 1e-12
	expect := map[string][2]Vec3{
		"U": {f.U, NewVec3(1, 0, 0)},
		"V": {f.V, NewVec3(0, 1, 0)},
		"W": {f.W, NewVec3(0, 0, 1)},
	}
	for name, pair := range expect {
		if pair[0].Subtract(pair[1]).Length() > tolerance {
			t.Errorf("Axis %s: expected %v, got %v", name, pair[1], pair[0])
		}
	}
}
