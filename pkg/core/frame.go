package core

import "math"

// Frame is an orthonormal basis. W is the "up" axis of the local space that
// the sampling functions generate directions in.
type Frame struct {
	U, V, W Vec3
}

// NewFrameFromW builds a frame around a unit vector w
func NewFrameFromW(w Vec3) Frame {
	// Find a vector that is not parallel to w
	var a Vec3
	if math.Abs(w.X) > 0.1 {
		a = NewVec3(0, 1, 0)
	} else {
		a = NewVec3(1, 0, 0)
	}
	u := a.Cross(w).Normalize()
	v := w.Cross(u)
	return Frame{U: u, V: v, W: w}
}

// NewFrameFromWV builds a camera frame: W points along w (back toward the
// viewer) and V is as close to up as the orthogonality constraint allows.
func NewFrameFromWV(w, up Vec3) Frame {
	w = w.Normalize()
	u := up.Cross(w).Normalize()
	v := w.Cross(u)
	return Frame{U: u, V: v, W: w}
}

// LocalToWorld maps local (x, y, z) coordinates into world space
func (f Frame) LocalToWorld(local Vec3) Vec3 {
	return f.U.Multiply(local.X).Add(f.V.Multiply(local.Y)).Add(f.W.Multiply(local.Z))
}

// WorldToLocal projects a world vector onto the frame axes
func (f Frame) WorldToLocal(world Vec3) Vec3 {
	return Vec3{X: world.Dot(f.U), Y: world.Dot(f.V), Z: world.Dot(f.W)}
}
