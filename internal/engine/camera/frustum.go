package camera

import "github.com/Faultbox/midgard-water/pkg/math"

// Containment is the result of testing a box against a frustum.
type Containment int

const (
	Outside Containment = iota
	Intersecting
	Inside
)

// Frustum holds the six clip planes of a view-projection matrix as
// (a, b, c, d) with a*x + b*y + c*z + d >= 0 for points inside.
type Frustum struct {
	Planes [6]math.Vec4
}

// NewFrustum extracts clip planes from a view-projection matrix
// (Gribb/Hartmann).
func NewFrustum(viewProj math.Mat4) Frustum {
	r0, r1, r2, r3 := viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)
	var f Frustum
	f.Planes[0] = add4(r3, r0) // left
	f.Planes[1] = sub4(r3, r0) // right
	f.Planes[2] = add4(r3, r1) // bottom
	f.Planes[3] = sub4(r3, r1) // top
	f.Planes[4] = add4(r3, r2) // near
	f.Planes[5] = sub4(r3, r2) // far
	return f
}

// ClassifyAABB tests the box [minB, maxB] against the frustum.
func (f Frustum) ClassifyAABB(minB, maxB math.Vec3) Containment {
	result := Inside
	for _, p := range f.Planes {
		// positive vertex: the box corner furthest along the plane normal
		pos := math.Vec3{X: minB.X, Y: minB.Y, Z: minB.Z}
		neg := math.Vec3{X: maxB.X, Y: maxB.Y, Z: maxB.Z}
		if p[0] >= 0 {
			pos.X, neg.X = maxB.X, minB.X
		}
		if p[1] >= 0 {
			pos.Y, neg.Y = maxB.Y, minB.Y
		}
		if p[2] >= 0 {
			pos.Z, neg.Z = maxB.Z, minB.Z
		}
		if distance(p, pos) < 0 {
			return Outside
		}
		if distance(p, neg) < 0 {
			result = Intersecting
		}
	}
	return result
}

func distance(p math.Vec4, v math.Vec3) float32 {
	return p[0]*v.X + p[1]*v.Y + p[2]*v.Z + p[3]
}

func add4(a, b math.Vec4) math.Vec4 {
	return math.Vec4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func sub4(a, b math.Vec4) math.Vec4 {
	return math.Vec4{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}
