package debug

import "github.com/Faultbox/midgard-water/pkg/math"

// BoxLineVertexCount is the number of vertices in a box wireframe (12 edges × 2).
const BoxLineVertexCount = 24

// BoxLines returns line-list vertices (x, y, z each) for the edges of an
// axis-aligned box.
func BoxLines(minB, maxB math.Vec3) []float32 {
	x0, y0, z0 := minB.X, minB.Y, minB.Z
	x1, y1, z1 := maxB.X, maxB.Y, maxB.Z
	return []float32{
		// bottom
		x0, y0, z0, x1, y0, z0,
		x1, y0, z0, x1, y0, z1,
		x1, y0, z1, x0, y0, z1,
		x0, y0, z1, x0, y0, z0,
		// top
		x0, y1, z0, x1, y1, z0,
		x1, y1, z0, x1, y1, z1,
		x1, y1, z1, x0, y1, z1,
		x0, y1, z1, x0, y1, z0,
		// verticals
		x0, y0, z0, x0, y1, z0,
		x1, y0, z0, x1, y1, z0,
		x1, y0, z1, x1, y1, z1,
		x0, y0, z1, x0, y1, z1,
	}
}
