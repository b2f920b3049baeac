package water

import (
	"fmt"

	"github.com/Faultbox/midgard-water/pkg/math"
)

// FloatsPerVertex is the interleaved stride: position xyz + texcoord uv.
const FloatsPerVertex = 5

// MeshSink receives serialized surface buffers, typically a GPU renderer.
type MeshSink interface {
	Upload(vertices []float32, indices []uint32) error
}

// Interleave writes positions and texcoords into dst as x,y,z,u,v per vertex
// and returns the (possibly reallocated) slice. The whole buffer is rewritten
// every call.
func Interleave(dst []float32, positions []math.Vec3, texCoords []math.Vec2) []float32 {
	n := len(positions) * FloatsPerVertex
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]
	for i, p := range positions {
		o := i * FloatsPerVertex
		dst[o+0] = p.X
		dst[o+1] = p.Y
		dst[o+2] = p.Z
		dst[o+3] = texCoords[i].X
		dst[o+4] = texCoords[i].Y
	}
	return dst
}

// Deinterleave splits an interleaved buffer back into positions and texcoords.
func Deinterleave(buf []float32) ([]math.Vec3, []math.Vec2, error) {
	if len(buf)%FloatsPerVertex != 0 {
		return nil, nil, fmt.Errorf("interleaved buffer length %d is not a multiple of %d", len(buf), FloatsPerVertex)
	}
	n := len(buf) / FloatsPerVertex
	positions := make([]math.Vec3, n)
	texCoords := make([]math.Vec2, n)
	for i := range n {
		o := i * FloatsPerVertex
		positions[i] = math.Vec3{X: buf[o], Y: buf[o+1], Z: buf[o+2]}
		texCoords[i] = math.Vec2{X: buf[o+3], Y: buf[o+4]}
	}
	return positions, texCoords, nil
}
