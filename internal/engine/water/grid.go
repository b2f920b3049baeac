package water

import (
	"fmt"
	gomath "math"
	"math/rand"

	"github.com/Faultbox/midgard-water/pkg/math"
)

// QuadSpacing is the half-width covered by one quad of the lattice.
const QuadSpacing = 10.0

// BoundsPadding is the vertical padding of the bounding box around the water level.
const BoundsPadding = 30.0

// Bounds is an axis-aligned box in world space.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// MaxResolution caps vertices per grid side. At the cap a tile holds about
// 16.8M vertices, roughly 1 GB of per-vertex state.
const MaxResolution = 4096

// Union returns the smallest box containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		Min: math.Vec3{X: min(b.Min.X, o.Min.X), Y: min(b.Min.Y, o.Min.Y), Z: min(b.Min.Z, o.Min.Z)},
		Max: math.Vec3{X: max(b.Max.X, o.Max.X), Y: max(b.Max.Y, o.Max.Y), Z: max(b.Max.Z, o.Max.Z)},
	}
}

// Contains reports whether p lies inside b, faces included.
func (b Bounds) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Resolution returns the number of vertices per grid side for the given half-width:
// one quad per QuadSpacing units plus the closing row.
func Resolution(halfWidth float32) (int, error) {
	hw := float64(halfWidth)
	if gomath.IsNaN(hw) || gomath.IsInf(hw, 0) || hw <= 0 {
		return 0, fmt.Errorf("%w: half-width %v", ErrInvalidConfig, halfWidth)
	}
	rf := gomath.Ceil(float64(halfWidth/QuadSpacing)) + 1
	if rf > MaxResolution {
		return 0, fmt.Errorf("%w: half-width %v needs resolution %.0f, max %d",
			ErrInvalidConfig, halfWidth, rf, MaxResolution)
	}
	r := int(rf)
	if r < 2 {
		return 0, fmt.Errorf("%w: resolution %d", ErrInvalidConfig, r)
	}
	return r, nil
}

// Grid is the static topology of the water surface.
type Grid struct {
	Resolution int
	Unit       float32 // lattice spacing

	Positions []math.Vec3 // row-major, R*R
	TexCoords []math.Vec2 // row-major, R*R
	Indices   []uint32    // 6*(R-1)^2, triangle list
}

// BuildGrid lays out an R x R lattice spanning size = 2*halfWidth+1 units.
// Note the +1: the local grid is one unit wider than the half-width implies.
func BuildGrid(halfWidth float32) (*Grid, error) {
	r, err := Resolution(halfWidth)
	if err != nil {
		return nil, err
	}

	size := 2*halfWidth + 1
	g := &Grid{
		Resolution: r,
		Unit:       size / float32(r-1),
		Positions:  make([]math.Vec3, r*r),
		TexCoords:  make([]math.Vec2, r*r),
	}

	for j := range r {
		for k := range r {
			i := j*r + k
			g.Positions[i] = math.Vec3{
				X: -1 + g.Unit*float32(k),
				Y: 0,
				Z: -1 + g.Unit*float32(j),
			}
			// Denominator is R, so coordinates stop short of 2.0 on the far edge.
			g.TexCoords[i] = math.Vec2{
				X: 2 * (float32(k) / float32(r)),
				Y: 2 * (float32(j) / float32(r)),
			}
		}
	}

	g.Indices = buildIndices(r)
	return g, nil
}

// buildIndices emits two CCW triangles per quad: (x, x+1, z) and (z, x+1, z+1),
// where x walks the current row and z the row below it.
func buildIndices(r int) []uint32 {
	indices := make([]uint32, 0, 6*(r-1)*(r-1))
	x := uint32(0)
	z := uint32(r)
	for range r - 1 {
		for range r - 1 {
			indices = append(indices,
				x, x+1, z,
				z, x+1, z+1,
			)
			x++
			z++
		}
		// skip the closing column
		x++
		z++
	}
	return indices
}

// Index returns the flat array index of vertex (row, col).
func (g *Grid) Index(row, col int) int {
	return row*g.Resolution + col
}

// IsBoundary reports whether flat index i lies on the outer ring of the grid.
func (g *Grid) IsBoundary(i int) bool {
	row, col := i/g.Resolution, i%g.Resolution
	last := g.Resolution - 1
	return row == 0 || col == 0 || row == last || col == last
}

// seedSpikes raises count randomly chosen vertices to height. Picks are drawn
// over the whole grid, boundary included, and may repeat. The distinct
// indices touched are returned.
func (g *Grid) seedSpikes(rng *rand.Rand, count int, height float32) []int {
	var seeded []int
	n := len(g.Positions)
	for range count {
		i := rng.Intn(n)
		g.Positions[i].Y = height
		if !containsIndex(seeded, i) {
			seeded = append(seeded, i)
		}
	}
	return seeded
}

func containsIndex(s []int, i int) bool {
	for _, v := range s {
		if v == i {
			return true
		}
	}
	return false
}

// meshBounds returns the world-space box actually covered by the lattice
// under world, padded vertically like computeBounds. The lattice spans
// [-1, 2*halfWidth] locally, so this box is offset from computeBounds.
func (g *Grid) meshBounds(world math.Mat4) Bounds {
	lo, hi := g.Positions[0], g.Positions[len(g.Positions)-1]
	first := world.TransformVec3(math.Vec3{X: lo.X, Z: lo.Z})
	last := world.TransformVec3(math.Vec3{X: hi.X, Z: hi.Z})
	return Bounds{
		Min: math.Vec3{X: first.X, Y: first.Y - BoundsPadding, Z: first.Z},
		Max: math.Vec3{X: last.X, Y: last.Y + BoundsPadding, Z: last.Z},
	}
}

// computeBounds returns the world-space box for a tile centered at
// (centerX, centerZ). It is fixed at construction; wave excursions are
// expected to stay within BoundsPadding.
func computeBounds(centerX, centerZ, halfWidth, level float32) Bounds {
	return Bounds{
		Min: math.Vec3{X: centerX - halfWidth, Y: level - BoundsPadding, Z: centerZ - halfWidth},
		Max: math.Vec3{X: centerX + halfWidth, Y: level + BoundsPadding, Z: centerZ + halfWidth},
	}
}
