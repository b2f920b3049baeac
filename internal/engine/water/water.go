// Package water simulates a deformable height-field water tile and produces
// render-ready vertex and index buffers for it.
package water

import (
	"errors"
	"fmt"
	gomath "math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-water/internal/logger"
	"github.com/Faultbox/midgard-water/pkg/math"
)

// ErrInvalidConfig is returned when a tile cannot be built from its configuration.
var ErrInvalidConfig = errors.New("invalid water configuration")

// Default initial-condition settings.
const (
	DefaultSpikeCount  = 3
	DefaultSpikeHeight = 20.0
)

// Config holds construction parameters for a water tile.
type Config struct {
	CenterX   float32
	CenterZ   float32
	HalfWidth float32 // half of the tile edge length
	Level     float32 // water altitude

	// Seed drives spike placement. Zero seeds from the clock.
	Seed        int64
	SpikeCount  int
	SpikeHeight float32

	Boundary BoundaryMode
}

// DefaultConfig returns a config for a tile of the given placement with
// the default spike seeding.
func DefaultConfig(centerX, centerZ, halfWidth, level float32) Config {
	return Config{
		CenterX:     centerX,
		CenterZ:     centerZ,
		HalfWidth:   halfWidth,
		Level:       level,
		Seed:        1,
		SpikeCount:  DefaultSpikeCount,
		SpikeHeight: DefaultSpikeHeight,
	}
}

// Water is a simulated water tile. It holds pure data only; GPU resources
// belong to whichever MeshSink the buffers are published to.
//
// Water is not safe for concurrent use. One Update and one Publish are
// expected per host tick.
type Water struct {
	cfg    Config
	grid   *Grid
	sim    *Simulator
	flow   *Flow
	bounds Bounds
	mesh   Bounds

	color        math.Vec3
	transparency float32 // 1.0 is fully transparent
	textureMap   string

	seeded []int

	vertexBuf []float32
	heights   []float64
	speeds    []float64
}

// New builds the lattice, seeds the initial spikes and allocates all
// per-vertex state for the tile.
func New(cfg Config) (*Water, error) {
	grid, err := BuildGrid(cfg.HalfWidth)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	n := len(grid.Positions)
	w := &Water{
		cfg:          cfg,
		grid:         grid,
		sim:          NewSimulator(grid, cfg.Boundary),
		flow:         NewFlow(),
		bounds:       computeBounds(cfg.CenterX, cfg.CenterZ, cfg.HalfWidth, cfg.Level),
		color:        math.Vec3{X: 1, Y: 1, Z: 1},
		transparency: 1.0,
		heights:      make([]float64, n),
		speeds:       make([]float64, n),
	}
	w.seeded = grid.seedSpikes(rng, cfg.SpikeCount, cfg.SpikeHeight)
	w.mesh = grid.meshBounds(w.WorldMatrix())

	logger.Debug("water tile built",
		zap.Int("resolution", grid.Resolution),
		zap.Float32("unit", grid.Unit),
		zap.Int("indices", len(grid.Indices)),
		zap.Ints("spikes", w.seeded),
		zap.Stringer("boundary", cfg.Boundary),
	)
	return w, nil
}

// Resolution returns the number of vertices per grid side.
func (w *Water) Resolution() int { return w.grid.Resolution }

// NumVertices returns R*R.
func (w *Water) NumVertices() int { return len(w.grid.Positions) }

// NumIndices returns 6*(R-1)^2.
func (w *Water) NumIndices() int { return len(w.grid.Indices) }

// Size returns the lattice span 2*halfWidth+1.
func (w *Water) Size() float32 { return w.cfg.HalfWidth*2 + 1 }

// Bounds returns the fixed world-space bounding box.
func (w *Water) Bounds() Bounds { return w.bounds }

// MeshBounds returns the world-space box the rendered lattice occupies,
// padded vertically by BoundsPadding. Cameras should frame this box.
func (w *Water) MeshBounds() Bounds { return w.mesh }

// Grid returns the underlying lattice.
func (w *Water) Grid() *Grid { return w.grid }

// Simulator returns the height-field integrator.
func (w *Water) Simulator() *Simulator { return w.sim }

// Flow returns the texture flow animator.
func (w *Water) Flow() *Flow { return w.flow }

// SeededIndices returns the distinct vertex indices raised at construction.
func (w *Water) SeededIndices() []int { return w.seeded }

// SetColor sets the tint and transparency. By convention alpha 1.0 means
// fully transparent.
func (w *Water) SetColor(r, g, b, alpha float32) {
	w.color = math.Vec3{X: r, Y: g, Z: b}
	w.transparency = alpha
}

// Color returns the RGB tint.
func (w *Water) Color() math.Vec3 { return w.color }

// Transparency returns the transparency, where 1.0 is fully transparent.
func (w *Water) Transparency() float32 { return w.transparency }

// SetFlowVelocity sets the texture scroll rate in units per second.
func (w *Water) SetFlowVelocity(v float32) { w.flow.Velocity = v }

// FlowVelocity returns the texture scroll rate.
func (w *Water) FlowVelocity() float32 { return w.flow.Velocity }

// SetFlowDirection sets the flow direction vector.
func (w *Water) SetFlowDirection(dir math.Vec2) { w.flow.Direction = dir }

// FlowDirection returns the flow direction vector.
func (w *Water) FlowDirection() math.Vec2 { return w.flow.Direction }

// SetTextureMap records the texture map path for the renderer to load.
func (w *Water) SetTextureMap(path string) { w.textureMap = path }

// TextureMap returns the configured texture map path.
func (w *Water) TextureMap() string { return w.textureMap }

// WorldMatrix returns the translation placing the local grid in world space.
func (w *Water) WorldMatrix() math.Mat4 {
	return math.Translate(w.cfg.CenterX, w.cfg.Level, w.cfg.CenterZ)
}

// DetailRepeat returns how many times the detail texture repeats across the tile.
func (w *Water) DetailRepeat() float32 { return w.cfg.HalfWidth / QuadSpacing }

// Animate advances only the texture flow.
func (w *Water) Animate(deltaMillis float32) {
	w.flow.Advance(deltaMillis)
}

// Update advances the texture flow and the height field by one tick.
func (w *Water) Update(deltaMillis float32) {
	w.flow.Advance(deltaMillis)
	w.sim.Step(deltaMillis)
}

// Mesh serializes the current surface into the interleaved vertex buffer.
// The returned slice is reused by the next call.
func (w *Water) Mesh() []float32 {
	w.vertexBuf = Interleave(w.vertexBuf, w.grid.Positions, w.grid.TexCoords)
	return w.vertexBuf
}

// Publish serializes the surface and hands both buffers to sink.
func (w *Water) Publish(sink MeshSink) error {
	if err := sink.Upload(w.Mesh(), w.grid.Indices); err != nil {
		return fmt.Errorf("uploading water mesh: %w", err)
	}
	return nil
}

// Disturb sets the height of vertex (row, col) in local space.
func (w *Water) Disturb(row, col int, height float32) error {
	r := w.grid.Resolution
	if row < 0 || col < 0 || row >= r || col >= r {
		return fmt.Errorf("vertex (%d, %d) outside %dx%d grid", row, col, r, r)
	}
	w.grid.Positions[w.grid.Index(row, col)].Y = height
	return nil
}

// CheckFinite reports the first vertex whose height or velocity is NaN or Inf.
// Stepping never checks on its own; this is a debugging aid for hosts.
func (w *Water) CheckFinite() error {
	for i, p := range w.grid.Positions {
		h, v := float64(p.Y), float64(w.sim.velocity[i])
		if gomath.IsNaN(h) || gomath.IsInf(h, 0) || gomath.IsNaN(v) || gomath.IsInf(v, 0) {
			r := w.grid.Resolution
			return fmt.Errorf("vertex (%d, %d) diverged: height=%v velocity=%v", i/r, i%r, p.Y, w.sim.velocity[i])
		}
	}
	return nil
}

// RenderState is the per-frame shader input for a tile.
type RenderState struct {
	World        math.Mat4
	Color        math.Vec3
	Transparency float32
	FlowTu       float32
	FlowTv       float32
	DetailRepeat float32
	Bounds       Bounds // culling box covering both Bounds() and MeshBounds()
}

// RenderState snapshots the uniforms a renderer needs for this tile.
func (w *Water) RenderState() RenderState {
	tu, tv := w.flow.Offset()
	return RenderState{
		World:        w.WorldMatrix(),
		Color:        w.color,
		Transparency: w.transparency,
		FlowTu:       tu,
		FlowTv:       tv,
		DetailRepeat: w.DetailRepeat(),
		Bounds:       w.bounds.Union(w.mesh),
	}
}
