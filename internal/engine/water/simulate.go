package water

// DiagonalWeight scales height differences to the four diagonal neighbours.
const DiagonalWeight = 4.94974747

// SimulationScale converts a tick in milliseconds into the integration factor.
// It is three orders of magnitude below the flow timescale on purpose.
const SimulationScale = 1e-6

// BoundaryMode selects how the outer ring of the grid behaves.
type BoundaryMode int

const (
	// BoundaryPinned keeps the outer ring at its initial height: forces
	// pushed into edge vertices are discarded.
	BoundaryPinned BoundaryMode = iota
	// BoundaryFree lets edge vertices integrate the forces their interior
	// neighbours push into them.
	BoundaryFree
)

// String returns the config name of the mode.
func (m BoundaryMode) String() string {
	switch m {
	case BoundaryFree:
		return "free"
	default:
		return "pinned"
	}
}

// ParseBoundaryMode converts a config string to a BoundaryMode.
// Unknown values map to BoundaryPinned.
func ParseBoundaryMode(s string) BoundaryMode {
	if s == "free" {
		return BoundaryFree
	}
	return BoundaryPinned
}

// neighbour offsets in visiting order: bottom, left, top, right,
// upper right, lower left, lower right, upper left.
var neighbours = [8]struct {
	dz, dx int
	weight float32
}{
	{-1, 0, 1},
	{0, -1, 1},
	{1, 0, 1},
	{0, 1, 1},
	{1, 1, DiagonalWeight},
	{-1, -1, DiagonalWeight},
	{-1, 1, DiagonalWeight},
	{1, -1, DiagonalWeight},
}

// Simulator integrates the height field of a Grid.
// Force and velocity are stored per vertex in the grid's row-major order.
type Simulator struct {
	grid     *Grid
	force    []float32
	velocity []float32
	boundary BoundaryMode
}

// NewSimulator allocates force and velocity fields sized for g.
func NewSimulator(g *Grid, mode BoundaryMode) *Simulator {
	n := len(g.Positions)
	return &Simulator{
		grid:     g,
		force:    make([]float32, n),
		velocity: make([]float32, n),
		boundary: mode,
	}
}

// Step advances the height field by deltaMillis. Non-positive deltas are no-ops.
//
// Integration is explicit Euler without clamping; large deltas diverge and
// produce NaN/Inf. Callers should cap the tick length.
func (s *Simulator) Step(deltaMillis float32) {
	if !(deltaMillis > 0) {
		return
	}
	s.accumulate()
	s.integrate(deltaMillis * SimulationScale)
}

// accumulate exchanges spring forces between every interior vertex and its
// eight neighbours. Forces are written in place, so a vertex visited later in
// the pass starts from what earlier vertices pushed into it.
func (s *Simulator) accumulate() {
	r := s.grid.Resolution
	pos := s.grid.Positions
	for z := 1; z < r-1; z++ {
		for x := 1; x < r-1; x++ {
			center := z*r + x
			f := s.force[center]
			h := pos[center].Y
			for _, n := range neighbours {
				idx := (z+n.dz)*r + (x + n.dx)
				d := (h - pos[idx].Y) * n.weight
				s.force[idx] += d
				f -= d
			}
			s.force[center] = f
		}
	}
}

func (s *Simulator) integrate(delta float32) {
	pos := s.grid.Positions
	pinned := s.boundary == BoundaryPinned
	for i := range s.force {
		if pinned && s.grid.IsBoundary(i) {
			s.force[i] = 0
			continue
		}
		s.velocity[i] += s.force[i] * delta
		pos[i].Y += s.velocity[i]
		s.force[i] = 0
	}
}

// Force returns the force accumulator field. Callers must not resize it.
func (s *Simulator) Force() []float32 { return s.force }

// Velocity returns the velocity field. Callers must not resize it.
func (s *Simulator) Velocity() []float32 { return s.velocity }

// Boundary returns the configured boundary mode.
func (s *Simulator) Boundary() BoundaryMode { return s.boundary }
