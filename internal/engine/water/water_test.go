package water

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/midgard-water/pkg/math"
)

func newFlatWater(t *testing.T, halfWidth float32, mode BoundaryMode) *Water {
	t.Helper()
	cfg := DefaultConfig(0, 0, halfWidth, 0)
	cfg.SpikeCount = 0
	cfg.Boundary = mode
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func TestNewRejectsInvalidHalfWidth(t *testing.T) {
	for _, hw := range []float32{0, -1, float32(gomath.NaN()), 1e12} {
		_, err := New(DefaultConfig(0, 0, hw, 0))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("New(halfWidth=%v) error = %v, want ErrInvalidConfig", hw, err)
		}
	}
}

func TestNewSizes(t *testing.T) {
	w, err := New(DefaultConfig(0, 0, 30, 0))
	if err != nil {
		t.Fatal(err)
	}
	r := w.Resolution()
	if r != 4 {
		t.Errorf("Resolution() = %d, want 4", r)
	}
	if w.NumVertices() != r*r {
		t.Errorf("NumVertices() = %d, want %d", w.NumVertices(), r*r)
	}
	if w.NumIndices() != 6*(r-1)*(r-1) {
		t.Errorf("NumIndices() = %d, want %d", w.NumIndices(), 6*(r-1)*(r-1))
	}
	if len(w.Simulator().Force()) != r*r || len(w.Simulator().Velocity()) != r*r {
		t.Errorf("force/velocity fields = %d/%d, want %d", len(w.Simulator().Force()), len(w.Simulator().Velocity()), r*r)
	}
	if w.Size() != 61 {
		t.Errorf("Size() = %v, want 61", w.Size())
	}
	if w.DetailRepeat() != 3 {
		t.Errorf("DetailRepeat() = %v, want 3", w.DetailRepeat())
	}
}

func TestSpikeSeeding(t *testing.T) {
	for _, seed := range []int64{1, 42, 1234} {
		cfg := DefaultConfig(0, 0, 50, 0)
		cfg.Seed = seed
		w, err := New(cfg)
		if err != nil {
			t.Fatal(err)
		}

		seeded := w.SeededIndices()
		if len(seeded) < 1 || len(seeded) > DefaultSpikeCount {
			t.Fatalf("seed %d: %d spikes, want 1..%d", seed, len(seeded), DefaultSpikeCount)
		}
		isSpike := make(map[int]bool)
		for _, i := range seeded {
			isSpike[i] = true
		}
		for i, p := range w.Grid().Positions {
			want := float32(0)
			if isSpike[i] {
				want = DefaultSpikeHeight
			}
			if p.Y != want {
				t.Errorf("seed %d: height[%d] = %v, want %v", seed, i, p.Y, want)
			}
		}

		again, err := New(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if len(again.SeededIndices()) != len(seeded) {
			t.Fatalf("seed %d not deterministic: %v vs %v", seed, again.SeededIndices(), seeded)
		}
		for i := range seeded {
			if again.SeededIndices()[i] != seeded[i] {
				t.Errorf("seed %d not deterministic: %v vs %v", seed, again.SeededIndices(), seeded)
			}
		}
	}
}

func TestBoundsFixedAtConstruction(t *testing.T) {
	w, err := New(DefaultConfig(100, 50, 30, 12))
	if err != nil {
		t.Fatal(err)
	}
	want := Bounds{
		Min: math.Vec3{X: 70, Y: -18, Z: 20},
		Max: math.Vec3{X: 130, Y: 42, Z: 80},
	}
	if w.Bounds() != want {
		t.Errorf("Bounds() = %v, want %v", w.Bounds(), want)
	}

	for range 50 {
		w.Update(16)
	}
	if w.Bounds() != want {
		t.Errorf("Bounds() changed after updates: %v", w.Bounds())
	}

	world := w.WorldMatrix()
	if world[12] != 100 || world[13] != 12 || world[14] != 50 {
		t.Errorf("WorldMatrix translation = (%v, %v, %v), want (100, 12, 50)", world[12], world[13], world[14])
	}
}

func TestMeshBoundsCoverWorldVertices(t *testing.T) {
	w, err := New(DefaultConfig(0, 0, 30, 0))
	if err != nil {
		t.Fatal(err)
	}

	mesh := w.MeshBounds()
	wantMesh := Bounds{
		Min: math.Vec3{X: -1, Y: -BoundsPadding, Z: -1},
		Max: math.Vec3{X: 60, Y: BoundsPadding, Z: 60},
	}
	const eps = 1e-3
	if gomath.Abs(float64(mesh.Min.X-wantMesh.Min.X)) > eps || gomath.Abs(float64(mesh.Max.X-wantMesh.Max.X)) > eps ||
		gomath.Abs(float64(mesh.Min.Z-wantMesh.Min.Z)) > eps || gomath.Abs(float64(mesh.Max.Z-wantMesh.Max.Z)) > eps ||
		mesh.Min.Y != wantMesh.Min.Y || mesh.Max.Y != wantMesh.Max.Y {
		t.Errorf("MeshBounds() = %v, want %v", mesh, wantMesh)
	}

	// The lattice reaches past the nominal box on +X/+Z.
	world := w.WorldMatrix()
	far := world.TransformVec3(w.Grid().Positions[2])
	if w.Bounds().Contains(far) {
		t.Errorf("Bounds() contains %v, want it outside the nominal box", far)
	}

	cull := w.RenderState().Bounds
	for i, p := range w.Grid().Positions {
		if wp := world.TransformVec3(p); !cull.Contains(wp) {
			t.Errorf("vertex %d at %v outside culling box %v", i, wp, cull)
		}
	}
	if cull.Min != w.Bounds().Union(mesh).Min || cull.Max != w.Bounds().Union(mesh).Max {
		t.Errorf("RenderState().Bounds = %v, want union of Bounds and MeshBounds", cull)
	}
}

func TestDefaultsAndSetters(t *testing.T) {
	w := newFlatWater(t, 20, BoundaryPinned)

	if w.Color() != (math.Vec3{X: 1, Y: 1, Z: 1}) || w.Transparency() != 1 {
		t.Errorf("default color = %v/%v, want white/1", w.Color(), w.Transparency())
	}
	if w.FlowVelocity() != DefaultFlowVelocity {
		t.Errorf("FlowVelocity() = %v, want %v", w.FlowVelocity(), DefaultFlowVelocity)
	}
	if w.FlowDirection() != (math.Vec2{X: 1, Y: 0}) {
		t.Errorf("FlowDirection() = %v, want (1, 0)", w.FlowDirection())
	}

	w.SetColor(0.2, 0.4, 0.6, 0.3)
	w.SetFlowVelocity(0.01)
	w.SetFlowDirection(math.Vec2{X: 0, Y: 1})
	w.SetTextureMap("textures/water.png")

	rs := w.RenderState()
	if rs.Color != (math.Vec3{X: 0.2, Y: 0.4, Z: 0.6}) || rs.Transparency != 0.3 {
		t.Errorf("RenderState color = %v/%v", rs.Color, rs.Transparency)
	}
	if w.FlowVelocity() != 0.01 || w.FlowDirection() != (math.Vec2{X: 0, Y: 1}) {
		t.Errorf("flow setters not applied: %v %v", w.FlowVelocity(), w.FlowDirection())
	}
	if w.TextureMap() != "textures/water.png" {
		t.Errorf("TextureMap() = %q", w.TextureMap())
	}
}

func TestAnimateLeavesHeightsAlone(t *testing.T) {
	w := newFlatWater(t, 40, BoundaryPinned)
	if err := w.Disturb(2, 2, 10); err != nil {
		t.Fatal(err)
	}
	for range 10 {
		w.Animate(16)
	}
	if h := w.Grid().Positions[w.Grid().Index(2, 2)].Y; h != 10 {
		t.Errorf("height after Animate = %v, want 10", h)
	}
	if tu, _ := w.Flow().Offset(); tu <= 0 {
		t.Errorf("flow did not advance: %v", tu)
	}
}

func TestPinnedBoundaryNeverMoves(t *testing.T) {
	w := newFlatWater(t, 50, BoundaryPinned)
	if err := w.Disturb(2, 3, 15); err != nil {
		t.Fatal(err)
	}
	for range 300 {
		w.Update(16)
	}

	g := w.Grid()
	moved := false
	for i, p := range g.Positions {
		if g.IsBoundary(i) {
			if p.Y != 0 {
				t.Fatalf("boundary vertex %d moved to %v", i, p.Y)
			}
		} else if p.Y != 0 && i != g.Index(2, 3) {
			moved = true
		}
	}
	if !moved {
		t.Error("disturbance did not propagate into the interior")
	}
}

func TestFreeBoundaryMoves(t *testing.T) {
	w := newFlatWater(t, 50, BoundaryFree)
	if err := w.Disturb(1, 1, 15); err != nil {
		t.Fatal(err)
	}
	w.Update(16)

	if h := w.Grid().Positions[w.Grid().Index(0, 1)].Y; h == 0 {
		t.Error("free boundary vertex (0,1) did not respond to its neighbour")
	}
}

func TestZeroDeltaUpdateIsNoop(t *testing.T) {
	w, err := New(DefaultConfig(0, 0, 60, 0))
	if err != nil {
		t.Fatal(err)
	}
	for range 10 {
		w.Update(16)
	}
	before := append([]float32(nil), w.Mesh()...)
	vel := append([]float32(nil), w.Simulator().Velocity()...)
	tu, tv := w.Flow().Offset()

	for range 25 {
		w.Update(0)
	}

	after := w.Mesh()
	for i := range before {
		if after[i] != before[i] {
			t.Fatalf("mesh[%d] = %v, want %v", i, after[i], before[i])
		}
	}
	for i, v := range w.Simulator().Velocity() {
		if v != vel[i] {
			t.Fatalf("velocity[%d] = %v, want %v", i, v, vel[i])
		}
	}
	for i, f := range w.Simulator().Force() {
		if f != 0 {
			t.Fatalf("force[%d] = %v, want 0", i, f)
		}
	}
	if u, v := w.Flow().Offset(); u != tu || v != tv {
		t.Errorf("flow moved to (%v, %v), want (%v, %v)", u, v, tu, tv)
	}
}

func TestDisturbOutOfRange(t *testing.T) {
	w := newFlatWater(t, 30, BoundaryPinned)
	for _, rc := range [][2]int{{-1, 0}, {0, 4}, {4, 4}} {
		if err := w.Disturb(rc[0], rc[1], 1); err == nil {
			t.Errorf("Disturb(%d, %d) succeeded on a 4x4 grid", rc[0], rc[1])
		}
	}
}

type captureSink struct {
	vertices []float32
	indices  []uint32
	err      error
}

func (c *captureSink) Upload(vertices []float32, indices []uint32) error {
	c.vertices = append(c.vertices[:0], vertices...)
	c.indices = indices
	return c.err
}

func TestPublish(t *testing.T) {
	w := newFlatWater(t, 30, BoundaryPinned)
	sink := &captureSink{}
	if err := w.Publish(sink); err != nil {
		t.Fatal(err)
	}
	if len(sink.vertices) != w.NumVertices()*FloatsPerVertex {
		t.Errorf("uploaded %d floats, want %d", len(sink.vertices), w.NumVertices()*FloatsPerVertex)
	}
	if len(sink.indices) != w.NumIndices() {
		t.Errorf("uploaded %d indices, want %d", len(sink.indices), w.NumIndices())
	}

	sink.err = errors.New("device lost")
	if err := w.Publish(sink); !errors.Is(err, sink.err) {
		t.Errorf("Publish() error = %v, want wrapped %v", err, sink.err)
	}
}

func TestCheckFinite(t *testing.T) {
	w := newFlatWater(t, 30, BoundaryPinned)
	if err := w.CheckFinite(); err != nil {
		t.Fatalf("CheckFinite() on fresh tile: %v", err)
	}
	if err := w.Disturb(2, 1, float32(gomath.Inf(1))); err != nil {
		t.Fatal(err)
	}
	if err := w.CheckFinite(); err == nil {
		t.Error("CheckFinite() accepted an infinite height")
	}
}

func TestStats(t *testing.T) {
	w := newFlatWater(t, 30, BoundaryPinned)
	if err := w.Disturb(1, 1, 10); err != nil {
		t.Fatal(err)
	}

	s := w.Stats()
	if s.MaxHeight != 10 || s.MinHeight != 0 {
		t.Errorf("height range = [%v, %v], want [0, 10]", s.MinHeight, s.MaxHeight)
	}
	if s.MeanHeight != 10.0/16 {
		t.Errorf("MeanHeight = %v, want %v", s.MeanHeight, 10.0/16)
	}
	if s.Energy != 0 || s.MaxSpeed != 0 {
		t.Errorf("at rest: energy=%v maxSpeed=%v, want 0", s.Energy, s.MaxSpeed)
	}

	w.Update(16)
	s = w.Stats()
	if s.Energy <= 0 || s.MaxSpeed <= 0 {
		t.Errorf("after update: energy=%v maxSpeed=%v, want > 0", s.Energy, s.MaxSpeed)
	}
}
