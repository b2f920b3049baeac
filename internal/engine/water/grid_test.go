package water

import (
	"errors"
	gomath "math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestResolution(t *testing.T) {
	tests := []struct {
		halfWidth float32
		want      int
		wantErr   bool
	}{
		{halfWidth: 30, want: 4},
		{halfWidth: 25, want: 4},
		{halfWidth: 10, want: 2},
		{halfWidth: 0.5, want: 2},
		{halfWidth: 100, want: 11},
		{halfWidth: 1000, want: 101},
		{halfWidth: (MaxResolution - 1) * QuadSpacing, want: MaxResolution},
		{halfWidth: MaxResolution * QuadSpacing, wantErr: true},
		{halfWidth: 1e12, wantErr: true},
		{halfWidth: gomath.MaxFloat32, wantErr: true},
		{halfWidth: 0, wantErr: true},
		{halfWidth: -5, wantErr: true},
		{halfWidth: float32(gomath.NaN()), wantErr: true},
		{halfWidth: float32(gomath.Inf(1)), wantErr: true},
	}

	for _, tt := range tests {
		got, err := Resolution(tt.halfWidth)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Resolution(%v) error = %v, want ErrInvalidConfig", tt.halfWidth, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Resolution(%v) unexpected error: %v", tt.halfWidth, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolution(%v) = %d, want %d", tt.halfWidth, got, tt.want)
		}
	}
}

func TestBuildGridSizes(t *testing.T) {
	for _, hw := range []float32{5, 30, 47, 120} {
		g, err := BuildGrid(hw)
		if err != nil {
			t.Fatalf("BuildGrid(%v): %v", hw, err)
		}
		r := g.Resolution
		if len(g.Positions) != r*r {
			t.Errorf("hw=%v: %d positions, want %d", hw, len(g.Positions), r*r)
		}
		if len(g.TexCoords) != r*r {
			t.Errorf("hw=%v: %d texcoords, want %d", hw, len(g.TexCoords), r*r)
		}
		if len(g.Indices) != 6*(r-1)*(r-1) {
			t.Errorf("hw=%v: %d indices, want %d", hw, len(g.Indices), 6*(r-1)*(r-1))
		}
		for i, idx := range g.Indices {
			if int(idx) >= r*r {
				t.Fatalf("hw=%v: index[%d] = %d out of range %d", hw, i, idx, r*r)
			}
		}
	}
}

func TestIndicesQuadLayout(t *testing.T) {
	g, err := BuildGrid(30)
	if err != nil {
		t.Fatal(err)
	}
	// R = 4: first quad of row 0 and first quad of row 1.
	want := map[int][6]uint32{
		0:  {0, 1, 4, 4, 1, 5},
		6:  {1, 2, 5, 5, 2, 6},
		18: {4, 5, 8, 8, 5, 9},
	}
	for off, w := range want {
		var got [6]uint32
		copy(got[:], g.Indices[off:off+6])
		if got != w {
			t.Errorf("Indices[%d:%d] = %v, want %v", off, off+6, got, w)
		}
	}
}

func TestQuadTrianglesShareOneDiagonal(t *testing.T) {
	g, err := BuildGrid(75)
	if err != nil {
		t.Fatal(err)
	}
	for q := 0; q < len(g.Indices); q += 6 {
		a := g.Indices[q : q+3]
		b := g.Indices[q+3 : q+6]
		shared := 0
		for _, i := range a {
			for _, j := range b {
				if i == j {
					shared++
				}
			}
		}
		if shared != 2 {
			t.Fatalf("quad %d: triangles %v and %v share %d vertices, want 2", q/6, a, b, shared)
		}
	}
}

func TestLatticePositions(t *testing.T) {
	g, err := BuildGrid(30)
	if err != nil {
		t.Fatal(err)
	}
	// size = 2*30+1 = 61 spread over 3 quads
	wantUnit := 61.0 / 3.0
	if !scalar.EqualWithinAbs(float64(g.Unit), wantUnit, 1e-4) {
		t.Errorf("Unit = %v, want %v", g.Unit, wantUnit)
	}

	first := g.Positions[0]
	if first.X != -1 || first.Y != 0 || first.Z != -1 {
		t.Errorf("Positions[0] = %v, want (-1, 0, -1)", first)
	}

	// row 2, col 1
	p := g.Positions[g.Index(2, 1)]
	if !scalar.EqualWithinAbs(float64(p.X), -1+wantUnit, 1e-4) ||
		!scalar.EqualWithinAbs(float64(p.Z), -1+2*wantUnit, 1e-4) {
		t.Errorf("Positions(2,1) = %v, want x=%v z=%v", p, -1+wantUnit, -1+2*wantUnit)
	}

	last := g.Positions[len(g.Positions)-1]
	if !scalar.EqualWithinAbs(float64(last.X), 60, 1e-3) || !scalar.EqualWithinAbs(float64(last.Z), 60, 1e-3) {
		t.Errorf("last position = %v, want (60, 0, 60)", last)
	}
}

func TestTexCoordsStopShortOfTwo(t *testing.T) {
	g, err := BuildGrid(30)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		row, col int
		u, v     float32
	}{
		{0, 0, 0, 0},
		{0, 1, 0.5, 0},
		{2, 1, 0.5, 1},
		{3, 3, 1.5, 1.5},
	}
	for _, tt := range tests {
		tc := g.TexCoords[g.Index(tt.row, tt.col)]
		if tc.X != tt.u || tc.Y != tt.v {
			t.Errorf("TexCoord(%d,%d) = %v, want (%v, %v)", tt.row, tt.col, tc, tt.u, tt.v)
		}
	}
}

func TestIsBoundary(t *testing.T) {
	g, err := BuildGrid(30)
	if err != nil {
		t.Fatal(err)
	}
	interior := map[int]bool{
		g.Index(1, 1): true,
		g.Index(1, 2): true,
		g.Index(2, 1): true,
		g.Index(2, 2): true,
	}
	for i := range g.Positions {
		if got := g.IsBoundary(i); got == interior[i] {
			t.Errorf("IsBoundary(%d) = %v, want %v", i, got, !interior[i])
		}
	}
}
