package water

import (
	gomath "math"

	"gonum.org/v1/gonum/floats"
)

// SurfaceStats summarizes the height and velocity fields.
type SurfaceStats struct {
	MinHeight  float64
	MaxHeight  float64
	MeanHeight float64
	MaxSpeed   float64 // largest |velocity|
	Energy     float64 // sum of velocity squared
}

// Stats computes SurfaceStats over all vertices, boundary included.
func (w *Water) Stats() SurfaceStats {
	for i, p := range w.grid.Positions {
		w.heights[i] = float64(p.Y)
	}
	for i, v := range w.sim.velocity {
		w.speeds[i] = float64(v)
	}

	maxV := floats.Max(w.speeds)
	minV := floats.Min(w.speeds)
	return SurfaceStats{
		MinHeight:  floats.Min(w.heights),
		MaxHeight:  floats.Max(w.heights),
		MeanHeight: floats.Sum(w.heights) / float64(len(w.heights)),
		MaxSpeed:   gomath.Max(gomath.Abs(maxV), gomath.Abs(minV)),
		Energy:     floats.Dot(w.speeds, w.speeds),
	}
}
