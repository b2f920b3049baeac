package water

import (
	gomath "math"

	"github.com/Faultbox/midgard-water/pkg/math"
)

// DefaultFlowVelocity is the texture scroll rate in texcoord units per second.
const DefaultFlowVelocity = 0.002

// Flow scrolls the surface texture independently of the height field.
type Flow struct {
	Velocity  float32
	Direction math.Vec2

	// ApplyDirection scales each axis by the matching Direction component.
	// When false both offsets advance by the same amount.
	ApplyDirection bool

	tu, tv float32
}

// NewFlow returns a flow with the default velocity heading along +U.
func NewFlow() *Flow {
	return &Flow{
		Velocity:  DefaultFlowVelocity,
		Direction: math.Vec2{X: 1, Y: 0},
	}
}

// Advance moves the offsets by Velocity * deltaMillis / 1000.
// Offsets are not wrapped; the sampler is expected to use repeat addressing.
func (f *Flow) Advance(deltaMillis float32) {
	if !(deltaMillis > 0) {
		return
	}
	step := f.Velocity * (0.001 * deltaMillis)
	if f.ApplyDirection {
		f.tu += step * f.Direction.X
		f.tv += step * f.Direction.Y
		return
	}
	f.tu += step
	f.tv += step
}

// Offset returns the current (u, v) texture scroll.
func (f *Flow) Offset() (tu, tv float32) {
	return f.tu, f.tv
}

// Wrap reduces both offsets modulo period. Useful for long-running hosts
// where float precision of the accumulators would drift.
func (f *Flow) Wrap(period float32) {
	if period <= 0 {
		return
	}
	f.tu = float32(gomath.Mod(float64(f.tu), float64(period)))
	f.tv = float32(gomath.Mod(float64(f.tv), float64(period)))
}
