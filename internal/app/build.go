// Package app runs the water simulation either headless or in a viewer window.
package app

import (
	"fmt"

	"github.com/Faultbox/midgard-water/internal/config"
	"github.com/Faultbox/midgard-water/internal/engine/water"
	"github.com/Faultbox/midgard-water/pkg/math"
)

// NewWater builds a water tile from the loaded configuration.
func NewWater(cfg *config.Config) (*water.Water, error) {
	wc := cfg.Water

	w, err := water.New(water.Config{
		CenterX:     wc.CenterX,
		CenterZ:     wc.CenterZ,
		HalfWidth:   wc.HalfWidth,
		Level:       wc.Level,
		Seed:        wc.Seed,
		SpikeCount:  wc.SpikeCount,
		SpikeHeight: wc.SpikeHeight,
		Boundary:    water.ParseBoundaryMode(cfg.Simulation.Boundary),
	})
	if err != nil {
		return nil, fmt.Errorf("building water tile: %w", err)
	}

	w.SetColor(wc.Color[0], wc.Color[1], wc.Color[2], wc.Transparency)
	w.SetFlowVelocity(wc.FlowVelocity)
	w.SetFlowDirection(math.Vec2{X: wc.FlowDirection[0], Y: wc.FlowDirection[1]})
	w.Flow().ApplyDirection = wc.ApplyFlowDirection
	w.SetTextureMap(wc.TextureMap)
	return w, nil
}
