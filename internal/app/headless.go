package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-water/internal/config"
	"github.com/Faultbox/midgard-water/internal/engine/water"
	"github.com/Faultbox/midgard-water/internal/logger"
	"github.com/Faultbox/midgard-water/internal/telemetry"
)

// Result summarizes a headless run.
type Result struct {
	Ticks     int
	ElapsedMs float64
	Final     water.SurfaceStats
}

// RunHeadless steps the tile at a fixed tick without any GPU.
// Surface statistics go to the telemetry directory when one is configured.
// The run stops early when ctx is cancelled.
func RunHeadless(ctx context.Context, cfg *config.Config) (Result, error) {
	w, err := NewWater(cfg)
	if err != nil {
		return Result{}, err
	}

	rec, err := telemetry.NewRecorder(cfg.Telemetry.OutputDir)
	if err != nil {
		return Result{}, err
	}
	defer rec.Close()

	if err := rec.WriteConfig(cfg); err != nil {
		return Result{}, fmt.Errorf("writing run config: %w", err)
	}

	sim := cfg.Simulation
	dt := sim.ClampDelta(sim.TickMs)
	every := cfg.Telemetry.Every
	if every <= 0 {
		every = 1
	}

	logger.Info("headless run starting",
		zap.Int("ticks", sim.Ticks),
		zap.Float32("tick_ms", dt),
		zap.Int("resolution", w.Resolution()),
		zap.String("output", rec.Dir()),
	)

	start := time.Now()
	var res Result
	if err := rec.Write(telemetry.NewSurfaceRecord(0, 0, w)); err != nil {
		return res, err
	}

	for tick := 1; tick <= sim.Ticks; tick++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("headless run cancelled", zap.Int("tick", tick))
			break
		}

		w.Update(dt)
		res.Ticks = tick
		res.ElapsedMs += float64(dt)

		if sim.CheckFinite {
			if err := w.CheckFinite(); err != nil {
				return res, fmt.Errorf("tick %d: %w", tick, err)
			}
		}
		if tick%every == 0 {
			if err := rec.Write(telemetry.NewSurfaceRecord(tick, res.ElapsedMs, w)); err != nil {
				return res, err
			}
		}
	}

	res.Final = w.Stats()
	logger.Info("headless run finished",
		zap.Int("ticks", res.Ticks),
		zap.Float64("simulated_ms", res.ElapsedMs),
		zap.Duration("wall", time.Since(start)),
		zap.Float64("max_height", res.Final.MaxHeight),
		zap.Float64("energy", res.Final.Energy),
	)
	return res, nil
}
