// Package main is the entry point for the water simulator.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-water/internal/app"
	"github.com/Faultbox/midgard-water/internal/config"
	"github.com/Faultbox/midgard-water/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Midgard Water ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.WriteConfig() {
		if err := cfg.Save(); err != nil {
			logger.Error("failed to save config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("dir", config.ConfigDir()))
		return
	}

	if config.Headless() {
		if err := runHeadless(cfg); err != nil {
			logger.Error("headless run failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	v, err := app.NewViewer(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

func runHeadless(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := app.RunHeadless(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("ticks=%d simulated=%.0fms min=%.4f max=%.4f mean=%.4f energy=%.6g\n",
		res.Ticks, res.ElapsedMs, res.Final.MinHeight, res.Final.MaxHeight,
		res.Final.MeanHeight, res.Final.Energy)
	return nil
}
