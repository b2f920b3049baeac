package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagHeadless  = flag.Bool("headless", false, "Run the simulation without a window")
	flagTicks     = flag.Int("ticks", 0, "Number of ticks for headless runs")
	flagSeed      = flag.Int64("seed", 0, "Spike seed (overrides config when non-zero)")
	flagHalfWidth = flag.Float64("half-width", 0, "Water tile half-width")
	flagOut       = flag.String("out", "", "Telemetry output directory")
	flagWrite     = flag.Bool("write-config", false, "Save the effective config to the user config directory and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// Headless reports whether --headless was given.
func Headless() bool {
	return *flagHeadless
}

// WriteConfig reports whether --write-config was given.
func WriteConfig() bool {
	return *flagWrite
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Simulation.CheckFinite = true
	}
	if *flagTicks > 0 {
		cfg.Simulation.Ticks = *flagTicks
	}
	if *flagSeed != 0 {
		cfg.Water.Seed = *flagSeed
	}
	if *flagHalfWidth > 0 {
		cfg.Water.HalfWidth = float32(*flagHalfWidth)
	}
	if *flagOut != "" {
		cfg.Telemetry.OutputDir = *flagOut
	}
}
