// Package config handles simulator configuration loading and management.
package config

// Config holds all simulator settings.
type Config struct {
	Water      WaterConfig      `yaml:"water"`
	Simulation SimulationConfig `yaml:"simulation"`
	Window     WindowConfig     `yaml:"window"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WaterConfig describes the water tile and its appearance.
type WaterConfig struct {
	CenterX   float32 `yaml:"center_x"`
	CenterZ   float32 `yaml:"center_z"`
	HalfWidth float32 `yaml:"half_width"`
	Level     float32 `yaml:"level"`

	Color        [3]float32 `yaml:"color"`
	Transparency float32    `yaml:"transparency"` // 1.0 = fully transparent
	TextureMap   string     `yaml:"texture_map"`

	FlowVelocity       float32    `yaml:"flow_velocity"`
	FlowDirection      [2]float32 `yaml:"flow_direction"`
	ApplyFlowDirection bool       `yaml:"apply_flow_direction"`

	Seed        int64   `yaml:"seed"` // 0 seeds from the clock
	SpikeCount  int     `yaml:"spike_count"`
	SpikeHeight float32 `yaml:"spike_height"`
}

// SimulationConfig holds tick settings.
type SimulationConfig struct {
	MaxDeltaMs  float32 `yaml:"max_delta_ms"` // cap applied to every tick
	TickMs      float32 `yaml:"tick_ms"`      // fixed step for headless runs
	Ticks       int     `yaml:"ticks"`        // headless run length
	Boundary    string  `yaml:"boundary"`     // "pinned" or "free"
	CheckFinite bool    `yaml:"check_finite"`
}

// WindowConfig holds viewer window settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Samples    int  `yaml:"samples"`
	Wireframe  bool `yaml:"wireframe"`
	ShowBounds bool `yaml:"show_bounds"`

	ScreenshotDir string `yaml:"screenshot_dir"`
}

// TelemetryConfig controls CSV output of surface statistics.
type TelemetryConfig struct {
	OutputDir string `yaml:"output_dir"` // empty disables output
	Every     int    `yaml:"every"`      // ticks between records
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Water: WaterConfig{
			HalfWidth:     200,
			Level:         0,
			Color:         [3]float32{0.2, 0.45, 0.7},
			Transparency:  0.4,
			FlowVelocity:  0.002,
			FlowDirection: [2]float32{1, 0},
			Seed:          1,
			SpikeCount:    3,
			SpikeHeight:   20,
		},
		Simulation: SimulationConfig{
			MaxDeltaMs: 33,
			TickMs:     16,
			Ticks:      600,
			Boundary:   "pinned",
		},
		Window: WindowConfig{
			Width:         1280,
			Height:        720,
			VSync:         true,
			Samples:       4,
			ScreenshotDir: "screenshots",
		},
		Telemetry: TelemetryConfig{
			Every: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ClampDelta caps a tick length at MaxDeltaMs. A non-positive cap disables clamping.
func (s SimulationConfig) ClampDelta(deltaMs float32) float32 {
	if s.MaxDeltaMs > 0 && deltaMs > s.MaxDeltaMs {
		return s.MaxDeltaMs
	}
	return deltaMs
}
