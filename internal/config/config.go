// Package config handles application configuration loading and management.
package config

import "time"

// Config holds all settings for the demos and the benchmark.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Audio      AudioConfig      `yaml:"audio"`
	Camera     CameraConfig     `yaml:"camera"`
	Simulation SimulationConfig `yaml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	ShowGrid   bool   `yaml:"show_grid"`
	GridSlices int    `yaml:"grid_slices"`
	Background string `yaml:"background"` // #rrggbb
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	Enabled      bool    `yaml:"enabled"`
	MasterVolume float64 `yaml:"master_volume"`
	SFXVolume    float64 `yaml:"sfx_volume"`
	Ambience     bool    `yaml:"ambience"`
}

// CameraConfig holds the initial orbit camera placement.
type CameraConfig struct {
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
	FovY     float32    `yaml:"fov_y"` // degrees
}

// SimulationConfig controls how effects are loaded and stepped.
type SimulationConfig struct {
	// Workers is the size of the update worker pool. 0 uses GOMAXPROCS, 1 updates serially.
	Workers int `yaml:"workers"`
	// Seed seeds every random generator. 0 picks a random seed.
	Seed uint64 `yaml:"seed"`
	// PresetFile is a YAML effects file. Empty uses the embedded presets.
	PresetFile string `yaml:"preset_file"`
	// Effects lists preset names in registration (draw) order. Empty registers all.
	Effects      []string      `yaml:"effects"`
	AutoStart    bool          `yaml:"auto_start"`
	MaxFrameTime time.Duration `yaml:"max_frame_time"`
	// OriginStep is how far one key press moves the emitter origin.
	OriginStep float32 `yaml:"origin_step"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      800,
			Height:     600,
			Fullscreen: false,
			VSync:      true,
			ShowGrid:   true,
			GridSlices: 10,
			Background: "#000000",
		},
		Audio: AudioConfig{
			Enabled:      true,
			MasterVolume: 0.8,
			SFXVolume:    0.8,
			Ambience:     true,
		},
		Camera: CameraConfig{
			Position: [3]float32{5, 5, 10},
			Target:   [3]float32{0, 2, 0},
			FovY:     45,
		},
		Simulation: SimulationConfig{
			Workers:      0,
			Seed:         0,
			AutoStart:    true,
			MaxFrameTime: 100 * time.Millisecond,
			OriginStep:   0.25,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
