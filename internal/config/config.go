// Package config handles converter configuration loading and management.
package config

// Config holds all converter settings.
type Config struct {
	Solid   SolidConfig   `yaml:"solid"`
	Logging LoggingConfig `yaml:"logging"`
}

// SolidConfig holds the default options for grid-to-solid conversion.
// Per-run flags on the solid subcommand override these.
type SolidConfig struct {
	XYScale   float64 `yaml:"xy_scale"`
	ZScale    float64 `yaml:"z_scale"`
	Minimum   float64 `yaml:"minimum"`
	Thickness float64 `yaml:"thickness"`
	Simplify  bool    `yaml:"simplify"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Solid: SolidConfig{
			XYScale:   1,
			ZScale:    1,
			Minimum:   0,
			Thickness: 1,
			Simplify:  true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
