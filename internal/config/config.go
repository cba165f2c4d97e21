// Package config loads the daemon/replay TOML configuration file, overlaying
// whatever keys are present onto in-code defaults.
package config

import (
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/curioxide/iptsd-android/contacts"
	"github.com/curioxide/iptsd-android/heatmap"
	"github.com/curioxide/iptsd-android/pipeline"
)

// Config is the fully-resolved configuration consumed by cmd/iptsd and
// cmd/iptsreplay.
type Config struct {
	DevicePath string
	LogLevel   string

	BufferSize           int
	MaxConsecutiveErrors int
	ErrorBackoff         time.Duration

	Detector   heatmap.Config
	Tracker    contacts.TrackerConfig
	Stabilizer contacts.StabilizerConfig
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DevicePath:           "/dev/ipts0",
		LogLevel:             "info",
		BufferSize:           64 * 1024,
		MaxConsecutiveErrors: 32,
		ErrorBackoff:         10 * time.Millisecond,
		Detector:             heatmap.DefaultConfig(),
		Tracker: contacts.TrackerConfig{
			MaxMovement:    0.05,
			TemporalWindow: 5,
		},
		Stabilizer: contacts.StabilizerConfig{
			TemporalWindow:         3,
			CheckTemporalStability: true,
			SizeThreshold:          &contacts.Threshold{Lo: 0.001, Hi: 0.02},
			PositionThreshold:      &contacts.Threshold{Lo: 0.002, Hi: 0.05},
			OrientationThreshold:   &contacts.Threshold{Lo: 0.01, Hi: 0.2},
			OrientationNormalized:  false,
		},
	}
}

// Pipeline converts the resolved config into a pipeline.Config.
func (c Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		Detector:   c.Detector,
		Tracker:    c.Tracker,
		Stabilizer: c.Stabilizer,
	}
}

// Runner converts the resolved config into a pipeline.RunnerConfig.
func (c Config) Runner() pipeline.RunnerConfig {
	return pipeline.RunnerConfig{
		BufferSize:           c.BufferSize,
		MaxConsecutiveErrors: c.MaxConsecutiveErrors,
		ErrorBackoff:         c.ErrorBackoff,
	}
}

// Validate rejects a configuration that would be fatal at startup.
func (c Config) Validate() error {
	if c.DevicePath == "" {
		return errors.New("config: device path must not be empty")
	}
	return c.Pipeline().Validate()
}

// fileConfig mirrors the on-disk TOML shape. Every field is optional; absent
// keys are distinguished from explicit zero values via toml.MetaData so
// defaults aren't clobbered by a partially-specified file.
type fileConfig struct {
	Device struct {
		Path string `toml:"path"`
	} `toml:"device"`

	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`

	Runner struct {
		BufferSizeBytes      int `toml:"buffer_size_bytes"`
		MaxConsecutiveErrors int `toml:"max_consecutive_errors"`
		ErrorBackoffMillis   int `toml:"error_backoff_millis"`
	} `toml:"runner"`

	Detector struct {
		ActivationThreshold float64 `toml:"activation_threshold"`
		ClusterThreshold    float64 `toml:"cluster_threshold"`
		MinClusterSize      int     `toml:"min_cluster_size"`
		NormalizeOrientation bool   `toml:"normalize_orientation"`
	} `toml:"detector"`

	Tracker struct {
		MaxMovement    float64 `toml:"max_movement"`
		TemporalWindow int     `toml:"temporal_window"`
	} `toml:"tracker"`

	Stabilizer struct {
		TemporalWindow         int     `toml:"temporal_window"`
		CheckTemporalStability bool    `toml:"check_temporal_stability"`
		OrientationNormalized  bool    `toml:"orientation_normalized"`
		SizeThresholdLo        float64 `toml:"size_threshold_lo"`
		SizeThresholdHi        float64 `toml:"size_threshold_hi"`
		PositionThresholdLo    float64 `toml:"position_threshold_lo"`
		PositionThresholdHi    float64 `toml:"position_threshold_hi"`
		OrientationThresholdLo float64 `toml:"orientation_threshold_lo"`
		OrientationThresholdHi float64 `toml:"orientation_threshold_hi"`
	} `toml:"stabilizer"`
}

// Load reads path, overlays whatever it specifies onto Default(), and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, errors.Wrapf(err, "decode config file %q", path)
	}

	if meta.IsDefined("device", "path") {
		cfg.DevicePath = fc.Device.Path
	}
	if meta.IsDefined("log", "level") {
		cfg.LogLevel = fc.Log.Level
	}
	if meta.IsDefined("runner", "buffer_size_bytes") {
		cfg.BufferSize = fc.Runner.BufferSizeBytes
	}
	if meta.IsDefined("runner", "max_consecutive_errors") {
		cfg.MaxConsecutiveErrors = fc.Runner.MaxConsecutiveErrors
	}
	if meta.IsDefined("runner", "error_backoff_millis") {
		cfg.ErrorBackoff = time.Duration(fc.Runner.ErrorBackoffMillis) * time.Millisecond
	}

	if meta.IsDefined("detector", "activation_threshold") {
		cfg.Detector.ActivationThreshold = fc.Detector.ActivationThreshold
	}
	if meta.IsDefined("detector", "cluster_threshold") {
		cfg.Detector.ClusterThreshold = fc.Detector.ClusterThreshold
	}
	if meta.IsDefined("detector", "min_cluster_size") {
		cfg.Detector.MinClusterSize = fc.Detector.MinClusterSize
	}
	if meta.IsDefined("detector", "normalize_orientation") {
		cfg.Detector.NormalizeOrientation = fc.Detector.NormalizeOrientation
	}

	if meta.IsDefined("tracker", "max_movement") {
		cfg.Tracker.MaxMovement = fc.Tracker.MaxMovement
	}
	if meta.IsDefined("tracker", "temporal_window") {
		cfg.Tracker.TemporalWindow = fc.Tracker.TemporalWindow
	}

	if meta.IsDefined("stabilizer", "temporal_window") {
		cfg.Stabilizer.TemporalWindow = fc.Stabilizer.TemporalWindow
	}
	if meta.IsDefined("stabilizer", "check_temporal_stability") {
		cfg.Stabilizer.CheckTemporalStability = fc.Stabilizer.CheckTemporalStability
	}
	if meta.IsDefined("stabilizer", "orientation_normalized") {
		cfg.Stabilizer.OrientationNormalized = fc.Stabilizer.OrientationNormalized
	}
	if meta.IsDefined("stabilizer", "size_threshold_lo") && meta.IsDefined("stabilizer", "size_threshold_hi") {
		cfg.Stabilizer.SizeThreshold = &contacts.Threshold{Lo: fc.Stabilizer.SizeThresholdLo, Hi: fc.Stabilizer.SizeThresholdHi}
	}
	if meta.IsDefined("stabilizer", "position_threshold_lo") && meta.IsDefined("stabilizer", "position_threshold_hi") {
		cfg.Stabilizer.PositionThreshold = &contacts.Threshold{Lo: fc.Stabilizer.PositionThresholdLo, Hi: fc.Stabilizer.PositionThresholdHi}
	}
	if meta.IsDefined("stabilizer", "orientation_threshold_lo") && meta.IsDefined("stabilizer", "orientation_threshold_hi") {
		cfg.Stabilizer.OrientationThreshold = &contacts.Threshold{Lo: fc.Stabilizer.OrientationThresholdLo, Hi: fc.Stabilizer.OrientationThresholdHi}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
