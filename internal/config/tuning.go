// Package config loads simulation tuning from JSON files. Fields omitted
// from a file keep their defaults, so partial configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/veloforge/brakesim/internal/fuzzy"
	"github.com/veloforge/brakesim/internal/session"
)

// TuningConfig represents the root configuration for a simulation run.
// The schema matches the /api/config endpoint so the same JSON can be
// used for both startup configuration and runtime replacement.
type TuningConfig struct {
	// Physics params
	MassKg             *float64 `json:"mass_kg,omitempty"`
	Mu                 *float64 `json:"mu,omitempty"`
	ThetaRad           *float64 `json:"theta_rad,omitempty"`
	Crr                *float64 `json:"crr,omitempty"`
	ObstacleM          *float64 `json:"obstacle_m,omitempty"`
	InitialSpeedMps    *float64 `json:"initial_speed_mps,omitempty"`
	EjectThresholdMps2 *float64 `json:"eject_threshold_mps2,omitempty"`

	// Scheduler params
	TimestepS       *float64 `json:"timestep_s,omitempty"`
	TimeScale       *float64 `json:"time_scale,omitempty"`
	RefreshInterval *string  `json:"refresh_interval,omitempty"` // duration string like "50ms"

	// Controller params (optional); replaces the whole controller when set
	Resolution *int                    `json:"resolution,omitempty"`
	Controller *fuzzy.ControllerConfig `json:"controller,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The path must
// have a .json extension and stay under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.MassKg != nil && *c.MassKg <= 0 {
		return fmt.Errorf("mass_kg must be > 0, got %f", *c.MassKg)
	}
	if c.Mu != nil && *c.Mu < 0 {
		return fmt.Errorf("mu must be >= 0, got %f", *c.Mu)
	}
	if c.Crr != nil && *c.Crr < 0 {
		return fmt.Errorf("crr must be >= 0, got %f", *c.Crr)
	}
	if c.ObstacleM != nil && *c.ObstacleM < 0 {
		return fmt.Errorf("obstacle_m must be >= 0, got %f", *c.ObstacleM)
	}
	if c.TimestepS != nil && *c.TimestepS <= 0 {
		return fmt.Errorf("timestep_s must be > 0, got %f", *c.TimestepS)
	}
	if c.TimeScale != nil && *c.TimeScale <= 0 {
		return fmt.Errorf("time_scale must be > 0, got %f", *c.TimeScale)
	}
	if c.RefreshInterval != nil && *c.RefreshInterval != "" {
		if _, err := time.ParseDuration(*c.RefreshInterval); err != nil {
			return fmt.Errorf("invalid refresh_interval '%s': %w", *c.RefreshInterval, err)
		}
	}
	if c.Resolution != nil && *c.Resolution < 2 {
		return fmt.Errorf("resolution must be >= 2, got %d", *c.Resolution)
	}
	if c.Controller != nil {
		if err := c.Controller.Validate(); err != nil {
			return fmt.Errorf("controller: %w", err)
		}
	}
	return nil
}

// GetRefreshInterval parses and returns the RefreshInterval as a time.Duration.
func (c *TuningConfig) GetRefreshInterval() time.Duration {
	if c.RefreshInterval == nil || *c.RefreshInterval == "" {
		return 0 // default: no throttling
	}
	d, err := time.ParseDuration(*c.RefreshInterval)
	if err != nil {
		return 0
	}
	return d
}

// GetResolution returns the defuzzification resolution or the default.
func (c *TuningConfig) GetResolution() int {
	if c.Resolution == nil {
		return fuzzy.DefaultResolution
	}
	return *c.Resolution
}

// Params builds session parameters from this config, falling back to
// session.DefaultParams for any unset field.
func (c *TuningConfig) Params() session.Params {
	p := session.DefaultParams()
	if c.MassKg != nil {
		p.Mass = *c.MassKg
	}
	if c.Mu != nil {
		p.Mu = *c.Mu
	}
	if c.ThetaRad != nil {
		p.Theta = *c.ThetaRad
	}
	if c.Crr != nil {
		p.Crr = *c.Crr
	}
	if c.ObstacleM != nil {
		p.Obstacle = *c.ObstacleM
	}
	if c.InitialSpeedMps != nil {
		p.InitialSpeed = *c.InitialSpeedMps
	}
	if c.EjectThresholdMps2 != nil {
		p.EjectThreshold = *c.EjectThresholdMps2
	}
	if c.TimestepS != nil {
		p.DT = *c.TimestepS
	}
	if c.TimeScale != nil {
		p.TimeScale = *c.TimeScale
	}
	p.RefreshInterval = c.GetRefreshInterval()
	return p
}
