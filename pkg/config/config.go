// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/opd-ai/go-barspin/pkg/physics"
	"github.com/opd-ai/go-barspin/pkg/trick"
)

// RigConfig contains the full configuration for a barspin rig session.
type RigConfig struct {
	Grip      GripConfig      `json:"grip"`
	Trick     trick.Config    `json:"trick"`
	Telemetry TelemetryConfig `json:"telemetry"`
	Health    HealthConfig    `json:"health"`
}

// GripConfig contains grip zone placement and capture thresholds. Distances
// are meters in world space.
type GripConfig struct {
	// ProximityThreshold is the distance below which a hand counts as near
	// its grip. GrabThreshold is the tighter distance required, together
	// with a pressed grip button, to actually attach. Grab must be strictly
	// below proximity.
	ProximityThreshold float64 `json:"proximityThreshold"`
	GrabThreshold      float64 `json:"grabThreshold"`

	// Anchor positions relative to the handlebar stem, used by headless
	// runs where no scene graph provides them.
	LeftAnchor  physics.Vector3D `json:"leftAnchor"`
	RightAnchor physics.Vector3D `json:"rightAnchor"`
}

// TelemetryConfig contains the websocket event bridge settings.
type TelemetryConfig struct {
	Enabled    bool   `json:"enabled"`
	ListenAddr string `json:"listenAddr"`
	MaxClients int    `json:"maxClients"`
}

// HealthConfig contains the health endpoint settings.
type HealthConfig struct {
	Enabled    bool   `json:"enabled"`
	ListenAddr string `json:"listenAddr"`
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*RigConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config RigConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *RigConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the whole configuration for consistency.
func (c *RigConfig) Validate() error {
	if c.Grip.ProximityThreshold <= 0 || c.Grip.GrabThreshold <= 0 {
		return fmt.Errorf("grip thresholds must be positive (proximity=%g, grab=%g)",
			c.Grip.ProximityThreshold, c.Grip.GrabThreshold)
	}
	if c.Grip.GrabThreshold >= c.Grip.ProximityThreshold {
		return fmt.Errorf("grab threshold %g must be below proximity threshold %g",
			c.Grip.GrabThreshold, c.Grip.ProximityThreshold)
	}
	if err := c.Trick.Validate(); err != nil {
		return fmt.Errorf("trick config: %w", err)
	}
	if c.Telemetry.Enabled && c.Telemetry.ListenAddr == "" {
		return fmt.Errorf("telemetry enabled but listen address is empty")
	}
	if c.Health.Enabled && c.Health.ListenAddr == "" {
		return fmt.Errorf("health enabled but listen address is empty")
	}
	return nil
}

// DefaultConfig returns the stock rig configuration
func DefaultConfig() *RigConfig {
	return &RigConfig{
		Grip: GripConfig{
			ProximityThreshold: 0.15,
			GrabThreshold:      0.08,
			LeftAnchor:         physics.Vector3D{X: -0.22, Y: 1.05, Z: 0},
			RightAnchor:        physics.Vector3D{X: 0.22, Y: 1.05, Z: 0},
		},
		Trick: trick.DefaultConfig(),
		Telemetry: TelemetryConfig{
			Enabled:    true,
			ListenAddr: "localhost:7301",
			MaxClients: 8,
		},
		Health: HealthConfig{
			Enabled:    true,
			ListenAddr: "localhost:7302",
		},
	}
}
