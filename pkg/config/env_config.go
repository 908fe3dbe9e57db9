// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvironmentConfig contains runtime settings read from BARSPIN_* variables.
// These cover the operational surfaces (telemetry bridge, health endpoint,
// shutdown) rather than gameplay tuning, which lives in RigConfig.
type EnvironmentConfig struct {
	TelemetryAddr string
	HealthAddr    string
	MaxClients    int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration

	// Circuit breaker settings for the per-client telemetry send path.
	CircuitBreakerMaxRequests         int
	CircuitBreakerInterval            time.Duration
	CircuitBreakerTimeout             time.Duration
	CircuitBreakerMaxConsecutiveFails int

	ShutdownTimeout time.Duration
}

// LoadConfigFromEnv builds an EnvironmentConfig from environment variables,
// falling back to safe defaults for anything unset.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	cfg := &EnvironmentConfig{
		TelemetryAddr:                     "localhost:7301",
		HealthAddr:                        "localhost:7302",
		MaxClients:                        8,
		ReadTimeout:                       30 * time.Second,
		WriteTimeout:                      10 * time.Second,
		CircuitBreakerMaxRequests:         3,
		CircuitBreakerInterval:            60 * time.Second,
		CircuitBreakerTimeout:             30 * time.Second,
		CircuitBreakerMaxConsecutiveFails: 5,
		ShutdownTimeout:                   30 * time.Second,
	}

	if v := os.Getenv("BARSPIN_TELEMETRY_ADDR"); v != "" {
		cfg.TelemetryAddr = v
	}
	if v := os.Getenv("BARSPIN_HEALTH_ADDR"); v != "" {
		cfg.HealthAddr = v
	}

	var err error
	if cfg.MaxClients, err = intFromEnv("BARSPIN_MAX_CLIENTS", cfg.MaxClients); err != nil {
		return nil, err
	}
	if cfg.ReadTimeout, err = durationFromEnv("BARSPIN_READ_TIMEOUT", cfg.ReadTimeout); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = durationFromEnv("BARSPIN_WRITE_TIMEOUT", cfg.WriteTimeout); err != nil {
		return nil, err
	}
	if cfg.CircuitBreakerMaxRequests, err = intFromEnv("BARSPIN_CB_MAX_REQUESTS", cfg.CircuitBreakerMaxRequests); err != nil {
		return nil, err
	}
	if cfg.CircuitBreakerInterval, err = durationFromEnv("BARSPIN_CB_INTERVAL", cfg.CircuitBreakerInterval); err != nil {
		return nil, err
	}
	if cfg.CircuitBreakerTimeout, err = durationFromEnv("BARSPIN_CB_TIMEOUT", cfg.CircuitBreakerTimeout); err != nil {
		return nil, err
	}
	if cfg.CircuitBreakerMaxConsecutiveFails, err = intFromEnv("BARSPIN_CB_MAX_CONSECUTIVE_FAILS", cfg.CircuitBreakerMaxConsecutiveFails); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = durationFromEnv("BARSPIN_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return nil, err
	}

	if cfg.MaxClients <= 0 {
		return nil, fmt.Errorf("BARSPIN_MAX_CLIENTS must be positive, got %d", cfg.MaxClients)
	}

	return cfg, nil
}

// ApplyEnvironmentOverrides applies BARSPIN_* gameplay overrides on top of a
// loaded RigConfig, then revalidates it.
func ApplyEnvironmentOverrides(cfg *RigConfig) error {
	var err error
	if cfg.Grip.ProximityThreshold, err = floatFromEnv("BARSPIN_PROXIMITY_THRESHOLD", cfg.Grip.ProximityThreshold); err != nil {
		return err
	}
	if cfg.Grip.GrabThreshold, err = floatFromEnv("BARSPIN_GRAB_THRESHOLD", cfg.Grip.GrabThreshold); err != nil {
		return err
	}
	if cfg.Trick.InitiationTimeoutMs, err = floatFromEnv("BARSPIN_INITIATION_TIMEOUT_MS", cfg.Trick.InitiationTimeoutMs); err != nil {
		return err
	}
	if cfg.Trick.CatchWindowDurationMs, err = floatFromEnv("BARSPIN_CATCH_WINDOW_MS", cfg.Trick.CatchWindowDurationMs); err != nil {
		return err
	}
	if cfg.Trick.SuccessResetDelayMs, err = floatFromEnv("BARSPIN_SUCCESS_RESET_MS", cfg.Trick.SuccessResetDelayMs); err != nil {
		return err
	}
	if cfg.Trick.FailureResetDelayMs, err = floatFromEnv("BARSPIN_FAILURE_RESET_MS", cfg.Trick.FailureResetDelayMs); err != nil {
		return err
	}
	if v := os.Getenv("BARSPIN_TELEMETRY_ADDR"); v != "" {
		cfg.Telemetry.ListenAddr = v
	}
	if v := os.Getenv("BARSPIN_HEALTH_ADDR"); v != "" {
		cfg.Health.ListenAddr = v
	}

	return cfg.Validate()
}

func intFromEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
