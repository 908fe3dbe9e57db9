// pkg/trick/config.go
package trick

import "fmt"

// Config holds the barspin mechanic's tuning knobs. All values are
// independently tunable; Validate enforces only internal consistency.
type Config struct {
	// MinRotationVelocity is the rad/s flick strength considered a "real"
	// flick. Tracked for tuning and diagnostics; initiation is currently
	// gated by hand identity alone, not by this velocity.
	MinRotationVelocity float64 `json:"minRotationVelocity"`

	// InitiationTimeoutMs bounds how long the machine waits in INITIATED
	// for the second hand to release before the attempt fails.
	InitiationTimeoutMs float64 `json:"initiationTimeoutMs"`

	// CatchWindowDurationMs bounds how long the catch window stays open.
	CatchWindowDurationMs float64 `json:"catchWindowDurationMs"`

	// CatchWindowAngleMargin is an angular tolerance in radians around the
	// full turn. The catch condition is currently purely hand-pairing
	// within the time window; this knob is reserved for an angle-gated
	// catch variant.
	CatchWindowAngleMargin float64 `json:"catchWindowAngleMargin"`

	// SuccessResetDelayMs and FailureResetDelayMs delay the automatic
	// return to READY so the rider can savor the catch or see the miss.
	SuccessResetDelayMs float64 `json:"successResetDelayMs"`
	FailureResetDelayMs float64 `json:"failureResetDelayMs"`

	// Spin duration bounds and the flick velocities they map from. A flick
	// at or below SlowFlickVelocity spins for SpinDurationMaxMs; at or
	// above FastFlickVelocity it spins for SpinDurationMinMs; linear in
	// between. Faster flick, shorter spin.
	SpinDurationMinMs float64 `json:"spinDurationMinMs"`
	SpinDurationMaxMs float64 `json:"spinDurationMaxMs"`
	SlowFlickVelocity float64 `json:"slowFlickVelocity"`
	FastFlickVelocity float64 `json:"fastFlickVelocity"`
}

// DefaultConfig returns the tuning used by the stock experience.
func DefaultConfig() Config {
	return Config{
		MinRotationVelocity:    1.0,
		InitiationTimeoutMs:    2000,
		CatchWindowDurationMs:  800,
		CatchWindowAngleMargin: 0.52,
		SuccessResetDelayMs:    2000,
		FailureResetDelayMs:    1500,
		SpinDurationMinMs:      600,
		SpinDurationMaxMs:      1600,
		SlowFlickVelocity:      2.0,
		FastFlickVelocity:      10.0,
	}
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.InitiationTimeoutMs <= 0 {
		return fmt.Errorf("initiation timeout must be positive, got %g", c.InitiationTimeoutMs)
	}
	if c.CatchWindowDurationMs <= 0 {
		return fmt.Errorf("catch window duration must be positive, got %g", c.CatchWindowDurationMs)
	}
	if c.SuccessResetDelayMs < 0 || c.FailureResetDelayMs < 0 {
		return fmt.Errorf("reset delays must not be negative, got success=%g failure=%g",
			c.SuccessResetDelayMs, c.FailureResetDelayMs)
	}
	if c.SpinDurationMinMs <= 0 || c.SpinDurationMaxMs < c.SpinDurationMinMs {
		return fmt.Errorf("spin duration bounds invalid: min=%g max=%g",
			c.SpinDurationMinMs, c.SpinDurationMaxMs)
	}
	if c.SlowFlickVelocity < 0 || c.FastFlickVelocity <= c.SlowFlickVelocity {
		return fmt.Errorf("flick velocity thresholds invalid: slow=%g fast=%g",
			c.SlowFlickVelocity, c.FastFlickVelocity)
	}
	return nil
}
