// pkg/input/input.go

// Package input defines the collaborator boundary between the trick core and
// the surrounding VR runtime: tracked-controller poses, grip buttons, yaw
// angular velocity and haptic output on one side, grip-zone anchors owned by
// the scene graph on the other. The core never talks to an XR device
// directly; it only sees these interfaces.
package input

import (
	"github.com/opd-ai/go-barspin/pkg/physics"
)

// Hand identifies one of the two tracked hand controllers.
type Hand int

const (
	LeftHand Hand = iota
	RightHand
)

// Hands lists both hands in a stable order for per-hand iteration.
var Hands = [2]Hand{LeftHand, RightHand}

// String returns the lowercase hand name used in events and debug output.
func (h Hand) String() string {
	if h == LeftHand {
		return "left"
	}
	return "right"
}

// Other returns the opposite hand.
func (h Hand) Other() Hand {
	if h == LeftHand {
		return RightHand
	}
	return LeftHand
}

// VisualTier is the grip marker emphasis requested by the grip system. The
// presentation layer decides how each tier actually looks.
type VisualTier int

const (
	TierIdle VisualTier = iota
	TierNear
	TierGripping
)

// String returns the lowercase tier name for debug output.
func (t VisualTier) String() string {
	switch t {
	case TierNear:
		return "near"
	case TierGripping:
		return "gripping"
	default:
		return "idle"
	}
}

// PoseSource supplies per-frame controller state for both hands. All methods
// are polled once per tick; implementations must be cheap.
type PoseSource interface {
	// IsConnected reports whether the hand's controller is currently tracked.
	// When false, the other queries for that hand return stale or zero data
	// and callers skip the hand for the frame.
	IsConnected(hand Hand) bool

	// WorldPosition returns the controller's wrist position in world space.
	WorldPosition(hand Hand) physics.Vector3D

	// IsGripPressed reports whether the hand's grip button is held.
	IsGripPressed(hand Hand) bool

	// YawAngularVelocity returns the controller's signed rotation rate about
	// the vertical axis in rad/s, derived frame-to-frame by the runtime.
	YawAngularVelocity(hand Hand) float64

	// RequestHapticPulse asks the runtime to fire a haptic pulse on the
	// hand's controller. Intensity is 0..1, duration in milliseconds. The
	// actuation mechanism is the runtime's concern.
	RequestHapticPulse(hand Hand, intensity float64, durationMs float64)
}

// GripAnchor is a grip-zone attachment point owned by the scene graph. It
// exists only once the handlebar geometry has loaded; until then the grip
// system runs without it.
type GripAnchor interface {
	// WorldPosition returns the anchor's current position in world space.
	// The anchor moves with the handlebar geometry.
	WorldPosition() physics.Vector3D

	// SetVisualTier updates the marker emphasis the presentation layer
	// should render for this anchor.
	SetVisualTier(tier VisualTier)
}
