// pkg/input/scripted.go
package input

import (
	"sync"

	"github.com/opd-ai/go-barspin/pkg/physics"
)

// HandState is the scripted per-hand controller snapshot.
type HandState struct {
	Connected   bool
	Position    physics.Vector3D
	GripPressed bool
	YawVelocity float64
}

// HapticRecord is one haptic request captured by the scripted source.
type HapticRecord struct {
	Hand       Hand
	Intensity  float64
	DurationMs float64
}

// ScriptedPoseSource is a PoseSource whose state is set directly by the
// caller. The simulator drives it from scripted scenarios; tests drive it
// frame by frame. Haptic requests are recorded rather than actuated.
type ScriptedPoseSource struct {
	mu      sync.Mutex
	hands   [2]HandState
	haptics []HapticRecord
}

// NewScriptedPoseSource returns a source with both hands connected at the
// origin, buttons released.
func NewScriptedPoseSource() *ScriptedPoseSource {
	s := &ScriptedPoseSource{}
	s.hands[LeftHand] = HandState{Connected: true}
	s.hands[RightHand] = HandState{Connected: true}
	return s
}

// SetHand replaces the full scripted state for one hand.
func (s *ScriptedPoseSource) SetHand(hand Hand, state HandState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hands[hand] = state
}

// MoveHand updates only the hand's position.
func (s *ScriptedPoseSource) MoveHand(hand Hand, pos physics.Vector3D) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hands[hand].Position = pos
}

// PressGrip sets the hand's grip button state.
func (s *ScriptedPoseSource) PressGrip(hand Hand, pressed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hands[hand].GripPressed = pressed
}

// SetYawVelocity sets the hand's scripted yaw angular velocity in rad/s.
func (s *ScriptedPoseSource) SetYawVelocity(hand Hand, radPerSec float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hands[hand].YawVelocity = radPerSec
}

// SetConnected sets whether the hand's controller is tracked.
func (s *ScriptedPoseSource) SetConnected(hand Hand, connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hands[hand].Connected = connected
}

// IsConnected implements PoseSource.
func (s *ScriptedPoseSource) IsConnected(hand Hand) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hands[hand].Connected
}

// WorldPosition implements PoseSource.
func (s *ScriptedPoseSource) WorldPosition(hand Hand) physics.Vector3D {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hands[hand].Position
}

// IsGripPressed implements PoseSource.
func (s *ScriptedPoseSource) IsGripPressed(hand Hand) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hands[hand].GripPressed
}

// YawAngularVelocity implements PoseSource.
func (s *ScriptedPoseSource) YawAngularVelocity(hand Hand) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hands[hand].YawVelocity
}

// RequestHapticPulse implements PoseSource by recording the request.
func (s *ScriptedPoseSource) RequestHapticPulse(hand Hand, intensity float64, durationMs float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.haptics = append(s.haptics, HapticRecord{
		Hand:       hand,
		Intensity:  intensity,
		DurationMs: durationMs,
	})
}

// Haptics returns a copy of all recorded haptic requests.
func (s *ScriptedPoseSource) Haptics() []HapticRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HapticRecord, len(s.haptics))
	copy(out, s.haptics)
	return out
}

// ClearHaptics discards recorded haptic requests.
func (s *ScriptedPoseSource) ClearHaptics() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.haptics = s.haptics[:0]
}

// StaticAnchor is a GripAnchor pinned to a fixed world position, with the
// last requested visual tier recorded for inspection. The scene-graph-backed
// anchors used in production move with the handlebar geometry; this one is
// for tests and headless runs.
type StaticAnchor struct {
	mu   sync.Mutex
	pos  physics.Vector3D
	tier VisualTier
}

// NewStaticAnchor creates an anchor at the given world position.
func NewStaticAnchor(pos physics.Vector3D) *StaticAnchor {
	return &StaticAnchor{pos: pos}
}

// WorldPosition implements GripAnchor.
func (a *StaticAnchor) WorldPosition() physics.Vector3D {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pos
}

// SetVisualTier implements GripAnchor.
func (a *StaticAnchor) SetVisualTier(tier VisualTier) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tier = tier
}

// MoveTo repositions the anchor, as the scene graph would when the
// handlebars move.
func (a *StaticAnchor) MoveTo(pos physics.Vector3D) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pos = pos
}

// VisualTier returns the last tier requested for this anchor.
func (a *StaticAnchor) VisualTier() VisualTier {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tier
}
