// pkg/grip/system.go
package grip

import (
	"fmt"

	"github.com/opd-ai/go-barspin/pkg/event"
	"github.com/opd-ai/go-barspin/pkg/input"
	"github.com/opd-ai/go-barspin/pkg/physics"
)

// Haptic feedback per grip transition, intensity 0..1 and duration in ms.
// Grip start fires a double pulse; the second half is deferred by the gap.
const (
	proximityPulseIntensity  = 0.3
	proximityPulseDurationMs = 50
	exitPulseIntensity       = 0.1
	exitPulseDurationMs      = 30
	gripPulseIntensity       = 0.8
	gripPulseDurationMs      = 80
	gripEchoPulseIntensity   = 0.4
	gripEchoPulseDurationMs  = 40
	gripEchoGapSeconds       = 0.08
	releasePulseIntensity    = 0.4
	releasePulseDurationMs   = 50
)

type deferredPulse struct {
	hand       input.Hand
	intensity  float64
	durationMs float64
	dueAt      float64
}

// System owns the two grip zones and both hands' grip state. Update must be
// called exactly once per rendered frame, before the trick mechanic's
// update, so the mechanic always sees this frame's attachment state.
type System struct {
	pose  input.PoseSource
	bus   *event.Bus
	zones [2]*Zone
	hands [2]*HandData

	// Frame clock in seconds, advanced by Update. Drives deferred pulses.
	now     float64
	pending []deferredPulse
}

// NewSystem creates a grip system over the given pose source and event bus.
// Zones are registered later, once the handlebar geometry exists; until a
// side has a zone, that hand's update is a no-op.
func NewSystem(pose input.PoseSource, bus *event.Bus) *System {
	s := &System{
		pose: pose,
		bus:  bus,
	}
	for _, h := range input.Hands {
		s.hands[h] = &HandData{}
	}
	return s
}

// SetZone registers the grip zone for one side of the handlebars.
func (s *System) SetZone(zone *Zone) {
	s.zones[zone.Side] = zone
}

// Zone returns the registered zone for a side, or nil if not yet set.
func (s *System) Zone(side input.Hand) *Zone {
	return s.zones[side]
}

// Update advances both hands' grip state by one frame. A hand whose zone is
// missing or whose controller is not tracked simply does not advance.
func (s *System) Update(deltaTime float64) {
	s.now += deltaTime
	s.firePendingPulses()

	for _, h := range input.Hands {
		s.updateHand(h)
	}
}

func (s *System) updateHand(h input.Hand) {
	zone := s.zones[h]
	if zone == nil || !s.pose.IsConnected(h) {
		return
	}

	data := s.hands[h]
	controllerPos := s.pose.WorldPosition(h)
	anchorPos := zone.Anchor.WorldPosition()

	data.WasNear = data.IsNear
	data.WasPressed = data.IsPressed
	data.Distance = controllerPos.Distance(anchorPos)
	data.IsNear = data.Distance < zone.ProximityThreshold
	data.IsPressed = s.pose.IsGripPressed(h)

	previous := data.State
	switch {
	case data.IsNear && data.IsPressed && data.Distance < zone.GrabThreshold:
		data.State = StateGripping
	case data.IsNear:
		data.State = StateNear
	default:
		data.State = StateIdle
	}

	s.fireTransitions(h, zone, data, previous, controllerPos, anchorPos)
	s.updateVisualTier(zone, data.State)
}

// fireTransitions emits grip events and haptics for the (previous, new)
// state pair. The proximity and grip checks are independent, so a single
// frame jump from idle to gripping fires both enterProximity and gripStart.
func (s *System) fireTransitions(h input.Hand, zone *Zone, data *HandData, previous State, controllerPos, anchorPos physics.Vector3D) {
	current := data.State
	if previous == current {
		return
	}

	// Attachment flips before any event publishes, so every listener this
	// frame sees the settled attachment state.
	if previous != StateGripping && current == StateGripping {
		s.attach(h, data, controllerPos, anchorPos)
	}
	if previous == StateGripping && current != StateGripping {
		s.detach(data)
	}

	if previous == StateIdle && current != StateIdle {
		s.pose.RequestHapticPulse(h, proximityPulseIntensity, proximityPulseDurationMs)
		s.bus.Publish(event.NewGripEvent(event.EnterProximity, s, h.String(), data.Distance))
	}
	if previous != StateIdle && current == StateIdle {
		s.pose.RequestHapticPulse(h, exitPulseIntensity, exitPulseDurationMs)
		s.bus.Publish(event.NewGripEvent(event.ExitProximity, s, h.String(), data.Distance))
	}
	if previous != StateGripping && current == StateGripping {
		s.pose.RequestHapticPulse(h, gripPulseIntensity, gripPulseDurationMs)
		s.pending = append(s.pending, deferredPulse{
			hand:       h,
			intensity:  gripEchoPulseIntensity,
			durationMs: gripEchoPulseDurationMs,
			dueAt:      s.now + gripEchoGapSeconds,
		})
		s.bus.Publish(event.NewGripEvent(event.GripStart, s, h.String(), data.Distance))
	}
	if previous == StateGripping && current != StateGripping {
		s.pose.RequestHapticPulse(h, releasePulseIntensity, releasePulseDurationMs)
		s.bus.Publish(event.NewGripEvent(event.GripEnd, s, h.String(), data.Distance))
	}
}

func (s *System) attach(h input.Hand, data *HandData, controllerPos, anchorPos physics.Vector3D) {
	data.IsAttached = true
	data.AttachedSide = h
	data.AttachmentOffset = controllerPos.Sub(anchorPos)
}

func (s *System) detach(data *HandData) {
	if !data.IsAttached {
		return
	}
	data.IsAttached = false
	data.AttachedSide = 0
	data.AttachmentOffset = physics.Vector3D{}
}

func (s *System) updateVisualTier(zone *Zone, state State) {
	switch state {
	case StateGripping:
		zone.Anchor.SetVisualTier(input.TierGripping)
	case StateNear:
		zone.Anchor.SetVisualTier(input.TierNear)
	default:
		zone.Anchor.SetVisualTier(input.TierIdle)
	}
}

func (s *System) firePendingPulses() {
	if len(s.pending) == 0 {
		return
	}
	remaining := s.pending[:0]
	for _, p := range s.pending {
		if p.dueAt <= s.now {
			s.pose.RequestHapticPulse(p.hand, p.intensity, p.durationMs)
		} else {
			remaining = append(remaining, p)
		}
	}
	s.pending = remaining
}

// Query surface. All queries are pure reads of the current frame's state.

// IsHandGripping reports whether the hand's grip state is gripping.
func (s *System) IsHandGripping(h input.Hand) bool {
	return s.hands[h].State == StateGripping
}

// IsHandAttached reports whether the hand is attached to a grip zone.
func (s *System) IsHandAttached(h input.Hand) bool {
	return s.hands[h].IsAttached
}

// AreBothHandsAttached reports whether both hands hold their grips.
func (s *System) AreBothHandsAttached() bool {
	return s.hands[input.LeftHand].IsAttached && s.hands[input.RightHand].IsAttached
}

// IsHandNearGrip reports whether the hand is within the proximity threshold.
func (s *System) IsHandNearGrip(h input.Hand) bool {
	return s.hands[h].IsNear
}

// HandDistanceToGrip returns the hand's distance to its grip anchor as of
// the last update.
func (s *System) HandDistanceToGrip(h input.Hand) float64 {
	return s.hands[h].Distance
}

// HandGripState returns the hand's current grip state.
func (s *System) HandGripState(h input.Hand) State {
	return s.hands[h].State
}

// AttachedSide returns which side the hand is attached to. The boolean is
// false when the hand is not attached.
func (s *System) AttachedSide(h input.Hand) (input.Hand, bool) {
	data := s.hands[h]
	if !data.IsAttached {
		return 0, false
	}
	return data.AttachedSide, true
}

// Derived handlebar geometry. Valid only while both hands are attached;
// otherwise each returns its neutral value.

// CalculateHandlebarRotation returns the steering angle implied by the two
// controller positions, projected onto the horizontal plane. Pushing the
// right hand forward reads as a positive steer.
func (s *System) CalculateHandlebarRotation() float64 {
	if !s.AreBothHandsAttached() {
		return 0
	}
	delta := s.pose.WorldPosition(input.RightHand).Sub(s.pose.WorldPosition(input.LeftHand))
	return delta.HorizontalAngle()
}

// ControllerMidpoint returns the point halfway between both controllers.
func (s *System) ControllerMidpoint() physics.Vector3D {
	if !s.AreBothHandsAttached() {
		return physics.Vector3D{}
	}
	return s.pose.WorldPosition(input.LeftHand).Midpoint(s.pose.WorldPosition(input.RightHand))
}

// ControllerSpread returns the distance between both controllers.
func (s *System) ControllerSpread() float64 {
	if !s.AreBothHandsAttached() {
		return 0
	}
	return s.pose.WorldPosition(input.LeftHand).Distance(s.pose.WorldPosition(input.RightHand))
}

// DebugInfo returns a one-line human-readable summary for on-screen
// diagnostics.
func (s *System) DebugInfo() string {
	left := s.hands[input.LeftHand]
	right := s.hands[input.RightHand]
	return fmt.Sprintf("grip L[%s d=%.3f att=%t] R[%s d=%.3f att=%t] both=%t",
		left.State, left.Distance, left.IsAttached,
		right.State, right.Distance, right.IsAttached,
		s.AreBothHandsAttached())
}
