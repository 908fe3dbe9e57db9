// pkg/trick/mechanic.go
package trick

import (
	"context"
	"fmt"
	"math"

	"github.com/opd-ai/go-barspin/pkg/event"
	"github.com/opd-ai/go-barspin/pkg/grip"
	"github.com/opd-ai/go-barspin/pkg/input"
	"github.com/opd-ai/go-barspin/pkg/logging"
	"github.com/opd-ai/go-barspin/pkg/physics"
)

const (
	// fullTurn is one complete 360 degree barspin in radians. Multi-rotation
	// variants are out of scope.
	fullTurn = 2 * math.Pi

	// catchWindowOpenProgress is the spin progress at which the catch
	// window opens. The bars keep spinning while the window is open.
	catchWindowOpenProgress = 0.8
)

// YawSource supplies the signed yaw angular velocity of a hand controller.
// input.PoseSource satisfies it.
type YawSource interface {
	YawAngularVelocity(hand input.Hand) float64
}

// Mechanic is the barspin trick state machine. It reacts to the grip
// system's events, advances its own timers once per frame, and publishes
// trick lifecycle events. It reads the grip system through queries only and
// never mutates it.
type Mechanic struct {
	config Config
	grips  *grip.System
	yaw    YawSource
	bus    *event.Bus
	logger *logging.Logger

	state BarspinState

	// Frame clock in seconds, advanced only by Update. All timing below is
	// measured against it, never against the wall clock, so tests can step
	// time deterministically.
	now float64

	// Attempt context. Meaningful only outside READY; force-cleared on
	// every transition into READY.
	spinDirection        SpinDirection
	spinStartTime        float64
	spinProgress         float64
	currentRotation      float64
	initiatingHand       input.Hand
	hasInitiatingHand    bool
	initiationStartTime  float64
	catchWindowStartTime float64
	firstCatchHand       input.Hand
	hasFirstCatch        bool
	peakYawVelocity      float64
	spinDurationMs       float64

	// Single-shot auto-reset back to READY after CAUGHT or FAILED. Armed
	// with a due time on the frame clock; disarmed by any reset. The state
	// check when it fires makes a stale task a no-op.
	resetArmed bool
	resetDueAt float64

	subs []*event.Subscription
}

// NewMechanic creates a barspin mechanic over the given grip system and
// subscribes it to the grip events on the shared bus. The configuration is
// validated; an invalid configuration is refused.
func NewMechanic(config Config, grips *grip.System, yaw YawSource, bus *event.Bus, logger *logging.Logger) (*Mechanic, error) {
	if err := config.Validate(); err != nil {
		return nil, logging.WrapError(err, "invalid barspin configuration")
	}

	m := &Mechanic{
		config: config,
		grips:  grips,
		yaw:    yaw,
		bus:    bus,
		logger: logger,
		state:  StateReady,
	}

	m.subs = append(m.subs,
		bus.Subscribe(event.GripEnd, m.onGripEnd),
		bus.Subscribe(event.GripStart, m.onGripStart),
	)
	return m, nil
}

// Close unsubscribes the mechanic from the event bus.
func (m *Mechanic) Close() {
	for _, sub := range m.subs {
		sub.Cancel()
	}
	m.subs = nil
}

// State returns the current trick state.
func (m *Mechanic) State() BarspinState {
	return m.state
}

// Direction returns the spin direction of the current attempt.
func (m *Mechanic) Direction() SpinDirection {
	return m.spinDirection
}

// Progress returns the spin progress of the current attempt in [0, 1].
func (m *Mechanic) Progress() float64 {
	return m.spinProgress
}

// Rotation returns the current bar rotation of the attempt in radians.
func (m *Mechanic) Rotation() float64 {
	return m.currentRotation
}

// InitiatingHand returns the hand whose release started the attempt. The
// boolean is false while no attempt is in flight.
func (m *Mechanic) InitiatingHand() (input.Hand, bool) {
	return m.initiatingHand, m.hasInitiatingHand
}

// FirstCatchHand returns the hand that pressed first during the catch
// window. The boolean is false until a first catch lands.
func (m *Mechanic) FirstCatchHand() (input.Hand, bool) {
	return m.firstCatchHand, m.hasFirstCatch
}

// SpinDurationMs returns the attempt's derived spin duration.
func (m *Mechanic) SpinDurationMs() float64 {
	return m.spinDurationMs
}

// Update advances the mechanic by one frame. It must run after the grip
// system's update within the same tick.
func (m *Mechanic) Update(deltaTime float64) {
	m.now += deltaTime
	m.fireDueReset()

	switch m.state {
	case StateInitiated:
		m.trackPeakYaw()
		if m.elapsedMs(m.initiationStartTime) > m.config.InitiationTimeoutMs {
			m.fail()
		}
	case StateSpinning:
		m.advanceSpin()
		if m.spinProgress >= catchWindowOpenProgress {
			m.catchWindowStartTime = m.now
			if m.transitionTo(StateCatchWindow) {
				m.publish(event.CatchWindowOpen, "")
			}
		}
	case StateCatchWindow:
		m.advanceSpin()
		if m.elapsedMs(m.catchWindowStartTime) > m.config.CatchWindowDurationMs {
			m.publish(event.CatchWindowClose, "")
			m.fail()
		}
	}
}

// onGripEnd classifies a hand release against the current state.
func (m *Mechanic) onGripEnd(e event.Event) {
	ge, ok := e.(*event.GripEvent)
	if !ok {
		return
	}
	hand := handFromString(ge.Hand)

	switch m.state {
	case StateReady:
		// A release only initiates when the other hand still holds its
		// grip. A lone release is not a gesture.
		if !m.grips.IsHandAttached(hand.Other()) {
			return
		}
		m.initiatingHand = hand
		m.hasInitiatingHand = true
		m.initiationStartTime = m.now
		m.peakYawVelocity = math.Abs(m.yaw.YawAngularVelocity(hand))
		if m.transitionTo(StateInitiated) {
			m.publish(event.TrickInitiated, hand.String())
		}
	case StateInitiated:
		if hand == m.initiatingHand {
			return
		}
		m.beginSpin()
	}
}

// onGripStart classifies a hand press against the current state.
func (m *Mechanic) onGripStart(e event.Event) {
	ge, ok := e.(*event.GripEvent)
	if !ok {
		return
	}
	hand := handFromString(ge.Hand)

	switch m.state {
	case StateInitiated:
		// Re-gripping before the spin starts abandons the attempt. Not a
		// failure, just back to ready.
		m.resetContext()
		if m.transitionTo(StateReady) {
			m.logger.Debug(context.Background(), "barspin attempt cancelled",
				"hand", hand.String(),
			)
		}
	case StateCatchWindow:
		if !m.hasFirstCatch {
			m.firstCatchHand = hand
			m.hasFirstCatch = true
			m.publish(event.FirstCatch, hand.String())
			return
		}
		if hand == m.firstCatchHand {
			// Same hand pressing twice is not a pair.
			return
		}
		if m.transitionTo(StateCaught) {
			m.publish(event.SecondCatch, hand.String())
			m.publish(event.TrickSuccess, hand.String())
			m.scheduleReset(m.config.SuccessResetDelayMs)
		}
	}
}

// beginSpin fixes the spin direction and derives the spin duration from the
// initiating hand's peak flick velocity, then enters SPINNING.
func (m *Mechanic) beginSpin() {
	if m.initiatingHand == input.RightHand {
		m.spinDirection = DirectionClockwise
	} else {
		m.spinDirection = DirectionCounterClockwise
	}
	m.spinStartTime = m.now
	m.spinProgress = 0
	m.currentRotation = 0
	m.spinDurationMs = physics.MapRange(m.peakYawVelocity,
		m.config.SlowFlickVelocity, m.config.FastFlickVelocity,
		m.config.SpinDurationMaxMs, m.config.SpinDurationMinMs)
	if m.transitionTo(StateSpinning) {
		m.publish(event.TrickSpinning, m.initiatingHand.String())
	}
}

// trackPeakYaw keeps the strongest flick seen while waiting for the second
// release, so a wind-up after the first release still counts.
func (m *Mechanic) trackPeakYaw() {
	v := math.Abs(m.yaw.YawAngularVelocity(m.initiatingHand))
	if v > m.peakYawVelocity {
		m.peakYawVelocity = v
	}
}

// advanceSpin moves spin progress along the derived duration. Progress
// saturates at 1; the catch window timer, not progress, ends the attempt.
func (m *Mechanic) advanceSpin() {
	m.spinProgress = math.Min(m.elapsedMs(m.spinStartTime)/m.spinDurationMs, 1.0)
	m.currentRotation = m.spinProgress * fullTurn
}

// fail moves the attempt to FAILED and arms the delayed auto-reset.
func (m *Mechanic) fail() {
	if m.transitionTo(StateFailed) {
		m.publish(event.TrickFailed, "")
		m.scheduleReset(m.config.FailureResetDelayMs)
	}
}

// scheduleReset arms the single-shot return to READY. Arming replaces any
// previously armed task.
func (m *Mechanic) scheduleReset(delayMs float64) {
	m.resetArmed = true
	m.resetDueAt = m.now + delayMs/1000
}

// fireDueReset performs the armed auto-reset once its due time passes. If
// the state already moved on (external reset, new attempt), the task
// disarms without touching anything.
func (m *Mechanic) fireDueReset() {
	if !m.resetArmed || m.now < m.resetDueAt {
		return
	}
	m.resetArmed = false
	if m.state != StateCaught && m.state != StateFailed {
		return
	}
	m.resetContext()
	m.transitionTo(StateReady)
}

// ResetToReady forces the mechanic back to READY from any state, clearing
// the whole attempt context and disarming any pending auto-reset. This
// bypasses the transition table: it is the external recovery hatch, not a
// gameplay transition.
func (m *Mechanic) ResetToReady() {
	m.resetArmed = false
	m.resetContext()
	if m.state == StateReady {
		return
	}
	previous := m.state
	m.state = StateReady
	m.publishStateChange(previous)
}

// resetContext force-clears every attempt-context field.
func (m *Mechanic) resetContext() {
	m.spinDirection = DirectionNone
	m.spinStartTime = 0
	m.spinProgress = 0
	m.currentRotation = 0
	m.initiatingHand = 0
	m.hasInitiatingHand = false
	m.initiationStartTime = 0
	m.catchWindowStartTime = 0
	m.firstCatchHand = 0
	m.hasFirstCatch = false
	m.peakYawVelocity = 0
	m.spinDurationMs = 0
}

// transitionTo validates and applies a state change. A transition the table
// does not list is rejected, logged and left as a no-op; state corruption
// from a buggy caller is contained here.
func (m *Mechanic) transitionTo(to BarspinState) bool {
	if !canTransition(m.state, to) {
		m.logger.Warn(context.Background(), "rejected invalid barspin transition",
			"from", m.state.String(),
			"to", to.String(),
		)
		return false
	}
	previous := m.state
	m.state = to
	m.publishStateChange(previous)
	return true
}

func (m *Mechanic) publishStateChange(previous BarspinState) {
	m.bus.Publish(event.NewTrickEvent(event.StateChange, m,
		previous.String(), m.state.String(),
		m.spinDirection.String(), m.spinProgress, ""))
}

// publish emits a trick lifecycle event carrying the current snapshot.
func (m *Mechanic) publish(eventType event.Type, hand string) {
	m.bus.Publish(event.NewTrickEvent(eventType, m,
		"", m.state.String(),
		m.spinDirection.String(), m.spinProgress, hand))
}

// elapsedMs returns milliseconds elapsed on the frame clock since start.
func (m *Mechanic) elapsedMs(start float64) float64 {
	return (m.now - start) * 1000
}

// DebugInfo returns a one-line human-readable summary for on-screen
// diagnostics.
func (m *Mechanic) DebugInfo() string {
	hand := "-"
	if m.hasInitiatingHand {
		hand = m.initiatingHand.String()
	}
	return fmt.Sprintf("barspin %s dir=%s progress=%.2f rot=%.2frad hand=%s peak=%.2frad/s",
		m.state, m.spinDirection, m.spinProgress, m.currentRotation, hand, m.peakYawVelocity)
}

// handFromString maps an event payload hand name back to a Hand.
func handFromString(name string) input.Hand {
	if name == "left" {
		return input.LeftHand
	}
	return input.RightHand
}
