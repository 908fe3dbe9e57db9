// pkg/engine/rig.go

// Package engine ties the trick core together into a frame-driven session:
// pose source in, grip system before trick mechanic within every tick, and
// the steering/haptic glue on top.
package engine

import (
	"fmt"
	"time"

	"github.com/opd-ai/go-barspin/pkg/config"
	"github.com/opd-ai/go-barspin/pkg/event"
	"github.com/opd-ai/go-barspin/pkg/grip"
	"github.com/opd-ai/go-barspin/pkg/input"
	"github.com/opd-ai/go-barspin/pkg/logging"
	"github.com/opd-ai/go-barspin/pkg/trick"
)

// RigStatus is the session lifecycle phase.
type RigStatus int

const (
	RigStatusWaiting RigStatus = iota
	RigStatusActive
	RigStatusStopped
)

// Rig is one rider's session: the grip system, the barspin mechanic and the
// rotation glue between them, advanced one tick per rendered frame. All
// mutation happens on the caller's frame loop; the rig owns no goroutines.
type Rig struct {
	Config   *config.RigConfig
	Pose     input.PoseSource
	Grips    *grip.System
	Mechanic *trick.Mechanic
	EventBus *event.Bus

	Running     bool
	Status      RigStatus
	CurrentTick uint64
	LastUpdate  time.Time
	StartTime   time.Time

	// steeringAngle is the non-trick handlebar rotation read from both
	// attached hands. It freezes at zero while a trick is in flight.
	steeringAngle float64

	logger *logging.Logger
}

// NewRig assembles a session from a validated configuration, a pose source
// and the two grip anchors owned by the scene graph.
func NewRig(cfg *config.RigConfig, pose input.PoseSource, leftAnchor, rightAnchor input.GripAnchor, logger *logging.Logger) (*Rig, error) {
	if err := cfg.Validate(); err != nil {
		return nil, logging.WrapError(err, "invalid rig configuration")
	}

	bus := event.NewEventBus()
	grips := grip.NewSystem(pose, bus)

	leftZone, err := grip.NewZone(input.LeftHand, leftAnchor, cfg.Grip.ProximityThreshold, cfg.Grip.GrabThreshold)
	if err != nil {
		return nil, err
	}
	rightZone, err := grip.NewZone(input.RightHand, rightAnchor, cfg.Grip.ProximityThreshold, cfg.Grip.GrabThreshold)
	if err != nil {
		return nil, err
	}
	grips.SetZone(leftZone)
	grips.SetZone(rightZone)

	mechanic, err := trick.NewMechanic(cfg.Trick, grips, pose, bus, logger)
	if err != nil {
		return nil, err
	}

	return &Rig{
		Config:   cfg,
		Pose:     pose,
		Grips:    grips,
		Mechanic: mechanic,
		EventBus: bus,
		logger:   logger,
	}, nil
}

// Start marks the session active and begins counting ticks.
func (r *Rig) Start() {
	r.Running = true
	r.Status = RigStatusActive
	r.StartTime = time.Now()
	r.LastUpdate = time.Now()
	r.EventBus.Publish(&event.BaseEvent{
		EventType: event.SessionStarted,
		Source:    r,
	})
}

// Stop halts the session.
func (r *Rig) Stop() {
	r.Running = false
	r.Status = RigStatusStopped
	r.Mechanic.Close()
	r.EventBus.Publish(&event.BaseEvent{
		EventType: event.SessionStopped,
		Source:    r,
	})
}

// Update advances the session by one tick using wall-clock delta time.
func (r *Rig) Update() {
	r.Step(r.calculateDeltaTime())
}

// Step advances the session by one tick of exactly deltaTime seconds. The
// grip system runs first so the mechanic's transition logic sees this
// frame's attachment state.
func (r *Rig) Step(deltaTime float64) {
	if !r.Running {
		return
	}

	r.Grips.Update(deltaTime)
	r.Mechanic.Update(deltaTime)
	r.updateSteering()
	r.CurrentTick++
}

// calculateDeltaTime calculates the time since the last update and caps it.
func (r *Rig) calculateDeltaTime() float64 {
	now := time.Now()
	deltaTime := now.Sub(r.LastUpdate).Seconds()
	r.LastUpdate = now

	// Cap delta time so a long hitch cannot skip the catch window.
	if deltaTime > 0.1 {
		deltaTime = 0.1
	}
	return deltaTime
}

// updateSteering reads the non-trick handlebar rotation from both attached
// hands. While an attempt is in flight the bars belong to the spin.
func (r *Rig) updateSteering() {
	if r.Mechanic.State() == trick.StateReady && r.Grips.AreBothHandsAttached() {
		r.steeringAngle = r.Grips.CalculateHandlebarRotation()
		return
	}
	r.steeringAngle = 0
}

// SteeringAngle returns the current non-trick handlebar steering angle in
// radians.
func (r *Rig) SteeringAngle() float64 {
	return r.steeringAngle
}

// HandlebarAngle returns the angle the presentation layer should render the
// bars at: the spin rotation while an attempt is in flight (signed by spin
// direction), the steering angle otherwise.
func (r *Rig) HandlebarAngle() float64 {
	switch r.Mechanic.State() {
	case trick.StateSpinning, trick.StateCatchWindow, trick.StateCaught:
		rotation := r.Mechanic.Rotation()
		if r.Mechanic.Direction() == trick.DirectionClockwise {
			return -rotation
		}
		return rotation
	default:
		return r.steeringAngle
	}
}

// DebugInfo returns a combined one-line summary of both core systems.
func (r *Rig) DebugInfo() string {
	return fmt.Sprintf("tick=%d %s | %s | steer=%.2frad",
		r.CurrentTick, r.Grips.DebugInfo(), r.Mechanic.DebugInfo(), r.steeringAngle)
}
