// cmd/simulator/scenario.go
package main

import (
	"fmt"

	"github.com/opd-ai/go-barspin/pkg/config"
	"github.com/opd-ai/go-barspin/pkg/input"
	"github.com/opd-ai/go-barspin/pkg/physics"
)

// scriptStep mutates the scripted pose source once the session clock
// reaches its time.
type scriptStep struct {
	at     float64
	action func(pose *input.ScriptedPoseSource)
}

// scenario is a named sequence of controller actions.
type scenario struct {
	name  string
	steps []scriptStep
}

// run applies every step due at or before now, in order. Returns the number
// of steps applied.
func (s *scenario) run(pose *input.ScriptedPoseSource, now float64, applied int) int {
	for applied < len(s.steps) && s.steps[applied].at <= now {
		s.steps[applied].action(pose)
		applied++
	}
	return applied
}

// gripBoth places both hands on their anchors with buttons pressed.
func gripBoth(cfg *config.RigConfig) func(pose *input.ScriptedPoseSource) {
	return func(pose *input.ScriptedPoseSource) {
		pose.MoveHand(input.LeftHand, cfg.Grip.LeftAnchor)
		pose.MoveHand(input.RightHand, cfg.Grip.RightAnchor)
		pose.PressGrip(input.LeftHand, true)
		pose.PressGrip(input.RightHand, true)
	}
}

// release lets go of one grip with the given flick strength.
func release(hand input.Hand, flick float64) func(pose *input.ScriptedPoseSource) {
	return func(pose *input.ScriptedPoseSource) {
		pose.SetYawVelocity(hand, flick)
		pose.PressGrip(hand, false)
	}
}

// regrip presses one grip button again.
func regrip(hand input.Hand) func(pose *input.ScriptedPoseSource) {
	return func(pose *input.ScriptedPoseSource) {
		pose.PressGrip(hand, true)
	}
}

// drift moves a hand away from its anchor so it leaves the grip zone.
func drift(hand input.Hand, offset physics.Vector3D) func(pose *input.ScriptedPoseSource) {
	return func(pose *input.ScriptedPoseSource) {
		pose.MoveHand(hand, offset)
	}
}

// buildScenario returns the named scripted ride.
func buildScenario(name string, cfg *config.RigConfig) (*scenario, error) {
	switch name {
	case "happy":
		// Full barspin: right-hand flick, both hands catch in the window.
		return &scenario{name: name, steps: []scriptStep{
			{at: 0.1, action: gripBoth(cfg)},
			{at: 1.0, action: release(input.RightHand, 6.0)},
			{at: 1.2, action: release(input.LeftHand, 0)},
			{at: 2.2, action: regrip(input.LeftHand)},
			{at: 2.3, action: regrip(input.RightHand)},
		}}, nil
	case "timeout":
		// Spin thrown but never caught; the window closes on its own.
		return &scenario{name: name, steps: []scriptStep{
			{at: 0.1, action: gripBoth(cfg)},
			{at: 1.0, action: release(input.RightHand, 9.0)},
			{at: 1.2, action: release(input.LeftHand, 0)},
		}}, nil
	case "cancel":
		// The rider thinks better of it before the second hand releases.
		return &scenario{name: name, steps: []scriptStep{
			{at: 0.1, action: gripBoth(cfg)},
			{at: 1.0, action: release(input.RightHand, 4.0)},
			{at: 1.4, action: regrip(input.RightHand)},
		}}, nil
	case "wander":
		// Hands drifting in and out of the zones; no trick, plenty of
		// proximity events for telemetry subscribers.
		away := physics.Vector3D{X: 0, Y: 1.3, Z: 0.4}
		return &scenario{name: name, steps: []scriptStep{
			{at: 0.1, action: gripBoth(cfg)},
			{at: 1.0, action: release(input.LeftHand, 0)},
			{at: 1.2, action: drift(input.LeftHand, away)},
			{at: 2.0, action: drift(input.LeftHand, cfg.Grip.LeftAnchor)},
			{at: 2.4, action: regrip(input.LeftHand)},
		}}, nil
	default:
		return nil, fmt.Errorf("unknown scenario %q", name)
	}
}
