// pkg/grip/zone.go

// Package grip tracks both hands' proximity and attachment to the virtual
// handlebar grips. It turns continuous controller distance and button
// signals into discrete grip events and an authoritative attachment flag,
// which the trick mechanic layers its state machine on top of.
package grip

import (
	"fmt"

	"github.com/opd-ai/go-barspin/pkg/input"
	"github.com/opd-ai/go-barspin/pkg/physics"
)

// State is the per-hand proximity/attachment state.
type State int

const (
	StateIdle State = iota
	StateNear
	StateGripping
)

// String returns the lowercase state name used in events and debug output.
func (s State) String() string {
	switch s {
	case StateNear:
		return "near"
	case StateGripping:
		return "gripping"
	default:
		return "idle"
	}
}

// Zone is one hand's grip anchor plus its capture thresholds. The anchor
// itself lives in the scene graph and moves with the handlebar geometry;
// the zone only holds the tuning around it.
type Zone struct {
	Side               input.Hand
	Anchor             input.GripAnchor
	ProximityThreshold float64
	GrabThreshold      float64
}

// NewZone creates a grip zone for one side of the handlebars. The grab
// threshold must be strictly tighter than the proximity threshold.
func NewZone(side input.Hand, anchor input.GripAnchor, proximityThreshold, grabThreshold float64) (*Zone, error) {
	if anchor == nil {
		return nil, fmt.Errorf("grip zone %s: anchor is nil", side)
	}
	if proximityThreshold <= 0 || grabThreshold <= 0 {
		return nil, fmt.Errorf("grip zone %s: thresholds must be positive (proximity=%g, grab=%g)",
			side, proximityThreshold, grabThreshold)
	}
	if grabThreshold >= proximityThreshold {
		return nil, fmt.Errorf("grip zone %s: grab threshold %g must be below proximity threshold %g",
			side, grabThreshold, proximityThreshold)
	}
	return &Zone{
		Side:               side,
		Anchor:             anchor,
		ProximityThreshold: proximityThreshold,
		GrabThreshold:      grabThreshold,
	}, nil
}

// HandData is one hand's per-frame grip snapshot. It is mutated exclusively
// by System.Update, once per frame.
type HandData struct {
	IsNear     bool
	WasNear    bool
	IsPressed  bool
	WasPressed bool
	Distance   float64
	State      State

	IsAttached       bool
	AttachedSide     input.Hand
	AttachmentOffset physics.Vector3D
}
