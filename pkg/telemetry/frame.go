// pkg/telemetry/frame.go

// Package telemetry bridges the rig's event bus to out-of-process feedback,
// UI and audio layers over a websocket. Every grip and trick event is
// forwarded as a JSON frame; subscribers are pure consumers and anything
// they send back is discarded.
package telemetry

import (
	"encoding/json"

	"github.com/opd-ai/go-barspin/pkg/event"
)

// Frame is the wire representation of one rig event.
type Frame struct {
	Type string `json:"type"`

	// Grip event fields.
	Hand     string  `json:"hand,omitempty"`
	Distance float64 `json:"distance,omitempty"`

	// Trick event fields.
	PreviousState string  `json:"previousState,omitempty"`
	CurrentState  string  `json:"currentState,omitempty"`
	SpinDirection string  `json:"spinDirection,omitempty"`
	SpinProgress  float64 `json:"spinProgress,omitempty"`
}

// frameFromEvent converts a bus event to its wire frame. Events with no
// wire mapping return ok=false and are not forwarded.
func frameFromEvent(e event.Event) (Frame, bool) {
	switch ev := e.(type) {
	case *event.GripEvent:
		return Frame{
			Type:     string(ev.GetType()),
			Hand:     ev.Hand,
			Distance: ev.Distance,
		}, true
	case *event.TrickEvent:
		return Frame{
			Type:          string(ev.GetType()),
			Hand:          ev.Hand,
			PreviousState: ev.PreviousState,
			CurrentState:  ev.CurrentState,
			SpinDirection: ev.SpinDirection,
			SpinProgress:  ev.SpinProgress,
		}, true
	case *event.BaseEvent:
		return Frame{Type: string(ev.GetType())}, true
	default:
		return Frame{}, false
	}
}

// Marshal encodes the frame for the wire.
func (f Frame) Marshal() ([]byte, error) {
	return json.Marshal(f)
}

// bridgedEvents is every event type forwarded to telemetry clients.
var bridgedEvents = []event.Type{
	event.EnterProximity,
	event.ExitProximity,
	event.GripStart,
	event.GripEnd,
	event.StateChange,
	event.TrickInitiated,
	event.TrickSpinning,
	event.CatchWindowOpen,
	event.CatchWindowClose,
	event.FirstCatch,
	event.SecondCatch,
	event.TrickSuccess,
	event.TrickFailed,
	event.SessionStarted,
	event.SessionStopped,
}
