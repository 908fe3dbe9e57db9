// pkg/trick/state.go

// Package trick implements the barspin mechanic: a finite state machine over
// the grip system's hand events plus per-frame timers. One full attempt runs
// READY -> INITIATED -> SPINNING -> CATCH_WINDOW -> CAUGHT/FAILED and back
// to READY; the machine cycles indefinitely across attempts.
package trick

// BarspinState is the trick state machine's current phase.
type BarspinState int

const (
	StateReady BarspinState = iota
	StateInitiated
	StateSpinning
	StateCatchWindow
	StateCaught
	StateFailed
)

// String returns the lowercase state name used in events and debug output.
func (s BarspinState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateInitiated:
		return "initiated"
	case StateSpinning:
		return "spinning"
	case StateCatchWindow:
		return "catch_window"
	case StateCaught:
		return "caught"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SpinDirection is the direction the bars spin during an attempt.
type SpinDirection int

const (
	DirectionNone SpinDirection = iota
	DirectionClockwise
	DirectionCounterClockwise
)

// String returns the lowercase direction name used in events.
func (d SpinDirection) String() string {
	switch d {
	case DirectionClockwise:
		return "clockwise"
	case DirectionCounterClockwise:
		return "counterclockwise"
	default:
		return "none"
	}
}

// validTransitions is the exhaustive transition table. Every state write
// goes through it; anything not listed is rejected as a caller bug.
var validTransitions = map[BarspinState][]BarspinState{
	StateReady:       {StateInitiated},
	StateInitiated:   {StateSpinning, StateReady, StateFailed},
	StateSpinning:    {StateCatchWindow, StateFailed},
	StateCatchWindow: {StateCaught, StateFailed},
	StateCaught:      {StateReady},
	StateFailed:      {StateReady},
}

// canTransition reports whether the table allows from -> to.
func canTransition(from, to BarspinState) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
