// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Grip events, fired by the grip system once per hand-state transition.
const (
	EnterProximity Type = "enter_proximity"
	ExitProximity  Type = "exit_proximity"
	GripStart      Type = "grip_start"
	GripEnd        Type = "grip_end"
)

// Trick events, fired by the barspin mechanic as an attempt progresses.
const (
	StateChange      Type = "state_change"
	TrickInitiated   Type = "trick_initiated"
	TrickSpinning    Type = "trick_spinning"
	CatchWindowOpen  Type = "catch_window_open"
	CatchWindowClose Type = "catch_window_close"
	FirstCatch       Type = "first_catch"
	SecondCatch      Type = "second_catch"
	TrickSuccess     Type = "trick_success"
	TrickFailed      Type = "trick_failed"
)

// Session lifecycle events, fired by the rig.
const (
	SessionStarted Type = "session_started"
	SessionStopped Type = "session_stopped"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler so it can be removed later.
// Cancel unsubscribes the handler; calling it more than once is harmless.
type Subscription struct {
	ID     uint64
	Type   Type
	Cancel func()
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching. Delivery is synchronous
// and in registration order; the set of handlers for an in-flight Publish is
// snapshotted up front, so handlers may subscribe or unsubscribe without
// affecting the current delivery.
type Bus struct {
	handlers map[Type][]registration
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registration),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type and returns a
// subscription handle that can cancel the registration.
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{
		id:      id,
		handler: handler,
	})
	b.mu.Unlock()

	return &Subscription{
		ID:   id,
		Type: eventType,
		Cancel: func() {
			b.unsubscribe(eventType, id)
		},
	}
}

// unsubscribe removes the registration with the given id, if still present.
func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[eventType]
	for i, reg := range regs {
		if reg.id == id {
			b.handlers[eventType] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers. Each handler registered
// at the moment Publish is called receives the event exactly once.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	regs := b.handlers[event.GetType()]
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)
	b.mu.RUnlock()

	for _, reg := range snapshot {
		reg.handler(event)
	}
}

// Specific event implementations

// GripEvent carries hand-level grip transitions from the grip system.
type GripEvent struct {
	BaseEvent
	Hand     string
	Distance float64
}

// NewGripEvent creates a new grip event
func NewGripEvent(eventType Type, source interface{}, hand string, distance float64) *GripEvent {
	return &GripEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Hand:     hand,
		Distance: distance,
	}
}

// TrickEvent carries a snapshot of the barspin mechanic at the moment an
// attempt advanced. Optional fields are zero-valued when not meaningful for
// the event kind.
type TrickEvent struct {
	BaseEvent
	PreviousState string
	CurrentState  string
	SpinDirection string
	SpinProgress  float64
	Hand          string
}

// NewTrickEvent creates a new trick event
func NewTrickEvent(eventType Type, source interface{}, previous, current, direction string, progress float64, hand string) *TrickEvent {
	return &TrickEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		PreviousState: previous,
		CurrentState:  current,
		SpinDirection: direction,
		SpinProgress:  progress,
		Hand:          hand,
	}
}
