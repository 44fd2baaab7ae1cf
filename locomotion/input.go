package locomotion

import "github.com/go-gl/mathgl/mgl64"

// EventKind identifies an input event delivered to a controller.
type EventKind uint8

const (
	EventMove EventKind = iota + 1
	EventJumpPress
	EventJumpRelease
	EventDashPress
)

func (k EventKind) String() string {
	switch k {
	case EventMove:
		return "move"
	case EventJumpPress:
		return "jump_press"
	case EventJumpRelease:
		return "jump_release"
	case EventDashPress:
		return "dash_press"
	default:
		return "unknown"
	}
}

// InputEvent is a single edge or value change from the input system.
type InputEvent struct {
	Kind EventKind
	// At is the absolute time of the event in seconds.
	At float64
	// Move is only meaningful for EventMove.
	Move mgl64.Vec2
}

// InputQueue buffers input events between ticks. The controller drains it once
// at the start of every Update and FixedUpdate.
type InputQueue struct {
	items []InputEvent
}

// Push adds an event.
func (q *InputQueue) Push(evt InputEvent) {
	if q == nil || evt.Kind == 0 {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of pending events.
func (q *InputQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all pending events in arrival order and clears the queue.
func (q *InputQueue) Drain() []InputEvent {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// normalizeInput mirrors a normalized stick vector; zero stays zero.
func normalizeInput(v mgl64.Vec2) mgl64.Vec2 {
	l := v.Len()
	if l < 1e-9 {
		return mgl64.Vec2{}
	}
	return v.Mul(1 / l)
}
