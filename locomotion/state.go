package locomotion

import "fmt"

// State is the discrete locomotion state of a character.
type State uint8

const (
	StateGrounded State = iota
	StateJumping
	StateFalling
	StateDashing
)

func (s State) String() string {
	switch s {
	case StateGrounded:
		return "grounded"
	case StateJumping:
		return "jumping"
	case StateFalling:
		return "falling"
	case StateDashing:
		return "dashing"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Valid reports whether s is one of the four locomotion states.
func (s State) Valid() bool {
	return s <= StateDashing
}

// Transition describes a state change observed by the controller.
type Transition struct {
	From State
	To   State
	At   float64
}
