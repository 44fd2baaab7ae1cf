package component

import "github.com/go-gl/mathgl/mgl64"

// Input stores per-frame input state for an entity. The Pressed/Released flags
// are edges and only hold for the frame they happened in.
type Input struct {
	Move         mgl64.Vec2
	Jump         bool
	JumpPressed  bool
	JumpReleased bool
	DashPressed  bool
}

var InputComponent = NewComponent[Input]()
