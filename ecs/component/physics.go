package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration. Body
// and Shape are filled in by the physics system. The cp space is a side view of
// the world X/Y plane; DepthVelocity moves the body along Z without collision.
// TargetVelocity is staged by controllers and applied by the physics system
// during the next step's velocity pass, ahead of the contact solve.
type PhysicsBody struct {
	Body          *cp.Body
	Shape         *cp.Shape
	Width         float64
	Height        float64
	Mass          float64
	Friction      float64
	Static        bool
	DepthVelocity float64

	TargetVelocity cp.Vector
	HasTarget      bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
