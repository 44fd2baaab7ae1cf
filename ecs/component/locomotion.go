package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/locomotion"
)

// Locomotion configures a character controller. Controller is created lazily
// by the locomotion systems from Tuning and Gravity.
type Locomotion struct {
	Tuning     locomotion.Tuning
	Gravity    mgl64.Vec3
	Controller *locomotion.Controller
}

var LocomotionComponent = NewComponent[Locomotion]()
