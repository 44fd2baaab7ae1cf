package component

import "github.com/go-gl/mathgl/mgl64"

// Camera follows the player at Offset. Smoothness of 0 snaps every frame;
// values toward 1 lag further behind.
type Camera struct {
	Offset     mgl64.Vec3
	Yaw        float64
	Pitch      float64
	Smoothness float64
}

var CameraComponent = NewComponent[Camera]()
