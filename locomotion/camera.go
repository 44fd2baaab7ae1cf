package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world up axis. The horizontal plane is X/Z.
var Up = mgl64.Vec3{0, 1, 0}

// Camera exposes the active view orientation in world space.
type Camera interface {
	Forward() mgl64.Vec3
	Right() mgl64.Vec3
}

// FixedCamera is a camera with explicit axes.
type FixedCamera struct {
	ForwardAxis mgl64.Vec3
	RightAxis   mgl64.Vec3
}

func (c FixedCamera) Forward() mgl64.Vec3 { return c.ForwardAxis }
func (c FixedCamera) Right() mgl64.Vec3   { return c.RightAxis }

// OrbitCamera derives its axes from yaw and pitch in radians. Yaw 0 looks down +Z
// with +X to the right; positive pitch tilts the view downward.
type OrbitCamera struct {
	Yaw   float64
	Pitch float64
}

func (c OrbitCamera) Forward() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	return mgl64.Vec3{math.Sin(c.Yaw) * cp, -math.Sin(c.Pitch), math.Cos(c.Yaw) * cp}
}

func (c OrbitCamera) Right() mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(c.Yaw), 0, -math.Sin(c.Yaw)}
}

// Flatten projects v onto the horizontal plane and normalizes it. A vertical or
// zero vector flattens to zero.
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	h := mgl64.Vec3{v.X(), 0, v.Z()}
	l := h.Len()
	if l < 1e-9 {
		return mgl64.Vec3{}
	}
	return h.Mul(1 / l)
}

// DesiredVelocity maps a 2D input onto the camera's horizontal axes and scales it
// to maxSpeed. Zero input or a nil camera yields zero.
func DesiredVelocity(input mgl64.Vec2, cam Camera, maxSpeed float64) mgl64.Vec3 {
	if cam == nil || (input.X() == 0 && input.Y() == 0) {
		return mgl64.Vec3{}
	}
	forward := Flatten(cam.Forward())
	right := Flatten(cam.Right())
	dir := forward.Mul(input.Y()).Add(right.Mul(input.X()))
	return dir.Mul(maxSpeed)
}
