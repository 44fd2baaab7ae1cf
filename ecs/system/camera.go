package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
)

// CameraFollowSystem keeps every tagged camera at its offset from the player.
type CameraFollowSystem struct{}

func NewCameraFollowSystem() *CameraFollowSystem {
	return &CameraFollowSystem{}
}

func (cs *CameraFollowSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	player, ok := w.First(component.PlayerTagComponent.Kind(), component.TransformComponent.Kind())
	if !ok {
		return
	}
	target, _ := ecs.Get(w, player, component.TransformComponent)

	for _, e := range w.Query(component.CameraTagComponent.Kind(), component.CameraComponent.Kind(), component.TransformComponent.Kind()) {
		cam, _ := ecs.Get(w, e, component.CameraComponent)
		camTransform, _ := ecs.GetPtr(w, e, component.TransformComponent)

		goal := target.Position.Add(cam.Offset)
		t := 1 - common.Clamp(cam.Smoothness, 0, 1)
		camTransform.Position = mgl64.Vec3{
			common.Lerp(camTransform.Position.X(), goal.X(), t),
			common.Lerp(camTransform.Position.Y(), goal.Y(), t),
			common.Lerp(camTransform.Position.Z(), goal.Z(), t),
		}
	}
}
