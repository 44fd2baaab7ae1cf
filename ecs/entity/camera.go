package entity

import (
	"fmt"

	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/prefabs"
)

// NewCamera creates the follow camera, placed at its offset from target.
func NewCamera(w *ecs.World, spec prefabs.CameraSpec, target ecs.Entity) (ecs.Entity, error) {
	pos := spec.Offset.Vec3()
	if t, ok := ecs.Get(w, target, component.TransformComponent); ok {
		pos = t.Position.Add(pos)
	}

	camera := w.CreateEntity()
	if err := ecs.Add(w, camera, component.CameraTagComponent, component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add camera tag: %w", err)
	}
	if err := ecs.Add(w, camera, component.TransformComponent, component.Transform{Position: pos}); err != nil {
		return 0, fmt.Errorf("camera: add transform: %w", err)
	}
	if err := ecs.Add(w, camera, component.CameraComponent, component.Camera{
		Offset:     spec.Offset.Vec3(),
		Yaw:        spec.Yaw,
		Pitch:      spec.Pitch,
		Smoothness: spec.Smoothness,
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}
	return camera, nil
}
