package entity

import (
	"fmt"

	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/prefabs"
)

// NewCharacter creates a player character from spec. The physics body and the
// locomotion controller are attached later by the physics and locomotion systems.
func NewCharacter(w *ecs.World, spec prefabs.CharacterSpec) (ecs.Entity, error) {
	if err := spec.Validate(); err != nil {
		return 0, fmt.Errorf("character %q: %w", spec.Name, err)
	}

	e := w.CreateEntity()
	if err := addCharacterComponents(w, e, spec); err != nil {
		w.DestroyEntity(e)
		return 0, fmt.Errorf("character %q: %w", spec.Name, err)
	}
	return e, nil
}

func NewCharacterFromPrefab(w *ecs.World, filename string) (ecs.Entity, error) {
	spec, err := prefabs.LoadCharacterSpec(filename)
	if err != nil {
		return 0, err
	}
	return NewCharacter(w, spec)
}

func addCharacterComponents(w *ecs.World, e ecs.Entity, spec prefabs.CharacterSpec) error {
	if err := ecs.Add(w, e, component.PlayerTagComponent, component.PlayerTag{}); err != nil {
		return fmt.Errorf("add player tag: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent, component.Transform{Position: spec.Transform.Vec3()}); err != nil {
		return fmt.Errorf("add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent, component.PhysicsBody{
		Width:    spec.Body.Width,
		Height:   spec.Body.Height,
		Mass:     spec.Body.Mass,
		Friction: spec.Body.Friction,
	}); err != nil {
		return fmt.Errorf("add physics body: %w", err)
	}
	if err := ecs.Add(w, e, component.GroundSensorComponent, component.GroundSensor{Length: spec.GroundProbe.Length}); err != nil {
		return fmt.Errorf("add ground sensor: %w", err)
	}
	if err := ecs.Add(w, e, component.InputComponent, component.Input{}); err != nil {
		return fmt.Errorf("add input: %w", err)
	}
	if err := ecs.Add(w, e, component.LocomotionComponent, component.Locomotion{
		Tuning:  spec.Tuning,
		Gravity: spec.Gravity.Vec3(),
	}); err != nil {
		return fmt.Errorf("add locomotion: %w", err)
	}
	if spec.Script != "" {
		if err := ecs.Add(w, e, component.InputScriptComponent, component.InputScript{Path: spec.Script}); err != nil {
			return fmt.Errorf("add input script: %w", err)
		}
	}
	return nil
}
