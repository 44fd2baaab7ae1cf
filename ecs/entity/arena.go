package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/prefabs"
)

// LoadArenaToWorld creates one static ground entity per platform.
func LoadArenaToWorld(w *ecs.World, arena prefabs.ArenaSpec) ([]ecs.Entity, error) {
	out := make([]ecs.Entity, 0, len(arena.Platforms))
	for _, p := range arena.Platforms {
		e, err := NewPlatform(w, p)
		if err != nil {
			return out, fmt.Errorf("arena %q: %w", arena.Name, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func NewPlatform(w *ecs.World, p prefabs.PlatformSpec) (ecs.Entity, error) {
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.TransformComponent, component.Transform{Position: mgl64.Vec3{p.X, p.Y, 0}}); err != nil {
		return 0, fmt.Errorf("platform %q: add transform: %w", p.Name, err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent, component.PhysicsBody{
		Width:    p.Width,
		Height:   p.Height,
		Friction: p.Friction,
		Static:   true,
	}); err != nil {
		return 0, fmt.Errorf("platform %q: add physics body: %w", p.Name, err)
	}
	return e, nil
}
