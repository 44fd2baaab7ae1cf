package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/ecs/entity"
	"github.com/milk9111/locomotion/ecs/system"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/prefabs"
)

type simConfig struct {
	Character prefabs.CharacterSpec
	Arena     prefabs.ArenaSpec
	Duration  time.Duration
	// Step is the fixed step in seconds.
	Step float64
}

type simSummary struct {
	Steps       int
	Transitions []locomotion.Transition
	FinalState  locomotion.State
	MaxHeight   float64
	MaxSpeed    float64
}

// visited reports whether any transition entered s.
func (s simSummary) visited(state locomotion.State) bool {
	for _, tr := range s.Transitions {
		if tr.To == state {
			return true
		}
	}
	return false
}

// runSim drives one scripted character headlessly, one fixed step per frame,
// and logs a record for every step.
func runSim(ctx context.Context, cfg simConfig, logger *slog.Logger) (simSummary, error) {
	if cfg.Step <= 0 {
		return simSummary{}, fmt.Errorf("locosim: step must be positive, got %g", cfg.Step)
	}
	if cfg.Character.Script == "" {
		return simSummary{}, errors.New("locosim: character has no input script")
	}

	w := ecs.NewWorld()
	if _, err := entity.LoadArenaToWorld(w, cfg.Arena); err != nil {
		return simSummary{}, err
	}
	player, err := entity.NewCharacter(w, cfg.Character)
	if err != nil {
		return simSummary{}, err
	}
	if _, err := entity.NewCamera(w, cfg.Character.Camera, player); err != nil {
		return simSummary{}, err
	}

	physics := system.NewPhysicsSystem(cfg.Character.Gravity.Vec3())
	frame := ecs.NewScheduler(
		system.NewScriptedInputSystem(logger),
		system.NewLocomotionFrameSystem(logger),
		system.NewCameraFollowSystem(),
	)
	fixed := ecs.NewFixedStepper(cfg.Step, ecs.NewScheduler(system.NewLocomotionStepSystem(), physics))

	total := int(math.Round(cfg.Duration.Seconds() / cfg.Step))
	summary := simSummary{MaxHeight: math.Inf(-1)}
	for summary.Steps < total {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		frame.Update(w)
		summary.Steps += fixed.Advance(w, cfg.Step)

		for _, evt := range w.Events().Drain() {
			if tr, ok := evt.Data.(locomotion.Transition); ok && evt.Type == system.TransitionEvent {
				summary.Transitions = append(summary.Transitions, tr)
			}
		}
		recordStep(w, player, &summary, logger)
	}
	return summary, nil
}

func recordStep(w *ecs.World, player ecs.Entity, summary *simSummary, logger *slog.Logger) {
	t, _ := ecs.Get(w, player, component.TransformComponent)
	loco, _ := ecs.Get(w, player, component.LocomotionComponent)
	if loco.Controller == nil {
		return
	}
	snap := loco.Controller.Snapshot()
	pos, vel := t.Position, snap.Velocity

	summary.FinalState = snap.State
	summary.MaxHeight = max(summary.MaxHeight, pos.Y())
	summary.MaxSpeed = max(summary.MaxSpeed, math.Hypot(vel.X(), vel.Z()))

	logger.Info("step",
		slog.Int("n", summary.Steps),
		slog.Float64("t", w.Clock().Now),
		slog.String("state", snap.State.String()),
		slog.Bool("grounded", snap.Grounded),
		slog.Group("pos", slog.Float64("x", pos.X()), slog.Float64("y", pos.Y()), slog.Float64("z", pos.Z())),
		slog.Group("vel", slog.Float64("x", vel.X()), slog.Float64("y", vel.Y()), slog.Float64("z", vel.Z())),
	)
}
