package system

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/locomotion"
)

// TransitionEvent is the ecs.Event type pushed for every locomotion state change.
// Its Data is a locomotion.Transition.
const TransitionEvent = "locomotion.transition"

// LocomotionFrameSystem feeds input into each character controller and runs its
// per-frame state classification. Controllers are created on first sight of an
// entity whose physics body exists.
type LocomotionFrameSystem struct {
	log    *slog.Logger
	failed map[ecs.Entity]bool
}

func NewLocomotionFrameSystem(logger *slog.Logger) *LocomotionFrameSystem {
	return &LocomotionFrameSystem{log: loggerOrDefault(logger), failed: map[ecs.Entity]bool{}}
}

func (s *LocomotionFrameSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	now := w.Clock().Now
	cam := activeCamera(w)

	for e := range s.failed {
		if !w.IsAlive(e) {
			delete(s.failed, e)
		}
	}

	for _, e := range w.Query(component.LocomotionComponent.Kind(), component.PhysicsBodyComponent.Kind(), component.GroundSensorComponent.Kind()) {
		loco, _ := ecs.GetPtr(w, e, component.LocomotionComponent)
		if loco.Controller == nil {
			if s.failed[e] {
				continue
			}
			c, err := s.newController(w, e, loco)
			if err != nil {
				s.failed[e] = true
				s.log.Error("locomotion controller not created", slog.String("entity", e.String()), slog.Any("err", err))
				continue
			}
			if c == nil {
				continue
			}
			loco.Controller = c
		}

		c := loco.Controller
		c.SetCamera(cam)
		if input, ok := ecs.GetPtr(w, e, component.InputComponent); ok {
			forwardInput(c, input, now)
		}
		c.Update(now)
	}
}

func (s *LocomotionFrameSystem) newController(w *ecs.World, e ecs.Entity, loco *component.Locomotion) (*locomotion.Controller, error) {
	pb, _ := ecs.Get(w, e, component.PhysicsBodyComponent)
	if pb.Body == nil {
		// the physics system has not created the body yet
		return nil, nil
	}

	return locomotion.New(&entityBody{w: w, e: e}, entitySensor(w, e), loco.Tuning, locomotion.Options{
		Gravity: loco.Gravity,
		Logger:  s.log.With(slog.String("entity", e.String())),
		OnTransition: func(tr locomotion.Transition) {
			w.Events().Push(ecs.Event{Entity: e, Type: TransitionEvent, Data: tr})
		},
	})
}

// forwardInput turns the frame's input component into controller events and
// clears its edge flags.
func forwardInput(c *locomotion.Controller, input *component.Input, now float64) {
	c.Move(input.Move, now)
	if input.JumpPressed {
		c.PressJump(now)
	}
	if input.JumpReleased {
		c.ReleaseJump(now)
	}
	if input.DashPressed {
		c.PressDash(now)
	}
	input.JumpPressed = false
	input.JumpReleased = false
	input.DashPressed = false
}

// activeCamera returns the orientation of the first tagged camera, or nil.
func activeCamera(w *ecs.World) locomotion.Camera {
	e, ok := w.First(component.CameraTagComponent.Kind(), component.CameraComponent.Kind())
	if !ok {
		return nil
	}
	cam, _ := ecs.Get(w, e, component.CameraComponent)
	return locomotion.OrbitCamera{Yaw: cam.Yaw, Pitch: cam.Pitch}
}

// LocomotionStepSystem runs one controller fixed step per character, before the
// physics step integrates the velocities it wrote.
type LocomotionStepSystem struct{}

func NewLocomotionStepSystem() *LocomotionStepSystem {
	return &LocomotionStepSystem{}
}

func (s *LocomotionStepSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	clock := w.Clock()
	ecs.ForEach(w, component.LocomotionComponent.Kind(), func(e ecs.Entity, loco *component.Locomotion) {
		if loco.Controller == nil {
			return
		}
		loco.Controller.FixedUpdate(clock.Now, clock.Delta)
	})
}

// entityBody exposes an entity's cp body as a 3D locomotion body. The cp space
// carries X and Y; depth (Z) velocity lives on the component and is integrated
// by the physics system. Written X/Y velocity is staged on the component and
// reaches the body inside the next space step, so contacts resolve it before it
// moves the body.
type entityBody struct {
	w *ecs.World
	e ecs.Entity
}

func (b *entityBody) Velocity() mgl64.Vec3 {
	pb, ok := ecs.Get(b.w, b.e, component.PhysicsBodyComponent)
	if !ok || pb.Body == nil {
		return mgl64.Vec3{}
	}
	v := pb.Body.Velocity()
	return mgl64.Vec3{v.X, v.Y, pb.DepthVelocity}
}

func (b *entityBody) SetVelocity(v mgl64.Vec3) {
	pb, ok := ecs.GetPtr(b.w, b.e, component.PhysicsBodyComponent)
	if !ok || pb.Body == nil {
		return
	}
	pb.TargetVelocity = cp.Vector{X: v.X(), Y: v.Y()}
	pb.HasTarget = true
	pb.DepthVelocity = v.Z()
}

func entitySensor(w *ecs.World, e ecs.Entity) locomotion.GroundSensor {
	return locomotion.GroundSensorFunc(func() bool {
		gs, ok := ecs.Get(w, e, component.GroundSensorComponent)
		return ok && gs.Grounded
	})
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
