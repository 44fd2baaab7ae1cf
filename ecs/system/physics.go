package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
)

// Shape categories. Ground probes only see categoryGround, so a character's
// own collider never counts as ground.
const (
	categoryGround uint = 1 << iota
	categoryCharacter
)

var groundProbeFilter = cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categoryGround)

// PhysicsSystem owns the Chipmunk space. The space is a side view of the world:
// cp X/Y are world X/Y and world Z is integrated without collision. Characters
// opt out of the space gravity since their controller applies its own.
type PhysicsSystem struct {
	space    *cp.Space
	entities map[ecs.Entity]*bodyInfo
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool

	// staged controller velocity, consumed by the body's velocity func
	target    cp.Vector
	hasTarget bool
}

func NewPhysicsSystem(gravity mgl64.Vec3) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: gravity.X(), Y: gravity.Y()})
	return &PhysicsSystem{
		space:    space,
		entities: make(map[ecs.Entity]*bodyInfo),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || ps.space == nil || w == nil {
		return
	}
	dt := w.Clock().Delta
	if dt <= 0 {
		return
	}

	ps.syncEntities(w)
	ps.stageVelocities(w)
	ps.space.Step(dt)
	ps.syncTransforms(w, dt)
	ps.probeGround(w)
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		if _, ok := ps.entities[e]; ok {
			continue
		}
		bodyComp, _ := ecs.GetPtr(w, e, component.PhysicsBodyComponent)
		transform, _ := ecs.Get(w, e, component.TransformComponent)
		character := ecs.Has(w, e, component.LocomotionComponent)
		probed := character || ecs.Has(w, e, component.GroundSensorComponent)

		info := ps.createBodyInfo(transform, *bodyComp, character, probed)
		ps.entities[e] = info
		bodyComp.Body = info.body
		bodyComp.Shape = info.shape
	}
}

// createBodyInfo builds the cp body for an entity. Probed bodies are kept out of
// the ground category so a sensor never hits its own collider.
func (ps *PhysicsSystem) createBodyInfo(transform component.Transform, bodyComp component.PhysicsBody, character, probed bool) *bodyInfo {
	width, height := bodyComp.Width, bodyComp.Height
	if width <= 0 || height <= 0 {
		width, height = 1, 1
	}
	pos := transform.Position

	if bodyComp.Static {
		bb := cp.BB{L: pos.X() - width/2, B: pos.Y() - height/2, R: pos.X() + width/2, T: pos.Y() + height/2}
		shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
		shape.SetFriction(bodyComp.Friction)
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryGround, cp.ALL_CATEGORIES))
		ps.space.AddShape(shape)
		return &bodyInfo{body: ps.space.StaticBody, shape: shape, static: true}
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}
	// characters never tip over
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: pos.X(), Y: pos.Y()})

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(bodyComp.Friction)
	category := categoryGround
	if probed {
		category = categoryCharacter
	}
	info := &bodyInfo{body: body, shape: shape}
	if character {
		// cp moves bodies before it integrates velocities and solves contacts,
		// so the controller's velocity lands here rather than ahead of Step.
		body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
			if info.hasTarget {
				body.SetVelocityVector(info.target)
				info.hasTarget = false
			}
			cp.BodyUpdateVelocity(body, cp.Vector{}, damping, dt)
		})
	}
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, category, cp.ALL_CATEGORIES))

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	return info
}

// stageVelocities hands each body the velocity its controller wrote this step.
func (ps *PhysicsSystem) stageVelocities(w *ecs.World) {
	ecs.ForEach(w, component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody) {
		if !bodyComp.HasTarget {
			return
		}
		bodyComp.HasTarget = false
		info, ok := ps.entities[e]
		if !ok || info.static {
			return
		}
		info.target = bodyComp.TargetVelocity
		info.hasTarget = true
		info.body.Activate()
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World, dt float64) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Static || bodyComp.Body == nil {
			return
		}
		pos := bodyComp.Body.Position()
		z := transform.Position.Z() + bodyComp.DepthVelocity*dt
		transform.Position = mgl64.Vec3{pos.X, pos.Y, z}
	})
}

// probeGround casts each sensor straight down from its body center.
func (ps *PhysicsSystem) probeGround(w *ecs.World) {
	ecs.ForEach2(w, component.GroundSensorComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, sensor *component.GroundSensor, bodyComp *component.PhysicsBody) {
		if bodyComp.Body == nil {
			sensor.Grounded = false
			return
		}
		start := bodyComp.Body.Position()
		end := cp.Vector{X: start.X, Y: start.Y - sensor.Length}
		hit := ps.space.SegmentQueryFirst(start, end, 0, groundProbeFilter)
		sensor.Grounded = hit.Shape != nil
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent) {
			continue
		}
		if info.shape != nil {
			ps.space.RemoveShape(info.shape)
		}
		if info.body != nil && !info.static {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
	}
}
