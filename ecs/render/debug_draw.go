package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"golang.org/x/image/colornames"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 0.1
)

// DebugView maps world X/Y (Y up) onto the screen around a center point.
type DebugView struct {
	CenterX float64
	CenterY float64
	// Scale is pixels per world unit.
	Scale float64
}

// ViewFromCamera centers the view on the first tagged camera, looking down its
// offset so the player stays in frame.
func ViewFromCamera(w *ecs.World, scale float64) DebugView {
	view := DebugView{Scale: scale}
	camEntity, ok := w.First(component.CameraTagComponent.Kind(), component.TransformComponent.Kind())
	if !ok {
		return view
	}
	t, _ := ecs.Get(w, camEntity, component.TransformComponent)
	view.CenterX = t.Position.X()
	view.CenterY = t.Position.Y()
	if cam, ok := ecs.Get(w, camEntity, component.CameraComponent); ok {
		view.CenterX -= cam.Offset.X()
		view.CenterY -= cam.Offset.Y()
	}
	return view
}

func (v DebugView) toScreen(screen *ebiten.Image, p cp.Vector) (float64, float64) {
	b := screen.Bounds()
	return float64(b.Dx())/2 + (p.X-v.CenterX)*v.Scale, float64(b.Dy())/2 - (p.Y-v.CenterY)*v.Scale
}

// DrawPhysicsDebug outlines every shape in the space.
func DrawPhysicsDebug(space *cp.Space, screen *ebiten.Image, view DebugView) {
	if space == nil || screen == nil {
		return
	}
	cp.DrawSpace(space, &physicsDebugDrawer{screen: screen, view: view})
}

// DrawGroundProbes draws each ground probe green while it reports contact and
// red otherwise.
func DrawGroundProbes(w *ecs.World, screen *ebiten.Image, view DebugView) {
	if w == nil || screen == nil {
		return
	}
	ecs.ForEach2(w, component.GroundSensorComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, sensor *component.GroundSensor, t *component.Transform) {
		col := colornames.Red
		if sensor.Grounded {
			col = colornames.Lime
		}
		start := cp.Vector{X: t.Position.X(), Y: t.Position.Y()}
		end := cp.Vector{X: start.X, Y: start.Y - sensor.Length}
		x1, y1 := view.toScreen(screen, start)
		x2, y2 := view.toScreen(screen, end)
		ebitenutil.DrawLine(screen, x1, y1, x2, y2, col)
	})
}

// DrawLocomotionDebug prints the player's controller snapshot.
func DrawLocomotionDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	player, ok := w.First(component.PlayerTagComponent.Kind(), component.LocomotionComponent.Kind())
	if !ok {
		return
	}
	loco, _ := ecs.Get(w, player, component.LocomotionComponent)
	if loco.Controller == nil {
		ebitenutil.DebugPrintAt(screen, "State: waiting for body", 10, 10)
		return
	}
	snap := loco.Controller.Snapshot()
	pos := ""
	if t, ok := ecs.Get(w, player, component.TransformComponent); ok {
		pos = fmt.Sprintf("%.2f %.2f %.2f", t.Position.X(), t.Position.Y(), t.Position.Z())
	}
	text := fmt.Sprintf("State: %s\nGrounded: %v\nPosition: %s\nVelocity: %.2f %.2f %.2f\nJump queued: %v\nDash ready: %v",
		snap.State, snap.Grounded, pos,
		snap.Velocity.X(), snap.Velocity.Y(), snap.Velocity.Z(),
		snap.JumpQueued, snap.DashReady)
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	view   DebugView
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	half := debugDotSize / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.8, G: 0.8, B: 0.8, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.5, G: 0.5, B: 0.6, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.view.toScreen(d.screen, a)
	x2, y2 := d.view.toScreen(d.screen, b)
	ebitenutil.DrawLine(d.screen, x1, y1, x2, y2, toNRGBA(c))
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
