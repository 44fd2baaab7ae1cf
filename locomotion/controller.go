package locomotion

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
)

var (
	ErrNilBody         = errors.New("locomotion: body is nil")
	ErrNilGroundSensor = errors.New("locomotion: ground sensor is nil")
	ErrInvalidGravity  = errors.New("locomotion: gravity must point down")
)

// DefaultGravity matches a standard earth-like physics setup.
var DefaultGravity = mgl64.Vec3{0, -9.81, 0}

// Body is the rigid body the controller drives. The controller reads its
// velocity once per fixed step and writes it back once.
type Body interface {
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
}

// GroundSensor reports whether the character is standing on something.
type GroundSensor interface {
	IsGrounded() bool
}

// GroundSensorFunc adapts a function to GroundSensor.
type GroundSensorFunc func() bool

func (f GroundSensorFunc) IsGrounded() bool { return f() }

// Options configure a Controller. The zero value is usable.
type Options struct {
	// Gravity defaults to DefaultGravity. Its Y component must be negative.
	Gravity mgl64.Vec3
	// Camera maps input onto world directions. Without one, input produces no
	// desired velocity.
	Camera Camera
	// Logger receives transition and dash traces. Defaults to a discard logger.
	Logger *slog.Logger
	// OnTransition is called synchronously on every state change.
	OnTransition func(Transition)
}

// Snapshot is a read-only copy of a controller's locomotion state.
type Snapshot struct {
	State           State
	Velocity        mgl64.Vec3
	DesiredVelocity mgl64.Vec3
	Input           mgl64.Vec2
	Grounded        bool
	PressingJump    bool
	JumpQueued      bool
	DashReady       bool
}

// Controller is the per-character locomotion state machine. Update runs at frame
// cadence and only reclassifies the discrete state; FixedUpdate runs once per
// physics step and owns every velocity change.
type Controller struct {
	tuning Tuning
	opts   Options
	log    *slog.Logger

	body   Body
	ground GroundSensor
	queue  InputQueue

	state    State
	velocity mgl64.Vec3
	desired  mgl64.Vec3
	input    mgl64.Vec2
	grounded bool

	lastGroundedTime  float64
	lastJumpInputTime float64
	pressingJump      bool
	jumpQueued        bool

	dashQueued bool
	dash       dashTimer
}

// New validates tuning and options and returns a grounded controller with its
// dash ready.
func New(body Body, ground GroundSensor, tuning Tuning, opts Options) (*Controller, error) {
	if body == nil {
		return nil, ErrNilBody
	}
	if ground == nil {
		return nil, ErrNilGroundSensor
	}
	if err := tuning.Validate(); err != nil {
		return nil, err
	}
	if opts.Gravity == (mgl64.Vec3{}) {
		opts.Gravity = DefaultGravity
	}
	if !(opts.Gravity.Y() < 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidGravity, opts.Gravity)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Controller{
		tuning:            tuning,
		opts:              opts,
		log:               logger,
		body:              body,
		ground:            ground,
		state:             StateGrounded,
		lastGroundedTime:  math.Inf(-1),
		lastJumpInputTime: math.Inf(-1),
	}, nil
}

// State returns the current discrete state.
func (c *Controller) State() State {
	return c.state
}

// Velocity returns the velocity written to the body on the last fixed step.
func (c *Controller) Velocity() mgl64.Vec3 {
	return c.velocity
}

// Tuning returns the active tuning.
func (c *Controller) Tuning() Tuning {
	return c.tuning
}

// SetTuning swaps the tuning after validating it. State and timers are kept.
func (c *Controller) SetTuning(t Tuning) error {
	if err := t.Validate(); err != nil {
		c.log.Warn("tuning rejected", slog.Any("err", err))
		return err
	}
	c.tuning = t
	return nil
}

// SetCamera replaces the camera used for direction mapping. Nil disables mapping.
func (c *Controller) SetCamera(cam Camera) {
	c.opts.Camera = cam
}

// Snapshot returns a copy of the locomotion state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		State:           c.state,
		Velocity:        c.velocity,
		DesiredVelocity: c.desired,
		Input:           c.input,
		Grounded:        c.grounded,
		PressingJump:    c.pressingJump,
		JumpQueued:      c.jumpQueued,
		DashReady:       c.dash.ready(),
	}
}

// Push queues an input event for the next tick.
func (c *Controller) Push(evt InputEvent) {
	c.queue.Push(evt)
}

// Move queues a new directional input.
func (c *Controller) Move(dir mgl64.Vec2, at float64) {
	c.queue.Push(InputEvent{Kind: EventMove, At: at, Move: dir})
}

// PressJump queues a jump press edge.
func (c *Controller) PressJump(at float64) {
	c.queue.Push(InputEvent{Kind: EventJumpPress, At: at})
}

// ReleaseJump queues a jump release edge.
func (c *Controller) ReleaseJump(at float64) {
	c.queue.Push(InputEvent{Kind: EventJumpRelease, At: at})
}

// PressDash queues a dash press edge.
func (c *Controller) PressDash(at float64) {
	c.queue.Push(InputEvent{Kind: EventDashPress, At: at})
}

// drainInput applies pending events. Several presses within one tick collapse
// into a single queued request.
func (c *Controller) drainInput() {
	for _, evt := range c.queue.Drain() {
		switch evt.Kind {
		case EventMove:
			c.input = normalizeInput(evt.Move)
		case EventJumpPress:
			c.pressingJump = true
			c.lastJumpInputTime = evt.At
			c.jumpQueued = true
		case EventJumpRelease:
			c.pressingJump = false
		case EventDashPress:
			c.dashQueued = true
		}
	}
}

// Update reclassifies the discrete state from the ground sensor. It never
// touches velocity. A Jumping character stays Jumping until its ascent ends in
// FixedUpdate.
func (c *Controller) Update(now float64) {
	c.drainInput()
	c.advanceDash(now)
	if c.state == StateDashing {
		return
	}

	c.grounded = c.ground.IsGrounded()
	if c.grounded {
		c.lastGroundedTime = now
		if c.state != StateJumping {
			c.setState(StateGrounded, now)
		}
		return
	}
	if c.state != StateJumping {
		c.setState(StateFalling, now)
	}
}

// FixedUpdate runs one physics step: vertical rule, direction mapping,
// horizontal approach, jump and dash, then a single velocity write.
func (c *Controller) FixedUpdate(now, dt float64) {
	c.drainInput()
	c.advanceDash(now)
	c.grounded = c.ground.IsGrounded()

	v := c.body.Velocity()
	v[1] = c.applyGravity(v.Y(), now, dt)

	c.desired = DesiredVelocity(c.input, c.opts.Camera, c.tuning.MaxSpeed)

	if c.state != StateDashing {
		rates := c.tuning.AirRates()
		if c.grounded {
			rates = c.tuning.GroundRates()
		}
		v = StepHorizontal(v, c.desired, c.hasInput(), rates, dt)
		v = c.tryJump(v, c.grounded, now)
	}
	v = c.tryDash(v, now)

	v[1] = common.Clamp(v.Y(), -c.tuning.VerticalSpeedLimit, c.tuning.VerticalSpeedLimit)
	c.velocity = v
	c.body.SetVelocity(v)
}

func (c *Controller) hasInput() bool {
	return c.input.X() != 0 || c.input.Y() != 0
}

func (c *Controller) setState(next State, now float64) {
	if c.state == next {
		return
	}
	prev := c.state
	c.state = next
	c.log.Debug("locomotion transition",
		slog.String("from", prev.String()),
		slog.String("to", next.String()),
		slog.Float64("at", now),
	)
	if c.opts.OnTransition != nil {
		c.opts.OnTransition(Transition{From: prev, To: next, At: now})
	}
}
