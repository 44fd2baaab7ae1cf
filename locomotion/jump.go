package locomotion

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
)

// timeEpsilon absorbs float drift when comparing accumulated tick times.
const timeEpsilon = 1e-6

func within(now, since, window float64) bool {
	return now-since <= window+timeEpsilon
}

// takeoffVelocity returns the vertical velocity right after a jump. Residual
// upward speed is not stacked on top of the impulse and residual fall speed is
// cancelled, so the result is never below target.
func takeoffVelocity(vy, target float64) float64 {
	if vy > target {
		return vy
	}
	return target
}

// tryJump reconciles a queued jump against the coyote and buffer windows. A
// request whose buffer window has closed is dropped.
func (c *Controller) tryJump(v mgl64.Vec3, grounded bool, now float64) mgl64.Vec3 {
	if !c.jumpQueued {
		return v
	}

	if !within(now, c.lastJumpInputTime, c.tuning.JumpBuffer) {
		c.jumpQueued = false
		c.log.Debug("stale jump dropped", slog.Float64("pressed_at", c.lastJumpInputTime), slog.Float64("at", now))
		return v
	}

	coyoteAllowed := within(now, c.lastGroundedTime, c.tuning.CoyoteTime)
	if !(grounded || coyoteAllowed) || c.state == StateJumping {
		return v
	}

	c.jumpQueued = false
	c.setState(StateJumping, now)
	v[1] = takeoffVelocity(v.Y(), c.tuning.JumpSpeed(c.opts.Gravity.Y()))
	return v
}
