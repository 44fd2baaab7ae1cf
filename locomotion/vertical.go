package locomotion

import "github.com/milk9111/locomotion/common"

// GroundedSnapSpeed keeps a grounded body pressed into its contact surface so the
// ground probe does not flicker on slopes.
const GroundedSnapSpeed = -2.0

// applyGravity runs the state-dependent vertical rule for one fixed step and
// returns the clamped vertical velocity. A jump whose ascent has ended moves the
// controller to Falling before the rule is applied.
func (c *Controller) applyGravity(vy, now, dt float64) float64 {
	t := c.tuning
	g := c.opts.Gravity.Y()

	if c.state == StateJumping && vy <= 0 {
		c.setState(StateFalling, now)
	}

	switch c.state {
	case StateJumping:
		mult := t.JumpCutOff
		if c.pressingJump {
			mult = t.UpwardMultiplier
		}
		vy += g * mult * dt
	case StateFalling:
		vy += g * t.DownwardMultiplier * dt
	case StateGrounded:
		vy = GroundedSnapSpeed
	case StateDashing:
		vy = 0
	}

	return common.Clamp(vy, -t.VerticalSpeedLimit, t.VerticalSpeedLimit)
}
