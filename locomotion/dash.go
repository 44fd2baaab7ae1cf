package locomotion

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
)

type dashPhase uint8

const (
	dashIdle dashPhase = iota
	dashActive
	dashCooling
)

// dashTimer replaces a suspended dash task with timestamps compared every tick.
type dashTimer struct {
	phase     dashPhase
	startedAt float64
}

func (d dashTimer) ready() bool {
	return d.phase == dashIdle
}

// advanceDash ends an active dash once its duration has elapsed and re-arms the
// dash once the cooldown that follows it has elapsed too.
func (c *Controller) advanceDash(now float64) {
	if c.dash.phase == dashActive && now-c.dash.startedAt >= c.tuning.DashDuration-timeEpsilon {
		c.dash.phase = dashCooling
		if c.ground.IsGrounded() {
			c.setState(StateGrounded, now)
		} else {
			c.setState(StateFalling, now)
		}
	}
	if c.dash.phase == dashCooling && now-c.dash.startedAt >= c.tuning.DashDuration+c.tuning.DashCooldown-timeEpsilon {
		c.dash.phase = dashIdle
		c.log.Debug("dash ready", slog.Float64("at", now))
	}
}

// tryDash consumes a queued dash request. Requests that arrive while dashing or
// cooling down are dropped, never buffered.
func (c *Controller) tryDash(v mgl64.Vec3, now float64) mgl64.Vec3 {
	if !c.dashQueued {
		return v
	}
	c.dashQueued = false
	if c.state == StateDashing || !c.dash.ready() {
		c.log.Debug("dash request ignored", slog.Float64("at", now))
		return v
	}

	c.dash = dashTimer{phase: dashActive, startedAt: now}
	c.setState(StateDashing, now)

	return c.dashDirection().Mul(c.tuning.DashForce)
}

// dashDirection is the normalized desired direction, or the camera's flattened
// forward when no input is held.
func (c *Controller) dashDirection() mgl64.Vec3 {
	if dir := Flatten(c.desired); dir.Len() > 0 {
		return dir
	}
	if c.opts.Camera == nil {
		return mgl64.Vec3{}
	}
	return Flatten(c.opts.Camera.Forward())
}
