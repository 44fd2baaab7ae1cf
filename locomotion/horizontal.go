package locomotion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
)

// Rates is the acceleration triple applied to horizontal motion.
type Rates struct {
	Acceleration float64
	Deceleration float64
	TurnSpeed    float64
}

// GroundRates returns the rates used while the ground sensor reports contact.
func (t Tuning) GroundRates() Rates {
	return Rates{Acceleration: t.MaxAcceleration, Deceleration: t.MaxDeceleration, TurnSpeed: t.MaxTurnSpeed}
}

// AirRates returns the rates used while airborne.
func (t Tuning) AirRates() Rates {
	return Rates{Acceleration: t.MaxAirAcceleration, Deceleration: t.MaxAirDeceleration, TurnSpeed: t.MaxAirTurnSpeed}
}

// selectRate picks the rate for the current input. Reversing against the current
// horizontal velocity uses the turn rate.
func (r Rates) selectRate(hasInput bool, desired, velocity mgl64.Vec3) float64 {
	if !hasInput {
		return r.Deceleration
	}
	current := mgl64.Vec3{velocity.X(), 0, velocity.Z()}
	if desired.Dot(current) < 0 {
		return r.TurnSpeed
	}
	return r.Acceleration
}

// StepHorizontal advances the X and Z components of velocity toward desired by at
// most rate*dt each. Y is left untouched.
func StepHorizontal(velocity, desired mgl64.Vec3, hasInput bool, rates Rates, dt float64) mgl64.Vec3 {
	maxChange := rates.selectRate(hasInput, desired, velocity) * dt
	return mgl64.Vec3{
		common.MoveTowards(velocity.X(), desired.X(), maxChange),
		velocity.Y(),
		common.MoveTowards(velocity.Z(), desired.Z(), maxChange),
	}
}
