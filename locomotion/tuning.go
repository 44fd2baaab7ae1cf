package locomotion

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTuning is wrapped by every RangeError returned from Tuning.Validate.
var ErrInvalidTuning = errors.New("locomotion: invalid tuning")

// Tuning holds the designer-facing movement parameters. Speeds are in units per
// second, rates in units per second squared and times in seconds.
type Tuning struct {
	MaxSpeed           float64 `yaml:"max_speed"`
	MaxAcceleration    float64 `yaml:"max_acceleration"`
	MaxDeceleration    float64 `yaml:"max_deceleration"`
	MaxTurnSpeed       float64 `yaml:"max_turn_speed"`
	MaxAirAcceleration float64 `yaml:"max_air_acceleration"`
	MaxAirDeceleration float64 `yaml:"max_air_deceleration"`
	MaxAirTurnSpeed    float64 `yaml:"max_air_turn_speed"`

	JumpHeight float64 `yaml:"jump_height"`
	CoyoteTime float64 `yaml:"coyote_time"`
	JumpBuffer float64 `yaml:"jump_buffer"`

	UpwardMultiplier   float64 `yaml:"upward_multiplier"`
	DownwardMultiplier float64 `yaml:"downward_multiplier"`
	JumpCutOff         float64 `yaml:"jump_cut_off"`
	VerticalSpeedLimit float64 `yaml:"vertical_speed_limit"`

	DashForce    float64 `yaml:"dash_force"`
	DashDuration float64 `yaml:"dash_duration"`
	DashCooldown float64 `yaml:"dash_cooldown"`
}

// DefaultTuning returns the stock character tuning.
func DefaultTuning() Tuning {
	return Tuning{
		MaxSpeed:           9,
		MaxAcceleration:    30,
		MaxDeceleration:    10,
		MaxTurnSpeed:       80,
		MaxAirAcceleration: 30,
		MaxAirDeceleration: 10,
		MaxAirTurnSpeed:    80,

		JumpHeight: 2,
		CoyoteTime: 0.15,
		JumpBuffer: 0.15,

		UpwardMultiplier:   1,
		DownwardMultiplier: 6,
		JumpCutOff:         3,
		VerticalSpeedLimit: 20,

		DashForce:    20,
		DashDuration: 0.2,
		DashCooldown: 1,
	}
}

// RangeError reports a tuning field outside of its accepted range.
type RangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("locomotion: %s=%g outside [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error {
	return ErrInvalidTuning
}

type tuningRange struct {
	field    string
	value    float64
	min, max float64
	// openMin excludes min itself.
	openMin bool
}

func (t Tuning) ranges() []tuningRange {
	inf := math.Inf(1)
	return []tuningRange{
		{field: "max_speed", value: t.MaxSpeed, min: 0, max: 20},
		{field: "max_acceleration", value: t.MaxAcceleration, min: 0, max: 100},
		{field: "max_deceleration", value: t.MaxDeceleration, min: 0, max: 100},
		{field: "max_turn_speed", value: t.MaxTurnSpeed, min: 0, max: 100},
		{field: "max_air_acceleration", value: t.MaxAirAcceleration, min: 0, max: 100},
		{field: "max_air_deceleration", value: t.MaxAirDeceleration, min: 0, max: 100},
		{field: "max_air_turn_speed", value: t.MaxAirTurnSpeed, min: 0, max: 100},
		{field: "jump_height", value: t.JumpHeight, min: 0, max: 5},
		{field: "coyote_time", value: t.CoyoteTime, min: 0, max: 0.3},
		{field: "jump_buffer", value: t.JumpBuffer, min: 0, max: 0.3},
		{field: "upward_multiplier", value: t.UpwardMultiplier, min: 0.2, max: 1.25},
		{field: "downward_multiplier", value: t.DownwardMultiplier, min: 1, max: 10},
		{field: "jump_cut_off", value: t.JumpCutOff, min: 1, max: 10},
		{field: "vertical_speed_limit", value: t.VerticalSpeedLimit, min: 0, max: inf, openMin: true},
		{field: "dash_force", value: t.DashForce, min: 0, max: inf},
		{field: "dash_duration", value: t.DashDuration, min: 0, max: inf},
		{field: "dash_cooldown", value: t.DashCooldown, min: 0, max: inf},
	}
}

// Validate checks every field against its range and returns all violations joined.
// Values must be finite even where the range has no upper bound.
func (t Tuning) Validate() error {
	var errs []error
	for _, r := range t.ranges() {
		bad := math.IsNaN(r.value) || math.IsInf(r.value, 0) || r.value < r.min || r.value > r.max || (r.openMin && r.value == r.min)
		if bad {
			errs = append(errs, &RangeError{Field: r.field, Value: r.value, Min: r.min, Max: r.max})
		}
	}
	return errors.Join(errs...)
}

// JumpSpeed returns the takeoff speed that reaches JumpHeight under gravityY.
func (t Tuning) JumpSpeed(gravityY float64) float64 {
	return math.Sqrt(-2 * gravityY * t.JumpHeight)
}
