package prefabs

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/locomotion"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var spec T
	if err := decodeFile(filename, &spec); err != nil {
		var zero T
		return zero, err
	}
	return spec, nil
}

// decodeFile unmarshals into out, keeping whatever defaults out already holds
// for keys the file omits.
func decodeFile(filename string, out any) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Spec) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

type BodySpec struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Mass     float64 `yaml:"mass"`
	Friction float64 `yaml:"friction"`
}

type GroundProbeSpec struct {
	Length float64 `yaml:"length"`
}

type CameraSpec struct {
	Offset     Vec3Spec `yaml:"offset"`
	Yaw        float64  `yaml:"yaw"`
	Pitch      float64  `yaml:"pitch"`
	Smoothness float64  `yaml:"smoothness"`
}

// CharacterSpec describes a locomotion character and the camera that follows it.
type CharacterSpec struct {
	Name        string            `yaml:"name"`
	Transform   Vec3Spec          `yaml:"transform"`
	Body        BodySpec          `yaml:"body"`
	GroundProbe GroundProbeSpec   `yaml:"ground_probe"`
	Gravity     Vec3Spec          `yaml:"gravity"`
	Camera      CameraSpec        `yaml:"camera"`
	Tuning      locomotion.Tuning `yaml:"tuning"`
	// Script optionally names a tengo input script under scripts/.
	Script string `yaml:"script"`
}

// DefaultCharacterSpec is a one unit cube whose probe reaches a quarter unit
// below its base.
func DefaultCharacterSpec() CharacterSpec {
	g := locomotion.DefaultGravity
	return CharacterSpec{
		Name:        "player",
		Transform:   Vec3Spec{Y: 1},
		Body:        BodySpec{Width: 1, Height: 1, Mass: 1},
		GroundProbe: GroundProbeSpec{Length: 0.75},
		Gravity:     Vec3Spec{X: g.X(), Y: g.Y(), Z: g.Z()},
		Camera:      CameraSpec{Offset: Vec3Spec{Y: 2, Z: -10}},
		Tuning:      locomotion.DefaultTuning(),
	}
}

// LoadCharacterSpec loads and validates a character prefab. Omitted keys keep
// their DefaultCharacterSpec values.
func LoadCharacterSpec(filename string) (CharacterSpec, error) {
	spec := DefaultCharacterSpec()
	if err := decodeFile(filename, &spec); err != nil {
		return CharacterSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return CharacterSpec{}, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return spec, nil
}

// ParseCharacterSpec is LoadCharacterSpec for in-memory data.
func ParseCharacterSpec(data []byte) (CharacterSpec, error) {
	spec := DefaultCharacterSpec()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return CharacterSpec{}, fmt.Errorf("prefabs: unmarshal character: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return CharacterSpec{}, err
	}
	return spec, nil
}

func (s CharacterSpec) Validate() error {
	var errs []error
	if s.Body.Width <= 0 || s.Body.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: body size %gx%g", ErrInvalidSpec, s.Body.Width, s.Body.Height))
	}
	if s.GroundProbe.Length <= 0 {
		errs = append(errs, fmt.Errorf("%w: ground probe length %g", ErrInvalidSpec, s.GroundProbe.Length))
	}
	if s.Gravity.Y >= 0 {
		errs = append(errs, fmt.Errorf("%w: gravity must point down, got %v", ErrInvalidSpec, s.Gravity.Vec3()))
	}
	if err := s.Tuning.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

type PlatformSpec struct {
	Name     string  `yaml:"name"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Friction float64 `yaml:"friction"`
}

// ArenaSpec is the static level geometry, as axis aligned boxes centered on X/Y.
type ArenaSpec struct {
	Name      string         `yaml:"name"`
	Platforms []PlatformSpec `yaml:"platforms"`
}

func LoadArenaSpec(filename string) (ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec](filename)
	if err != nil {
		return ArenaSpec{}, err
	}
	for i, p := range spec.Platforms {
		if p.Width <= 0 || p.Height <= 0 {
			return ArenaSpec{}, fmt.Errorf("prefabs: %s: platform %d %q: %w: size %gx%g", filename, i, p.Name, ErrInvalidSpec, p.Width, p.Height)
		}
	}
	return spec, nil
}
