package system

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/prefabs"
)

// inputDispatchScript is appended to every input script. Scripts define
// update(engine, memo); memo is a map that persists across frames.
const inputDispatchScript = `
update(__engine, __memo)
`

// ScriptedInputSystem drives Input components from tengo scripts. Each script
// is compiled once per entity and run every frame with an engine map exposing
// time, state and the input setters.
type ScriptedInputSystem struct {
	log      *slog.Logger
	runtimes map[ecs.Entity]*inputScriptRuntime
}

type inputScriptRuntime struct {
	path     string
	inline   []byte
	compiled *tengo.Compiled
	memo     *tengo.Map
	failed   bool
}

// scriptFrame is the input a script produced for one frame.
type scriptFrame struct {
	move mgl64.Vec2
	jump bool
	dash bool
}

func NewScriptedInputSystem(logger *slog.Logger) *ScriptedInputSystem {
	return &ScriptedInputSystem{log: loggerOrDefault(logger), runtimes: map[ecs.Entity]*inputScriptRuntime{}}
}

func (s *ScriptedInputSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	for e := range s.runtimes {
		if !w.IsAlive(e) || !ecs.Has(w, e, component.InputScriptComponent) {
			delete(s.runtimes, e)
		}
	}

	now := w.Clock().Now
	for _, e := range w.Query(component.InputScriptComponent.Kind(), component.InputComponent.Kind()) {
		spec, _ := ecs.Get(w, e, component.InputScriptComponent)
		rt, err := s.runtime(e, spec)
		if err != nil {
			s.log.Error("input script load failed", slog.String("entity", e.String()), slog.String("path", spec.Path), slog.Any("err", err))
			continue
		}
		if rt.failed {
			continue
		}

		frame := scriptFrame{}
		if input, ok := ecs.Get(w, e, component.InputComponent); ok {
			frame.move = input.Move
			frame.jump = input.Jump
		}
		engine := s.buildEngine(w, e, now, &frame)
		if err := rt.run(engine); err != nil {
			rt.failed = true
			s.log.Error("input script error", slog.String("entity", e.String()), slog.Any("err", err))
			continue
		}

		input, _ := ecs.GetPtr(w, e, component.InputComponent)
		applyScriptFrame(input, frame)
	}
}

// applyScriptFrame writes a script frame into the input component, deriving
// jump edges from the previous held state.
func applyScriptFrame(input *component.Input, frame scriptFrame) {
	input.JumpPressed = frame.jump && !input.Jump
	input.JumpReleased = !frame.jump && input.Jump
	input.Jump = frame.jump
	input.DashPressed = frame.dash
	input.Move = frame.move
}

func (s *ScriptedInputSystem) runtime(e ecs.Entity, spec component.InputScript) (*inputScriptRuntime, error) {
	if rt, ok := s.runtimes[e]; ok && rt.path == spec.Path && bytes.Equal(rt.inline, spec.Source) {
		return rt, nil
	}

	// a failed load is cached too so it is reported once
	rt := &inputScriptRuntime{path: spec.Path, inline: spec.Source, failed: true}
	s.runtimes[e] = rt

	compiled, err := compileInputScript(spec)
	if err != nil {
		return nil, err
	}
	rt.compiled = compiled
	rt.memo = &tengo.Map{Value: map[string]tengo.Object{}}
	rt.failed = false
	return rt, nil
}

func compileInputScript(spec component.InputScript) (*tengo.Compiled, error) {
	src := spec.Source
	if len(src) == 0 {
		if strings.TrimSpace(spec.Path) == "" {
			return nil, fmt.Errorf("input script has neither source nor path")
		}
		loaded, err := prefabs.LoadScript(spec.Path)
		if err != nil {
			return nil, err
		}
		src = loaded
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + inputDispatchScript))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__memo", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	return script.Compile()
}

// Invalidate drops every compiled script so the next frame reloads them from
// their source. Script memo state is reset.
func (s *ScriptedInputSystem) Invalidate() {
	if s == nil {
		return
	}
	clear(s.runtimes)
}

func (rt *inputScriptRuntime) run(engine *tengo.ImmutableMap) error {
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__memo", rt.memo); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func (s *ScriptedInputSystem) buildEngine(w *ecs.World, e ecs.Entity, now float64, frame *scriptFrame) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["time"] = &tengo.UserFunction{Name: "time", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: now}, nil
	}}

	values["state"] = &tengo.UserFunction{Name: "state", Value: func(args ...tengo.Object) (tengo.Object, error) {
		loco, ok := ecs.Get(w, e, component.LocomotionComponent)
		if !ok || loco.Controller == nil {
			return &tengo.String{Value: ""}, nil
		}
		return &tengo.String{Value: loco.Controller.State().String()}, nil
	}}

	values["grounded"] = &tengo.UserFunction{Name: "grounded", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if gs, ok := ecs.Get(w, e, component.GroundSensorComponent); ok && gs.Grounded {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		t, _ := ecs.Get(w, e, component.TransformComponent)
		p := t.Position
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: p.X()}, &tengo.Float{Value: p.Y()}, &tengo.Float{Value: p.Z()}}}, nil
	}}

	values["move"] = &tengo.UserFunction{Name: "move", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		x, okX := objectAsFloat(args[0])
		y, okY := objectAsFloat(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		frame.move = mgl64.Vec2{x, y}
		return tengo.TrueValue, nil
	}}

	values["jump"] = &tengo.UserFunction{Name: "jump", Value: func(args ...tengo.Object) (tengo.Object, error) {
		held := true
		if len(args) > 0 {
			held = !args[0].IsFalsy()
		}
		frame.jump = held
		return tengo.TrueValue, nil
	}}

	values["dash"] = &tengo.UserFunction{Name: "dash", Value: func(args ...tengo.Object) (tengo.Object, error) {
		frame.dash = true
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		s.log.Info(strings.Join(parts, " "), slog.String("entity", e.String()), slog.Float64("at", now))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectAsFloat(obj tengo.Object) (float64, bool) {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value, true
	case *tengo.Int:
		return float64(v.Value), true
	default:
		return 0, false
	}
}
