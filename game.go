package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/ecs/entity"
	"github.com/milk9111/locomotion/ecs/render"
	"github.com/milk9111/locomotion/ecs/system"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/prefabs"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	fixedStep = 0.02
	// pixels per world unit
	viewScale = 40
)

type gameConfig struct {
	Character string
	Arena     string
	Script    string
	Debug     bool
	Watch     bool
}

type Game struct {
	frames int
	debug  bool

	world    *ecs.World
	frame    *ecs.Scheduler
	fixed    *ecs.FixedStepper
	physics  *system.PhysicsSystem
	scripted *system.ScriptedInputSystem
	player   ecs.Entity

	characterPrefab string
	watcher         *prefabs.Watcher
	log             *slog.Logger
}

func NewGame(cfg gameConfig, logger *slog.Logger) (*Game, error) {
	spec, err := prefabs.LoadCharacterSpec(cfg.Character)
	if err != nil {
		return nil, err
	}
	if cfg.Script != "" {
		spec.Script = cfg.Script
	}
	arena, err := prefabs.LoadArenaSpec(cfg.Arena)
	if err != nil {
		return nil, err
	}

	w := ecs.NewWorld()
	if _, err := entity.LoadArenaToWorld(w, arena); err != nil {
		return nil, err
	}
	player, err := entity.NewCharacter(w, spec)
	if err != nil {
		return nil, err
	}
	if _, err := entity.NewCamera(w, spec.Camera, player); err != nil {
		return nil, err
	}

	physics := system.NewPhysicsSystem(spec.Gravity.Vec3())
	scripted := system.NewScriptedInputSystem(logger)
	g := &Game{
		debug:    cfg.Debug,
		world:    w,
		physics:  physics,
		scripted: scripted,
		player:   player,
		frame: ecs.NewScheduler(
			newKeyboardInputSystem(),
			scripted,
			system.NewLocomotionFrameSystem(logger),
			system.NewCameraFollowSystem(),
		),
		fixed:           ecs.NewFixedStepper(fixedStep, ecs.NewScheduler(system.NewLocomotionStepSystem(), physics)),
		characterPrefab: cfg.Character,
		log:             logger,
	}

	if cfg.Watch {
		g.watcher = startWatcher(logger)
	}
	return g, nil
}

// startWatcher watches the on-disk prefab override directories. Hot reload is
// optional, so failures only disable it.
func startWatcher(logger *slog.Logger) *prefabs.Watcher {
	var dirs []string
	for _, dir := range []string{"prefabs", filepath.Join("prefabs", "scripts")} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		logger.Info("hot reload disabled: no prefabs directory on disk")
		return nil
	}
	watcher, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		logger.Warn("hot reload disabled", slog.Any("err", err))
		return nil
	}
	logger.Info("watching prefabs", slog.Any("dirs", dirs))
	return watcher
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}

	g.pollWatcher()

	g.frame.Update(g.world)
	g.fixed.Advance(g.world, 1/float64(ebiten.TPS()))
	g.logTransitions()

	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				_ = g.Close()
				return
			}
			g.reload(path)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				_ = g.Close()
				return
			}
			g.log.Warn("prefab watcher error", slog.Any("err", err))
		default:
			return
		}
	}
}

func (g *Game) reload(path string) {
	if prefabs.IsScriptFile(path) {
		g.scripted.Invalidate()
		g.log.Info("input scripts reloaded", slog.String("path", path))
		return
	}
	if filepath.Base(path) != filepath.Base(g.characterPrefab) {
		return
	}

	spec, err := prefabs.LoadCharacterSpec(g.characterPrefab)
	if err != nil {
		g.log.Warn("character reload rejected", slog.String("path", path), slog.Any("err", err))
		return
	}
	loco, ok := ecs.GetPtr(g.world, g.player, component.LocomotionComponent)
	if !ok {
		return
	}
	if loco.Controller != nil {
		if err := loco.Controller.SetTuning(spec.Tuning); err != nil {
			g.log.Warn("tuning reload rejected", slog.Any("err", err))
			return
		}
	}
	loco.Tuning = spec.Tuning
	g.log.Info("tuning reloaded", slog.String("path", path))
}

func (g *Game) logTransitions() {
	for _, evt := range g.world.Events().Drain() {
		tr, ok := evt.Data.(locomotion.Transition)
		if !ok || evt.Type != system.TransitionEvent {
			continue
		}
		g.log.Debug("transition",
			slog.String("entity", evt.Entity.String()),
			slog.String("from", tr.From.String()),
			slog.String("to", tr.To.String()),
			slog.Float64("at", tr.At),
		)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	view := render.ViewFromCamera(g.world, viewScale)
	render.DrawPhysicsDebug(g.physics.Space(), screen, view)
	render.DrawGroundProbes(g.world, screen, view)

	if g.debug {
		render.DrawLocomotionDebug(g.world, screen)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()), 10, baseHeight-20)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	err := g.watcher.Close()
	g.watcher = nil
	return err
}
