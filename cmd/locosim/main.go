// Command locosim runs a scripted locomotion character without a window and
// logs its state every fixed step.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/prefabs"
)

func main() {
	character := flag.String("character", "character.yaml", "character prefab in prefabs/")
	arena := flag.String("arena", "arena.yaml", "arena prefab in prefabs/")
	script := flag.String("script", "run_jump_dash.tengo", "input script in prefabs/scripts/")
	duration := flag.Duration("duration", 6*time.Second, "simulated time")
	step := flag.Float64("step", 0.02, "fixed step in seconds")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	logFormat := flag.String("log-format", "text", "text or json")
	flag.Parse()

	logger, err := common.NewLogger(os.Stdout, *logLevel, *logFormat)
	if err != nil {
		log.Fatal(err)
	}

	spec, err := prefabs.LoadCharacterSpec(*character)
	if err != nil {
		log.Fatal(err)
	}
	spec.Script = *script
	arenaSpec, err := prefabs.LoadArenaSpec(*arena)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := runSim(ctx, simConfig{
		Character: spec,
		Arena:     arenaSpec,
		Duration:  *duration,
		Step:      *step,
	}, logger)
	if err != nil {
		logger.Error("simulation stopped", slog.Int("steps", summary.Steps), slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("simulation finished",
		slog.Int("steps", summary.Steps),
		slog.Int("transitions", len(summary.Transitions)),
		slog.String("final_state", summary.FinalState.String()),
		slog.Float64("max_height", summary.MaxHeight),
		slog.Float64("max_speed", summary.MaxSpeed),
	)
}
