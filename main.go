package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/locomotion/common"
)

func main() {
	character := flag.String("character", "character.yaml", "character prefab in prefabs/")
	arena := flag.String("arena", "arena.yaml", "arena prefab in prefabs/")
	script := flag.String("script", "", "drive the character from a tengo script in prefabs/scripts/")
	debug := flag.Bool("debug", true, "show locomotion debug text")
	watch := flag.Bool("watch", true, "hot reload prefabs and scripts from disk")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	logFormat := flag.String("log-format", "text", "text or json")
	flag.Parse()

	logger, err := common.NewLogger(os.Stderr, *logLevel, *logFormat)
	if err != nil {
		log.Fatal(err)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("locomotion")
	ebiten.SetTPS(60)

	game, err := NewGame(gameConfig{
		Character: *character,
		Arena:     *arena,
		Script:    *script,
		Debug:     *debug,
		Watch:     *watch,
	}, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
