package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/shatter/prefabs"
)

func main() {
	backend := flag.String("backend", "", "physics backend: chipmunk or box2d (overrides config.yaml)")
	debug := flag.Bool("debug", false, "draw physics shapes and log every piece")
	sceneName := flag.String("scene", "", "scene name in prefabs/scenes (basename, .yaml optional)")
	watch := flag.Bool("watch", true, "hot reload prefabs/ when files change")
	flag.Parse()

	cfg, err := prefabs.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *debug {
		cfg.Debug = true
	}
	if *sceneName != "" {
		cfg.Scene = *sceneName
	}

	game, err := NewGame(cfg, *watch)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("shatter")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
