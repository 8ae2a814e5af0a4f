package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/shatter/ecs/render"
	"github.com/milk9111/shatter/prefabs"
	"github.com/milk9111/shatter/sandbox"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	sandbox *sandbox.Sandbox
	render  *render.RenderSystem
	watcher *prefabs.Watcher
	ui      *ebitenui.UI
	paused  bool
	debug   bool
	status  string
}

func NewGame(cfg prefabs.Config, watch bool) (*Game, error) {
	sb, err := sandbox.New(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := sb.LoadScene(cfg.Scene); err != nil {
		return nil, err
	}

	g := &Game{
		sandbox: sb,
		render:  render.NewRenderSystem(),
		debug:   cfg.Debug,
	}
	g.ui = NewPauseUI(g)
	if watch {
		w, err := prefabs.NewWatcher()
		if err != nil {
			log.Printf("game: hot reload disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.handleReloads()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		g.debug = !g.debug
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.reset(g.sandbox.Config)
	}

	if g.paused {
		g.ui.Update()
		return nil
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if e, ok := g.sandbox.BreakAt(cp.Vector{X: float64(x), Y: float64(y)}); ok {
			g.status = fmt.Sprintf("broke %v", e)
		}
	}

	g.sandbox.Update()
	return nil
}

func (g *Game) setShaper(name string) {
	cfg := g.sandbox.Config
	cfg.Fracture.Shaper = name
	next, err := g.sandbox.Reconfigure(cfg)
	if err != nil {
		log.Printf("game: shaper %s: %v", name, err)
		return
	}
	g.sandbox = next
	g.status = "shaper " + name
}

// handleReloads applies prefab changes reported by the watcher. It never
// blocks the game loop and drops the watcher once it has stopped.
func (g *Game) handleReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(change)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("game: watcher: %v", err)
		default:
			return
		}
	}
}

func (g *Game) reload(change prefabs.Change) {
	switch change.Kind {
	case prefabs.ChangeScript:
		g.sandbox.Triggers.Invalidate(prefabs.ScriptName(change.Path))
	case prefabs.ChangeConfig:
		cfg, err := prefabs.LoadConfig()
		if err != nil {
			log.Printf("game: reload config: %v", err)
			return
		}
		next, err := g.sandbox.Reconfigure(cfg)
		if err != nil {
			log.Printf("game: apply config: %v", err)
			return
		}
		g.sandbox = next
	default:
		g.reset(g.sandbox.Config)
	}
	g.status = fmt.Sprintf("reloaded %s %s", change.Kind, filepath.Base(change.Path))
	log.Printf("game: %s", g.status)
}

func (g *Game) reset(cfg prefabs.Config) {
	scene := g.sandbox.Scene()
	sb, err := sandbox.New(cfg)
	if err != nil {
		log.Printf("game: reset: %v", err)
		return
	}
	if _, err := sb.LoadScene(scene); err != nil {
		log.Printf("game: reset: %v", err)
		return
	}
	g.sandbox = sb
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Whitesmoke)
	g.render.Draw(g.sandbox.World, screen)
	if g.debug {
		render.DrawPhysicsDebug(g.sandbox.Physics.World(), g.sandbox.Units, g.sandbox.World, screen)
	}

	st := g.sandbox.Stats
	extra := fmt.Sprintf("Backend: %s\nShaper: %s\nFractures: %d (failed %d)\nPieces made: %d\nclick: break  R: reset  Esc: menu  F3: debug",
		g.sandbox.Config.Backend, g.sandbox.Config.Fracture.Shaper, st.Fractures, st.Failures, st.Pieces)
	if g.status != "" {
		extra += "\n" + g.status
	}
	render.DrawStats(g.sandbox.Physics.World(), g.sandbox.World, screen, extra)

	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
