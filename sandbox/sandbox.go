// Package sandbox wires the physics world, the ECS systems and the fracture
// subsystem together from a prefabs.Config. It has no rendering so the game,
// the benchmark command and tests share it.
package sandbox

import (
	"fmt"
	"log"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shatter/common"
	"github.com/milk9111/shatter/ecs"
	"github.com/milk9111/shatter/ecs/entity"
	"github.com/milk9111/shatter/ecs/system"
	"github.com/milk9111/shatter/fracture"
	"github.com/milk9111/shatter/physics"
	"github.com/milk9111/shatter/physics/engines"
	"github.com/milk9111/shatter/prefabs"
)

// Stats counts fracture outcomes since the sandbox was built.
type Stats struct {
	Fractures int
	Pieces    int
	Failures  int
}

type Sandbox struct {
	Config   prefabs.Config
	Units    common.Units
	World    *ecs.World
	Physics  *system.PhysicsSystem
	Triggers *system.BreakTriggerSystem
	Fracture *system.FractureSystem
	Stats    Stats

	scheduler *ecs.Scheduler
	scene     string
}

func New(cfg prefabs.Config) (*Sandbox, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	units := common.NewUnits(cfg.PixelsPerMeter)
	pw, err := engines.New(cfg.Backend, physics.Config{
		Gravity:   cp.Vector{X: cfg.Gravity[0], Y: cfg.Gravity[1]},
		MaxBodies: cfg.MaxBodies,
	})
	if err != nil {
		return nil, err
	}

	w := ecs.NewWorld()
	s := &Sandbox{
		Config:   cfg,
		Units:    units,
		World:    w,
		Physics:  system.NewPhysicsSystem(pw, units),
		Triggers: system.NewBreakTriggerSystem(prefabs.LoadScript),
		Fracture: system.NewFractureSystem(NewFracturer(cfg, units), NewGateway(w, pw, cfg, units)),
	}
	s.scheduler = ecs.NewScheduler(
		s.Triggers,
		s.Fracture,
		system.NewTTLSystem(),
		s.Physics,
		&statsRecorder{stats: &s.Stats, debug: cfg.Debug},
	)
	return s, nil
}

// NewFracturer maps the fracture section of the config onto fracturer
// options.
func NewFracturer(cfg prefabs.Config, units common.Units) *fracture.Fracturer {
	fc := cfg.Fracture
	var shaper fracture.FragmentShaper
	switch strings.ToLower(fc.Shaper) {
	case prefabs.ShaperScaled:
		shaper = fracture.ScaledOriginal{Scale: fc.Scale}
	case prefabs.ShaperVoronoi:
		shaper = fracture.Voronoi{CellSize: fc.CellSize, Seed: fc.Seed}
	default:
		shaper = fracture.FixedBox{Size: fc.BoxSize}
	}
	opts := []fracture.Option{
		fracture.WithUnits(units),
		fracture.WithShaper(shaper),
		fracture.WithViewRadius(fc.ViewRadius),
		fracture.WithViewFromShape(fc.ViewFromShape),
		fracture.WithMaterial(fc.Density, fc.Friction, fc.Elasticity),
		fracture.WithDebug(cfg.Debug),
	}
	if fc.Color.A > 0 {
		opts = append(opts, fracture.WithColor(fc.Color.RGBA))
	}
	return fracture.New(opts...)
}

func NewGateway(w *ecs.World, pw physics.World, cfg prefabs.Config, units common.Units) *fracture.WorldGateway {
	return fracture.NewWorldGateway(w, units,
		fracture.WithBodyLimit(pw, cfg.MaxBodies),
		fracture.WithMaxEntities(cfg.Fracture.MaxPieces),
		fracture.WithPieceTTL(cfg.Fracture.PieceTTLFrames),
	)
}

// LoadScene builds a scene and attaches its bodies so they can be inspected
// before the first update.
func (s *Sandbox) LoadScene(name string) ([]ecs.Entity, error) {
	if name == "" {
		name = s.Config.Scene
	}
	ents, err := entity.LoadScene(s.World, name, s.Units)
	if err != nil {
		return ents, err
	}
	s.scene = name
	s.Physics.Attach(s.World)
	log.Printf("sandbox: scene=%s backend=%s entities=%d", name, s.Config.Backend, len(ents))
	return ents, nil
}

func (s *Sandbox) Scene() string {
	return s.scene
}

func (s *Sandbox) Update() {
	s.scheduler.Update(s.World)
}

// Break queues a fracture of e for the next update.
func (s *Sandbox) Break(e ecs.Entity, reason string) error {
	if !s.World.IsAlive(e) {
		return fmt.Errorf("sandbox: break %v: entity not alive", e)
	}
	return system.RequestFracture(s.World, e, reason)
}

// BreakAt queues a fracture of the breakable entity under a pixel position.
func (s *Sandbox) BreakAt(px cp.Vector) (ecs.Entity, bool) {
	e, ok := system.PickBreakable(s.World, s.Units, px)
	if !ok {
		return 0, false
	}
	if err := s.Break(e, "click"); err != nil {
		log.Printf("sandbox: %v", err)
		return 0, false
	}
	return e, true
}

// Reconfigure applies cfg. Fracture settings take effect immediately; a
// change to the backend, scale, gravity or body limit rebuilds the world and
// reloads the current scene.
func (s *Sandbox) Reconfigure(cfg prefabs.Config) (*Sandbox, error) {
	if err := cfg.Validate(); err != nil {
		return s, err
	}
	old := s.Config
	if strings.EqualFold(old.Backend, cfg.Backend) && old.PixelsPerMeter == cfg.PixelsPerMeter &&
		old.Gravity == cfg.Gravity && old.MaxBodies == cfg.MaxBodies {
		s.Config = cfg
		s.Fracture = system.NewFractureSystem(NewFracturer(cfg, s.Units), NewGateway(s.World, s.Physics.World(), cfg, s.Units))
		s.scheduler = ecs.NewScheduler(s.Triggers, s.Fracture, system.NewTTLSystem(), s.Physics,
			&statsRecorder{stats: &s.Stats, debug: cfg.Debug})
		return s, nil
	}

	next, err := New(cfg)
	if err != nil {
		return s, err
	}
	scene := s.scene
	if scene == "" {
		scene = cfg.Scene
	}
	if _, err := next.LoadScene(scene); err != nil {
		return s, err
	}
	return next, nil
}

// statsRecorder drains fracture events at the end of each tick.
type statsRecorder struct {
	stats *Stats
	debug bool
}

func (r *statsRecorder) Update(w *ecs.World) {
	for _, evt := range w.Events().Drain() {
		fe, ok := evt.Data.(ecs.FractureEvent)
		if evt.Type != ecs.EventFracture || !ok {
			continue
		}
		if fe.Err != nil {
			r.stats.Failures++
		} else {
			r.stats.Fractures++
		}
		r.stats.Pieces += len(fe.Pieces)
		if r.debug {
			log.Printf("sandbox: fracture source=%v pieces=%d err=%v", fe.Source, len(fe.Pieces), fe.Err)
		}
	}
}
