// Command fracturebench runs a scene headless, breaks every breakable entity
// once and reports momentum and timing around the fracture.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/milk9111/shatter/ecs"
	"github.com/milk9111/shatter/ecs/component"
	"github.com/milk9111/shatter/prefabs"
	"github.com/milk9111/shatter/sandbox"
)

func main() {
	backend := flag.String("backend", "", "physics backend: chipmunk or box2d")
	sceneName := flag.String("scene", "", "scene to load")
	breakAfter := flag.Int("break-after", 1, "ticks to simulate before breaking")
	steps := flag.Int("steps", 120, "ticks to simulate after breaking")
	shaper := flag.String("shaper", "", "override fracture shaper: box, scaled or voronoi")
	flag.Parse()

	cfg, err := prefabs.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *sceneName != "" {
		cfg.Scene = *sceneName
	}
	if *shaper != "" {
		cfg.Fracture.Shaper = *shaper
	}

	sb, err := sandbox.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := sb.LoadScene(cfg.Scene); err != nil {
		log.Fatal(err)
	}

	for i := 0; i < *breakAfter; i++ {
		sb.Update()
	}

	var targets []ecs.Entity
	ecs.ForEach(sb.World, component.BreakableComponent, func(e ecs.Entity, _ component.Breakable) {
		targets = append(targets, e)
	})
	before := sandbox.MeasureMomentum(sb.World)
	for _, e := range targets {
		if err := sb.Break(e, "bench"); err != nil {
			log.Printf("fracturebench: %v", err)
		}
	}

	start := time.Now()
	sb.Update()
	fractureTick := time.Since(start)
	after := sandbox.MeasureMomentum(sb.World)

	start = time.Now()
	for i := 0; i < *steps; i++ {
		sb.Update()
	}
	elapsed := time.Since(start)

	fmt.Printf("backend      %s\n", cfg.Backend)
	fmt.Printf("scene        %s\n", sb.Scene())
	fmt.Printf("shaper       %s\n", cfg.Fracture.Shaper)
	fmt.Printf("targets      %d\n", len(targets))
	fmt.Printf("fractures    %d (failed %d)\n", sb.Stats.Fractures, sb.Stats.Failures)
	fmt.Printf("pieces       %d\n", sb.Stats.Pieces)
	fmt.Printf("momentum     before=(%.3f, %.3f) after=(%.3f, %.3f)\n",
		before.Linear.X, before.Linear.Y, after.Linear.X, after.Linear.Y)
	fmt.Printf("mass         before=%.3f after=%.3f\n", before.Mass, after.Mass)
	fmt.Printf("fracture tick %v\n", fractureTick)
	if *steps > 0 {
		fmt.Printf("step avg     %v over %d steps\n", elapsed/time.Duration(*steps), *steps)
	}
}
