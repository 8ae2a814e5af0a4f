package system

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/shatter/ecs"
	"github.com/milk9111/shatter/ecs/component"
)

// ScriptLoader returns the source of a named break trigger script.
type ScriptLoader func(name string) ([]byte, error)

// BreakTriggerSystem decides when breakable entities fracture. Entities with
// a script run it every tick with these globals set:
//
//	speed          linear speed in m/s
//	angular_speed  absolute angular speed in rad/s
//	age            ticks since the body was attached
//	health         current health, written back after the run
//
// and break when the script leaves a truthy `shatter`. Entities without a
// script break once speed reaches their MinSpeed.
type BreakTriggerSystem struct {
	load    ScriptLoader
	scripts map[string]*tengo.Compiled
	failed  map[string]bool
}

func NewBreakTriggerSystem(load ScriptLoader) *BreakTriggerSystem {
	return &BreakTriggerSystem{
		load:    load,
		scripts: make(map[string]*tengo.Compiled),
		failed:  make(map[string]bool),
	}
}

// Invalidate drops a cached script so the next update reloads it.
func (s *BreakTriggerSystem) Invalidate(name string) {
	if s == nil {
		return
	}
	delete(s.scripts, name)
	delete(s.failed, name)
}

func (s *BreakTriggerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for _, e := range w.Query(component.BreakableComponent.Kind(), component.PhysicsBodyComponent.Kind()) {
		if ecs.Has(w, e, component.FractureRequestComponent) {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok || bodyComp.Body == nil {
			continue
		}
		breakable, _ := ecs.Get(w, e, component.BreakableComponent)
		breakable.Age++

		speed := bodyComp.Body.Velocity().Length()
		angular := bodyComp.Body.AngularVelocity()
		if angular < 0 {
			angular = -angular
		}

		shatter := false
		reason := ""
		if name := strings.TrimSpace(breakable.Script); name != "" {
			var err error
			shatter, err = s.runScript(name, speed, angular, &breakable)
			if err != nil {
				if !s.failed[name] {
					log.Printf("break trigger: entity=%v script %q: %v", e, name, err)
					s.failed[name] = true
				}
				shatter = false
			}
			reason = "script:" + name
		} else if breakable.MinSpeed > 0 && speed >= breakable.MinSpeed {
			shatter = true
			reason = fmt.Sprintf("speed %.2f", speed)
		}

		_ = ecs.Add(w, e, component.BreakableComponent, breakable)
		if shatter {
			_ = RequestFracture(w, e, reason)
		}
	}
}

func (s *BreakTriggerSystem) runScript(name string, speed, angular float64, b *component.Breakable) (bool, error) {
	if s.failed[name] {
		return false, fmt.Errorf("break trigger: script %q failed to load", name)
	}
	compiled, err := s.compile(name)
	if err != nil {
		return false, err
	}

	vars := map[string]any{
		"speed":         speed,
		"angular_speed": angular,
		"age":           b.Age,
		"health":        b.Health,
	}
	for k, v := range vars {
		if err := compiled.Set(k, v); err != nil {
			return false, err
		}
	}
	if err := compiled.Run(); err != nil {
		return false, err
	}

	if compiled.IsDefined("health") {
		b.Health = compiled.Get("health").Float()
	}
	if !compiled.IsDefined("shatter") {
		return false, fmt.Errorf("break trigger: script %q does not define shatter", name)
	}
	return compiled.Get("shatter").Bool(), nil
}

func (s *BreakTriggerSystem) compile(name string) (*tengo.Compiled, error) {
	if c, ok := s.scripts[name]; ok {
		return c, nil
	}
	if s.load == nil {
		return nil, fmt.Errorf("break trigger: no script loader")
	}
	src, err := s.load(name)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript(src)
	_ = script.Add("speed", 0.0)
	_ = script.Add("angular_speed", 0.0)
	_ = script.Add("age", 0)
	_ = script.Add("health", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	s.scripts[name] = compiled
	return compiled, nil
}
