package system

import (
	"log"

	"github.com/milk9111/shatter/common"
	"github.com/milk9111/shatter/ecs"
	"github.com/milk9111/shatter/ecs/component"
	"github.com/milk9111/shatter/physics"
)

const DefaultTimeStep = 1.0 / 60.0

// PhysicsSystem owns the physics world. Each update it releases bodies of
// dead entities, attaches bodies for new PhysicsBody components, steps, and
// copies poses back into transforms.
type PhysicsSystem struct {
	world    physics.World
	units    common.Units
	timeStep float64
	entities map[ecs.Entity]physics.Body
}

func NewPhysicsSystem(world physics.World, units common.Units) *PhysicsSystem {
	return &PhysicsSystem{
		world:    world,
		units:    units,
		timeStep: DefaultTimeStep,
		entities: make(map[ecs.Entity]physics.Body),
	}
}

func (ps *PhysicsSystem) World() physics.World {
	if ps == nil {
		return nil
	}
	return ps.world
}

func (ps *PhysicsSystem) Units() common.Units {
	return ps.units
}

func (ps *PhysicsSystem) SetTimeStep(dt float64) {
	if dt > 0 {
		ps.timeStep = dt
	}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil || ps.world == nil {
		return
	}

	ps.syncEntities(w)
	ps.world.Step(ps.timeStep)
	ps.syncTransforms(w)
}

// Attach creates bodies for pending PhysicsBody components without stepping.
func (ps *PhysicsSystem) Attach(w *ecs.World) {
	if ps == nil || w == nil || ps.world == nil {
		return
	}
	ps.syncEntities(w)
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	for _, e := range w.Query(component.PhysicsBodyComponent.Kind()) {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok {
			continue
		}
		if body, ok := ps.entities[e]; ok {
			if bodyComp.Body == nil {
				bodyComp.Body = body
				_ = ecs.Add(w, e, component.PhysicsBodyComponent, bodyComp)
			}
			continue
		}

		def := bodyComp.Def
		if def.UserData == nil {
			def.UserData = e
		}
		body, err := ps.world.CreateBody(def)
		if err != nil {
			log.Printf("physics: entity=%v create body: %v", e, err)
			w.DestroyEntity(e)
			continue
		}
		ps.entities[e] = body

		bodyComp.Body = body
		if !bodyComp.Initialized {
			bodyComp.Initialized = true
			if bodyComp.OnInitialized != nil {
				bodyComp.OnInitialized(body)
			}
		}
		if err := ecs.Add(w, e, component.PhysicsBodyComponent, bodyComp); err != nil {
			panic("physics system: update body: " + err.Error())
		}
	}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	entities := w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind())
	for _, e := range entities {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok || bodyComp.Body == nil || bodyComp.Def.Static {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		pos := ps.units.VecToPixels(bodyComp.Body.Position())
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = bodyComp.Body.Angle()
		_ = ecs.Add(w, e, component.TransformComponent, transform)
	}
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, body := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent) {
			continue
		}
		ps.world.DestroyBody(body)
		delete(ps.entities, e)
	}
}
