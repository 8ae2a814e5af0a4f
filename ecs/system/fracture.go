package system

import (
	"errors"
	"log"

	"github.com/milk9111/shatter/ecs"
	"github.com/milk9111/shatter/ecs/component"
	"github.com/milk9111/shatter/fracture"
)

// FractureSystem breaks every entity carrying a FractureRequest and pushes a
// FractureEvent for each attempt. A failure only affects that entity.
type FractureSystem struct {
	fracturer *fracture.Fracturer
	gateway   fracture.Gateway
}

func NewFractureSystem(f *fracture.Fracturer, gw fracture.Gateway) *FractureSystem {
	return &FractureSystem{fracturer: f, gateway: gw}
}

func (s *FractureSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.fracturer == nil || s.gateway == nil {
		return
	}

	for _, e := range w.Query(component.FractureRequestComponent.Kind()) {
		if !w.IsAlive(e) {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok {
			log.Printf("fracture: entity=%v has no physics body, dropping request", e)
			ecs.Remove(w, e, component.FractureRequestComponent)
			continue
		}
		if bodyComp.Body == nil {
			// not attached yet, retry next tick
			continue
		}
		req, _ := ecs.Get(w, e, component.FractureRequestComponent)
		ecs.Remove(w, e, component.FractureRequestComponent)

		typ, _ := ecs.Get(w, e, component.EntityTypeComponent)
		pieces, err := s.fracturer.Fracture(s.gateway, fracture.Target{Entity: e, Type: typ, Body: bodyComp.Body})
		if err != nil {
			log.Printf("fracture: entity=%v reason=%q: %v", e, req.Reason, err)
			switch {
			case errors.Is(err, fracture.ErrUnsupportedShapeKind), errors.Is(err, fracture.ErrDegenerateShape):
				// the body can never break, stop triggering it
				ecs.Remove(w, e, component.BreakableComponent)
			case errors.Is(err, fracture.ErrWorldMutation) && w.IsAlive(e):
				// partial pieces stay and the parent is not retried
				ecs.Remove(w, e, component.BreakableComponent)
			}
		}
		w.Events().Push(ecs.Event{
			Type: ecs.EventFracture,
			Data: ecs.FractureEvent{Source: e, Pieces: pieces, Err: err},
		})
	}
}

// RequestFracture queues e for the next FractureSystem update.
func RequestFracture(w *ecs.World, e ecs.Entity, reason string) error {
	return ecs.Add(w, e, component.FractureRequestComponent, component.FractureRequest{Reason: reason})
}
