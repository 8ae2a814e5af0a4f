// Package chipmunk implements physics.World on top of Chipmunk2D.
package chipmunk

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shatter/physics"
)

const (
	spaceIterations = 20
	defaultDensity  = 1.0
)

// World owns a Chipmunk space and the bodies created through it.
type World struct {
	space     *cp.Space
	bodies    map[*Body]struct{}
	maxBodies int
}

func New(cfg physics.Config) *World {
	space := cp.NewSpace()
	space.Iterations = spaceIterations
	space.SetGravity(cfg.Gravity)
	return &World{
		space:     space,
		bodies:    make(map[*Body]struct{}),
		maxBodies: cfg.MaxBodies,
	}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

func (w *World) Gravity() cp.Vector {
	if w == nil || w.space == nil {
		return cp.Vector{}
	}
	return w.space.Gravity()
}

func (w *World) BodyCount() int {
	if w == nil {
		return 0
	}
	return len(w.bodies)
}

func (w *World) CreateBody(def physics.BodyDef) (physics.Body, error) {
	if w == nil || w.space == nil {
		return nil, fmt.Errorf("chipmunk: create body: nil world")
	}
	if w.maxBodies > 0 && len(w.bodies) >= w.maxBodies {
		return nil, physics.ErrBodyLimit
	}
	for i, fd := range def.Fixtures {
		if err := fd.Validate(); err != nil {
			return nil, fmt.Errorf("chipmunk: fixture %d: %w", i, err)
		}
	}

	var cpBody *cp.Body
	if def.Static {
		cpBody = cp.NewStaticBody()
	} else {
		cpBody = cp.NewBody(0, 0)
	}
	cpBody.SetPosition(def.Position)
	cpBody.SetAngle(def.Angle)
	w.space.AddBody(cpBody)

	body := &Body{world: w, body: cpBody, userData: def.UserData}
	cpBody.UserData = body
	for _, fd := range def.Fixtures {
		body.addFixture(fd)
	}

	w.bodies[body] = struct{}{}
	return body, nil
}

func (w *World) DestroyBody(b physics.Body) {
	if w == nil || b == nil {
		return
	}
	body, ok := b.(*Body)
	if !ok {
		return
	}
	if _, ok := w.bodies[body]; !ok {
		return
	}
	for _, f := range body.fixtures {
		w.space.RemoveShape(f.shape)
	}
	body.fixtures = nil
	w.space.RemoveBody(body.body)
	body.destroyed = true
	delete(w.bodies, body)
}

func (w *World) Step(dt float64) {
	if w == nil || w.space == nil {
		return
	}
	w.space.Step(dt)
}
