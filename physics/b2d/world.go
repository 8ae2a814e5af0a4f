// Package b2d implements physics.World on top of the Box2D port.
package b2d

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/shatter/common"
	"github.com/milk9111/shatter/physics"
)

const (
	velocityIterations = 8
	positionIterations = 3
	defaultDensity     = 1.0
	minPolygonArea     = 1e-9
)

// World owns a Box2D world and the bodies created through it.
type World struct {
	world     box2d.B2World
	bodies    map[*Body]struct{}
	maxBodies int
}

func New(cfg physics.Config) *World {
	return &World{
		world:     box2d.MakeB2World(toB2(cfg.Gravity)),
		bodies:    make(map[*Body]struct{}),
		maxBodies: cfg.MaxBodies,
	}
}

// B2 returns the underlying Box2D world.
func (w *World) B2() *box2d.B2World {
	if w == nil {
		return nil
	}
	return &w.world
}

func (w *World) Gravity() cp.Vector {
	if w == nil {
		return cp.Vector{}
	}
	return fromB2(w.world.GetGravity())
}

func (w *World) BodyCount() int {
	if w == nil {
		return 0
	}
	return len(w.bodies)
}

func (w *World) CreateBody(def physics.BodyDef) (physics.Body, error) {
	if w == nil {
		return nil, fmt.Errorf("box2d: create body: nil world")
	}
	if w.maxBodies > 0 && len(w.bodies) >= w.maxBodies {
		return nil, physics.ErrBodyLimit
	}
	if w.world.IsLocked() {
		return nil, fmt.Errorf("box2d: create body: world is locked")
	}
	for i, fd := range def.Fixtures {
		if err := validate(fd); err != nil {
			return nil, fmt.Errorf("box2d: fixture %d: %w", i, err)
		}
	}

	bd := box2d.MakeB2BodyDef()
	if def.Static {
		bd.Type = box2d.B2BodyType.B2_staticBody
	} else {
		bd.Type = box2d.B2BodyType.B2_dynamicBody
	}
	bd.Position = toB2(def.Position)
	bd.Angle = def.Angle

	b2Body := w.world.CreateBody(&bd)
	if b2Body == nil {
		return nil, fmt.Errorf("box2d: create body: world rejected body")
	}

	body := &Body{world: w, body: b2Body, userData: def.UserData}
	b2Body.SetUserData(body)
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
	w.world.DestroyBody(body.body)
	body.fixtures = nil
	body.destroyed = true
	delete(w.bodies, body)
}

func (w *World) Step(dt float64) {
	if w == nil {
		return
	}
	w.world.Step(dt, velocityIterations, positionIterations)
}

// validate rejects shapes that Box2D would assert on.
func validate(fd physics.FixtureDef) error {
	if err := fd.Validate(); err != nil {
		return err
	}
	if fd.Kind != physics.ShapePolygon {
		return nil
	}
	if len(fd.Vertices) > box2d.B2_maxPolygonVertices {
		return physics.ErrTooManyVertices
	}
	if math.Abs(common.PolygonArea(fd.Vertices)) < minPolygonArea {
		return physics.ErrInvalidShape
	}
	return nil
}

func toB2(v cp.Vector) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(v.X, v.Y)
}

func fromB2(v box2d.B2Vec2) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}
