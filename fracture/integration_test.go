package fracture_test

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shatter/common"
	"github.com/milk9111/shatter/ecs"
	"github.com/milk9111/shatter/ecs/component"
	"github.com/milk9111/shatter/ecs/system"
	"github.com/milk9111/shatter/fracture"
	"github.com/milk9111/shatter/physics"
	"github.com/milk9111/shatter/physics/engines"
)

const eps = 1e-6

type scene struct {
	world   *ecs.World
	physics *system.PhysicsSystem
	frac    *system.FractureSystem
	units   common.Units
}

func newScene(t *testing.T, engine string, opts ...fracture.GatewayOption) *scene {
	t.Helper()
	return newSceneConfig(t, engine, physics.Config{}, opts...)
}

// newSceneConfig builds a scene whose gateway respects cfg.MaxBodies.
func newSceneConfig(t *testing.T, engine string, cfg physics.Config, opts ...fracture.GatewayOption) *scene {
	t.Helper()
	pw, err := engines.New(engine, cfg)
	if err != nil {
		t.Fatalf("engine %s: %v", engine, err)
	}
	if cfg.MaxBodies > 0 {
		opts = append(opts, fracture.WithBodyLimit(pw, cfg.MaxBodies))
	}
	units := common.NewUnits(common.DefaultPixelsPerMeter)
	w := ecs.NewWorld()
	return &scene{
		world:   w,
		physics: system.NewPhysicsSystem(pw, units),
		frac:    system.NewFractureSystem(fracture.New(fracture.WithUnits(units)), fracture.NewWorldGateway(w, units, opts...)),
		units:   units,
	}
}

func box(x, y, size float64) physics.FixtureDef {
	return physics.FixtureDef{
		Kind:     physics.ShapePolygon,
		Vertices: []cp.Vector{{X: x, Y: y}, {X: x + size, Y: y}, {X: x + size, Y: y + size}, {X: x, Y: y + size}},
		Density:  1,
	}
}

func (s *scene) spawn(t *testing.T, def physics.BodyDef) (ecs.Entity, physics.Body) {
	t.Helper()
	e := s.world.CreateEntity()
	if err := ecs.Add(s.world, e, component.PhysicsBodyComponent, component.PhysicsBody{Def: def}); err != nil {
		t.Fatalf("add body: %v", err)
	}
	_ = ecs.Add(s.world, e, component.TransformComponent, component.Transform{})
	_ = ecs.Add(s.world, e, component.EntityTypeComponent, component.EntityTypePlank)
	s.physics.Attach(s.world)
	bodyComp, ok := ecs.Get(s.world, e, component.PhysicsBodyComponent)
	if !ok || bodyComp.Body == nil {
		t.Fatalf("body was not attached")
	}
	return e, bodyComp.Body
}

func TestFractureTransportsMotion(t *testing.T) {
	for _, engine := range engines.Names() {
		t.Run(engine, func(t *testing.T) {
			s := newScene(t, engine)
			parentEnt, parent := s.spawn(t, physics.BodyDef{
				Position: cp.Vector{X: 3, Y: 2},
				Angle:    0.3,
				Fixtures: []physics.FixtureDef{box(-1, -0.5, 1), box(0, -0.5, 1), box(1, -0.5, 1)},
			})
			parent.SetVelocity(cp.Vector{X: 2, Y: -1})
			parent.SetAngularVelocity(1.5)

			v := parent.Velocity()
			w := parent.AngularVelocity()
			c := parent.WorldCenter()
			pos := parent.Position()
			localCenters := []cp.Vector{{X: -0.5}, {X: 0.5}, {X: 1.5}}

			if err := system.RequestFracture(s.world, parentEnt, "test"); err != nil {
				t.Fatalf("request: %v", err)
			}
			s.frac.Update(s.world)

			events := s.world.Events().Drain()
			if len(events) != 1 {
				t.Fatalf("expected one fracture event, got %d", len(events))
			}
			evt := events[0].Data.(ecs.FractureEvent)
			if evt.Err != nil || evt.Source != parentEnt || len(evt.Pieces) != 3 {
				t.Fatalf("unexpected event %+v", evt)
			}
			if s.world.IsAlive(parentEnt) {
				t.Fatalf("parent should be removed")
			}

			s.physics.Attach(s.world)
			if got := s.physics.World().BodyCount(); got != 3 {
				t.Fatalf("expected parent released and 3 piece bodies, got %d", got)
			}

			for i, piece := range evt.Pieces {
				bodyComp, ok := ecs.Get(s.world, piece, component.PhysicsBodyComponent)
				if !ok || bodyComp.Body == nil || !bodyComp.Initialized {
					t.Fatalf("piece %d not attached", i)
				}
				b := bodyComp.Body
				p := common.Add(pos, localCenters[i])
				if b.WorldCenter().Distance(p) > eps {
					t.Fatalf("piece %d: expected center %v, got %v", i, p, b.WorldCenter())
				}
				want := common.Add(v, common.Cross(w, common.Sub(c, p)))
				if b.Velocity().Distance(want) > eps {
					t.Fatalf("piece %d: expected velocity %v, got %v", i, want, b.Velocity())
				}
				if b.AngularVelocity() != w {
					t.Fatalf("piece %d: expected angular velocity %v, got %v", i, w, b.AngularVelocity())
				}
				if b.Angle() != 0.3 {
					t.Fatalf("piece %d: expected angle 0.3, got %v", i, b.Angle())
				}
				typ, _ := ecs.Get(s.world, piece, component.EntityTypeComponent)
				if typ != component.EntityTypePlank {
					t.Fatalf("piece %d: expected parent type, got %q", i, typ)
				}
			}

			s.physics.Update(s.world)
		})
	}
}

func TestFractureZeroFixtureBody(t *testing.T) {
	for _, engine := range engines.Names() {
		t.Run(engine, func(t *testing.T) {
			s := newScene(t, engine)
			e, _ := s.spawn(t, physics.BodyDef{})
			_ = system.RequestFracture(s.world, e, "test")
			s.frac.Update(s.world)

			evt := s.world.Events().Drain()[0].Data.(ecs.FractureEvent)
			if evt.Err != nil || len(evt.Pieces) != 0 {
				t.Fatalf("expected no pieces and no error, got %+v", evt)
			}
			if s.world.IsAlive(e) {
				t.Fatalf("parent should be removed")
			}
			s.physics.Attach(s.world)
			if got := s.physics.World().BodyCount(); got != 0 {
				t.Fatalf("expected no bodies, got %d", got)
			}
		})
	}
}

func TestFractureUnsupportedShapeLeavesWorld(t *testing.T) {
	for _, engine := range engines.Names() {
		t.Run(engine, func(t *testing.T) {
			s := newScene(t, engine)
			e, body := s.spawn(t, physics.BodyDef{Fixtures: []physics.FixtureDef{
				box(0, 0, 1),
				{Kind: physics.ShapeCircle, Radius: 0.5, Density: 1},
			}})
			_ = ecs.Add(s.world, e, component.BreakableComponent, component.Breakable{})
			_ = system.RequestFracture(s.world, e, "test")
			s.frac.Update(s.world)

			evt := s.world.Events().Drain()[0].Data.(ecs.FractureEvent)
			if !errors.Is(evt.Err, fracture.ErrUnsupportedShapeKind) {
				t.Fatalf("expected ErrUnsupportedShapeKind, got %v", evt.Err)
			}
			if !s.world.IsAlive(e) || len(body.Fixtures()) != 2 {
				t.Fatalf("entity and fixtures must be untouched")
			}
			if ecs.Has(s.world, e, component.BreakableComponent) {
				t.Fatalf("unbreakable body should lose its Breakable component")
			}
		})
	}
}

func TestGatewayLimitStopsFracture(t *testing.T) {
	s := newScene(t, engines.Chipmunk, fracture.WithMaxEntities(1))
	e, body := s.spawn(t, physics.BodyDef{Fixtures: []physics.FixtureDef{box(0, 0, 1), box(1, 0, 1)}})
	_ = system.RequestFracture(s.world, e, "test")
	s.frac.Update(s.world)

	evt := s.world.Events().Drain()[0].Data.(ecs.FractureEvent)
	if !errors.Is(evt.Err, fracture.ErrWorldMutation) || !errors.Is(evt.Err, fracture.ErrGatewayFull) {
		t.Fatalf("expected a world mutation error caused by the gateway limit, got %v", evt.Err)
	}
	if len(evt.Pieces) != 1 {
		t.Fatalf("expected the first piece to survive, got %v", evt.Pieces)
	}
	if !s.world.IsAlive(e) || len(body.Fixtures()) != 2 {
		t.Fatalf("parent must be untouched when creation fails")
	}
}

func TestBodyLimitFailsBeforeDestroy(t *testing.T) {
	tests := []struct {
		name       string
		maxBodies  int
		wantPieces int
		wantErr    bool
	}{
		{name: "no_room", maxBodies: 1, wantPieces: 0, wantErr: true},
		{name: "room_for_one", maxBodies: 2, wantPieces: 1, wantErr: true},
		{name: "room_for_all", maxBodies: 3, wantPieces: 2},
	}
	for _, engine := range engines.Names() {
		for _, tc := range tests {
			t.Run(engine+"/"+tc.name, func(t *testing.T) {
				s := newSceneConfig(t, engine, physics.Config{MaxBodies: tc.maxBodies})
				e, body := s.spawn(t, physics.BodyDef{Fixtures: []physics.FixtureDef{box(0, 0, 1), box(1, 0, 1)}})
				_ = ecs.Add(s.world, e, component.BreakableComponent, component.Breakable{MinSpeed: 1})
				_ = system.RequestFracture(s.world, e, "test")
				s.frac.Update(s.world)

				evt := s.world.Events().Drain()[0].Data.(ecs.FractureEvent)
				if len(evt.Pieces) != tc.wantPieces {
					t.Fatalf("expected %d pieces, got %v", tc.wantPieces, evt.Pieces)
				}
				if tc.wantErr {
					if !errors.Is(evt.Err, fracture.ErrWorldMutation) || !errors.Is(evt.Err, physics.ErrBodyLimit) {
						t.Fatalf("expected a world mutation error caused by the body limit, got %v", evt.Err)
					}
					if !s.world.IsAlive(e) || len(body.Fixtures()) != 2 {
						t.Fatalf("parent must be untouched when creation fails")
					}
					if ecs.Has(s.world, e, component.BreakableComponent) {
						t.Fatalf("failed parent should stop being triggered")
					}
				} else if evt.Err != nil {
					t.Fatalf("unexpected error %v", evt.Err)
				}

				s.physics.Attach(s.world)
				for i, piece := range evt.Pieces {
					if !s.world.IsAlive(piece) {
						t.Fatalf("reported piece %d was destroyed during attach", i)
					}
					bodyComp, ok := ecs.Get(s.world, piece, component.PhysicsBodyComponent)
					if !ok || bodyComp.Body == nil {
						t.Fatalf("reported piece %d has no body", i)
					}
				}
			})
		}
	}
}

func TestPieceTTL(t *testing.T) {
	s := newScene(t, engines.Box2D, fracture.WithPieceTTL(2))
	e, _ := s.spawn(t, physics.BodyDef{Fixtures: []physics.FixtureDef{box(0, 0, 1)}})
	_ = system.RequestFracture(s.world, e, "test")
	s.frac.Update(s.world)
	pieces := s.world.Events().Drain()[0].Data.(ecs.FractureEvent).Pieces

	ttl := system.NewTTLSystem()
	ttl.Update(s.world)
	if !s.world.IsAlive(pieces[0]) {
		t.Fatalf("piece expired too early")
	}
	ttl.Update(s.world)
	if s.world.IsAlive(pieces[0]) {
		t.Fatalf("piece should have expired")
	}
}
