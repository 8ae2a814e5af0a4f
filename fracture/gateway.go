package fracture

import (
	"fmt"

	"github.com/milk9111/shatter/common"
	"github.com/milk9111/shatter/ecs"
	"github.com/milk9111/shatter/ecs/component"
	"github.com/milk9111/shatter/physics"
)

// WorldGateway creates pieces as ECS entities. Their bodies are attached by
// the physics system on its next update, which then runs OnAttached.
type WorldGateway struct {
	world       *ecs.World
	units       common.Units
	maxEntities int
	ttlFrames   int
	bodies      physics.World
	maxBodies   int
}

type GatewayOption func(*WorldGateway)

// WithMaxEntities caps the number of live pieces. Zero means no cap.
func WithMaxEntities(n int) GatewayOption {
	return func(g *WorldGateway) { g.maxEntities = n }
}

// WithPieceTTL gives every piece a TTL component. Zero keeps pieces forever.
func WithPieceTTL(frames int) GatewayOption {
	return func(g *WorldGateway) { g.ttlFrames = frames }
}

// WithBodyLimit makes CreateEntity fail once the physics world could not
// attach another body: live bodies plus pieces still waiting for one reach
// max. Zero means no limit.
func WithBodyLimit(pw physics.World, max int) GatewayOption {
	return func(g *WorldGateway) {
		g.bodies = pw
		g.maxBodies = max
	}
}

func NewWorldGateway(w *ecs.World, units common.Units, opts ...GatewayOption) *WorldGateway {
	g := &WorldGateway{world: w, units: units}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *WorldGateway) CreateEntity(spec PieceSpec) (ecs.Entity, error) {
	if g.maxEntities > 0 && len(g.world.Query(component.PieceComponent.Kind())) >= g.maxEntities {
		return 0, ErrGatewayFull
	}
	if g.bodies != nil && g.maxBodies > 0 && g.bodies.BodyCount()+g.pendingBodies() >= g.maxBodies {
		return 0, fmt.Errorf("%w: %w", ErrGatewayFull, physics.ErrBodyLimit)
	}

	e := g.world.CreateEntity()
	if err := g.addPieceComponents(e, spec); err != nil {
		g.world.DestroyEntity(e)
		return 0, fmt.Errorf("fracture: create piece: %w", err)
	}
	return e, nil
}

// pendingBodies counts entities whose body the physics system has yet to
// create.
func (g *WorldGateway) pendingBodies() int {
	n := 0
	for _, e := range g.world.Query(component.PhysicsBodyComponent.Kind()) {
		if b, ok := ecs.Get(g.world, e, component.PhysicsBodyComponent); ok && b.Body == nil {
			n++
		}
	}
	return n
}

func (g *WorldGateway) addPieceComponents(e ecs.Entity, spec PieceSpec) error {
	pos := g.units.VecToPixels(spec.Position)
	if err := ecs.Add(g.world, e, component.TransformComponent, component.Transform{X: pos.X, Y: pos.Y, Rotation: spec.Angle}); err != nil {
		return err
	}
	if err := ecs.Add(g.world, e, component.EntityTypeComponent, spec.Type); err != nil {
		return err
	}
	body := component.PhysicsBody{
		Def: physics.BodyDef{
			Position: spec.Position,
			Angle:    spec.Angle,
			Fixtures: []physics.FixtureDef{spec.Fixture},
			UserData: e,
		},
		OnInitialized: spec.OnAttached,
	}
	if err := ecs.Add(g.world, e, component.PhysicsBodyComponent, body); err != nil {
		return err
	}
	if err := ecs.Add(g.world, e, component.ViewComponent, spec.View); err != nil {
		return err
	}
	if err := ecs.Add(g.world, e, component.PieceComponent, component.Piece{Parent: uint64(spec.Parent), Fixture: spec.FixtureIndex}); err != nil {
		return err
	}
	if layer, ok := ecs.Get(g.world, spec.Parent, component.RenderLayerComponent); ok {
		if err := ecs.Add(g.world, e, component.RenderLayerComponent, layer); err != nil {
			return err
		}
	}
	if g.ttlFrames > 0 {
		if err := ecs.Add(g.world, e, component.TTLComponent, component.TTL{Frames: g.ttlFrames}); err != nil {
			return err
		}
	}
	return nil
}

// RemoveEntity destroys e. Its body is released by the physics system.
func (g *WorldGateway) RemoveEntity(e ecs.Entity) error {
	if !g.world.DestroyEntity(e) {
		return fmt.Errorf("fracture: remove entity %v: %w", e, component.ErrEntityNotAlive)
	}
	return nil
}

func (g *WorldGateway) DestroyFixture(b physics.Body, f physics.Fixture) error {
	if b == nil {
		return ErrNotAttached
	}
	return b.DestroyFixture(f)
}
