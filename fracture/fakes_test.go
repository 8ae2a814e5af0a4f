package fracture

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shatter/ecs"
	"github.com/milk9111/shatter/physics"
)

type fakeFixture struct {
	kind   physics.ShapeKind
	verts  []cp.Vector
	radius float64
}

func (f *fakeFixture) Kind() physics.ShapeKind { return f.kind }
func (f *fakeFixture) Vertices() []cp.Vector   { return physics.CopyVertices(f.verts) }
func (f *fakeFixture) Radius() float64         { return f.radius }

func polygon(verts ...cp.Vector) *fakeFixture {
	return &fakeFixture{kind: physics.ShapePolygon, verts: verts}
}

func square(x, y, size float64) *fakeFixture {
	return polygon(
		cp.Vector{X: x, Y: y},
		cp.Vector{X: x + size, Y: y},
		cp.Vector{X: x + size, Y: y + size},
		cp.Vector{X: x, Y: y + size},
	)
}

type fakeBody struct {
	position        cp.Vector
	angle           float64
	velocity        cp.Vector
	angularVelocity float64
	center          cp.Vector
	fixtures        []physics.Fixture
}

func (b *fakeBody) Position() cp.Vector          { return b.position }
func (b *fakeBody) Angle() float64               { return b.angle }
func (b *fakeBody) Velocity() cp.Vector          { return b.velocity }
func (b *fakeBody) SetVelocity(v cp.Vector)      { b.velocity = v }
func (b *fakeBody) AngularVelocity() float64     { return b.angularVelocity }
func (b *fakeBody) SetAngularVelocity(w float64) { b.angularVelocity = w }
func (b *fakeBody) WorldCenter() cp.Vector       { return b.center }
func (b *fakeBody) UserData() any                { return nil }
func (b *fakeBody) Mass() float64                { return 1 }

func (b *fakeBody) Fixtures() []physics.Fixture {
	out := make([]physics.Fixture, len(b.fixtures))
	copy(out, b.fixtures)
	return out
}

func (b *fakeBody) DestroyFixture(f physics.Fixture) error {
	for i, fx := range b.fixtures {
		if fx == f {
			b.fixtures = append(b.fixtures[:i], b.fixtures[i+1:]...)
			return nil
		}
	}
	return physics.ErrUnknownFixture
}

// fakeGateway records every call in order.
type fakeGateway struct {
	calls     []string
	specs     []PieceSpec
	next      ecs.Entity
	failAfter int // fail the n-th create (1-based), 0 = never
	failWith  error
}

var errBoom = errors.New("boom")

func (g *fakeGateway) CreateEntity(spec PieceSpec) (ecs.Entity, error) {
	if g.failAfter > 0 && len(g.specs)+1 == g.failAfter {
		g.calls = append(g.calls, "create-failed")
		return 0, g.failWith
	}
	g.next++
	g.specs = append(g.specs, spec)
	g.calls = append(g.calls, fmt.Sprintf("create:%d", spec.FixtureIndex))
	return 100 + g.next, nil
}

func (g *fakeGateway) RemoveEntity(e ecs.Entity) error {
	g.calls = append(g.calls, fmt.Sprintf("remove:%v", e))
	return nil
}

func (g *fakeGateway) DestroyFixture(b physics.Body, f physics.Fixture) error {
	g.calls = append(g.calls, "destroy")
	return b.DestroyFixture(f)
}
