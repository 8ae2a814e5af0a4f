package b2d

import (
	"github.com/ByteArena/box2d"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/shatter/physics"
)

type Body struct {
	world     *World
	body      *box2d.B2Body
	fixtures  []*Fixture
	userData  any
	destroyed bool
}

type Fixture struct {
	body    *Body
	fixture *box2d.B2Fixture
	kind    physics.ShapeKind
	verts   []cp.Vector
	radius  float64
}

func (b *Body) addFixture(fd physics.FixtureDef) {
	def := box2d.MakeB2FixtureDef()
	def.Friction = fd.Friction
	def.Restitution = fd.Elasticity
	def.Density = fd.Density
	if def.Density <= 0 {
		def.Density = defaultDensity
	}

	switch fd.Kind {
	case physics.ShapePolygon:
		shape := box2d.MakeB2PolygonShape()
		verts := make([]box2d.B2Vec2, len(fd.Vertices))
		for i, v := range fd.Vertices {
			verts[i] = toB2(v)
		}
		shape.Set(verts, len(verts))
		def.Shape = &shape
	case physics.ShapeCircle:
		shape := box2d.MakeB2CircleShape()
		shape.M_radius = fd.Radius
		if len(fd.Vertices) > 0 {
			shape.M_p = toB2(fd.Vertices[0])
		}
		def.Shape = &shape
	case physics.ShapeSegment:
		shape := box2d.MakeB2EdgeShape()
		shape.Set(toB2(fd.Vertices[0]), toB2(fd.Vertices[1]))
		def.Shape = &shape
	}

	f := &Fixture{body: b, kind: fd.Kind, radius: fd.Radius}
	def.UserData = f
	f.fixture = b.body.CreateFixtureFromDef(&def)

	if poly, ok := f.fixture.GetShape().(*box2d.B2PolygonShape); ok {
		f.verts = make([]cp.Vector, poly.M_count)
		for i := range f.verts {
			f.verts[i] = fromB2(poly.M_vertices[i])
		}
	} else {
		f.verts = physics.CopyVertices(fd.Vertices)
	}
	b.fixtures = append(b.fixtures, f)
}

// B2 returns the Box2D body.
func (b *Body) B2() *box2d.B2Body {
	return b.body
}

func (b *Body) Position() cp.Vector {
	return fromB2(b.body.GetPosition())
}

func (b *Body) Angle() float64 {
	return b.body.GetAngle()
}

func (b *Body) Velocity() cp.Vector {
	return fromB2(b.body.GetLinearVelocity())
}

func (b *Body) SetVelocity(v cp.Vector) {
	b.body.SetLinearVelocity(toB2(v))
}

func (b *Body) AngularVelocity() float64 {
	return b.body.GetAngularVelocity()
}

func (b *Body) SetAngularVelocity(w float64) {
	b.body.SetAngularVelocity(w)
}

func (b *Body) WorldCenter() cp.Vector {
	return fromB2(b.body.GetWorldCenter())
}

func (b *Body) Mass() float64 {
	return b.body.GetMass()
}

func (b *Body) Fixtures() []physics.Fixture {
	out := make([]physics.Fixture, 0, len(b.fixtures))
	for _, f := range b.fixtures {
		out = append(out, f)
	}
	return out
}

func (b *Body) DestroyFixture(f physics.Fixture) error {
	if b.destroyed {
		return physics.ErrBodyDestroyed
	}
	fixture, ok := f.(*Fixture)
	if !ok || fixture.body != b {
		return physics.ErrUnknownFixture
	}
	for i, candidate := range b.fixtures {
		if candidate != fixture {
			continue
		}
		b.body.DestroyFixture(fixture.fixture)
		b.fixtures = append(b.fixtures[:i], b.fixtures[i+1:]...)
		fixture.body = nil
		return nil
	}
	return physics.ErrUnknownFixture
}

func (b *Body) UserData() any {
	return b.userData
}

func (f *Fixture) Kind() physics.ShapeKind {
	return f.kind
}

func (f *Fixture) Vertices() []cp.Vector {
	return physics.CopyVertices(f.verts)
}

func (f *Fixture) Radius() float64 {
	return f.radius
}

// B2 returns the Box2D fixture backing the fixture.
func (f *Fixture) B2() *box2d.B2Fixture {
	return f.fixture
}
