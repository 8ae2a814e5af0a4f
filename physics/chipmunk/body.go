package chipmunk

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/shatter/physics"
)

type Body struct {
	world     *World
	body      *cp.Body
	fixtures  []*Fixture
	userData  any
	destroyed bool
}

type Fixture struct {
	body   *Body
	shape  *cp.Shape
	kind   physics.ShapeKind
	verts  []cp.Vector
	radius float64
}

func (b *Body) addFixture(fd physics.FixtureDef) {
	var shape *cp.Shape
	switch fd.Kind {
	case physics.ShapePolygon:
		shape = cp.NewPolyShape(b.body, len(fd.Vertices), fd.Vertices, cp.NewTransformIdentity(), fd.Radius)
	case physics.ShapeCircle:
		offset := cp.Vector{}
		if len(fd.Vertices) > 0 {
			offset = fd.Vertices[0]
		}
		shape = cp.NewCircle(b.body, fd.Radius, offset)
	case physics.ShapeSegment:
		shape = cp.NewSegment(b.body, fd.Vertices[0], fd.Vertices[1], fd.Radius)
	}

	density := fd.Density
	if density <= 0 {
		density = defaultDensity
	}
	if b.body.GetType() == cp.BODY_DYNAMIC {
		shape.SetDensity(density)
	}
	shape.SetFriction(fd.Friction)
	shape.SetElasticity(fd.Elasticity)

	f := &Fixture{body: b, shape: shape, kind: fd.Kind, radius: fd.Radius}
	shape.UserData = f
	b.world.space.AddShape(shape)

	if poly, ok := shape.Class.(*cp.PolyShape); ok {
		f.verts = make([]cp.Vector, poly.Count())
		for i := range f.verts {
			f.verts[i] = poly.Vert(i)
		}
	} else {
		f.verts = physics.CopyVertices(fd.Vertices)
	}
	b.fixtures = append(b.fixtures, f)
}

// CP returns the Chipmunk body.
func (b *Body) CP() *cp.Body {
	return b.body
}

func (b *Body) Position() cp.Vector {
	return b.body.Position()
}

func (b *Body) Angle() float64 {
	return b.body.Angle()
}

func (b *Body) Velocity() cp.Vector {
	return b.body.Velocity()
}

func (b *Body) SetVelocity(v cp.Vector) {
	b.body.SetVelocityVector(v)
}

func (b *Body) AngularVelocity() float64 {
	return b.body.AngularVelocity()
}

func (b *Body) SetAngularVelocity(w float64) {
	b.body.SetAngularVelocity(w)
}

func (b *Body) WorldCenter() cp.Vector {
	return b.body.LocalToWorld(b.body.CenterOfGravity())
}

func (b *Body) Mass() float64 {
	if b.body.GetType() != cp.BODY_DYNAMIC {
		return 0
	}
	return b.body.Mass()
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
		b.world.space.RemoveShape(fixture.shape)
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

// Shape returns the Chipmunk shape backing the fixture.
func (f *Fixture) Shape() *cp.Shape {
	return f.shape
}
