// Package physics describes rigid bodies and fixtures independently of the
// engine that simulates them. All lengths are in meters.
package physics

import (
	"errors"

	"github.com/jakecoffman/cp"
)

var (
	ErrBodyLimit         = errors.New("physics: body limit reached")
	ErrUnknownFixture    = errors.New("physics: fixture does not belong to body")
	ErrTooManyVertices   = errors.New("physics: polygon has too many vertices")
	ErrInvalidShape      = errors.New("physics: invalid shape")
	ErrBodyDestroyed     = errors.New("physics: body destroyed")
	ErrUnsupportedEngine = errors.New("physics: unsupported engine")
)

type ShapeKind int

const (
	ShapePolygon ShapeKind = iota
	ShapeCircle
	ShapeSegment
)

func (k ShapeKind) String() string {
	switch k {
	case ShapePolygon:
		return "polygon"
	case ShapeCircle:
		return "circle"
	case ShapeSegment:
		return "segment"
	default:
		return "unknown"
	}
}

// FixtureDef describes one collision shape attached to a body. Vertices are
// body-local. Circles use Radius and the first vertex (if any) as their
// offset; segments use the first two vertices.
type FixtureDef struct {
	Kind       ShapeKind
	Vertices   []cp.Vector
	Radius     float64
	Density    float64
	Friction   float64
	Elasticity float64
}

type BodyDef struct {
	Position cp.Vector
	Angle    float64
	Static   bool
	Fixtures []FixtureDef
	UserData any
}

type Fixture interface {
	Kind() ShapeKind
	// Vertices returns a copy of the fixture's body-local vertices.
	Vertices() []cp.Vector
	Radius() float64
}

type Body interface {
	Position() cp.Vector
	Angle() float64
	Velocity() cp.Vector
	SetVelocity(v cp.Vector)
	AngularVelocity() float64
	SetAngularVelocity(w float64)
	// WorldCenter is the center of mass in world coordinates.
	WorldCenter() cp.Vector
	// Mass is zero for static bodies.
	Mass() float64
	// Fixtures returns the attached fixtures in creation order.
	Fixtures() []Fixture
	DestroyFixture(f Fixture) error
	UserData() any
}

type World interface {
	CreateBody(def BodyDef) (Body, error)
	DestroyBody(b Body)
	Step(dt float64)
	BodyCount() int
	Gravity() cp.Vector
}

// Config is shared by every engine implementation.
type Config struct {
	Gravity   cp.Vector
	MaxBodies int
}

// CopyVertices returns an independent copy of verts.
func CopyVertices(verts []cp.Vector) []cp.Vector {
	if len(verts) == 0 {
		return nil
	}
	out := make([]cp.Vector, len(verts))
	copy(out, verts)
	return out
}

// Validate checks that a fixture definition can be turned into a shape.
func (d FixtureDef) Validate() error {
	switch d.Kind {
	case ShapePolygon:
		if len(d.Vertices) < 3 {
			return ErrInvalidShape
		}
	case ShapeCircle:
		if d.Radius <= 0 {
			return ErrInvalidShape
		}
	case ShapeSegment:
		if len(d.Vertices) < 2 {
			return ErrInvalidShape
		}
	default:
		return ErrInvalidShape
	}
	return nil
}
