// Package fracture breaks a dynamic body into independent pieces that keep
// the body's motion at the instant it broke.
//
// Each piece leaves with the velocity of the parent's material at the
// piece's center of mass:
//
//	v_piece = v_parent + cross(w_parent, C_parent - P_piece)
//
// where C_parent is the parent's world center of mass and P_piece the
// piece's. Pieces inherit the parent's angle and angular velocity.
package fracture

import (
	"fmt"
	"image/color"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shatter/common"
	"github.com/milk9111/shatter/ecs"
	"github.com/milk9111/shatter/ecs/component"
	"github.com/milk9111/shatter/physics"
	"golang.org/x/image/colornames"
)

const DefaultViewRadius = 20.0

// Target is a fracturable entity as seen by the fracturer.
type Target struct {
	Entity ecs.Entity
	Type   component.EntityType
	Body   physics.Body
}

// PieceSpec describes one piece to be created. Position is in meters.
// OnAttached must be called exactly once, after the piece's body exists.
type PieceSpec struct {
	Type         component.EntityType
	Parent       ecs.Entity
	FixtureIndex int
	Position     cp.Vector
	Angle        float64
	Fixture      physics.FixtureDef
	View         component.View
	OnAttached   func(physics.Body)
}

// Gateway is the only way fracture touches the world.
type Gateway interface {
	CreateEntity(spec PieceSpec) (ecs.Entity, error)
	RemoveEntity(e ecs.Entity) error
	DestroyFixture(b physics.Body, f physics.Fixture) error
}

type snapshot struct {
	position        cp.Vector
	angle           float64
	velocity        cp.Vector
	angularVelocity float64
	center          cp.Vector
}

func takeSnapshot(b physics.Body) snapshot {
	return snapshot{
		position:        b.Position(),
		angle:           b.Angle(),
		velocity:        b.Velocity(),
		angularVelocity: b.AngularVelocity(),
		center:          b.WorldCenter(),
	}
}

// Fracturer is configured once and reused for every fracture.
type Fracturer struct {
	units         common.Units
	shaper        FragmentShaper
	viewRadius    float64
	viewFromShape bool
	density       float64
	friction      float64
	elasticity    float64
	color         color.RGBA
	debug         bool
}

type Option func(*Fracturer)

func WithUnits(u common.Units) Option {
	return func(f *Fracturer) { f.units = u }
}

func WithShaper(s FragmentShaper) Option {
	return func(f *Fracturer) {
		if s != nil {
			f.shaper = s
		}
	}
}

// WithViewRadius sets the half size in pixels of every piece's square view.
func WithViewRadius(r float64) Option {
	return func(f *Fracturer) {
		if r > 0 {
			f.viewRadius = r
		}
	}
}

// WithViewFromShape sizes each view from its piece's outline instead of the
// fixed radius.
func WithViewFromShape(on bool) Option {
	return func(f *Fracturer) { f.viewFromShape = on }
}

func WithMaterial(density, friction, elasticity float64) Option {
	return func(f *Fracturer) {
		f.density = density
		f.friction = friction
		f.elasticity = elasticity
	}
}

func WithColor(c color.RGBA) Option {
	return func(f *Fracturer) { f.color = c }
}

func WithDebug(on bool) Option {
	return func(f *Fracturer) { f.debug = on }
}

// New builds a fracturer with the reference behaviour: 40px box pieces drawn
// as red 40px squares.
func New(opts ...Option) *Fracturer {
	f := &Fracturer{
		units:      common.NewUnits(common.DefaultPixelsPerMeter),
		shaper:     FixedBox{Size: DefaultPieceSize},
		viewRadius: DefaultViewRadius,
		density:    1,
		friction:   0.5,
		color:      colornames.Red,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fracturer) Units() common.Units {
	return f.units
}

func validate(fixtures []physics.Fixture) error {
	for i, fx := range fixtures {
		if fx.Kind() != physics.ShapePolygon {
			return fmt.Errorf("fixture %d (%s): %w", i, fx.Kind(), ErrUnsupportedShapeKind)
		}
		if len(fx.Vertices()) == 0 {
			return fmt.Errorf("fixture %d: %w", i, ErrDegenerateShape)
		}
	}
	return nil
}

// Plan computes the pieces for target without touching the world.
func (f *Fracturer) Plan(target Target) ([]PieceSpec, error) {
	if target.Body == nil {
		return nil, ErrNotAttached
	}
	fixtures := target.Body.Fixtures()
	if err := validate(fixtures); err != nil {
		return nil, err
	}
	return f.plan(target, fixtures, takeSnapshot(target.Body)), nil
}

func (f *Fracturer) plan(target Target, fixtures []physics.Fixture, snap snapshot) []PieceSpec {
	specs := make([]PieceSpec, 0, len(fixtures))
	for i, fx := range fixtures {
		verts := fx.Vertices()
		localCenter := common.BoundingCenter(verts)
		for _, frag := range f.shaper.Fragments(f.units, verts, localCenter) {
			specs = append(specs, PieceSpec{
				Type:         target.Type,
				Parent:       target.Entity,
				FixtureIndex: i,
				Position:     common.Add(snap.position, common.Add(localCenter, frag.Offset)),
				Angle:        snap.angle,
				Fixture: physics.FixtureDef{
					Kind:       physics.ShapePolygon,
					Vertices:   frag.Vertices,
					Density:    f.density,
					Friction:   f.friction,
					Elasticity: f.elasticity,
				},
				View:       f.view(frag.Vertices),
				OnAttached: inheritMotion(snap),
			})
		}
	}
	return specs
}

func (f *Fracturer) view(verts []cp.Vector) component.View {
	if !f.viewFromShape {
		return component.View{
			Width:  f.viewRadius * 2,
			Height: f.viewRadius * 2,
			Color:  f.color,
			Filled: true,
		}
	}
	outline := f.units.PolyToPixels(verts)
	w, h := common.Bounds(outline)
	return component.View{Width: w, Height: h, Color: f.color, Outline: outline, Filled: true}
}

// inheritMotion returns the initializer that transports the parent's motion
// to a freshly attached piece body.
func inheritMotion(snap snapshot) func(physics.Body) {
	return func(b physics.Body) {
		offset := common.Sub(snap.center, b.WorldCenter())
		b.SetVelocity(common.Add(snap.velocity, common.Cross(snap.angularVelocity, offset)))
		b.SetAngularVelocity(snap.angularVelocity)
	}
}

// Fracture replaces target with its pieces. Every fixture is validated
// before anything changes, so ErrUnsupportedShapeKind and ErrDegenerateShape
// leave the world untouched. All pieces are created before any source
// fixture is destroyed. A gateway failure returns a *WorldMutationError
// along with the pieces created so far; they are not rolled back.
func (f *Fracturer) Fracture(gw Gateway, target Target) ([]ecs.Entity, error) {
	specs, err := f.Plan(target)
	if err != nil {
		return nil, err
	}
	fixtures := target.Body.Fixtures()

	pieces := make([]ecs.Entity, 0, len(specs))
	for _, spec := range specs {
		e, err := gw.CreateEntity(spec)
		if err != nil {
			return pieces, &WorldMutationError{Op: "create piece for", Fixture: spec.FixtureIndex, Err: err}
		}
		pieces = append(pieces, e)
		if f.debug {
			log.Printf("fracture: entity=%v piece=%v fixture=%d pos=%v", target.Entity, e, spec.FixtureIndex, spec.Position)
		}
	}

	for i, fx := range fixtures {
		if err := gw.DestroyFixture(target.Body, fx); err != nil {
			return pieces, &WorldMutationError{Op: "destroy", Fixture: i, Err: err}
		}
	}
	if err := gw.RemoveEntity(target.Entity); err != nil {
		return pieces, &WorldMutationError{Op: "remove parent", Fixture: -1, Err: err}
	}

	log.Printf("fracture: entity=%v fixtures=%d pieces=%d", target.Entity, len(fixtures), len(pieces))
	return pieces, nil
}
