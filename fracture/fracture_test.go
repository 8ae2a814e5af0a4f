package fracture

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shatter/common"
	"github.com/milk9111/shatter/ecs/component"
	"github.com/milk9111/shatter/physics"
	"golang.org/x/image/colornames"
)

const eps = 1e-6

func newTarget(fixtures ...physics.Fixture) (Target, *fakeBody) {
	body := &fakeBody{fixtures: fixtures}
	return Target{Entity: 7, Type: component.EntityTypeCrate, Body: body}, body
}

func TestFracturePieceCount(t *testing.T) {
	cases := []struct {
		name     string
		fixtures []physics.Fixture
		want     []string
	}{
		{
			name: "zero_fixtures",
			want: []string{"remove:7"},
		},
		{
			name:     "one_fixture",
			fixtures: []physics.Fixture{square(0, 0, 1)},
			want:     []string{"create:0", "destroy", "remove:7"},
		},
		{
			name:     "three_fixtures",
			fixtures: []physics.Fixture{square(0, 0, 1), square(1, 0, 1), square(2, 0, 1)},
			want:     []string{"create:0", "create:1", "create:2", "destroy", "destroy", "destroy", "remove:7"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target, body := newTarget(tc.fixtures...)
			gw := &fakeGateway{}
			pieces, err := New().Fracture(gw, target)
			if err != nil {
				t.Fatalf("fracture: %v", err)
			}
			if len(pieces) != len(tc.fixtures) {
				t.Fatalf("expected %d pieces, got %d", len(tc.fixtures), len(pieces))
			}
			if len(body.fixtures) != 0 {
				t.Fatalf("expected every source fixture destroyed, %d left", len(body.fixtures))
			}
			if len(gw.calls) != len(tc.want) {
				t.Fatalf("expected calls %v, got %v", tc.want, gw.calls)
			}
			for i := range tc.want {
				if gw.calls[i] != tc.want[i] {
					t.Fatalf("expected calls %v, got %v", tc.want, gw.calls)
				}
			}
		})
	}
}

func TestFractureRejectsBeforeMutating(t *testing.T) {
	circle := &fakeFixture{kind: physics.ShapeCircle, radius: 1}
	segment := &fakeFixture{kind: physics.ShapeSegment, verts: []cp.Vector{{}, {X: 1}}}

	cases := []struct {
		name     string
		fixtures []physics.Fixture
		want     error
	}{
		{"circle_after_polygon", []physics.Fixture{square(0, 0, 1), circle}, ErrUnsupportedShapeKind},
		{"segment", []physics.Fixture{segment}, ErrUnsupportedShapeKind},
		{"empty_polygon", []physics.Fixture{square(0, 0, 1), polygon()}, ErrDegenerateShape},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target, body := newTarget(tc.fixtures...)
			gw := &fakeGateway{}
			pieces, err := New().Fracture(gw, target)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(pieces) != 0 {
				t.Fatalf("expected no pieces, got %v", pieces)
			}
			if len(gw.calls) != 0 {
				t.Fatalf("expected no world mutation, got %v", gw.calls)
			}
			if len(body.fixtures) != len(tc.fixtures) {
				t.Fatalf("fixtures must be untouched")
			}
		})
	}
}

func TestFractureNotAttached(t *testing.T) {
	_, err := New().Fracture(&fakeGateway{}, Target{Entity: 1})
	if !errors.Is(err, ErrNotAttached) {
		t.Fatalf("expected ErrNotAttached, got %v", err)
	}
}

func TestFractureMutationFailure(t *testing.T) {
	target, body := newTarget(square(0, 0, 1), square(1, 0, 1), square(2, 0, 1))
	gw := &fakeGateway{failAfter: 2, failWith: errBoom}

	pieces, err := New().Fracture(gw, target)
	if !errors.Is(err, ErrWorldMutation) {
		t.Fatalf("expected ErrWorldMutation, got %v", err)
	}
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected the cause to be unwrappable, got %v", err)
	}
	var mutErr *WorldMutationError
	if !errors.As(err, &mutErr) || mutErr.Fixture != 1 {
		t.Fatalf("expected WorldMutationError for fixture 1, got %#v", err)
	}
	if len(pieces) != 1 {
		t.Fatalf("expected the one piece created before the failure, got %v", pieces)
	}
	if len(body.fixtures) != 3 {
		t.Fatalf("source fixtures must not be destroyed after a create failure")
	}
	for _, c := range gw.calls {
		if c == "remove:7" {
			t.Fatalf("parent must not be removed after a create failure")
		}
	}
}

func TestPlanPlacement(t *testing.T) {
	target, body := newTarget(square(0, 0, 2), square(2, -1, 1))
	body.position = cp.Vector{X: 10, Y: 5}
	body.angle = 0.7

	specs, err := New().Plan(target)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	want := []cp.Vector{{X: 11, Y: 6}, {X: 12.5, Y: 4.5}}
	if len(specs) != len(want) {
		t.Fatalf("expected %d specs, got %d", len(want), len(specs))
	}

	half := common.NewUnits(0).ToMeters(20)
	for i, spec := range specs {
		if spec.Position.Distance(want[i]) > eps {
			t.Fatalf("piece %d: expected position %v, got %v", i, want[i], spec.Position)
		}
		if spec.Angle != 0.7 {
			t.Fatalf("piece %d: expected angle 0.7, got %v", i, spec.Angle)
		}
		if spec.Type != component.EntityTypeCrate || spec.Parent != 7 || spec.FixtureIndex != i {
			t.Fatalf("piece %d: unexpected identity %+v", i, spec)
		}
		if spec.Fixture.Kind != physics.ShapePolygon {
			t.Fatalf("piece %d: expected polygon", i)
		}
		w, h := common.Bounds(spec.Fixture.Vertices)
		if !common.ApproxEqual(w, 2*half, eps) || !common.ApproxEqual(h, 2*half, eps) {
			t.Fatalf("piece %d: expected %vm box, got %vx%v", i, 2*half, w, h)
		}
		if spec.View.Width != 40 || spec.View.Height != 40 || spec.View.Color != colornames.Red {
			t.Fatalf("piece %d: unexpected view %+v", i, spec.View)
		}
	}
}

func TestPlanViewFromShape(t *testing.T) {
	target, _ := newTarget(square(0, 0, 2))
	specs, err := New(WithShaper(ScaledOriginal{Scale: 1}), WithViewFromShape(true)).Plan(target)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	v := specs[0].View
	if v.Width != 100 || v.Height != 100 || len(v.Outline) != 4 {
		t.Fatalf("expected a 100px outline view, got %+v", v)
	}
}

func TestInheritedMotion(t *testing.T) {
	cases := []struct {
		name   string
		v      cp.Vector
		w      float64
		parent cp.Vector
		piece  cp.Vector
		want   cp.Vector
	}{
		{"pure_translation", cp.Vector{X: 1, Y: 2}, 0, cp.Vector{}, cp.Vector{X: 3, Y: 4}, cp.Vector{X: 1, Y: 2}},
		{"spin_offset_x", cp.Vector{X: 1, Y: 2}, 3, cp.Vector{}, cp.Vector{X: 1}, cp.Vector{X: 1, Y: -1}},
		{"spin_offset_y", cp.Vector{}, 2, cp.Vector{X: 1, Y: 1}, cp.Vector{X: 1, Y: 2}, cp.Vector{X: 2}},
		{"at_center", cp.Vector{X: -5}, 10, cp.Vector{X: 2, Y: 2}, cp.Vector{X: 2, Y: 2}, cp.Vector{X: -5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target, body := newTarget(square(0, 0, 1))
			body.velocity = tc.v
			body.angularVelocity = tc.w
			body.center = tc.parent

			specs, err := New().Plan(target)
			if err != nil {
				t.Fatalf("plan: %v", err)
			}
			piece := &fakeBody{center: tc.piece}
			specs[0].OnAttached(piece)

			if piece.velocity.Distance(tc.want) > eps {
				t.Fatalf("expected velocity %v, got %v", tc.want, piece.velocity)
			}
			if math.Abs(piece.angularVelocity-tc.w) > eps {
				t.Fatalf("expected angular velocity %v, got %v", tc.w, piece.angularVelocity)
			}
		})
	}
}

func TestPlanSnapshotsBeforeMutation(t *testing.T) {
	target, body := newTarget(square(0, 0, 1))
	body.velocity = cp.Vector{X: 4}

	gw := &fakeGateway{}
	if _, err := New().Fracture(gw, target); err != nil {
		t.Fatalf("fracture: %v", err)
	}
	body.velocity = cp.Vector{X: -100}

	piece := &fakeBody{}
	gw.specs[0].OnAttached(piece)
	if piece.velocity.X != 4 {
		t.Fatalf("initializer must use the velocity at fracture time, got %v", piece.velocity)
	}
}
