package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shatter/common"
	"github.com/milk9111/shatter/ecs"
	"github.com/milk9111/shatter/ecs/component"
	"github.com/milk9111/shatter/physics"
	"github.com/milk9111/shatter/physics/engines"
)

func TestPickBreakable(t *testing.T) {
	ps := newPhysics(t, engines.Chipmunk, physics.Config{})
	units := common.NewUnits(50)
	w := ecs.NewWorld()

	plank := w.CreateEntity()
	def := physics.BodyDef{
		Position: cp.Vector{X: 4, Y: 4},
		Angle:    math.Pi / 2,
		Fixtures: []physics.FixtureDef{{
			Kind:     physics.ShapePolygon,
			Vertices: []cp.Vector{{X: -2, Y: -0.25}, {X: 2, Y: -0.25}, {X: 2, Y: 0.25}, {X: -2, Y: 0.25}},
			Density:  1,
		}},
	}
	_ = ecs.Add(w, plank, component.PhysicsBodyComponent, component.PhysicsBody{Def: def})
	_ = ecs.Add(w, plank, component.BreakableComponent, component.Breakable{})

	ball := w.CreateEntity()
	_ = ecs.Add(w, ball, component.PhysicsBodyComponent, component.PhysicsBody{Def: physics.BodyDef{
		Position: cp.Vector{X: 10, Y: 10},
		Fixtures: []physics.FixtureDef{{Kind: physics.ShapeCircle, Radius: 1, Density: 1}},
	}})
	_ = ecs.Add(w, ball, component.BreakableComponent, component.Breakable{})

	ground := w.CreateEntity()
	_ = ecs.Add(w, ground, component.PhysicsBodyComponent, component.PhysicsBody{Def: boxDef(cp.Vector{X: 20, Y: 20}, 1)})
	ps.Attach(w)

	cases := []struct {
		name  string
		point cp.Vector // pixels
		want  ecs.Entity
		ok    bool
	}{
		{"rotated_plank_long_axis", cp.Vector{X: 200, Y: 290}, plank, true},
		{"rotated_plank_old_axis", cp.Vector{X: 290, Y: 200}, 0, false},
		{"ball", cp.Vector{X: 520, Y: 500}, ball, true},
		{"not_breakable", cp.Vector{X: 1000, Y: 1000}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PickBreakable(w, units, tc.point)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("expected (%v, %v), got (%v, %v)", tc.want, tc.ok, got, ok)
			}
		})
	}
}
