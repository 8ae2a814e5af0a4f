package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/shatter/common"
	"github.com/milk9111/shatter/ecs"
	"github.com/milk9111/shatter/ecs/component"
	"github.com/milk9111/shatter/physics"
)

// PickBreakable returns the breakable entity whose polygon fixtures contain
// the given point in pixels. Circles are tested by radius.
func PickBreakable(w *ecs.World, units common.Units, px cp.Vector) (ecs.Entity, bool) {
	if w == nil {
		return 0, false
	}
	p := units.VecToMeters(px)
	for _, e := range w.Query(component.BreakableComponent.Kind(), component.PhysicsBodyComponent.Kind()) {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok || bodyComp.Body == nil {
			continue
		}
		body := bodyComp.Body
		local := common.Rotate(common.Sub(p, body.Position()), -body.Angle())
		for _, fx := range body.Fixtures() {
			verts := fx.Vertices()
			switch fx.Kind() {
			case physics.ShapeCircle:
				center := cp.Vector{}
				if len(verts) > 0 {
					center = verts[0]
				}
				if local.Distance(center) <= fx.Radius() {
					return e, true
				}
			case physics.ShapePolygon:
				if common.PointInConvex(verts, local) {
					return e, true
				}
			}
		}
	}
	return 0, false
}
