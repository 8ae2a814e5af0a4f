package sandbox

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/shatter/ecs"
	"github.com/milk9111/shatter/ecs/component"
)

// Momentum sums the motion of every attached dynamic body, in SI units.
type Momentum struct {
	Linear  cp.Vector
	Mass    float64
	Bodies  int
	Angular float64
}

// MeasureMomentum totals linear momentum and the mass-weighted angular
// velocity of every attached body.
func MeasureMomentum(w *ecs.World) Momentum {
	var m Momentum
	for _, e := range w.Query(component.PhysicsBodyComponent.Kind()) {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok || bodyComp.Body == nil {
			continue
		}
		mass := bodyComp.Body.Mass()
		if mass <= 0 {
			continue
		}
		m.Linear = m.Linear.Add(bodyComp.Body.Velocity().Mult(mass))
		m.Angular += bodyComp.Body.AngularVelocity() * mass
		m.Mass += mass
		m.Bodies++
	}
	return m
}

// CenterVelocity is the velocity of the center of mass.
func (m Momentum) CenterVelocity() cp.Vector {
	if m.Mass <= 0 {
		return cp.Vector{}
	}
	return m.Linear.Mult(1 / m.Mass)
}
