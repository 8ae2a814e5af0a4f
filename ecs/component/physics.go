package component

import "github.com/milk9111/shatter/physics"

// PhysicsBody stores the definition of a body (meters) and, once the physics
// system has attached it, the live body. OnInitialized runs once right after
// the body is created, before the next simulation step.
type PhysicsBody struct {
	Def           physics.BodyDef
	Body          physics.Body
	OnInitialized func(physics.Body)
	Initialized   bool
}

// Attached reports whether the physics system has created the body.
func (p PhysicsBody) Attached() bool {
	return p.Body != nil
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
