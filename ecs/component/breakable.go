package component

// Breakable marks an entity that may be fractured. Script names a tengo break
// trigger under prefabs/scripts; without one the entity breaks once its speed
// (m/s) reaches MinSpeed. A zero MinSpeed and no script means it only breaks
// on explicit request.
type Breakable struct {
	Script   string
	MinSpeed float64
	Health   float64
	Age      int
}

var BreakableComponent = NewComponent[Breakable]()

// FractureRequest asks the fracture system to break the entity this tick.
type FractureRequest struct {
	Reason string
}

var FractureRequestComponent = NewComponent[FractureRequest]()
