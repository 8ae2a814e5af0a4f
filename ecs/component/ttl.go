package component

// TTL is a frame-based time-to-live. The TTL system destroys the entity after
// the given number of update ticks.
type TTL struct {
	Frames int
}

var TTLComponent = NewComponent[TTL]()
