package component

// Transform is an entity's pose in screen pixels. X/Y is the body origin.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
