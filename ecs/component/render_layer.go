package component

// RenderLayer orders drawing; lower layers draw first. Fracture pieces copy
// their parent's layer.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponent[RenderLayer]()
