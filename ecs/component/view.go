package component

import (
	"image/color"

	"github.com/jakecoffman/cp"
)

// View is the visual representation of an entity in pixels. A non-empty
// Outline is drawn as a polygon relative to the transform, otherwise a
// Width x Height rectangle centered on it.
type View struct {
	Width   float64
	Height  float64
	Color   color.RGBA
	Outline []cp.Vector
	Filled  bool
}

var ViewComponent = NewComponent[View]()
