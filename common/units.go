package common

import "github.com/jakecoffman/cp"

// DefaultPixelsPerMeter is the scale used when none is configured.
const DefaultPixelsPerMeter = 50.0

// Units converts between simulation meters and screen pixels. The scale is
// fixed for the lifetime of a simulation.
type Units struct {
	pixelsPerMeter float64
}

func NewUnits(pixelsPerMeter float64) Units {
	if pixelsPerMeter <= 0 {
		pixelsPerMeter = DefaultPixelsPerMeter
	}
	return Units{pixelsPerMeter: pixelsPerMeter}
}

func (u Units) PixelsPerMeter() float64 {
	if u.pixelsPerMeter <= 0 {
		return DefaultPixelsPerMeter
	}
	return u.pixelsPerMeter
}

func (u Units) ToMeters(pixels float64) float64 {
	return pixels / u.PixelsPerMeter()
}

func (u Units) ToPixels(meters float64) float64 {
	return meters * u.PixelsPerMeter()
}

func (u Units) VecToMeters(v cp.Vector) cp.Vector {
	return cp.Vector{X: u.ToMeters(v.X), Y: u.ToMeters(v.Y)}
}

func (u Units) VecToPixels(v cp.Vector) cp.Vector {
	return cp.Vector{X: u.ToPixels(v.X), Y: u.ToPixels(v.Y)}
}

// PolyToPixels converts every vertex of a polygon to pixels.
func (u Units) PolyToPixels(verts []cp.Vector) []cp.Vector {
	out := make([]cp.Vector, len(verts))
	for i, v := range verts {
		out[i] = u.VecToPixels(v)
	}
	return out
}
