package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

func Add(a, b cp.Vector) cp.Vector {
	return cp.Vector{X: a.X + b.X, Y: a.Y + b.Y}
}

func Sub(a, b cp.Vector) cp.Vector {
	return cp.Vector{X: a.X - b.X, Y: a.Y - b.Y}
}

// Cross returns w x v for a scalar angular velocity w, i.e. the linear
// velocity of a point at offset v on a body spinning at w.
func Cross(w float64, v cp.Vector) cp.Vector {
	return cp.Vector{X: -w * v.Y, Y: w * v.X}
}

// Rotate rotates v counter-clockwise by angle radians.
func Rotate(v cp.Vector, angle float64) cp.Vector {
	s, c := math.Sincos(angle)
	return cp.Vector{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// BoundingCenter returns the center of the axis-aligned bounding box of verts.
// Callers must pass at least one vertex; an empty slice yields the zero vector.
func BoundingCenter(verts []cp.Vector) cp.Vector {
	if len(verts) == 0 {
		return cp.Vector{}
	}
	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	for _, v := range verts {
		minX = math.Min(minX, v.X)
		maxX = math.Max(maxX, v.X)
		minY = math.Min(minY, v.Y)
		maxY = math.Max(maxY, v.Y)
	}
	return cp.Vector{X: (minX + maxX) / 2, Y: (minY + maxY) / 2}
}

// Bounds returns the width and height of the bounding box of verts.
func Bounds(verts []cp.Vector) (float64, float64) {
	if len(verts) == 0 {
		return 0, 0
	}
	minX, maxX := verts[0].X, verts[0].X
	minY, maxY := verts[0].Y, verts[0].Y
	for _, v := range verts[1:] {
		minX = math.Min(minX, v.X)
		maxX = math.Max(maxX, v.X)
		minY = math.Min(minY, v.Y)
		maxY = math.Max(maxY, v.Y)
	}
	return maxX - minX, maxY - minY
}

// PolygonArea returns the signed area of a simple polygon. Counter-clockwise
// winding gives a positive result.
func PolygonArea(verts []cp.Vector) float64 {
	n := len(verts)
	if n < 3 {
		return 0
	}
	area := 0.0
	j := n - 1
	for i := 0; i < n; i++ {
		area += verts[j].X*verts[i].Y - verts[i].X*verts[j].Y
		j = i
	}
	return area / 2
}

// PointInConvex reports whether p lies inside (or on the boundary of) the
// convex polygon verts, for either winding.
func PointInConvex(verts []cp.Vector, p cp.Vector) bool {
	n := len(verts)
	if n < 3 {
		return false
	}
	sign := 0.0
	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]
		c := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if c == 0 {
			continue
		}
		if sign == 0 {
			sign = c
			continue
		}
		if (c > 0) != (sign > 0) {
			return false
		}
	}
	return true
}

// Translate returns a copy of verts shifted by offset.
func Translate(verts []cp.Vector, offset cp.Vector) []cp.Vector {
	out := make([]cp.Vector, len(verts))
	for i, v := range verts {
		out[i] = Add(v, offset)
	}
	return out
}

// Hull returns the convex hull of verts in counter-clockwise order.
func Hull(verts []cp.Vector) []cp.Vector {
	if len(verts) < 3 {
		return Translate(verts, cp.Vector{})
	}
	out := Translate(verts, cp.Vector{})
	n := cp.ConvexHull(len(out), out, nil, 0)
	return out[:n]
}
