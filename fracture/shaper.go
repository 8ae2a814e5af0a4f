package fracture

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shatter/common"
)

const (
	DefaultPieceSize = 40.0

	// maxFragmentVertices matches the Box2D polygon limit so every backend
	// accepts the fragments.
	maxFragmentVertices = 8
	minFragmentArea     = 1e-6
)

// Fragment is one shape produced from a source fixture. Offset is relative
// to the fixture's bounding center; Vertices are relative to the fragment's
// own body origin. Both are in meters.
type Fragment struct {
	Offset   cp.Vector
	Vertices []cp.Vector
}

// FragmentShaper decides which shapes replace a polygon fixture. verts are
// the fixture's body-local vertices and center their bounding center.
type FragmentShaper interface {
	Fragments(units common.Units, verts []cp.Vector, center cp.Vector) []Fragment
}

// FixedBox replaces every fixture with one square of Size pixels, whatever
// the fixture's own shape.
type FixedBox struct {
	Size float64
}

func (s FixedBox) Fragments(units common.Units, _ []cp.Vector, _ cp.Vector) []Fragment {
	size := s.Size
	if size <= 0 {
		size = DefaultPieceSize
	}
	h := units.ToMeters(size / 2)
	return []Fragment{{Vertices: []cp.Vector{{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h}}}}
}

// ScaledOriginal keeps the fixture's outline, scaled about its bounding
// center.
type ScaledOriginal struct {
	Scale float64
}

func (s ScaledOriginal) Fragments(_ common.Units, verts []cp.Vector, center cp.Vector) []Fragment {
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	out := make([]cp.Vector, len(verts))
	for i, v := range verts {
		out[i] = common.Sub(v, center).Mult(scale)
	}
	return []Fragment{{Vertices: out}}
}

// Voronoi splits a fixture into Worley cells of roughly CellSize pixels. The
// jittered grid is a pure function of Seed, so the same input always breaks
// the same way.
type Voronoi struct {
	CellSize float64
	Seed     uint32
}

type worley struct {
	seed          uint32
	cellSize      float64
	width, height int
	min, max      cp.Vector
}

func hashVect(x, y, seed uint32) cp.Vector {
	border := 0.05
	h := (x*1640531513 ^ y*2654435789) + seed
	return cp.Vector{
		X: common.Lerp(border, 1.0-border, float64(h&0xFFFF)/0xFFFF),
		Y: common.Lerp(border, 1.0-border, float64((h>>16)&0xFFFF)/0xFFFF),
	}
}

func (c *worley) point(i, j int) cp.Vector {
	fv := hashVect(uint32(i), uint32(j), c.seed)
	return cp.Vector{
		X: common.Lerp(c.min.X, c.max.X, 0.5) + c.cellSize*(float64(i)+fv.X-float64(c.width)*0.5),
		Y: common.Lerp(c.min.Y, c.max.Y, 0.5) + c.cellSize*(float64(j)+fv.Y-float64(c.height)*0.5),
	}
}

func (s Voronoi) Fragments(units common.Units, verts []cp.Vector, center cp.Vector) []Fragment {
	whole := []Fragment{fragmentFrom(verts, center)}
	cellSize := units.ToMeters(s.CellSize)
	if cellSize <= 0 || len(verts) < 3 {
		return whole
	}

	minV, maxV := verts[0], verts[0]
	for _, v := range verts[1:] {
		minV.X, minV.Y = math.Min(minV.X, v.X), math.Min(minV.Y, v.Y)
		maxV.X, maxV.Y = math.Max(maxV.X, v.X), math.Max(maxV.Y, v.Y)
	}
	ctx := &worley{
		seed:     s.Seed,
		cellSize: cellSize,
		width:    int((maxV.X-minV.X)/cellSize) + 1,
		height:   int((maxV.Y-minV.Y)/cellSize) + 1,
		min:      minV,
		max:      maxV,
	}

	var out []Fragment
	for i := 0; i < ctx.width; i++ {
		for j := 0; j < ctx.height; j++ {
			site := ctx.point(i, j)
			if !common.PointInConvex(verts, site) {
				continue
			}
			cell := common.Translate(verts, cp.Vector{})
			for oi := 0; oi < ctx.width && len(cell) > 0; oi++ {
				for oj := 0; oj < ctx.height && len(cell) > 0; oj++ {
					if oi == i && oj == j {
						continue
					}
					other := ctx.point(oi, oj)
					if !common.PointInConvex(verts, other) {
						continue
					}
					cell = clipCell(cell, site, other)
				}
			}
			if len(cell) < 3 || math.Abs(common.PolygonArea(cell)) < minFragmentArea {
				continue
			}
			out = append(out, fragmentFrom(reduceVertices(cell, maxFragmentVertices), center))
		}
	}
	if len(out) == 0 {
		return whole
	}
	return out
}

func fragmentFrom(verts []cp.Vector, fixtureCenter cp.Vector) Fragment {
	c := common.BoundingCenter(verts)
	return Fragment{
		Offset:   common.Sub(c, fixtureCenter),
		Vertices: common.Translate(verts, c.Neg()),
	}
}

// clipCell keeps the half of verts closer to site than to other.
func clipCell(verts []cp.Vector, site, other cp.Vector) []cp.Vector {
	n := other.Sub(site)
	dist := n.Dot(site.Lerp(other, 0.5))

	out := make([]cp.Vector, 0, len(verts)+1)
	prev := len(verts) - 1
	for cur := range verts {
		a := verts[prev]
		aDist := a.Dot(n) - dist
		if aDist <= 0 {
			out = append(out, a)
		}
		b := verts[cur]
		bDist := b.Dot(n) - dist
		if aDist*bDist < 0 {
			t := math.Abs(aDist) / (math.Abs(aDist) + math.Abs(bDist))
			out = append(out, a.Lerp(b, t))
		}
		prev = cur
	}
	return out
}

// reduceVertices drops the vertex spanning the smallest triangle with its
// neighbours until at most max remain. A convex input stays convex.
func reduceVertices(verts []cp.Vector, max int) []cp.Vector {
	for len(verts) > max {
		drop, best := 0, math.Inf(1)
		for i := range verts {
			prev := verts[(i+len(verts)-1)%len(verts)]
			next := verts[(i+1)%len(verts)]
			area := math.Abs(common.PolygonArea([]cp.Vector{prev, verts[i], next}))
			if area < best {
				drop, best = i, area
			}
		}
		verts = append(verts[:drop:drop], verts[drop+1:]...)
	}
	return verts
}
