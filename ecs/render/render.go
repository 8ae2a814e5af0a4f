// Package render draws ECS views with ebiten.
package render

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/shatter/common"
	"github.com/milk9111/shatter/ecs"
	"github.com/milk9111/shatter/ecs/component"
)

var whitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(1, 1)
	img.Fill(color.White)
	return img
}()

type RenderSystem struct {
	// OutlineWidth is the stroke width in pixels; zero disables outlines.
	OutlineWidth float32
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{OutlineWidth: 1}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	entities := w.Query(component.TransformComponent.Kind(), component.ViewComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		li := 0
		if layer, ok := ecs.Get(w, entities[i], component.RenderLayerComponent); ok {
			li = layer.Index
		}
		lj := 0
		if layer, ok := ecs.Get(w, entities[j], component.RenderLayerComponent); ok {
			lj = layer.Index
		}
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		v, ok := ecs.Get(w, e, component.ViewComponent)
		if !ok {
			continue
		}
		outline := v.Outline
		if len(outline) < 3 {
			outline = rectOutline(v.Width, v.Height)
		}
		pts := placeOutline(outline, t)
		if v.Filled {
			fillPolygon(screen, pts, v.Color)
		}
		if r.OutlineWidth > 0 {
			strokePolygon(screen, pts, r.OutlineWidth, darken(v.Color))
		}
	}
}

func rectOutline(w, h float64) []cp.Vector {
	hw, hh := w/2, h/2
	return []cp.Vector{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
}

// placeOutline rotates a local outline by the transform and moves it to the
// transform's position.
func placeOutline(local []cp.Vector, t component.Transform) []cp.Vector {
	out := make([]cp.Vector, len(local))
	origin := cp.Vector{X: t.X, Y: t.Y}
	for i, p := range local {
		out[i] = common.Add(origin, common.Rotate(p, t.Rotation))
	}
	return out
}

func fillPolygon(screen *ebiten.Image, pts []cp.Vector, c color.RGBA) {
	if len(pts) < 3 {
		return
	}
	r, g, b, a := float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255
	vs := make([]ebiten.Vertex, len(pts))
	for i, p := range pts {
		vs[i] = ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		}
	}
	// triangle fan, outlines are convex
	is := make([]uint16, 0, (len(pts)-2)*3)
	for i := 1; i < len(pts)-1; i++ {
		is = append(is, 0, uint16(i), uint16(i+1))
	}
	screen.DrawTriangles(vs, is, whitePixel, &ebiten.DrawTrianglesOptions{})
}

func strokePolygon(screen *ebiten.Image, pts []cp.Vector, width float32, c color.Color) {
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, c, true)
	}
}

func darken(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 255}
}
