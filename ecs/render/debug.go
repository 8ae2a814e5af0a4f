package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/shatter/common"
	"github.com/milk9111/shatter/ecs"
	"github.com/milk9111/shatter/ecs/component"
	"github.com/milk9111/shatter/physics"
	"github.com/milk9111/shatter/physics/chipmunk"
	"golang.org/x/image/colornames"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// DrawPhysicsDebug outlines every collision shape. Chipmunk worlds are drawn
// through cp.DrawSpace; other engines are drawn from the ECS bodies.
func DrawPhysicsDebug(world physics.World, units common.Units, w *ecs.World, screen *ebiten.Image) {
	if world == nil || screen == nil {
		return
	}
	drawer := &physicsDebugDrawer{screen: screen, scale: units.PixelsPerMeter()}
	if cw, ok := world.(*chipmunk.World); ok {
		cp.DrawSpace(cw.Space(), drawer)
		return
	}
	if w == nil {
		return
	}
	for _, e := range w.Query(component.PhysicsBodyComponent.Kind()) {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok || bodyComp.Body == nil {
			continue
		}
		drawer.drawBody(bodyComp.Body)
	}
}

// DrawStats prints body and entity counts in the top-left corner.
func DrawStats(world physics.World, w *ecs.World, screen *ebiten.Image, extra string) {
	if world == nil || w == nil || screen == nil {
		return
	}
	pieces := len(w.Query(component.PieceComponent.Kind()))
	text := fmt.Sprintf("TPS: %0.1f\nBodies: %d\nEntities: %d\nPieces: %d", ebiten.ActualTPS(), world.BodyCount(), len(w.Entities()), pieces)
	if extra != "" {
		text += "\n" + extra
	}
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	scale  float64
}

func (d *physicsDebugDrawer) drawBody(b physics.Body) {
	pos, angle := b.Position(), b.Angle()
	toWorld := func(p cp.Vector) cp.Vector {
		return common.Add(pos, common.Rotate(p, angle))
	}
	outline := d.OutlineColor()
	for _, fx := range b.Fixtures() {
		verts := fx.Vertices()
		switch fx.Kind() {
		case physics.ShapeCircle:
			center := cp.Vector{}
			if len(verts) > 0 {
				center = verts[0]
			}
			d.DrawCircle(toWorld(center), angle, fx.Radius(), outline, outline, nil)
		case physics.ShapeSegment:
			d.drawLine(toWorld(verts[0]), toWorld(verts[1]), outline)
		default:
			world := make([]cp.Vector, len(verts))
			for i, v := range verts {
				world[i] = toWorld(v)
			}
			d.drawPolygon(world, outline)
		}
	}
	d.DrawDot(debugDotSize, b.WorldCenter(), d.CollisionPointColor(), nil)
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

// DrawDot size is in screen pixels.
func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	half := size / 2 / d.scale
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return toFColor(colornames.Lime)
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return toFColor(colornames.Orange)
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return toFColor(colornames.Yellow)
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

// drawLine takes world coordinates in meters.
func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	vector.StrokeLine(d.screen,
		float32(a.X*d.scale), float32(a.Y*d.scale),
		float32(b.X*d.scale), float32(b.Y*d.scale),
		1, toNRGBA(c), true)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func toFColor(c color.RGBA) cp.FColor {
	return cp.FColor{R: float32(c.R) / 255, G: float32(c.G) / 255, B: float32(c.B) / 255, A: float32(c.A) / 255}
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(common.Clamp(float64(c.R), 0, 1) * 255),
		G: uint8(common.Clamp(float64(c.G), 0, 1) * 255),
		B: uint8(common.Clamp(float64(c.B), 0, 1) * 255),
		A: uint8(common.Clamp(float64(c.A), 0, 1) * 255),
	}
}
