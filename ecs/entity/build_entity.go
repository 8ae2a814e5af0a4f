package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shatter/common"
	"github.com/milk9111/shatter/ecs"
	"github.com/milk9111/shatter/ecs/component"
	"github.com/milk9111/shatter/physics"
	"github.com/milk9111/shatter/prefabs"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

// Placement overrides the prefab transform. Velocity is in px/s.
type Placement struct {
	X               float64
	Y               float64
	Rotation        float64
	Velocity        cp.Vector
	AngularVelocity float64
}

type buildContext struct {
	PrefabPath string
	Units      common.Units
	Placement  *Placement
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"entity_type":  addEntityType,
	"transform":    addTransform,
	"render_layer": addRenderLayer,
	"physics_body": addPhysicsBody,
	"view":         addView,
	"breakable":    addBreakable,
	"ttl":          addTTL,
}

// physics_body reads the transform and view reads the fixtures.
var componentBuildOrder = []string{
	"entity_type",
	"transform",
	"render_layer",
	"physics_body",
	"view",
	"breakable",
	"ttl",
}

func BuildEntity(w *ecs.World, prefabPath string, units common.Units, at *Placement) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return buildFromSpec(w, spec, &buildContext{PrefabPath: prefabPath, Units: units, Placement: at})
}

func buildFromSpec(w *ecs.World, spec entityPrefabSpec, ctx *buildContext) (ecs.Entity, error) {
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", ctx.PrefabPath)
	}

	for name := range spec.Components {
		if _, ok := componentRegistry[name]; !ok {
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", ctx.PrefabPath, name)
		}
	}

	e := w.CreateEntity()
	if ctx.Placement != nil {
		if _, ok := spec.Components["transform"]; !ok {
			spec.Components["transform"] = map[string]any{}
		}
	}
	for _, name := range componentBuildOrder {
		raw, ok := spec.Components[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			w.DestroyEntity(e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", ctx.PrefabPath, name, err)
		}
	}

	return e, nil
}

// ComponentNames lists every component a prefab may use.
func ComponentNames() []string {
	names := make([]string, 0, len(componentRegistry))
	for name := range componentRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func addEntityType(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	s, ok := raw.(string)
	if !ok {
		return fmt.Errorf("entity_type must be a string")
	}
	return ecs.Add(w, e, component.EntityTypeComponent, component.EntityType(strings.TrimSpace(s)))
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	t := component.Transform{X: spec.X, Y: spec.Y, Rotation: spec.Rotation}
	if p := ctx.Placement; p != nil {
		t = component.Transform{X: p.X, Y: p.Y, Rotation: p.Rotation}
	}
	return ecs.Add(w, e, component.TransformComponent, t)
}

type renderLayerSpec = prefabs.RenderLayerComponentSpec

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[renderLayerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode render layer spec: %w", err)
	}
	return ecs.Add(w, e, component.RenderLayerComponent, component.RenderLayer{Index: spec.Index})
}

type physicsBodySpec = prefabs.PhysicsBodyComponentSpec

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[physicsBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}

	units := ctx.Units
	def := physics.BodyDef{Static: spec.Static}
	if t, ok := ecs.Get(w, e, component.TransformComponent); ok {
		def.Position = units.VecToMeters(cp.Vector{X: t.X, Y: t.Y})
		def.Angle = t.Rotation
	}
	for i, fs := range spec.Fixtures {
		fd, err := fixtureDef(fs, units)
		if err != nil {
			return fmt.Errorf("fixture %d: %w", i, err)
		}
		fd.Density = spec.Density
		fd.Friction = spec.Friction
		fd.Elasticity = spec.Elasticity
		if err := fd.Validate(); err != nil {
			return fmt.Errorf("fixture %d: %w", i, err)
		}
		def.Fixtures = append(def.Fixtures, fd)
	}

	body := component.PhysicsBody{Def: def}
	if p := ctx.Placement; p != nil && !spec.Static && (p.Velocity != (cp.Vector{}) || p.AngularVelocity != 0) {
		vel := units.VecToMeters(p.Velocity)
		spin := p.AngularVelocity
		body.OnInitialized = func(b physics.Body) {
			b.SetVelocity(vel)
			b.SetAngularVelocity(spin)
		}
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent, body)
}

func fixtureDef(fs prefabs.FixtureSpec, units common.Units) (physics.FixtureDef, error) {
	offset := units.VecToMeters(vec(fs.Offset))
	switch strings.ToLower(fs.Kind) {
	case "", "polygon", "box":
		var verts []cp.Vector
		if fs.Box != nil {
			hw, hh := units.ToMeters(fs.Box[0]/2), units.ToMeters(fs.Box[1]/2)
			verts = []cp.Vector{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
		} else {
			for _, v := range fs.Vertices {
				verts = append(verts, units.VecToMeters(vec(v)))
			}
		}
		return physics.FixtureDef{Kind: physics.ShapePolygon, Vertices: common.Translate(verts, offset)}, nil
	case "circle":
		return physics.FixtureDef{Kind: physics.ShapeCircle, Radius: units.ToMeters(fs.Radius), Vertices: []cp.Vector{offset}}, nil
	case "segment":
		if len(fs.Vertices) != 2 {
			return physics.FixtureDef{}, fmt.Errorf("segment needs 2 vertices, got %d", len(fs.Vertices))
		}
		verts := []cp.Vector{units.VecToMeters(vec(fs.Vertices[0])), units.VecToMeters(vec(fs.Vertices[1]))}
		return physics.FixtureDef{Kind: physics.ShapeSegment, Vertices: common.Translate(verts, offset), Radius: units.ToMeters(fs.Radius)}, nil
	default:
		return physics.FixtureDef{}, fmt.Errorf("unknown fixture kind %q", fs.Kind)
	}
}

type viewSpec = prefabs.ViewComponentSpec

func addView(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[viewSpec](raw)
	if err != nil {
		return fmt.Errorf("decode view spec: %w", err)
	}
	view := component.View{
		Width:  spec.Width,
		Height: spec.Height,
		Color:  spec.Color.RGBA,
		Filled: spec.Filled == nil || *spec.Filled,
	}
	if spec.Outline {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok {
			return fmt.Errorf("outline view needs a physics_body")
		}
		var all []cp.Vector
		for _, fd := range bodyComp.Def.Fixtures {
			if fd.Kind == physics.ShapePolygon {
				all = append(all, fd.Vertices...)
			}
		}
		view.Outline = ctx.Units.PolyToPixels(common.Hull(all))
		if view.Width == 0 && view.Height == 0 {
			view.Width, view.Height = common.Bounds(view.Outline)
		}
	}
	return ecs.Add(w, e, component.ViewComponent, view)
}

type breakableSpec = prefabs.BreakableComponentSpec

func addBreakable(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[breakableSpec](raw)
	if err != nil {
		return fmt.Errorf("decode breakable spec: %w", err)
	}
	return ecs.Add(w, e, component.BreakableComponent, component.Breakable{
		Script:   spec.Script,
		MinSpeed: spec.MinSpeed,
		Health:   spec.Health,
	})
}

type ttlSpec = prefabs.TTLComponentSpec

func addTTL(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[ttlSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ttl spec: %w", err)
	}
	if spec.Frames <= 0 {
		return fmt.Errorf("ttl frames must be positive")
	}
	return ecs.Add(w, e, component.TTLComponent, component.TTL{Frames: spec.Frames})
}

func vec(v prefabs.Vec) cp.Vector {
	return cp.Vector{X: v[0], Y: v[1]}
}
