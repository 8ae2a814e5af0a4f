package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
}

type RenderLayerComponentSpec struct {
	Index int `yaml:"index"`
}

// FixtureSpec describes one fixture in pixels relative to the body origin.
// Box is a [w, h] shortcut for a polygon centered on Offset.
type FixtureSpec struct {
	Kind     string  `yaml:"kind"`
	Vertices []Vec   `yaml:"vertices"`
	Box      *Vec    `yaml:"box"`
	Offset   Vec     `yaml:"offset"`
	Radius   float64 `yaml:"radius"`
}

type PhysicsBodyComponentSpec struct {
	Static     bool          `yaml:"static"`
	Density    float64       `yaml:"density"`
	Friction   float64       `yaml:"friction"`
	Elasticity float64       `yaml:"elasticity"`
	Fixtures   []FixtureSpec `yaml:"fixtures"`
}

type ViewComponentSpec struct {
	Width  float64   `yaml:"width"`
	Height float64   `yaml:"height"`
	Color  YAMLColor `yaml:"color"`
	Filled *bool     `yaml:"filled"`
	// Outline draws the convex hull of the polygon fixtures instead of a
	// rectangle.
	Outline bool `yaml:"outline"`
}

type BreakableComponentSpec struct {
	Script   string  `yaml:"script"`
	MinSpeed float64 `yaml:"min_speed"`
	Health   float64 `yaml:"health"`
}

type TTLComponentSpec struct {
	Frames int `yaml:"frames"`
}
