package entity

import (
	"fmt"

	"github.com/milk9111/shatter/common"
	"github.com/milk9111/shatter/ecs"
	"github.com/milk9111/shatter/prefabs"
)

// LoadScene builds every entity a scene places, in file order.
func LoadScene(w *ecs.World, name string, units common.Units) ([]ecs.Entity, error) {
	spec, err := prefabs.LoadSceneSpec(name)
	if err != nil {
		return nil, err
	}
	return BuildScene(w, spec, units)
}

func BuildScene(w *ecs.World, spec prefabs.SceneSpec, units common.Units) ([]ecs.Entity, error) {
	out := make([]ecs.Entity, 0, len(spec.Entities))
	for i, es := range spec.Entities {
		e, err := BuildEntity(w, es.Prefab, units, &Placement{
			X:               es.X,
			Y:               es.Y,
			Rotation:        es.Rotation,
			Velocity:        vec(es.Velocity),
			AngularVelocity: es.AngularVelocity,
		})
		if err != nil {
			return out, fmt.Errorf("scene %q: entity %d: %w", spec.Name, i, err)
		}
		out = append(out, e)
	}
	return out, nil
}
