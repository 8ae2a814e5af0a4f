package system

import (
	"github.com/milk9111/shatter/ecs"
	"github.com/milk9111/shatter/ecs/component"
)

// TTLSystem counts down TTL components and destroys entities whose TTL
// reaches zero. The physics system releases their bodies afterwards.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.TTLComponent, func(e ecs.Entity, ttl component.TTL) {
		if ttl.Frames > 1 {
			ttl.Frames--
			_ = ecs.Add(w, e, component.TTLComponent, ttl)
			return
		}
		w.DestroyEntity(e)
	})
}
