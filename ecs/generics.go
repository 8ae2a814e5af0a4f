package ecs

import (
	"fmt"

	"github.com/milk9111/shatter/ecs/component"
)

// Add stores value as e's T, replacing any previous one. Errors name the
// component and entity and wrap the component package sentinels.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	if err := w.AddComponent(e, handle.Kind().ID(), value); err != nil {
		return fmt.Errorf("ecs: add %s to entity %v: %w", handle.Kind(), e, err)
	}
	return nil
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.RemoveComponent(e, handle.Kind().ID())
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.HasComponent(e, handle.Kind().ID())
}

func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (T, bool) {
	var zero T
	value, ok := w.GetComponent(e, handle.Kind().ID())
	if !ok {
		return zero, false
	}
	cast, ok := value.(T)
	if !ok {
		return zero, false
	}
	return cast, true
}

// ForEach calls fn with a copy of every T in ascending entity order. Use Add
// to write changes back. fn may destroy entities.
func ForEach[T any](w *World, handle component.ComponentHandle[T], fn func(e Entity, value T)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range w.Query(handle.Kind()) {
		if v, ok := Get(w, e, handle); ok {
			fn(e, v)
		}
	}
}
