package app

import (
	"github.com/mlange-42/arche/ecs"
)

// Component is a typed handle for one component type of a world.
type Component[T any] struct {
	id    ecs.ID
	world *ecs.World
}

func NewComponent[T any](w *ecs.World) Component[T] {
	return Component[T]{id: ecs.ComponentID[T](w), world: w}
}

func (c Component[T]) ID() ecs.ID {
	return c.id
}

func (c Component[T]) Has(e ecs.Entity) bool {
	return c.world.Alive(e) && c.world.Has(e, c.id)
}

// Get returns nil when the entity lacks the component.
func (c Component[T]) Get(e ecs.Entity) *T {
	if !c.Has(e) {
		return nil
	}
	return (*T)(c.world.Get(e, c.id))
}

// Set adds the component if missing and stores value.
func (c Component[T]) Set(e ecs.Entity, value T) {
	if !c.world.Has(e, c.id) {
		c.world.Add(e, c.id)
	}
	*(*T)(c.world.Get(e, c.id)) = value
}

func (c Component[T]) Remove(e ecs.Entity) {
	if c.world.Alive(e) && c.world.Has(e, c.id) {
		c.world.Remove(e, c.id)
	}
}

// Entities collects every entity carrying the component.
func (c Component[T]) Entities() []ecs.Entity {
	query := c.world.Query(ecs.All(c.id))
	result := make([]ecs.Entity, 0, query.Count())
	for query.Next() {
		result = append(result, query.Entity())
	}
	return result
}
