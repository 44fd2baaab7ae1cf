package ecs

import (
	"fmt"

	"github.com/milk9111/locomotion/ecs/component"
)

// Add inserts or replaces the component value of e.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	if !w.IsAlive(e) {
		return fmt.Errorf("%w: %s", component.ErrEntityNotAlive, e)
	}
	s := storeFor(w, handle.Kind(), true)
	if s == nil {
		return component.ErrInvalidComponentKind
	}
	s.set(e, value)
	return nil
}

// AddPtr is Add for callers holding a pointer. A nil value is rejected.
func AddPtr[T any](w *World, e Entity, handle component.ComponentHandle[T], value *T) error {
	if value == nil {
		return component.ErrNilComponent
	}
	return Add(w, e, handle, *value)
}

// Get returns a copy of the component value of e.
func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (T, bool) {
	var zero T
	p, ok := GetPtr(w, e, handle)
	if !ok {
		return zero, false
	}
	return *p, true
}

// GetPtr returns a pointer to the stored component of e. It is valid until the
// next Add or Remove of that component kind.
func GetPtr[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	if !w.IsAlive(e) {
		return nil, false
	}
	s := storeFor(w, handle.Kind(), false)
	if s == nil {
		return nil, false
	}
	return s.get(e)
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	_, ok := GetPtr(w, e, handle)
	return ok
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	s := storeFor(w, handle.Kind(), false)
	if s == nil {
		return false
	}
	return s.remove(e)
}

// ForEach calls fn for every live entity with a component of kind. fn must not
// add or remove components of kind.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(e Entity, v *T)) {
	s := storeFor(w, kind, false)
	if s == nil || fn == nil {
		return
	}
	for i, e := range s.denseEntities {
		if w.entities.isAlive(e) {
			fn(e, &s.denseValues[i])
		}
	}
}

// ForEach2 calls fn for every live entity that has both components.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(e Entity, a *A, b *B)) {
	sa, sb := storeFor(w, ka, false), storeFor(w, kb, false)
	if sa == nil || sb == nil || fn == nil {
		return
	}
	for _, e := range w.Query(ka, kb) {
		a, _ := sa.get(e)
		b, _ := sb.get(e)
		fn(e, a, b)
	}
}

// ForEach3 calls fn for every live entity that has all three components.
func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(e Entity, a *A, b *B, c *C)) {
	sa, sb, sc := storeFor(w, ka, false), storeFor(w, kb, false), storeFor(w, kc, false)
	if sa == nil || sb == nil || sc == nil || fn == nil {
		return
	}
	for _, e := range w.Query(ka, kb, kc) {
		a, _ := sa.get(e)
		b, _ := sb.get(e)
		c, _ := sc.get(e)
		fn(e, a, b, c)
	}
}
