package core

import (
	"fmt"
	"reflect"
	"sync"
)

// Container is a small registry modules use to share objects with each
// other. Prefer the typed Put/Get helpers over raw keys.
type Container interface {
	Set(key any, val any)
	Get(key any) (any, bool)
	MustGet(key any) any
}

type container struct {
	mu  sync.RWMutex
	reg map[any]any
}

func NewContainer() Container {
	return &container{reg: make(map[any]any)}
}

func (c *container) Set(key, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reg[key] = val
}

func (c *container) Get(key any) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.reg[key]
	return v, ok
}

func (c *container) MustGet(key any) any {
	if v, ok := c.Get(key); ok {
		return v
	}
	panic(fmt.Errorf("container: missing dependency %v (%T)", key, key))
}

// TypeKey gives each Go type its own container slot.
type TypeKey[T any] struct{}

// Put stores v under its type.
func Put[T any](c Container, v T) { c.Set(TypeKey[T]{}, v) }

// TryGet retrieves the value stored under T, reporting whether it was
// present with the right dynamic type.
func TryGet[T any](c Container) (T, bool) {
	raw, ok := c.Get(TypeKey[T]{})
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}

// Get retrieves the value stored under T, panicking when absent or of
// the wrong dynamic type.
func Get[T any](c Container) T {
	raw := c.MustGet(TypeKey[T]{})
	v, ok := raw.(T)
	if !ok {
		panic(fmt.Errorf("container: wrong type. have=%T want=%v", raw, reflect.TypeFor[T]()))
	}
	return v
}
