// Package di is a small service container with typed tokens.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry resolves services by name.
type ServiceRegistry interface {
	Get(name string) any
}

// Container is a ServiceRegistry that modules register into.
type Container interface {
	ServiceRegistry
	Register(name string, service any)
	RegisterFactory(name string, factory func(ServiceRegistry) any)
}

type container struct {
	mu        sync.Mutex
	services  map[string]any
	factories map[string]func(ServiceRegistry) any
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		services:  make(map[string]any),
		factories: make(map[string]func(ServiceRegistry) any),
	}
}

// Register stores a ready-made service.
func (c *container) Register(name string, service any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[name] = service
}

// RegisterFactory stores a constructor that runs once, on first Get.
func (c *container) RegisterFactory(name string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[name] = factory
}

// Get returns the named service, building it if needed. It panics on an
// unknown name; wiring mistakes are programming errors.
func (c *container) Get(name string) any {
	c.mu.Lock()
	if s, ok := c.services[name]; ok {
		c.mu.Unlock()
		return s
	}
	factory, ok := c.factories[name]
	c.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("di: no service registered as %q", name))
	}

	// Built outside the lock so factories can resolve their own deps.
	s := factory(c)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.services[name]; ok {
		return existing
	}
	c.services[name] = s
	return s
}

// Token names a service of type T.
type Token[T any] struct {
	name string
}

// NewToken creates a token.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

func (t Token[T]) String() string { return t.name }

// RegisterToken registers a typed factory under t.
func RegisterToken[T any](c Container, t Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(t.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves t.
func GetToken[T any](sr ServiceRegistry, t Token[T]) T {
	return sr.Get(t.name).(T)
}
