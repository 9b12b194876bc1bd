package bus

import (
	"reflect"
	"sync"

	"github.com/go-faster/errors"
)

// Container resolves injectable handler parameters. The bus only consumes
// this interface; hosts are free to plug in any dependency injection
// implementation.
type Container interface {
	Resolve(t reflect.Type) (any, error)
}

// TypeContainer is a minimal map-backed Container: values are bound by their
// dynamic type and resolved by exact type or interface satisfaction.
type TypeContainer struct {
	mu     sync.RWMutex
	values map[reflect.Type]any
}

func NewTypeContainer() *TypeContainer {
	return &TypeContainer{values: make(map[reflect.Type]any)}
}

// Bind registers a value under its dynamic type, replacing any previous
// binding for that type.
func (c *TypeContainer) Bind(v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[reflect.TypeOf(v)] = v
}

func (c *TypeContainer) Resolve(t reflect.Type) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.values[t]; ok {
		return v, nil
	}
	if t.Kind() == reflect.Interface {
		for bt, v := range c.values {
			if bt.Implements(t) {
				return v, nil
			}
		}
	}
	return nil, errors.Errorf("no binding for %s", t)
}
