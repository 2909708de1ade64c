package middleware

import (
	"github.com/danielgtaylor/huma/v2"
)

// Container wraps Middlewares with build-up helpers.
type Container struct {
	huma.Middlewares
}

// NewContainer creates an empty middleware container.
func NewContainer() *Container {
	return &Container{
		Middlewares: make(huma.Middlewares, 0),
	}
}

// Add appends a single middleware to the container.
func (mc *Container) Add(middleware func(ctx huma.Context, next func(huma.Context))) {
	mc.Middlewares = append(mc.Middlewares, middleware)
}

// GetAllAndClear returns the accumulated middlewares and resets the list.
func (mc *Container) GetAllAndClear() huma.Middlewares {
	result := mc.Middlewares
	mc.Middlewares = nil
	return result
}
