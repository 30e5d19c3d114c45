package middleware

import "github.com/danielgtaylor/huma/v2"

// Container accumulates a middleware chain for one handler and hands it
// over, so the wiring code can reuse a single builder across handlers.
type Container struct {
	mws huma.Middlewares
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Add(mw func(huma.Context, func(huma.Context))) {
	c.mws = append(c.mws, mw)
}

// GetAllAndClear returns the accumulated chain and resets the container.
func (c *Container) GetAllAndClear() huma.Middlewares {
	mws := c.mws
	c.mws = nil
	return mws
}
