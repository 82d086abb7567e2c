// Package middleware provides the HTTP middleware stack wrapped around every
// route: request ids, access logging with metrics, panic recovery, CORS and
// security headers.
package middleware

import (
	"net/http"

	"github.com/conneroisu/inkpot/internal/config"
	"github.com/conneroisu/inkpot/internal/logging"
)

// Middleware represents a single middleware function
type Middleware func(http.Handler) http.Handler

// Dependencies contains everything the default stack needs. Only Config is
// required.
type Dependencies struct {
	Config   *config.Config
	Logger   logging.Logger
	Observer RequestObserver
	// OnPanic writes the response after a handler panics. When nil a plain
	// 500 is written.
	OnPanic func(w http.ResponseWriter, r *http.Request)
}

// Chain is an ordered middleware stack. The first middleware added is the
// outermost: it sees the request first and the response last.
type Chain struct {
	deps        Dependencies
	middlewares []Middleware
}

// NewChain creates a chain holding the default stack.
func NewChain(deps Dependencies) *Chain {
	if deps.Config == nil {
		panic("middleware.NewChain: config cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}

	chain := &Chain{
		deps:        deps,
		middlewares: make([]Middleware, 0, 5),
	}
	chain.buildDefaultStack()

	return chain
}

func (c *Chain) buildDefaultStack() {
	logger := c.deps.Logger.WithComponent("http")

	c.Add(RequestID)
	c.Add(Logging(logger, c.deps.Observer))
	c.Add(Recover(logger, c.deps.OnPanic))
	c.Add(CORS(c.deps.Config.Server.AllowedOrigins, !c.deps.Config.IsProduction()))
	c.Add(SecurityHeaders)
}

// Add appends a middleware inside the ones already present.
func (c *Chain) Add(middleware Middleware) {
	c.middlewares = append(c.middlewares, middleware)
}

// Middlewares returns the stack in order, ready for chi's Router.Use.
func (c *Chain) Middlewares() []func(http.Handler) http.Handler {
	out := make([]func(http.Handler) http.Handler, len(c.middlewares))
	for i, m := range c.middlewares {
		out[i] = m
	}
	return out
}

// Apply wraps handler with the whole stack.
func (c *Chain) Apply(handler http.Handler) http.Handler {
	if handler == nil {
		panic("middleware.Chain.Apply: handler cannot be nil")
	}

	wrapped := handler
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		wrapped = c.middlewares[i](wrapped)
	}
	return wrapped
}

// Len returns the number of middlewares in the chain
func (c *Chain) Len() int {
	return len(c.middlewares)
}
