package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc may replace the context. A returned error stops the chain and
// is sent to the client.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs at the end of a request, in registration order.
type CloserFunc func(ctx context.Context)

type Router struct {
	Inner gin.IRouter

	root    context.Context
	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

// New returns a Router whose handlers receive a context derived from root.
// The first closer writes the response.
func New(root context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{
		Inner:   engine,
		root:    root,
		closers: []CloserFunc{handleResponse()},
	}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r.snapshot(), http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r.snapshot(), http.MethodPost, handler))
}

// Before adds a middleware running before the handlers registered later.
func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

// After adds a middleware running after a successful handler, before the
// response is written.
func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

// Branch returns a router sharing the routes whose middlewares can be
// extended without changing r.
func (r *Router) Branch() *Router {
	clone := r.snapshot()
	return &clone
}

func (r *Router) Group(pattern string) *Router {
	clone := r.snapshot()
	clone.Inner = r.Inner.Group(pattern)
	return &clone
}

// Handle registers a plain http.Handler, no middleware applies.
func (r *Router) Handle(method, pattern string, h http.Handler) {
	r.Inner.Handle(method, pattern, gin.WrapH(h))
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}

func (r *Router) snapshot() Router {
	return Router{
		Inner:   r.Inner,
		root:    r.root,
		befores: append([]MiddlewareFunc(nil), r.befores...),
		afters:  append([]MiddlewareFunc(nil), r.afters...),
		closers: append([]CloserFunc(nil), r.closers...),
	}
}
