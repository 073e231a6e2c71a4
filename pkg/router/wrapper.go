package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/spinwin/pkg/errorx"
	"github.com/questx-lab/spinwin/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	r Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := r.root
		ctx = xcontext.WithHTTPRequest(ctx, c.Request)
		ctx = xcontext.WithHTTPWriter(ctx, c.Writer)
		ctx = xcontext.WithStartTime(ctx, time.Now())

		defer func() {
			for _, closer := range r.closers {
				closer(ctx)
			}
		}()

		var err error
		ctx, err = runMiddlewares(ctx, r.befores)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			return
		}

		req := new(Request)
		if err := bind(c, method, req); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind request: %v", err)
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid request"))
			return
		}

		resp, err := handler(ctx, req)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			return
		}

		ctx = xcontext.WithResponse(ctx, resp)
		ctx, err = runMiddlewares(ctx, r.afters)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
		}
	}
}

func runMiddlewares(ctx context.Context, middlewares []MiddlewareFunc) (context.Context, error) {
	for _, m := range middlewares {
		newCtx, err := m(ctx)
		if err != nil {
			return ctx, err
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	return ctx, nil
}

func bind(c *gin.Context, method string, req any) error {
	switch method {
	case http.MethodGet:
		return c.ShouldBindQuery(req)
	case http.MethodPost:
		// An empty body is a request without parameters.
		if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}

	return errors.New("unsupported method")
}
