package middleware

import (
	"context"

	"github.com/questx-lab/spinwin/pkg/errorx"
	"github.com/questx-lab/spinwin/pkg/router"
	"github.com/questx-lab/spinwin/pkg/xcontext"
)

func OnlyAdmin() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestAdmin(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return nil, nil
	}
}

// NoStore stops browsers and proxies from caching admin data.
func NoStore() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		xcontext.HTTPWriter(ctx).Header().Set("Cache-Control", "no-store")
		return nil, nil
	}
}
