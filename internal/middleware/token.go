package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/questx-lab/spinwin/pkg/router"
	"github.com/questx-lab/spinwin/pkg/xcontext"
)

type AccessTokenResponse interface {
	AccessTokenInfo() string
}

// HandleSetAccessToken stores the issued admin token in a cookie.
func HandleSetAccessToken() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		tokenResp, ok := xcontext.Response(ctx).(AccessTokenResponse)
		if ok {
			cfg := xcontext.Configs(ctx).Auth.AccessToken
			http.SetCookie(xcontext.HTTPWriter(ctx), &http.Cookie{
				Name:     cfg.Name,
				Value:    tokenResp.AccessTokenInfo(),
				Path:     "/",
				Expires:  time.Now().Add(cfg.Expiration),
				HttpOnly: true,
				SameSite: http.SameSiteStrictMode,
			})
		}

		return nil, nil
	}
}
