package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/questx-lab/spinwin/internal/model"
	"github.com/questx-lab/spinwin/pkg/authenticator"
	"github.com/questx-lab/spinwin/pkg/router"
	"github.com/questx-lab/spinwin/pkg/xcontext"
)

// Authenticate reads the admin access token from the Authorization header or
// the access token cookie. A missing or invalid token leaves the request
// anonymous.
func Authenticate(tokenEngine authenticator.TokenEngine[model.AdminToken]) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := accessToken(ctx)
		if token == "" {
			return nil, nil
		}

		admin, err := tokenEngine.Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, nil
		}

		return xcontext.WithRequestAdmin(ctx, admin.Email), nil
	}
}

func accessToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)

	if auth := req.Header.Get("Authorization"); auth != "" {
		scheme, token, found := strings.Cut(auth, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		if err != http.ErrNoCookie {
			xcontext.Logger(ctx).Debugf("Cannot read access token cookie: %v", err)
		}
		return ""
	}

	return cookie.Value
}
