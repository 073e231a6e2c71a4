package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/questx-lab/spinwin/internal/common"
	"github.com/questx-lab/spinwin/pkg/errorx"
	"github.com/questx-lab/spinwin/pkg/router"
	"github.com/questx-lab/spinwin/pkg/xcontext"
)

const (
	sessionIDKey       = "session_id"
	maxSessionIDLength = 64
)

// PlayerSession identifies the player by the session header or the session
// cookie, and starts a new cookie session when neither is present.
func PlayerSession() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		req := xcontext.HTTPRequest(ctx)
		w := xcontext.HTTPWriter(ctx)

		if id := req.Header.Get(common.SessionIDHeader); id != "" {
			if len(id) > maxSessionIDLength {
				return nil, errorx.New(errorx.BadRequest, "Invalid session id")
			}

			return xcontext.WithSessionID(ctx, id), nil
		}

		cfg := xcontext.Configs(ctx).Session
		session, err := xcontext.SessionStore(ctx).Get(req, cfg.Name)
		if err != nil {
			// A cookie signed by another secret is replaced by a new session.
			xcontext.Logger(ctx).Debugf("Cannot decode session cookie: %v", err)
		}
		if session == nil {
			return nil, errorx.Unknown
		}

		id, _ := session.Values[sessionIDKey].(string)
		if id == "" {
			id = uuid.NewString()
			session.Values[sessionIDKey] = id
			session.Options.MaxAge = int(cfg.TTL.Seconds())
			session.Options.HttpOnly = true
			session.Options.SameSite = http.SameSiteLaxMode
			if err := session.Save(req, w); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot save session: %v", err)
				return nil, errorx.Unknown
			}
		}

		w.Header().Set(common.SessionIDHeader, id)
		return xcontext.WithSessionID(ctx, id), nil
	}
}
