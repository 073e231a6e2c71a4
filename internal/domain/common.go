package domain

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/pkg/enum"
	"github.com/questx-lab/spinwin/pkg/errorx"
	"github.com/questx-lab/spinwin/pkg/xcontext"
)

// parseGame accepts a game key (spinGame) or a game name (Spin & Win).
func parseGame(s string) (entity.GameName, error) {
	if key, err := enum.ToEnum[entity.GameKey](s); err == nil {
		return key.GameName(), nil
	}

	if name, err := enum.ToEnum[entity.GameName](s); err == nil {
		return name, nil
	}

	return "", errorx.New(errorx.BadRequest, "Invalid game %s", s)
}

func parseGameKey(s string) (entity.GameKey, error) {
	game, err := parseGame(s)
	if err != nil {
		return "", err
	}

	return game.Key(), nil
}

func requestSessionID(ctx context.Context) (string, error) {
	id := xcontext.SessionID(ctx)
	if id == "" {
		return "", errorx.New(errorx.Unauthenticated, "Missing session")
	}

	return id, nil
}

// clientIP prefers the proxy headers over the remote address.
func clientIP(req *http.Request) string {
	if req == nil {
		return ""
	}

	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	if realIP := req.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}

	return host
}

func userAgent(req *http.Request) string {
	if req == nil {
		return ""
	}

	return req.UserAgent()
}

var timeNow = time.Now

func formatMillis(ms int64) string {
	if ms == 0 {
		return ""
	}

	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
