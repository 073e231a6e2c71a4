package gamesession

import (
	"context"
	"time"

	"github.com/questx-lab/spinwin/internal/common"
	"github.com/questx-lab/spinwin/pkg/pubsub"
	"github.com/questx-lab/spinwin/pkg/xcontext"
)

// NewEventSubscribeHandler counts the consumed game events by type and game.
// Malformed messages are logged and skipped.
func NewEventSubscribeHandler() pubsub.SubscribeHandler {
	return func(ctx context.Context, topic string, pack *pubsub.Pack, t time.Time) {
		ge, err := DeserializeGameEvent(pack.Msg)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot deserialize game event of topic %s: %v", topic, err)
			return
		}

		if _, err := DecodePayload(ge.Event); err != nil {
			xcontext.Logger(ctx).Warnf("Invalid payload of game event %s: %v", ge.Event.Type, err)
			return
		}

		common.PromCounters[common.GameEventTotal].
			WithLabelValues(string(ge.Event.Type), string(ge.Event.Game)).Inc()

		xcontext.Logger(ctx).Debugf("Session %s tracked %s (%s) %s ago",
			ge.SessionID, ge.Event.Type, ge.Event.Game, time.Since(t).Round(time.Millisecond))
	}
}
