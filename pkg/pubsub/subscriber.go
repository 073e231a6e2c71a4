package pubsub

import (
	"context"
	"time"
)

// SubscribeHandler is called with the topic, the message and the time the
// message was produced.
type SubscribeHandler func(context.Context, string, *Pack, time.Time)

type Subscriber interface {
	// Subscribe blocks until the consumer joined its group.
	Subscribe(context.Context)
	Stop(context.Context) error
}
