package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/questx-lab/spinwin/internal/common"
	"github.com/questx-lab/spinwin/internal/domain/gamesession"
	"github.com/questx-lab/spinwin/pkg/kafka"
	"github.com/questx-lab/spinwin/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSubscriber(*cli.Context) error {
	cfg := xcontext.Configs(s.ctx)
	if len(cfg.Kafka.Addrs) == 0 {
		return errors.New("kafka is not configured")
	}

	subscriber, err := kafka.NewSubscriber(
		cfg.Kafka.Group,
		cfg.Kafka.Addrs,
		[]string{common.GameEventTopic},
		gamesession.NewEventSubscribeHandler(),
	)
	if err != nil {
		return err
	}

	metricServer := s.metricServer()
	go func() {
		if err := listen(metricServer); err != nil {
			xcontext.Logger(s.ctx).Errorf("Metric server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	subscriber.Subscribe(ctx)
	xcontext.Logger(s.ctx).Infof("Subscribed to %s", common.GameEventTopic)

	<-ctx.Done()
	shutdown(s.ctx, metricServer)
	return subscriber.Stop(s.ctx)
}
