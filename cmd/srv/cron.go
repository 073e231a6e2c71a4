package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/questx-lab/spinwin/internal/domain/cron"
	"github.com/questx-lab/spinwin/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.loadDatabase()
	s.loadRedisClient()
	s.loadStorage()
	s.loadRepos()
	s.loadLedger()
	defer s.close()

	cfg := xcontext.Configs(s.ctx)
	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewReconcileCronJob(s.ledger, cfg.Cron.ReconcileInterval))
	if s.storage != nil {
		cronJobManager.Register(cron.NewBackupCronJob(s.ledger, s.storage, cfg.Cron.BackupInterval))
	}

	metricServer := s.metricServer()
	go func() {
		if err := listen(metricServer); err != nil {
			xcontext.Logger(s.ctx).Errorf("Metric server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		cronJobManager.Cancel(s.ctx)
		shutdown(s.ctx, metricServer)
	}()

	cronJobManager.Start(s.ctx)
	return nil
}
