package cron

import (
	"context"
	"time"

	"github.com/questx-lab/spinwin/internal/common"
	"github.com/questx-lab/spinwin/internal/domain/ledger"
	"github.com/questx-lab/spinwin/pkg/xcontext"
)

// ReconcileCronJob repairs the settings counters and exports them as gauges.
type ReconcileCronJob struct {
	ledger   *ledger.Ledger
	interval time.Duration
}

func NewReconcileCronJob(ledger *ledger.Ledger, interval time.Duration) *ReconcileCronJob {
	return &ReconcileCronJob{ledger: ledger, interval: interval}
}

func (job *ReconcileCronJob) Do(ctx context.Context) {
	if err := job.ledger.Reconcile(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reconcile ledger: %v", err)
		return
	}

	stats := job.ledger.Statistics(ctx)
	if stats == nil {
		return
	}

	common.PromGauges[common.LedgerPlays].WithLabelValues().Set(float64(stats.TotalPlays))
	common.PromGauges[common.LedgerWins].WithLabelValues().Set(float64(stats.TotalWins))
}

func (job *ReconcileCronJob) RunNow() bool {
	return true
}

func (job *ReconcileCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
