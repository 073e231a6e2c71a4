package cron

import (
	"context"
	"time"

	"github.com/questx-lab/spinwin/pkg/xcontext"
)

type SessionCleaner interface {
	Cleanup() int
}

// SessionCleanupCronJob drops expired sessions of the in-memory store.
type SessionCleanupCronJob struct {
	cleaner SessionCleaner
}

func NewSessionCleanupCronJob(cleaner SessionCleaner) *SessionCleanupCronJob {
	return &SessionCleanupCronJob{cleaner: cleaner}
}

func (job *SessionCleanupCronJob) Do(ctx context.Context) {
	if n := job.cleaner.Cleanup(); n > 0 {
		xcontext.Logger(ctx).Debugf("Removed %d expired sessions", n)
	}
}

func (job *SessionCleanupCronJob) RunNow() bool {
	return false
}

func (job *SessionCleanupCronJob) Next() time.Time {
	return time.Now().Add(time.Minute)
}
