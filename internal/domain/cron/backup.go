package cron

import (
	"context"
	"time"

	"github.com/questx-lab/spinwin/internal/common"
	"github.com/questx-lab/spinwin/internal/domain/ledger"
	"github.com/questx-lab/spinwin/pkg/storage"
	"github.com/questx-lab/spinwin/pkg/xcontext"
)

// BackupCronJob uploads the JSON backup and the CSV export of the ledger to
// the backup bucket.
type BackupCronJob struct {
	ledger   *ledger.Ledger
	storage  storage.Storage
	interval time.Duration
}

func NewBackupCronJob(
	ledger *ledger.Ledger,
	storage storage.Storage,
	interval time.Duration,
) *BackupCronJob {
	return &BackupCronJob{
		ledger:   ledger,
		storage:  storage,
		interval: interval,
	}
}

func (job *BackupCronJob) Do(ctx context.Context) {
	bucket := xcontext.Configs(ctx).Storage.BackupBucket
	objects, err := job.ledger.BackupObjects(ctx, bucket, common.BackupPrefix)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot build backup objects: %v", err)
		return
	}

	uploaded, err := job.storage.BulkUpload(ctx, objects)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload backup: %v", err)
		return
	}

	for _, u := range uploaded {
		xcontext.Logger(ctx).Infof("Uploaded backup %s", u.Url)
	}
}

func (job *BackupCronJob) RunNow() bool {
	return false
}

func (job *BackupCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
