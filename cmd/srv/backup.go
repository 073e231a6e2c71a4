package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/questx-lab/spinwin/internal/common"
	"github.com/questx-lab/spinwin/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startBackup(cctx *cli.Context) error {
	s.loadDatabase()
	s.loadStorage()
	s.loadRepos()
	s.loadLedger()
	defer s.close()

	cfg := xcontext.Configs(s.ctx)
	objects, err := s.ledger.BackupObjects(s.ctx, cfg.Storage.BackupBucket, common.BackupPrefix)
	if err != nil {
		return err
	}

	if dir := cctx.String("out"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}

		for _, obj := range objects {
			path := filepath.Join(dir, obj.FileName)
			if err := os.WriteFile(path, obj.Data, 0o600); err != nil {
				return err
			}
			xcontext.Logger(s.ctx).Infof("Wrote %s", path)
		}

		return nil
	}

	if s.storage == nil {
		return errors.New("object storage is not configured, use --out to write the backup locally")
	}

	uploaded, err := s.storage.BulkUpload(s.ctx, objects)
	if err != nil {
		return err
	}

	for _, u := range uploaded {
		xcontext.Logger(s.ctx).Infof("Uploaded %s", u.Url)
	}

	return nil
}
