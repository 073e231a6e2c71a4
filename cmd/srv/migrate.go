package main

import (
	"github.com/questx-lab/spinwin/migration"
	"github.com/questx-lab/spinwin/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())

	if cctx.Bool("rollback") {
		return migration.Rollback(s.ctx)
	}

	return migration.Migrate(s.ctx)
}
