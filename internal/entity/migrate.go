package entity

import (
	"context"

	"github.com/questx-lab/spinwin/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&GameResult{},
		&LedgerSettings{},
		&AdminCredentials{},
		&GameSetting{},
	)
}
