package migration

import (
	"context"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/pkg/xcontext"
)

//go:embed mysql/*.sql
var mysqlFS embed.FS

// Migrate brings the database schema up to date. MySQL runs the versioned
// scripts, sqlite is migrated from the entities.
func Migrate(ctx context.Context) error {
	if xcontext.Configs(ctx).Database.Driver != "mysql" {
		return AutoMigrate(ctx)
	}

	m, err := newMySQLMigrate(ctx)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}

	xcontext.Logger(ctx).Infof("Database schema is at version %d (dirty=%t)", version, dirty)
	return nil
}

// Rollback reverts the latest applied version of the MySQL schema.
func Rollback(ctx context.Context) error {
	if xcontext.Configs(ctx).Database.Driver != "mysql" {
		return errors.New("rollback is only supported on mysql")
	}

	m, err := newMySQLMigrate(ctx)
	if err != nil {
		return err
	}

	return m.Steps(-1)
}

// AutoMigrate creates the latest schema directly from the entities.
func AutoMigrate(ctx context.Context) error {
	return entity.MigrateTable(ctx)
}

func newMySQLMigrate(ctx context.Context) (*migrate.Migrate, error) {
	db, err := xcontext.DB(ctx).DB()
	if err != nil {
		return nil, err
	}

	source, err := iofs.New(mysqlFS, "mysql")
	if err != nil {
		return nil, err
	}

	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return nil, err
	}

	return migrate.NewWithInstance("iofs", source, xcontext.Configs(ctx).Database.Database, driver)
}
